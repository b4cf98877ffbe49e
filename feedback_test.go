package dtracksdk

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/dtracksdk/internal/metrics"
)

type recordedSend struct {
	data []byte
	addr net.Addr
}

func newTestEmitter(t *testing.T, destErr error) (*FeedbackEmitter, *[]recordedSend) {
	t.Helper()
	sends := &[]recordedSend{}
	dest := net.Addr(&net.UDPAddr{IP: net.ParseIP("10.0.0.5"), Port: 50110})
	m := &metrics.Counters{}
	emitter := newFeedbackEmitter(
		func(b []byte, addr net.Addr) error {
			*sends = append(*sends, recordedSend{data: append([]byte(nil), b...), addr: addr})
			return nil
		},
		func() (net.Addr, error) {
			if destErr != nil {
				return nil, destErr
			}
			return dest, nil
		},
		m,
	)
	return emitter, sends
}

func TestTactileFinger_WireFormat(t *testing.T) {
	emitter, sends := newTestEmitter(t, nil)
	require.NoError(t, emitter.TactileFinger(1, 2, 0.5))
	require.Len(t, *sends, 1)
	assert.Equal(t, "tfb 1 [1 2 1.0 0.5]\x00", string((*sends)[0].data))
}

func TestTactileFinger_IntegerStrengthKeepsDecimalPoint(t *testing.T) {
	emitter, sends := newTestEmitter(t, nil)
	require.NoError(t, emitter.TactileFinger(1, 2, 1))
	assert.Equal(t, "tfb 1 [1 2 1.0 1.0]\x00", string((*sends)[0].data))
}

func TestTactileFinger_OutOfRangeRefusesNetworkIO(t *testing.T) {
	emitter, sends := newTestEmitter(t, nil)
	err := emitter.TactileFinger(1, 2, 1.5)
	assert.Error(t, err)
	assert.Empty(t, *sends)
}

func TestTactileHand_WireFormat(t *testing.T) {
	emitter, sends := newTestEmitter(t, nil)
	require.NoError(t, emitter.TactileHand(3, []float64{0, 0.5, 1}))
	assert.Equal(t, "tfb 3 [3 0 1.0 0.0][3 1 1.0 0.5][3 2 1.0 1.0]\x00", string((*sends)[0].data))
}

func TestTactileHand_OneBadStrengthRefusesWholeCall(t *testing.T) {
	emitter, sends := newTestEmitter(t, nil)
	err := emitter.TactileHand(3, []float64{0.2, -0.1})
	assert.Error(t, err)
	assert.Empty(t, *sends)
}

func TestTactileHandOff_MatchesAllZeroTactileHand(t *testing.T) {
	off, sendsOff := newTestEmitter(t, nil)
	require.NoError(t, off.TactileHandOff(3, 2))

	hand, sendsHand := newTestEmitter(t, nil)
	require.NoError(t, hand.TactileHand(3, []float64{0, 0}))

	assert.Equal(t, (*sendsHand)[0].data, (*sendsOff)[0].data)
}

func TestFlystickBeep_WireFormat(t *testing.T) {
	emitter, sends := newTestEmitter(t, nil)
	require.NoError(t, emitter.FlystickBeep(1, 200, 440))
	assert.Equal(t, "ffb 1 [1 200 440 0 0][]\x00", string((*sends)[0].data))
}

func TestFlystickVibration_WireFormat(t *testing.T) {
	emitter, sends := newTestEmitter(t, nil)
	require.NoError(t, emitter.FlystickVibration(1, 7))
	assert.Equal(t, "ffb 1 [1 0 0 7 0][]\x00", string((*sends)[0].data))
}

func TestSendDatagram_DestinationErrorIsPropagated(t *testing.T) {
	destErr := assert.AnError
	emitter, sends := newTestEmitter(t, destErr)
	err := emitter.FlystickBeep(1, 1, 1)
	assert.ErrorIs(t, err, destErr)
	assert.Empty(t, *sends)
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "1.0", formatFloat(1))
	assert.Equal(t, "0.0", formatFloat(0))
	assert.Equal(t, "0.5", formatFloat(0.5))
}
