package transport

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	data []byte
	addr net.Addr
	err  error
}

func (w *recordingWriter) WriteTo(b []byte, addr net.Addr) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	w.data = append([]byte(nil), b...)
	w.addr = addr
	return len(b), nil
}

func TestPrimeStatefulFirewall_SendsTokenToSenderPort(t *testing.T) {
	w := &recordingWriter{}
	require.NoError(t, PrimeStatefulFirewall(w, "10.0.0.5", 5000, "dtrackprobe-ping"))

	assert.Equal(t, "dtrackprobe-ping", string(w.data))
	udpAddr, ok := w.addr.(*net.UDPAddr)
	require.True(t, ok)
	assert.Equal(t, "10.0.0.5", udpAddr.IP.String())
	assert.Equal(t, 5000, udpAddr.Port)
}

func TestPrimeStatefulFirewall_BadHostIsAnError(t *testing.T) {
	w := &recordingWriter{}
	err := PrimeStatefulFirewall(w, "not a valid host!!", 5000, "token")
	assert.Error(t, err)
}
