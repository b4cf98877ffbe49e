package dtracksdk

import (
	"bytes"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/banshee-data/dtracksdk/internal/metrics"
)

// FeedbackEmitter sends tactile and Flystick actuation datagrams toward
// the controller's feedback port. Every operation builds exactly one
// UDP datagram with bytes.Buffer + fmt.Fprintf -- no intermediate struct
// is worth allocating for a one-shot wire format. Delivery is
// best-effort: these operations never wait for acknowledgement.
type FeedbackEmitter struct {
	send        func(b []byte, addr net.Addr) error
	destination func() (net.Addr, error)
	metrics     *metrics.Counters
}

func newFeedbackEmitter(send func([]byte, net.Addr) error, destination func() (net.Addr, error), m *metrics.Counters) *FeedbackEmitter {
	return &FeedbackEmitter{send: send, destination: destination, metrics: m}
}

// TactileFinger sends a single-finger tactile feedback datagram.
// strength must lie in [0.0, 1.0]; out-of-range values are refused with
// no network I/O.
func (f *FeedbackEmitter) TactileFinger(handID, fingerID int, strength float64) error {
	if strength < 0.0 || strength > 1.0 {
		f.metrics.AddFeedback(true)
		return fmt.Errorf("dtracksdk: tactile finger strength %v out of range [0,1]", strength)
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tfb 1 [%d %d 1.0 %s]", handID, fingerID, formatFloat(strength))
	return f.sendDatagram(buf.Bytes())
}

// TactileHand sends a whole-hand tactile feedback datagram, one strength
// per finger in order. Every strength must lie in [0.0, 1.0].
func (f *FeedbackEmitter) TactileHand(handID int, strengths []float64) error {
	for _, s := range strengths {
		if s < 0.0 || s > 1.0 {
			f.metrics.AddFeedback(true)
			return fmt.Errorf("dtracksdk: tactile hand strength %v out of range [0,1]", s)
		}
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tfb %d ", len(strengths))
	for i, s := range strengths {
		fmt.Fprintf(&buf, "[%d %d 1.0 %s]", handID, i, formatFloat(s))
	}
	return f.sendDatagram(buf.Bytes())
}

// TactileHandOff is equivalent to TactileHand with every finger's
// strength at 0, and produces the identical wire bytes since it simply
// delegates.
func (f *FeedbackEmitter) TactileHandOff(handID int, numFingers int) error {
	return f.TactileHand(handID, make([]float64, numFingers))
}

// FlystickBeep sends a Flystick beep datagram: durationMs and
// frequencyHz are truncated to integers on the wire.
func (f *FeedbackEmitter) FlystickBeep(flystickID, durationMs, frequencyHz int) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "ffb 1 [%d %d %d 0 0][]", flystickID, durationMs, frequencyHz)
	return f.sendDatagram(buf.Bytes())
}

// FlystickVibration sends a Flystick vibration-pattern datagram.
func (f *FeedbackEmitter) FlystickVibration(flystickID, patternID int) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "ffb 1 [%d 0 0 %d 0][]", flystickID, patternID)
	return f.sendDatagram(buf.Bytes())
}

func (f *FeedbackEmitter) sendDatagram(b []byte) error {
	addr, err := f.destination()
	if err != nil {
		f.metrics.AddFeedback(true)
		return err
	}
	b = append(b, 0)
	err = f.send(b, addr)
	f.metrics.AddFeedback(err != nil)
	return err
}

// formatFloat renders a feedback strength the way the wire grammar
// expects floats elsewhere: a decimal point always present, so "1"
// never appears where "1.0" is meant.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
