// Package frameparser implements the ASCII measurement-frame grammar:
// tag-dispatched parsing of one datagram into a model.Snapshot, skipping
// tags it does not recognize so the wire format can grow without
// breaking old clients.
package frameparser

import (
	"fmt"

	"github.com/banshee-data/dtracksdk/internal/model"
	"github.com/banshee-data/dtracksdk/internal/wire"
)

// ParseError reports a failure to parse a measurement datagram. A
// ParseError never carries a partial Snapshot; the caller's previously
// published snapshot is left untouched.
type ParseError struct {
	msg string
}

func (e *ParseError) Error() string { return "frameparser: " + e.msg }

func parseErrorf(format string, args ...any) error {
	return &ParseError{msg: fmt.Sprintf(format, args...)}
}

// ErrEmptyPacket is returned when Parse is given a zero-length buffer --
// a packet is processed, and failure occurs only on empty input.
var ErrEmptyPacket = parseErrorf("empty packet")

// hardHandler parses a record whose malformed payload fails the whole
// frame: structural mismatches are returned as errors from Parse.
type hardHandler func(s *wire.Stream, snap *model.Snapshot) error

// softHandler parses a record whose malformed payload must be treated
// as absent rather than fatal (fr/ts/ts2/lat/status are NOT all soft --
// only ts, ts2, lat, and status are).
type softHandler func(tokens []string, snap *model.Snapshot) error

var hardHandlers = map[string]hardHandler{
	"fr":    handleFrameCounter,
	"6d":    handleStandardBodies,
	"6df2":  handleFlystick2,
	"6df":   handleFlystickLegacy,
	"6dmt":  handleToolLegacy,
	"6dmt2": handleTool2,
	"6dmt3": handleTool3,
	"6dmtr": handleReferences,
	"gl":    handleFingertracking,
	"3d":    handleMarkers,
	"human": handleHuman,
	"6di":   handleInertial,
}

var softHandlers = map[string]softHandler{
	"ts":     handleTimestamp,
	"ts2":    handleExtendedTimestamp,
	"lat":    handleLatency,
	"status": handleStatus,
}

// Parse converts one measurement datagram into a fresh Snapshot. On
// failure it returns a nil Snapshot and a *ParseError; the session
// layer maps that to ERR_PARSE and leaves the previously published
// snapshot as current.
func Parse(buf []byte) (*model.Snapshot, error) {
	if len(buf) == 0 {
		return nil, ErrEmptyPacket
	}

	snap := model.Empty()
	s := wire.NewStream(buf)

	for {
		tag, ok := s.Next()
		if !ok {
			break
		}

		if handler, known := hardHandlers[tag]; known {
			if err := handler(s, snap); err != nil {
				return nil, parseErrorf("tag %q: %v", tag, err)
			}
			continue
		}

		if handler, known := softHandlers[tag]; known {
			tokens := s.CaptureRecord()
			// A failure here is intentionally swallowed: the field(s)
			// stay at their absent default in snap.
			_ = handler(tokens, snap)
			continue
		}

		s.SkipUnknownRecord()
	}

	return snap, nil
}
