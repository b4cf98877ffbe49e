package frameparser

import (
	"github.com/banshee-data/dtracksdk/internal/model"
	"github.com/banshee-data/dtracksdk/internal/wire"
)

// handleFrameCounter parses "fr <uint>".
func handleFrameCounter(s *wire.Stream, snap *model.Snapshot) error {
	tok, ok := s.Next()
	if !ok {
		return parseErrorf("fr: missing frame counter")
	}
	v, err := wire.ParseUint(tok)
	if err != nil {
		return parseErrorf("fr: %v", err)
	}
	snap.FrameCounter = uint32(v)
	return nil
}

// handleTimestamp parses "ts <double>". Malformed input is treated as
// absent by the caller (Parse leaves snap.TimestampSeconds at its -1
// sentinel on error).
func handleTimestamp(tokens []string, snap *model.Snapshot) error {
	if len(tokens) != 1 {
		return parseErrorf("ts: expected 1 field, got %d", len(tokens))
	}
	v, err := wire.ParseFloat(tokens[0])
	if err != nil {
		return err
	}
	snap.TimestampSeconds = v
	return nil
}

// handleExtendedTimestamp parses "ts2 <seconds:int> <microseconds:int>".
func handleExtendedTimestamp(tokens []string, snap *model.Snapshot) error {
	if len(tokens) != 2 {
		return parseErrorf("ts2: expected 2 fields, got %d", len(tokens))
	}
	sec, err := wire.ParseInt(tokens[0])
	if err != nil {
		return err
	}
	usec, err := wire.ParseInt(tokens[1])
	if err != nil {
		return err
	}
	snap.HasExtendedTimestamp = true
	snap.ExtTimestampSeconds = sec
	snap.ExtTimestampMicroseconds = usec
	return nil
}

// handleLatency parses "lat <int>" (microseconds).
func handleLatency(tokens []string, snap *model.Snapshot) error {
	if len(tokens) != 1 {
		return parseErrorf("lat: expected 1 field, got %d", len(tokens))
	}
	v, err := wire.ParseInt(tokens[0])
	if err != nil {
		return err
	}
	snap.LatencyMicroseconds = v
	return nil
}
