package frameparser

import (
	"github.com/banshee-data/dtracksdk/internal/wire"
)

// readCount reads the leading "<count>" token common to every
// multi-record tag.
func readCount(s *wire.Stream) (int, error) {
	tok, ok := s.Next()
	if !ok {
		return 0, parseErrorf("missing count")
	}
	v, err := wire.ParseInt(tok)
	if err != nil {
		return 0, parseErrorf("count: %v", err)
	}
	if v < 0 {
		return 0, parseErrorf("negative count %d", v)
	}
	return int(v), nil
}

// readFloats reads exactly one bracketed group and parses its tokens
// as n floats.
func readFloats(s *wire.Stream, n int) ([]float64, error) {
	group, err := s.ReadGroup()
	if err != nil {
		return nil, err
	}
	if len(group) != n {
		return nil, parseErrorf("expected %d fields in group, got %d", n, len(group))
	}
	out := make([]float64, n)
	for i, tok := range group {
		v, err := wire.ParseFloat(tok)
		if err != nil {
			return nil, parseErrorf("field %d: %v", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// readVec3 reads "[x y z]".
func readVec3(s *wire.Stream) ([3]float64, error) {
	var out [3]float64
	vals, err := readFloats(s, 3)
	if err != nil {
		return out, err
	}
	copy(out[:], vals)
	return out, nil
}

// readRotation reads "[r0 r1 r2 r3 r4 r5 r6 r7 r8]", a column-major
// 3x3 matrix, preserved exactly as received.
func readRotation(s *wire.Stream) ([9]float64, error) {
	var out [9]float64
	vals, err := readFloats(s, 9)
	if err != nil {
		return out, err
	}
	copy(out[:], vals)
	return out, nil
}
