package frameparser

import (
	"github.com/banshee-data/dtracksdk/internal/model"
	"github.com/banshee-data/dtracksdk/internal/wire"
)

// handleFingertracking parses "gl <count> [id qu lr nfinger][x y z]
// [rotation] { [x y z][rotation][radius phalanx0 phalanx1 phalanx2
// angle0 angle1] }*nfinger ...".
func handleFingertracking(s *wire.Stream, snap *model.Snapshot) error {
	n, err := readCount(s)
	if err != nil {
		return err
	}
	hands := make([]model.FingertrackingHand, 0, n)
	for i := 0; i < n; i++ {
		group, err := s.ReadGroup()
		if err != nil {
			return err
		}
		if len(group) != 4 {
			return parseErrorf("gl id group: expected 4 fields, got %d", len(group))
		}
		idVal, err := wire.ParseInt(group[0])
		if err != nil {
			return parseErrorf("id: %v", err)
		}
		qu, err := wire.ParseFloat(group[1])
		if err != nil {
			return parseErrorf("quality: %v", err)
		}
		lr, err := wire.ParseInt(group[2])
		if err != nil {
			return parseErrorf("handedness: %v", err)
		}
		nfinger, err := wire.ParseInt(group[3])
		if err != nil {
			return parseErrorf("nfinger: %v", err)
		}

		loc, err := readVec3(s)
		if err != nil {
			return err
		}
		rot, err := readRotation(s)
		if err != nil {
			return err
		}

		fingers := make([]model.Finger, 0, nfinger)
		for f := int64(0); f < nfinger; f++ {
			fLoc, err := readVec3(s)
			if err != nil {
				return err
			}
			fRot, err := readRotation(s)
			if err != nil {
				return err
			}
			geom, err := readFloats(s, 6)
			if err != nil {
				return err
			}
			fingers = append(fingers, model.Finger{
				Location:     fLoc,
				Rotation:     fRot,
				TipRadius:    geom[0],
				Phalanx:      [3]float64{geom[1], geom[2], geom[3]},
				InterPhalanx: [2]float64{geom[4], geom[5]},
			})
		}

		hands = append(hands, model.FingertrackingHand{
			Body:       bodyOf(int(idVal), qu, loc, rot),
			Handedness: model.Handedness(lr),
			Fingers:    fingers,
		})
	}
	snap.FingertrackingHands = hands
	return nil
}
