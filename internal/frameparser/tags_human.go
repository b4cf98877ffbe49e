package frameparser

import (
	"github.com/banshee-data/dtracksdk/internal/model"
	"github.com/banshee-data/dtracksdk/internal/wire"
)

// handleHuman parses "human <count> { [id nJoint] { [id qu][x y z]
// [rotation][angles] }*nJoint }*count". The trailing angles group is
// empty when Euler angles were not computed for that joint and holds
// exactly 3 fields (the optional Euler angles) when they were.
func handleHuman(s *wire.Stream, snap *model.Snapshot) error {
	n, err := readCount(s)
	if err != nil {
		return err
	}
	humans := make([]model.HumanModel, 0, n)
	for i := 0; i < n; i++ {
		header, err := s.ReadGroup()
		if err != nil {
			return err
		}
		if len(header) != 2 {
			return parseErrorf("human header: expected 2 fields, got %d", len(header))
		}
		humanID, err := wire.ParseInt(header[0])
		if err != nil {
			return parseErrorf("human id: %v", err)
		}
		nJoint, err := wire.ParseInt(header[1])
		if err != nil {
			return parseErrorf("njoint: %v", err)
		}

		joints := make([]model.Joint, 0, nJoint)
		for j := int64(0); j < nJoint; j++ {
			id, qu, err := readIDQualityGroup(s)
			if err != nil {
				return err
			}
			loc, err := readVec3(s)
			if err != nil {
				return err
			}
			rot, err := readRotation(s)
			if err != nil {
				return err
			}
			if !model.IsTracked(qu) {
				loc = [3]float64{}
				rot = model.IdentityRotation
			}
			angleGroup, err := s.ReadGroup()
			if err != nil {
				return err
			}

			joint := model.Joint{ID: id, Quality: qu, Location: loc, Rotation: rot}
			switch len(angleGroup) {
			case 0:
				// no Euler angles for this joint
			case 3:
				angles, err := readFloatArray(angleGroup)
				if err != nil {
					return err
				}
				joint.HasEuler = true
				joint.Euler = [3]float64{angles[0], angles[1], angles[2]}
			default:
				return parseErrorf("joint angles: expected 0 or 3 fields, got %d", len(angleGroup))
			}
			joints = append(joints, joint)
		}

		humans = append(humans, model.HumanModel{ID: int(humanID), Joints: joints})
	}
	snap.HumanModels = humans
	return nil
}
