package frameparser

import (
	"github.com/banshee-data/dtracksdk/internal/model"
	"github.com/banshee-data/dtracksdk/internal/wire"
)

// handleInertial parses "6di <count> [id state error][x y z]
// [rotation]...". Ids may be sparse, as with single markers.
func handleInertial(s *wire.Stream, snap *model.Snapshot) error {
	n, err := readCount(s)
	if err != nil {
		return err
	}
	bodies := make([]model.InertialBody, 0, n)
	for i := 0; i < n; i++ {
		group, err := s.ReadGroup()
		if err != nil {
			return err
		}
		if len(group) != 3 {
			return parseErrorf("6di id group: expected 3 fields, got %d", len(group))
		}
		idVal, err := wire.ParseInt(group[0])
		if err != nil {
			return parseErrorf("id: %v", err)
		}
		stateVal, err := wire.ParseInt(group[1])
		if err != nil {
			return parseErrorf("state: %v", err)
		}
		errVal, err := wire.ParseFloat(group[2])
		if err != nil {
			return parseErrorf("error: %v", err)
		}

		loc, err := readVec3(s)
		if err != nil {
			return err
		}
		rot, err := readRotation(s)
		if err != nil {
			return err
		}
		if model.InertialState(stateVal) == model.InertialNotTracked {
			loc = [3]float64{}
			rot = model.IdentityRotation
		}

		bodies = append(bodies, model.InertialBody{
			ID:       int(idVal),
			State:    model.InertialState(stateVal),
			Error:    errVal,
			Location: loc,
			Rotation: rot,
		})
	}
	snap.InertialBodies = bodies
	return nil
}
