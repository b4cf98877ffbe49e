package frameparser

import (
	"github.com/banshee-data/dtracksdk/internal/model"
	"github.com/banshee-data/dtracksdk/internal/wire"
)

// handleStatus parses "status <numCameras> <numTrackedBodies>
// <numTrackedMarkers> <camErr> <camWarn> <otherErr> <otherWarn> <info>
// [idCam numRefl numReflUsed maxIntensity]...", the optional per-frame
// controller status record. Malformed status lines are treated as
// absent by the caller.
func handleStatus(tokens []string, snap *model.Snapshot) error {
	s := wire.NewStreamFromTokens(tokens)

	counters := make([]int64, 8)
	for i := range counters {
		tok, ok := s.Next()
		if !ok {
			return parseErrorf("status: missing counter %d", i)
		}
		v, err := wire.ParseInt(tok)
		if err != nil {
			return parseErrorf("status counter %d: %v", i, err)
		}
		counters[i] = v
	}

	numCameras := counters[0]
	cameras := make([]model.CameraStatus, 0, numCameras)
	for i := int64(0); i < numCameras; i++ {
		group, err := s.ReadGroup()
		if err != nil {
			return err
		}
		if len(group) != 4 {
			return parseErrorf("status camera: expected 4 fields, got %d", len(group))
		}
		id, err := wire.ParseInt(group[0])
		if err != nil {
			return parseErrorf("camera id: %v", err)
		}
		numRefl, err := wire.ParseInt(group[1])
		if err != nil {
			return parseErrorf("camera numRefl: %v", err)
		}
		numReflUsed, err := wire.ParseInt(group[2])
		if err != nil {
			return parseErrorf("camera numReflUsed: %v", err)
		}
		maxIntensity, err := wire.ParseInt(group[3])
		if err != nil {
			return parseErrorf("camera maxIntensity: %v", err)
		}
		cameras = append(cameras, model.CameraStatus{
			ID:                 int(id),
			NumReflections:     int(numRefl),
			NumReflectionsUsed: int(numReflUsed),
			MaxPixelIntensity:  int(maxIntensity),
		})
	}

	snap.HasStatus = true
	snap.Status = model.SystemStatus{
		NumCameras:        int(counters[0]),
		NumTrackedBodies:  int(counters[1]),
		NumTrackedMarkers: int(counters[2]),
		NumCameraErrors:   int(counters[3]),
		NumCameraWarnings: int(counters[4]),
		NumOtherErrors:    int(counters[5]),
		NumOtherWarnings:  int(counters[6]),
		NumInfoMessages:   int(counters[7]),
		Cameras:           cameras,
	}
	return nil
}
