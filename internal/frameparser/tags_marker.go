package frameparser

import (
	"github.com/banshee-data/dtracksdk/internal/model"
	"github.com/banshee-data/dtracksdk/internal/wire"
)

// handleMarkers parses "3d <count> [id qu][x y z]...". Single markers
// are unordered by id and ids may be sparse.
func handleMarkers(s *wire.Stream, snap *model.Snapshot) error {
	n, err := readCount(s)
	if err != nil {
		return err
	}
	markers := make([]model.SingleMarker, 0, n)
	for i := 0; i < n; i++ {
		id, qu, err := readIDQualityGroup(s)
		if err != nil {
			return err
		}
		loc, err := readVec3(s)
		if err != nil {
			return err
		}
		markers = append(markers, model.SingleMarker{ID: id, Quality: qu, Location: loc})
	}
	snap.SingleMarkers = markers
	return nil
}
