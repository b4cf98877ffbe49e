package dtracksdk

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/dtracksdk/internal/frameparser"
)

func TestSnapshotAliases_RoundTripThroughParse(t *testing.T) {
	buf := []byte("fr 7\nts 1.5\n6d 1 [0 0.9][1 2 3][1 0 0 0 1 0 0 0 1]\n")
	snap, err := frameparser.Parse(buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	// Snapshot is a type alias for model.Snapshot, so a value produced by
	// frameparser.Parse is directly usable as the public *Snapshot type.
	var public *Snapshot = snap

	want := &Snapshot{
		FrameCounter:          7,
		TimestampSeconds:      1.5,
		StandardBodies:        []StandardBody{{Body: BodyLike{ID: 1, Quality: 0.9, Location: [3]float64{1, 2, 3}, Rotation: [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}}},
		Flysticks:             []Flystick{},
		MeasurementTools:      []MeasurementTool{},
		MeasurementReferences: []MeasurementReference{},
		FingertrackingHands:   []FingertrackingHand{},
		SingleMarkers:         []SingleMarker{},
		HumanModels:           []HumanModel{},
		InertialBodies:        []InertialBody{},
	}

	if diff := cmp.Diff(want, public); diff != "" {
		t.Errorf("Snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestIsTracked(t *testing.T) {
	if IsTracked(-1) {
		t.Error("IsTracked(-1) = true, want false")
	}
	if !IsTracked(0) {
		t.Error("IsTracked(0) = false, want true")
	}
	if !IsTracked(0.95) {
		t.Error("IsTracked(0.95) = false, want true")
	}
}

func TestHandednessConstants(t *testing.T) {
	if HandLeft == HandRight {
		t.Error("HandLeft and HandRight must be distinct")
	}
}

func TestInertialStateConstants(t *testing.T) {
	states := []Handedness{HandLeft, HandRight}
	if len(states) != 2 {
		t.Fatalf("unexpected handedness set size %d", len(states))
	}
	if InertialNotTracked == InertialOnly || InertialOnly == HybridWithDrift || HybridWithDrift == HybridFullyCorrected {
		t.Error("inertial state constants must be pairwise distinct")
	}
}
