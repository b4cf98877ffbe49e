package dtracksdk

import "github.com/banshee-data/dtracksdk/internal/model"

// The public data model is defined in internal/model and re-exported
// here by alias, keeping the wire-parsing internals out of the SDK's
// public surface.
type (
	BodyLike             = model.BodyLike
	StandardBody         = model.StandardBody
	Flystick             = model.Flystick
	MeasurementTool      = model.MeasurementTool
	MeasurementReference = model.MeasurementReference
	Finger               = model.Finger
	Handedness           = model.Handedness
	FingertrackingHand   = model.FingertrackingHand
	SingleMarker         = model.SingleMarker
	Joint                = model.Joint
	HumanModel           = model.HumanModel
	InertialState        = model.InertialState
	InertialBody         = model.InertialBody
	CameraStatus         = model.CameraStatus
	SystemStatus         = model.SystemStatus
	Snapshot             = model.Snapshot
)

const (
	HandLeft  = model.HandLeft
	HandRight = model.HandRight

	InertialNotTracked   = model.InertialNotTracked
	InertialOnly         = model.InertialOnly
	HybridWithDrift      = model.HybridWithDrift
	HybridFullyCorrected = model.HybridFullyCorrected
)

// IsTracked reports whether quality indicates a tracked entity (quality
// < 0 means not tracked).
func IsTracked(quality float64) bool {
	return model.IsTracked(quality)
}
