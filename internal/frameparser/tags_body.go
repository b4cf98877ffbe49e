package frameparser

import (
	"github.com/banshee-data/dtracksdk/internal/model"
	"github.com/banshee-data/dtracksdk/internal/wire"
)

// legacyFlystickButtons and legacyFlystickJoysticks are the fixed
// array lengths used by the older "6df" Flystick record, which --
// unlike "6df2" -- does not carry explicit button/joystick counts in
// its id group (6df is compatible with 6df2 minus the button/joystick
// counts).
const (
	legacyFlystickButtons   = 8
	legacyFlystickJoysticks = 2
)

// readIDQualityGroup reads a "[id qu]" group, the minimal id header
// shared by 6d, 6dmtr, and the legacy 6df/6dmt records.
func readIDQualityGroup(s *wire.Stream) (id int, quality float64, err error) {
	group, err := s.ReadGroup()
	if err != nil {
		return 0, 0, err
	}
	if len(group) != 2 {
		return 0, 0, parseErrorf("id group: expected 2 fields, got %d", len(group))
	}
	idVal, err := wire.ParseInt(group[0])
	if err != nil {
		return 0, 0, parseErrorf("id: %v", err)
	}
	q, err := wire.ParseFloat(group[1])
	if err != nil {
		return 0, 0, parseErrorf("quality: %v", err)
	}
	return int(idVal), q, nil
}

func readBitArray(group []string) ([]bool, error) {
	out := make([]bool, len(group))
	for i, tok := range group {
		v, err := wire.ParseInt(tok)
		if err != nil {
			return nil, parseErrorf("bit %d: %v", i, err)
		}
		out[i] = v != 0
	}
	return out, nil
}

func readFloatArray(group []string) ([]float64, error) {
	out := make([]float64, len(group))
	for i, tok := range group {
		v, err := wire.ParseFloat(tok)
		if err != nil {
			return nil, parseErrorf("value %d: %v", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func bodyOf(id int, quality float64, loc [3]float64, rot [9]float64) model.BodyLike {
	if !model.IsTracked(quality) {
		loc = [3]float64{}
		rot = model.IdentityRotation
	}
	return model.BodyLike{ID: id, Quality: quality, Location: loc, Rotation: rot}
}

// handleStandardBodies parses "6d <count> [id qu][x y z][rotation]...".
func handleStandardBodies(s *wire.Stream, snap *model.Snapshot) error {
	n, err := readCount(s)
	if err != nil {
		return err
	}
	bodies := make([]model.StandardBody, 0, n)
	for i := 0; i < n; i++ {
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
		bodies = append(bodies, model.StandardBody{Body: bodyOf(id, qu, loc, rot)})
	}
	snap.StandardBodies = bodies
	return nil
}

// handleFlystick2 parses "6df2 <count> [id qu nbutton njoystick][x y z]
// [rotation][buttons...][joysticks...]...".
func handleFlystick2(s *wire.Stream, snap *model.Snapshot) error {
	n, err := readCount(s)
	if err != nil {
		return err
	}
	sticks := make([]model.Flystick, 0, n)
	for i := 0; i < n; i++ {
		group, err := s.ReadGroup()
		if err != nil {
			return err
		}
		if len(group) != 4 {
			return parseErrorf("6df2 id group: expected 4 fields, got %d", len(group))
		}
		idVal, err := wire.ParseInt(group[0])
		if err != nil {
			return parseErrorf("id: %v", err)
		}
		qu, err := wire.ParseFloat(group[1])
		if err != nil {
			return parseErrorf("quality: %v", err)
		}
		nbutton, err := wire.ParseInt(group[2])
		if err != nil {
			return parseErrorf("nbutton: %v", err)
		}
		njoystick, err := wire.ParseInt(group[3])
		if err != nil {
			return parseErrorf("njoystick: %v", err)
		}

		loc, err := readVec3(s)
		if err != nil {
			return err
		}
		rot, err := readRotation(s)
		if err != nil {
			return err
		}

		buttonGroup, err := s.ReadGroup()
		if err != nil {
			return err
		}
		if len(buttonGroup) != int(nbutton) {
			return parseErrorf("buttons: expected %d, got %d", nbutton, len(buttonGroup))
		}
		buttons, err := readBitArray(buttonGroup)
		if err != nil {
			return err
		}

		joystickGroup, err := s.ReadGroup()
		if err != nil {
			return err
		}
		if len(joystickGroup) != int(njoystick) {
			return parseErrorf("joysticks: expected %d, got %d", njoystick, len(joystickGroup))
		}
		joysticks, err := readFloatArray(joystickGroup)
		if err != nil {
			return err
		}

		sticks = append(sticks, model.Flystick{
			Body:      bodyOf(int(idVal), qu, loc, rot),
			Buttons:   buttons,
			Joysticks: joysticks,
		})
	}
	snap.Flysticks = sticks
	return nil
}

// handleFlystickLegacy parses "6df <count> [id qu][x y z][rotation]
// [8 buttons][2 joysticks]...".
func handleFlystickLegacy(s *wire.Stream, snap *model.Snapshot) error {
	n, err := readCount(s)
	if err != nil {
		return err
	}
	sticks := make([]model.Flystick, 0, n)
	for i := 0; i < n; i++ {
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

		buttonGroup, err := s.ReadGroup()
		if err != nil {
			return err
		}
		if len(buttonGroup) != legacyFlystickButtons {
			return parseErrorf("buttons: expected %d, got %d", legacyFlystickButtons, len(buttonGroup))
		}
		buttons, err := readBitArray(buttonGroup)
		if err != nil {
			return err
		}

		joystickGroup, err := s.ReadGroup()
		if err != nil {
			return err
		}
		if len(joystickGroup) != legacyFlystickJoysticks {
			return parseErrorf("joysticks: expected %d, got %d", legacyFlystickJoysticks, len(joystickGroup))
		}
		joysticks, err := readFloatArray(joystickGroup)
		if err != nil {
			return err
		}

		sticks = append(sticks, model.Flystick{
			Body:      bodyOf(id, qu, loc, rot),
			Buttons:   buttons,
			Joysticks: joysticks,
		})
	}
	snap.Flysticks = sticks
	return nil
}

// handleToolLegacy parses "6dmt <count> [id qu][x y z][rotation]...",
// the bare measurement tool record with neither tip radius nor buttons.
func handleToolLegacy(s *wire.Stream, snap *model.Snapshot) error {
	n, err := readCount(s)
	if err != nil {
		return err
	}
	tools := make([]model.MeasurementTool, 0, n)
	for i := 0; i < n; i++ {
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
		tools = append(tools, model.MeasurementTool{Body: bodyOf(id, qu, loc, rot)})
	}
	snap.MeasurementTools = tools
	return nil
}

// handleTool2 parses "6dmt2 <count> [id qu tipradius][x y z]
// [rotation]...".
func handleTool2(s *wire.Stream, snap *model.Snapshot) error {
	n, err := readCount(s)
	if err != nil {
		return err
	}
	tools := make([]model.MeasurementTool, 0, n)
	for i := 0; i < n; i++ {
		group, err := s.ReadGroup()
		if err != nil {
			return err
		}
		if len(group) != 3 {
			return parseErrorf("6dmt2 id group: expected 3 fields, got %d", len(group))
		}
		idVal, err := wire.ParseInt(group[0])
		if err != nil {
			return parseErrorf("id: %v", err)
		}
		qu, err := wire.ParseFloat(group[1])
		if err != nil {
			return parseErrorf("quality: %v", err)
		}
		tip, err := wire.ParseFloat(group[2])
		if err != nil {
			return parseErrorf("tip radius: %v", err)
		}

		loc, err := readVec3(s)
		if err != nil {
			return err
		}
		rot, err := readRotation(s)
		if err != nil {
			return err
		}

		tools = append(tools, model.MeasurementTool{
			Body:      bodyOf(int(idVal), qu, loc, rot),
			TipRadius: tip,
			HasTip:    true,
		})
	}
	snap.MeasurementTools = tools
	return nil
}

// handleTool3 parses "6dmt3 <count> [id qu nbutton tipradius][x y z]
// [rotation][buttons...]...".
func handleTool3(s *wire.Stream, snap *model.Snapshot) error {
	n, err := readCount(s)
	if err != nil {
		return err
	}
	tools := make([]model.MeasurementTool, 0, n)
	for i := 0; i < n; i++ {
		group, err := s.ReadGroup()
		if err != nil {
			return err
		}
		if len(group) != 4 {
			return parseErrorf("6dmt3 id group: expected 4 fields, got %d", len(group))
		}
		idVal, err := wire.ParseInt(group[0])
		if err != nil {
			return parseErrorf("id: %v", err)
		}
		qu, err := wire.ParseFloat(group[1])
		if err != nil {
			return parseErrorf("quality: %v", err)
		}
		nbutton, err := wire.ParseInt(group[2])
		if err != nil {
			return parseErrorf("nbutton: %v", err)
		}
		tip, err := wire.ParseFloat(group[3])
		if err != nil {
			return parseErrorf("tip radius: %v", err)
		}

		loc, err := readVec3(s)
		if err != nil {
			return err
		}
		rot, err := readRotation(s)
		if err != nil {
			return err
		}

		buttonGroup, err := s.ReadGroup()
		if err != nil {
			return err
		}
		if len(buttonGroup) != int(nbutton) {
			return parseErrorf("buttons: expected %d, got %d", nbutton, len(buttonGroup))
		}
		buttons, err := readBitArray(buttonGroup)
		if err != nil {
			return err
		}

		tools = append(tools, model.MeasurementTool{
			Body:      bodyOf(int(idVal), qu, loc, rot),
			TipRadius: tip,
			HasTip:    true,
			Buttons:   buttons,
		})
	}
	snap.MeasurementTools = tools
	return nil
}

// handleReferences parses "6dmtr <count> [id qu][x y z][rotation]...".
func handleReferences(s *wire.Stream, snap *model.Snapshot) error {
	n, err := readCount(s)
	if err != nil {
		return err
	}
	refs := make([]model.MeasurementReference, 0, n)
	for i := 0; i < n; i++ {
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
		refs = append(refs, model.MeasurementReference{Body: bodyOf(id, qu, loc, rot)})
	}
	snap.MeasurementReferences = refs
	return nil
}
