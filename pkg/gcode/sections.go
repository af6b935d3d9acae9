package gcode

import (
	"edgedrill/pkg/cfg"
	"edgedrill/pkg/drill"
	"edgedrill/pkg/fault"
	"edgedrill/pkg/float"
	"edgedrill/pkg/geometry"
	"edgedrill/pkg/tooling"
)

const stageGenerate = "generate"

// Approach returns the point the tool rapids to before plunging, distance
// outside the workpiece on the side the drill enters from.
func Approach(p drill.Point, distance float64) (geometry.Point, error) {
	x, y := p.Position.X, p.Position.Y
	switch d := p.Direction(); d {
	case drill.DirectionXPlus:
		return geometry.Point{X: x - distance, Y: y}, nil
	case drill.DirectionXMinus:
		return geometry.Point{X: x + distance, Y: y}, nil
	case drill.DirectionYPlus:
		return geometry.Point{X: x, Y: y - distance}, nil
	case drill.DirectionYMinus:
		return geometry.Point{X: x, Y: y + distance}, nil
	default:
		return geometry.Point{}, fault.Validation(stageGenerate, "no approach for drilling direction %s", d).
			With("layer", p.Layer)
	}
}

// drillAxis is the axis letter and sign of an incremental drilling move.
func drillAxis(d drill.Direction) (string, float64, bool) {
	switch d {
	case drill.DirectionXPlus:
		return "X", 1, true
	case drill.DirectionXMinus:
		return "X", -1, true
	case drill.DirectionYPlus:
		return "Y", 1, true
	case drill.DirectionYMinus:
		return "Y", -1, true
	}
	return "", 0, false
}

// Sections renders the parts of a program from the machine settings.
type Sections struct {
	settings cfg.MachineSettings
}

func NewSections(settings cfg.MachineSettings) Sections {
	return Sections{settings: settings}
}

func (s Sections) coord(v float64) string {
	return float.Fixed(v, s.settings.DecimalPrecision())
}

func (s Sections) Header(b *builder, name string, wp drill.Workpiece) {
	w := float.Fixed(float.Round(wp.Width, 1), 1)
	h := float.Fixed(float.Round(wp.Height, 1), 1)
	t := float.Fixed(float.Round(wp.Thickness, 1), 1)
	threshold := float.Repr(s.settings.HeightThreshold())

	b.printf("(Program name: %s)", name)
	b.printf("(Workpiece dimensions: %s x %s x %s mm)", w, h, t)
	b.append(
		"G21 (Set units to mm)",
		"G90 (Set absolute positioning)",
		"G17 (Set XY plane)",
		"G94 (Set feed rate mode to units/min)",
	)
	code, large := s.settings.CoordinateSystem(wp.Height)
	if large {
		b.printf("%s (Use fixture offset 2 for workpiece height > %smm)", code, threshold)
		b.printf("M00 (LARGE WORKPIECE %sx%sx%smm - Confirm in %s position)", w, h, t, code)
	} else {
		b.printf("%s (Use fixture offset 3 for workpiece height <= %smm)", code, threshold)
		b.printf("M00 (WORKPIECE %sx%sx%smm - Confirm in %s position)", w, h, t, code)
	}
}

func (s Sections) ToolChange(b *builder, t tooling.Tool) {
	dir := "?"
	if t.Direction.Valid() {
		dir = t.Direction.String()
	}
	b.printf("T%dM6 (Load %smm horizontal drill dir:%s)", t.Number, float.Repr(t.Diameter), dir)
	b.printf("M03 S%d (Start spindle)", s.settings.SpindleSpeed())
}

// DrillPoint emits one complete drilling cycle, ending at safe height.
func (s Sections) DrillPoint(b *builder, p drill.Point) error {
	a := s.settings.ApproachDistance()
	pos, err := Approach(p, a)
	if err != nil {
		return err
	}
	axis, sign, ok := drillAxis(p.Direction())
	if !ok {
		return fault.Validation(stageGenerate, "invalid drilling direction %s", p.Direction())
	}
	dist := p.Depth + a

	b.printf("G00 X%s Y%s (Position at approach location)", s.coord(pos.X), s.coord(pos.Y))
	b.printf("G00 Z%s (Lower to drilling depth)", float.Fixed(p.Position.Z, 3))
	b.append("G91 (Switch to incremental mode)")
	b.printf("G01 %s%s F%s (Drill)", axis, float.Fixed(dist*sign, 3), float.Fixed(s.settings.DrillingFeedRate(), 1))
	b.printf("G01 %s%s F%s (Retract)", axis, float.Fixed(-dist*sign, 3), float.Fixed(s.settings.RetractionFeedRate(), 1))
	b.append("G90 (Return to absolute mode)")
	b.printf("G53 G00 Z%s (Return to safe height)", float.Fixed(s.settings.SafeZ(), 3))
	return nil
}

func (s Sections) Footer(b *builder) {
	b.append(
		"M09 (Coolant off)",
		"M05 (Spindle off)",
		"T0 (Select tool 0 (no tool))",
		"M30 (Program end)",
	)
}
