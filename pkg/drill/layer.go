package drill

import (
	"regexp"
	"strconv"
)

var (
	diameterRE  = regexp.MustCompile(`_D(-?\d+(?:\.\d+)?)`)
	depthRE     = regexp.MustCompile(`_P(-?\d+(?:\.\d+)?)`)
	thicknessRE = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*mm$`)
)

// LayerSpec is what a drill layer name such as "EDGE.DRILL_D8.0_P15.0" encodes.
type LayerSpec struct {
	Diameter    float64
	HasDiameter bool
	Depth       float64
	HasDepth    bool
}

func ParseDrillLayer(layer string) LayerSpec {
	var spec LayerSpec
	spec.Diameter, spec.HasDiameter = findNumber(diameterRE, layer)
	spec.Depth, spec.HasDepth = findNumber(depthRE, layer)
	return spec
}

// ParseThickness reads the material thickness from an outline layer name such
// as "PANEL_Egger22mm".
func ParseThickness(layer string) (float64, bool) {
	t, ok := findNumber(thicknessRE, layer)
	if !ok || t <= 0 {
		return 0, false
	}
	return t, true
}

func findNumber(re *regexp.Regexp, s string) (float64, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
