package drill

import (
	"fmt"
	"math"

	"edgedrill/pkg/fault"
	"edgedrill/pkg/geometry"
)

// Point is one requested hole.
type Point struct {
	Position geometry.Point3 `yaml:"position"`
	// DiameterGeometry is measured from the circle; DiameterSpec comes from the
	// layer name and is the value used for tool matching.
	DiameterGeometry float64          `yaml:"diameter_geometry"`
	DiameterSpec     float64          `yaml:"diameter_specification"`
	Mismatch         *Mismatch        `yaml:"diameter_mismatch,omitempty"`
	Depth            float64          `yaml:"depth"`
	Extrusion        geometry.Vector3 `yaml:"extrusion"`
	Layer            string           `yaml:"layer"`
	Group            GroupKey         `yaml:"group"`
}

type Mismatch struct {
	Percent       float64 `yaml:"percent"`
	IsSignificant bool    `yaml:"is_significant"`
}

func (p Point) Direction() Direction {
	return DirectionOf(p.Extrusion)
}

// Issue records an entity that was skipped or that deserves the operator's
// attention.
type Issue struct {
	EntityType string          `yaml:"entity_type"`
	Layer      string          `yaml:"layer"`
	Position   geometry.Point3 `yaml:"position"`
	Reason     string          `yaml:"reason"`
	Severity   fault.Severity  `yaml:"severity"`
}

// GroupKey identifies the tool a set of points needs. The diameter is held in
// hundredths of a millimetre so equal diameters compare equal.
type GroupKey struct {
	DiameterKey int64
	Direction   Direction
}

func DiameterKey(diameter float64) int64 {
	return int64(math.Round(diameter * 100))
}

func NewGroupKey(diameter float64, dir Direction) GroupKey {
	return GroupKey{DiameterKey: DiameterKey(diameter), Direction: dir}
}

func (k GroupKey) Diameter() float64 {
	return float64(k.DiameterKey) / 100
}

func (k GroupKey) String() string {
	return fmt.Sprintf("%.2fmm %s", k.Diameter(), k.Direction)
}

func (k GroupKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
