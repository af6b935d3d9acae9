package drill

import (
	"fmt"

	"edgedrill/pkg/fault"
)

const stageGroup = "group"

// Groups maps each GroupKey to its points. Keys holds the keys in the order they
// were first seen.
type Groups struct {
	Keys    []GroupKey
	Points  map[GroupKey][]Point
	Message string
}

func (g Groups) Len() int {
	return len(g.Keys)
}

// Group partitions points by (diameter, direction) and tags each with its key.
// Any unclassifiable point fails the whole call.
func Group(points []Point) (Groups, error) {
	if len(points) == 0 {
		return Groups{}, fault.Validation(stageGroup, "no drill points to group")
	}
	for i, p := range points {
		if p.DiameterSpec <= 0 {
			return Groups{}, fault.Validation(stageGroup, "drill point %d is missing a diameter", i).
				With("layer", p.Layer)
		}
		if !p.Direction().Valid() {
			return Groups{}, fault.Validation(stageGroup, "drill point %d has an unsupported direction vector", i).
				With("layer", p.Layer).
				With("direction", formatXYZ(p.Extrusion))
		}
	}

	g := Groups{Points: map[GroupKey][]Point{}}
	for _, p := range points {
		key := NewGroupKey(p.DiameterSpec, p.Direction())
		if _, ok := g.Points[key]; !ok {
			g.Keys = append(g.Keys, key)
		}
		p.Group = key
		g.Points[key] = append(g.Points[key], p)
	}
	g.Message = fmt.Sprintf("Grouped %d drill points into %d groups", len(points), len(g.Keys))
	return g, nil
}
