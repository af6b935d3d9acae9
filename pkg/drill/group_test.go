package drill_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"edgedrill/pkg/drill"
	"edgedrill/pkg/fault"
	"edgedrill/pkg/geometry"
)

func point(diameter float64, dir drill.Direction, y float64) drill.Point {
	return drill.Point{
		Position:         geometry.Point3{X: 0, Y: y, Z: 9},
		DiameterGeometry: diameter,
		DiameterSpec:     diameter,
		Depth:            15,
		Extrusion:        dir.Vector(),
		Layer:            "EDGE.DRILL",
	}
}

func TestGroupingDeterminism(t *testing.T) {
	points := []drill.Point{
		point(8.0, drill.DirectionXPlus, 100),
		point(8.0, drill.DirectionXPlus, 200),
		point(10.0, drill.DirectionYPlus, 300),
	}
	for run := 0; run < 5; run++ {
		got, err := drill.Group(points)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		xKey := drill.NewGroupKey(8.0, drill.DirectionXPlus)
		yKey := drill.NewGroupKey(10.0, drill.DirectionYPlus)
		if diff := cmp.Diff([]drill.GroupKey{xKey, yKey}, got.Keys); diff != "" {
			t.Fatalf("incorrect key order: %s", diff)
		}
		xs := got.Points[xKey]
		if len(xs) != 2 || xs[0].Position.Y != 100 || xs[1].Position.Y != 200 {
			t.Errorf("X+ group out of order: %+v", xs)
		}
		for _, p := range xs {
			if p.Group != xKey {
				t.Errorf("point not tagged with its group: %+v", p.Group)
			}
		}
		if got.Message != "Grouped 3 drill points into 2 groups" {
			t.Errorf("unexpected message %q", got.Message)
		}
	}
	if points[0].Group != (drill.GroupKey{}) {
		t.Errorf("input points must not be modified")
	}
}

func TestGroupKeyPrecision(t *testing.T) {
	if drill.NewGroupKey(8.0, drill.DirectionXPlus) != drill.NewGroupKey(8.0000001, drill.DirectionXPlus) {
		t.Errorf("nearly equal diameters must share a key")
	}
	if drill.NewGroupKey(8.0, drill.DirectionXPlus) == drill.NewGroupKey(8.01, drill.DirectionXPlus) {
		t.Errorf("diameters 0.01mm apart must not share a key")
	}
	if drill.NewGroupKey(8.0, drill.DirectionXPlus) == drill.NewGroupKey(8.0, drill.DirectionXMinus) {
		t.Errorf("directions must be part of the key")
	}
	k := drill.NewGroupKey(0.1+0.2, drill.DirectionYMinus)
	if k.Diameter() != 0.3 || k.String() != "0.30mm Y-" {
		t.Errorf("unexpected key %v (%v)", k, k.Diameter())
	}
}

func TestGroupFailures(t *testing.T) {
	noDiameter := point(8, drill.DirectionXPlus, 0)
	noDiameter.DiameterSpec = 0
	badDirection := point(8, drill.DirectionXPlus, 0)
	badDirection.Extrusion = geometry.Vector3{X: 1, Y: 1}

	tests := []struct {
		name   string
		points []drill.Point
		want   string
	}{
		{name: "empty", points: nil, want: "no drill points to group"},
		{name: "missing diameter", points: []drill.Point{point(8, drill.DirectionXPlus, 0), noDiameter}, want: "drill point 1 is missing a diameter"},
		{name: "bad direction", points: []drill.Point{badDirection}, want: "unsupported direction vector"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := drill.Group(test.points)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !fault.IsKind(err, fault.KindValidation) || !strings.Contains(err.Error(), test.want) {
				t.Errorf("unexpected error %v", err)
			}
			if got.Len() != 0 {
				t.Errorf("failed grouping must not return partial groups")
			}
		})
	}
}

func TestFilter(t *testing.T) {
	points := []drill.Point{
		point(8, drill.DirectionXPlus, 1),
		point(5, drill.DirectionZPlus, 2),
		point(8, drill.DirectionYMinus, 3),
		point(5, drill.DirectionZPlus, 4),
	}
	got := drill.Filter(points)
	want := drill.FilterStats{Original: 4, Horizontal: 2, Vertical: 2, Removed: 2}
	if diff := cmp.Diff(want, got.Stats); diff != "" {
		t.Errorf("incorrect stats: %s", diff)
	}
	if len(got.Kept) != 2 || got.Kept[0].Position.Y != 1 || got.Kept[1].Position.Y != 3 {
		t.Errorf("unexpected kept points %+v", got.Kept)
	}
	if got.Message != "Filtered 2 vertical drilling points. Keeping 2 horizontal points." {
		t.Errorf("unexpected message %q", got.Message)
	}

	got = drill.Filter(points[:1])
	if got.Message != "All 1 points are horizontal drilling." {
		t.Errorf("unexpected message %q", got.Message)
	}

	got = drill.Filter(points[1:2])
	if len(got.Kept) != 0 || got.Stats.Removed != 1 {
		t.Errorf("filtering everything must still succeed: %+v", got)
	}
}

func TestDirection(t *testing.T) {
	tests := []struct {
		v    geometry.Vector3
		want drill.Direction
		code int
		name string
	}{
		{v: geometry.Vector3{X: 1}, want: drill.DirectionXPlus, code: 1, name: "X+"},
		{v: geometry.Vector3{X: -1}, want: drill.DirectionXMinus, code: 2, name: "X-"},
		{v: geometry.Vector3{Y: 1}, want: drill.DirectionYPlus, code: 3, name: "Y+"},
		{v: geometry.Vector3{Y: -1}, want: drill.DirectionYMinus, code: 4, name: "Y-"},
		{v: geometry.Vector3{Z: 1}, want: drill.DirectionZPlus, code: 5, name: "Z+"},
		{v: geometry.Vector3{X: 0.9999999, Y: 1e-8}, want: drill.DirectionXPlus, code: 1, name: "X+"},
		{v: geometry.Vector3{Z: -1}, want: drill.DirectionNone, code: 0, name: "Direction(0)"},
		{v: geometry.Vector3{X: 0.5, Y: 0.5}, want: drill.DirectionNone, code: 0, name: "Direction(0)"},
	}
	for i, test := range tests {
		got := drill.DirectionOf(test.v)
		if got != test.want || got.Code() != test.code || got.String() != test.name {
			t.Errorf("Test %d - DirectionOf(%v) = %v (%d)", i, test.v, got, got.Code())
		}
		if test.code != 0 && drill.DirectionFromCode(test.code) != test.want {
			t.Errorf("Test %d - DirectionFromCode(%d) mismatch", i, test.code)
		}
	}
	if drill.DirectionFromCode(9) != drill.DirectionNone {
		t.Errorf("unknown codes must map to DirectionNone")
	}
}
