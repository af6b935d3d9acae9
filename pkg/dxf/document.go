// Package dxf reads the subset of ASCII DXF that panel drawings use: circles
// for drill holes and closed lightweight polylines for the panel outline.
package dxf

import (
	"edgedrill/pkg/geometry"
)

// DefaultExtrusion is the DXF default normal, pointing up out of the XY plane.
var DefaultExtrusion = geometry.Vector3{X: 0, Y: 0, Z: 1}

type Circle struct {
	Layer     string
	Center    geometry.Point3
	Radius    float64
	Extrusion geometry.Vector3
}

type Polyline struct {
	Layer    string
	Vertices geometry.Polyline
	Closed   bool
}

// Document is what the drilling pipeline consumes. Drawing is the file backed
// implementation; tests and other readers can supply their own.
type Document interface {
	Circles() []Circle
	Polylines() []Polyline
}

// Drawing holds the entities of one DXF file in file order.
type Drawing struct {
	circles   []Circle
	polylines []Polyline
}

func NewDrawing(circles []Circle, polylines []Polyline) *Drawing {
	return &Drawing{circles: circles, polylines: polylines}
}

func (d *Drawing) Circles() []Circle {
	return d.circles
}

func (d *Drawing) Polylines() []Polyline {
	return d.polylines
}

// Layers lists each layer name once, in order of first use.
func (d *Drawing) Layers() []string {
	seen := map[string]bool{}
	var layers []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			layers = append(layers, name)
		}
	}
	for _, p := range d.polylines {
		add(p.Layer)
	}
	for _, c := range d.circles {
		add(c.Layer)
	}
	return layers
}
