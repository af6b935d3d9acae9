package drill

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"edgedrill/pkg/dxf"
	"edgedrill/pkg/fault"
	"edgedrill/pkg/geometry"
)

// vertexTolerance decides when a closing vertex repeats the first one.
const vertexTolerance = 1e-6

// Workpiece is the panel being machined. Corners[0] is the reference corner, the
// outline vertex nearest the drawing origin, and Corners[2], diagonal to it, is
// point C. The corners keep the outline's winding.
type Workpiece struct {
	Width     float64           `yaml:"width"`
	Height    float64           `yaml:"height"`
	Thickness float64           `yaml:"thickness"`
	Corners   [4]geometry.Point `yaml:"corners"`
	Layer     string            `yaml:"layer"`
}

func (w Workpiece) Reference() geometry.Point {
	return w.Corners[0]
}

func (w Workpiece) PointC() geometry.Point {
	return w.Corners[2]
}

// Diagonal is point C relative to the reference corner.
func (w Workpiece) Diagonal() geometry.Vector2 {
	return w.Corners[2].Minus(w.Corners[0])
}

func (w Workpiece) Bounds() geometry.Rectangle {
	return geometry.Polyline(w.Corners[:]).Bounds()
}

// ExtractWorkpiece finds the single closed outline whose layer encodes the
// material thickness.
func (e *Extractor) ExtractWorkpiece(doc dxf.Document) (Workpiece, error) {
	var closed, withThickness []dxf.Polyline
	for _, pl := range doc.Polylines() {
		if !isClosed(pl) {
			continue
		}
		closed = append(closed, pl)
		if _, ok := ParseThickness(pl.Layer); ok {
			withThickness = append(withThickness, pl)
		}
	}

	switch {
	case len(closed) == 0:
		return Workpiece{}, fault.Validation(stageExtract, "workpiece outline missing: no closed polyline found")
	case len(withThickness) == 0:
		err := fault.Validation(stageExtract, "workpiece thickness missing from layer name")
		if len(closed) == 1 {
			err = err.With("layer", closed[0].Layer)
		} else {
			err = err.With("outlines", len(closed))
		}
		return Workpiece{}, err
	case len(withThickness) > 1:
		layers := make([]string, len(withThickness))
		for i, pl := range withThickness {
			layers[i] = pl.Layer
		}
		return Workpiece{}, fault.Validation(stageExtract, "workpiece ambiguous: %d outlines encode a thickness", len(withThickness)).
			With("layers", layers)
	}

	pl := withThickness[0]
	thickness, _ := ParseThickness(pl.Layer)
	corners := distinctVertices(pl.Vertices)
	if len(corners) != 4 {
		return Workpiece{}, fault.Validation(stageExtract, "workpiece outline must have 4 corners, got %d", len(corners)).
			With("layer", pl.Layer)
	}

	wp := Workpiece{
		Thickness: thickness,
		Layer:     pl.Layer,
	}
	copy(wp.Corners[:], startAtReference(corners))
	b := wp.Bounds()
	wp.Width = math.Abs(b.Width())
	wp.Height = math.Abs(b.Height())
	if wp.Width <= 0 || wp.Height <= 0 {
		return Workpiece{}, fault.Validation(stageExtract, "workpiece outline is degenerate (%gx%g)", wp.Width, wp.Height).
			With("layer", pl.Layer)
	}

	e.logger.Info("extracted workpiece",
		zap.String("layer", wp.Layer),
		zap.String("dimensions", fmt.Sprintf("%gx%gx%g", wp.Width, wp.Height, wp.Thickness)))
	return wp, nil
}

func isClosed(pl dxf.Polyline) bool {
	if pl.Closed {
		return true
	}
	n := len(pl.Vertices)
	return n > 2 && pl.Vertices[0].Distance(pl.Vertices[n-1]) < vertexTolerance
}

// distinctVertices drops consecutive repeats and a closing repeat of the first vertex.
func distinctVertices(vs geometry.Polyline) []geometry.Point {
	var out []geometry.Point
	for _, v := range vs {
		if len(out) > 0 && out[len(out)-1].Distance(v) < vertexTolerance {
			continue
		}
		out = append(out, v)
	}
	if len(out) > 1 && out[0].Distance(out[len(out)-1]) < vertexTolerance {
		out = out[:len(out)-1]
	}
	return out
}

// startAtReference rotates the vertex list so it begins at the vertex nearest
// the origin. Ties go to the smaller X, then the smaller Y, so the choice does
// not depend on where the outline starts.
func startAtReference(vs []geometry.Point) []geometry.Point {
	ref := 0
	origin := geometry.Point{}
	for i, v := range vs {
		r := vs[ref]
		dv, dr := v.Distance(origin), r.Distance(origin)
		switch {
		case math.Abs(dv-dr) > vertexTolerance:
			if dv < dr {
				ref = i
			}
		case v.X < r.X-vertexTolerance:
			ref = i
		case math.Abs(v.X-r.X) <= vertexTolerance && v.Y < r.Y:
			ref = i
		}
	}
	return append(append([]geometry.Point(nil), vs[ref:]...), vs[:ref]...)
}
