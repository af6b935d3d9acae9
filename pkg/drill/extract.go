package drill

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"edgedrill/pkg/cfg"
	"edgedrill/pkg/dxf"
	"edgedrill/pkg/fault"
	"edgedrill/pkg/geometry"
)

const stageExtract = "extract"

type Extractor struct {
	logger            *zap.Logger
	mismatchTolerance float64
	coincidentRadius  float64
}

type Option func(*Extractor)

func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// WithMismatchTolerance sets the percentage above which a geometry/layer
// diameter disagreement is flagged significant.
func WithMismatchTolerance(percent float64) Option {
	return func(e *Extractor) {
		e.mismatchTolerance = percent
	}
}

// WithCoincidentRadius sets how close two holes may be before they are
// reported as coincident.
func WithCoincidentRadius(mm float64) Option {
	return func(e *Extractor) {
		e.coincidentRadius = mm
	}
}

func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		logger:            zap.NewNop(),
		mismatchTolerance: cfg.DefaultMismatchTolerance,
		coincidentRadius:  0.01,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PointSet is the outcome of drill point extraction.
type PointSet struct {
	Points  []Point `yaml:"points"`
	Skipped int     `yaml:"skipped_count"`
	// Issues lists every skipped entity. Warnings lists accepted points that
	// look suspicious.
	Issues   []Issue `yaml:"issues,omitempty"`
	Warnings []Issue `yaml:"warnings,omitempty"`
	Message  string  `yaml:"message"`
}

// Extraction is the combined workpiece and drill point outcome.
type Extraction struct {
	Workpiece Workpiece `yaml:"workpiece"`
	PointSet  `yaml:",inline"`
}

// Extract reads the workpiece and then the drill points. Either failing fails
// the whole extraction.
func (e *Extractor) Extract(doc dxf.Document) (Extraction, error) {
	wp, err := e.ExtractWorkpiece(doc)
	if err != nil {
		return Extraction{}, err
	}
	pts, err := e.ExtractPoints(doc)
	if err != nil {
		return Extraction{}, err
	}

	msg := "Extraction complete"
	if pts.Skipped > 0 {
		msg = fmt.Sprintf("%s, %d points skipped", msg, pts.Skipped)
	}
	pts.Message = msg
	return Extraction{Workpiece: wp, PointSet: pts}, nil
}

// ExtractPoints turns every circle into a drill point, or skips it with an
// issue. It fails only when no valid point remains.
func (e *Extractor) ExtractPoints(doc dxf.Document) (PointSet, error) {
	var res PointSet
	for _, c := range doc.Circles() {
		p, reason := e.pointFromCircle(c)
		if reason != "" {
			res.Skipped++
			res.Issues = append(res.Issues, Issue{
				EntityType: "CIRCLE",
				Layer:      c.Layer,
				Position:   c.Center,
				Reason:     reason,
				Severity:   fault.SeverityWarning,
			})
			e.logger.Warn("skipping drill point",
				zap.String("layer", c.Layer),
				zap.Float64("x", c.Center.X),
				zap.Float64("y", c.Center.Y),
				zap.Float64("z", c.Center.Z),
				zap.String("reason", reason))
			continue
		}
		if p.Mismatch != nil && p.Mismatch.IsSignificant {
			e.logger.Warn("diameter mismatch",
				zap.String("layer", p.Layer),
				zap.Float64("geometry", p.DiameterGeometry),
				zap.Float64("specification", p.DiameterSpec),
				zap.Float64("percent", p.Mismatch.Percent))
			res.Warnings = append(res.Warnings, Issue{
				EntityType: "CIRCLE",
				Layer:      p.Layer,
				Position:   p.Position,
				Reason: fmt.Sprintf("diameter mismatch: geometry %.3fmm, layer %.3fmm (%.2f%%)",
					p.DiameterGeometry, p.DiameterSpec, p.Mismatch.Percent),
				Severity: fault.SeverityWarning,
			})
		}
		res.Points = append(res.Points, p)
	}

	if len(res.Points) == 0 {
		return PointSet{}, fault.Validation(stageExtract, "no valid drill points found").
			With("circles", len(doc.Circles())).
			With("skipped", res.Skipped).
			WithPartial(res)
	}

	res.Warnings = append(res.Warnings, findCoincident(res.Points, e.coincidentRadius)...)

	res.Message = fmt.Sprintf("Extracted %d drill points", len(res.Points))
	if res.Skipped > 0 {
		res.Message = fmt.Sprintf("%s, %d skipped", res.Message, res.Skipped)
	}
	e.logger.Info("extracted drill points",
		zap.Int("valid", len(res.Points)),
		zap.Int("skipped", res.Skipped))
	return res, nil
}

// pointFromCircle returns the drill point for c, or the reason it must be
// skipped.
func (e *Extractor) pointFromCircle(c dxf.Circle) (Point, string) {
	spec := ParseDrillLayer(c.Layer)
	extrusion := c.Extrusion
	if extrusion == (geometry.Vector3{}) {
		extrusion = dxf.DefaultExtrusion
	}
	geomDiameter := 2 * c.Radius

	switch {
	case !spec.HasDepth:
		return Point{}, "missing depth in layer name"
	case spec.Depth <= 0:
		return Point{}, fmt.Sprintf("invalid depth %g", spec.Depth)
	case geomDiameter <= 0:
		return Point{}, fmt.Sprintf("invalid circle radius %g", c.Radius)
	case !spec.HasDiameter:
		return Point{}, "missing diameter in layer name"
	case spec.Diameter <= 0:
		return Point{}, fmt.Sprintf("invalid diameter %g", spec.Diameter)
	case !DirectionOf(extrusion).Valid():
		return Point{}, fmt.Sprintf("unsupported direction vector (%g, %g, %g)", extrusion.X, extrusion.Y, extrusion.Z)
	}

	p := Point{
		Position:         c.Center,
		DiameterGeometry: geomDiameter,
		DiameterSpec:     spec.Diameter,
		Depth:            spec.Depth,
		Extrusion:        DirectionOf(extrusion).Vector(),
		Layer:            c.Layer,
	}
	p.Mismatch = e.mismatch(geomDiameter, spec.Diameter)
	return p, ""
}

func (e *Extractor) mismatch(geom, spec float64) *Mismatch {
	percent := math.Abs(geom-spec) / spec * 100
	if percent < 1e-9 {
		return nil
	}
	return &Mismatch{
		Percent:       percent,
		IsSignificant: percent > e.mismatchTolerance,
	}
}
