// Package pipeline runs one DXF document through every stage and produces
// its drilling program.
package pipeline

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"edgedrill/pkg/cfg"
	"edgedrill/pkg/drill"
	"edgedrill/pkg/dxf"
	"edgedrill/pkg/fault"
	"edgedrill/pkg/gcode"
	"edgedrill/pkg/metrics"
	"edgedrill/pkg/orient"
	"edgedrill/pkg/tooling"
)

// Result is a finished conversion.
type Result struct {
	Program gcode.Program
	Report  Report
}

// Converter holds everything one conversion needs. Converters share no
// state, so each goroutine of a batch gets its own.
type Converter struct {
	settings cfg.MachineSettings
	resolver tooling.Resolver
	target   orient.Orientation
	logger   *zap.Logger
	metrics  *metrics.Recorder
	runID    string
}

type Option func(*Converter)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(c *Converter) {
		c.metrics = m
	}
}

// WithTarget sets the machine orientation. The default is top-left.
func WithTarget(o orient.Orientation) Option {
	return func(c *Converter) {
		c.target = o
	}
}

func WithRunID(id string) Option {
	return func(c *Converter) {
		c.runID = id
	}
}

// WithResolver replaces the catalog matcher.
func WithResolver(r tooling.Resolver) Option {
	return func(c *Converter) {
		c.resolver = r
	}
}

func New(settings cfg.MachineSettings, catalog tooling.Catalog, opts ...Option) *Converter {
	c := &Converter{
		settings: settings,
		target:   orient.TopLeft,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.runID == "" {
		c.runID = uuid.NewString()
	}
	if c.metrics == nil {
		c.metrics = metrics.New()
	}
	c.logger = c.logger.With(zap.String("run_id", c.runID))
	if c.resolver == nil {
		c.resolver = tooling.NewMatcher(catalog, tooling.WithLogger(c.logger))
	}
	return c
}

func (c *Converter) Metrics() *metrics.Recorder {
	return c.metrics
}

// ProgramName is the file base name without its extension.
func ProgramName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ConvertFile reads a DXF file and converts it under the name of the file.
func (c *Converter) ConvertFile(path string) (Result, error) {
	name := ProgramName(path)
	doc, err := dxf.ReadFile(path)
	if err != nil {
		ferr := fault.Validation("read", "cannot read DXF document").Wrap(err).With("input", path)
		report := Report{RunID: c.runID, Input: path, Program: name, Failure: failureOf(ferr)}
		c.metrics.Conversion(ferr)
		return Result{Report: report}, ferr
	}
	return c.convert(path, name, doc)
}

// Convert runs doc through every stage. On failure the returned Result still
// carries the report up to the failing stage, and no program.
func (c *Converter) Convert(name string, doc dxf.Document) (Result, error) {
	return c.convert(name, name, doc)
}

func (c *Converter) convert(input, name string, doc dxf.Document) (Result, error) {
	r := &run{
		Converter: c,
		logger:    c.logger.With(zap.String("input", input)),
		report:    Report{RunID: c.runID, Input: input, Program: name},
	}
	program, err := r.execute(name, doc)
	if err != nil {
		r.report.Failure = failureOf(err)
		r.logger.Error("conversion failed", zap.Error(err))
		program = gcode.Program{}
	}
	c.metrics.Conversion(err)
	return Result{Program: program, Report: r.report}, err
}

type run struct {
	*Converter
	logger *zap.Logger
	report Report
}

// stage logs and times one step and records its message.
func (r *run) stage(name string, start time.Time, msg string) {
	r.metrics.Time(name, start)
	if msg != "" {
		r.report.Messages = append(r.report.Messages, msg)
	}
	r.logger.Info(msg, zap.String("stage", name), zap.Duration("elapsed", time.Since(start)))
}

func (r *run) execute(name string, doc dxf.Document) (gcode.Program, error) {
	start := time.Now()
	extractor := drill.NewExtractor(
		drill.WithLogger(r.logger.With(zap.String("stage", "extract"))),
		drill.WithMismatchTolerance(r.settings.MismatchTolerance()),
	)
	ex, err := extractor.Extract(doc)
	if err != nil {
		if ferr, ok := fault.As(err); ok {
			if partial, ok := ferr.Partial.(drill.PointSet); ok {
				r.report.Skipped = partial.Issues
			}
		}
		return gcode.Program{}, err
	}
	r.report.Points = len(ex.Points)
	r.report.Skipped = ex.Issues
	r.report.Warnings = ex.Warnings
	for _, p := range ex.Points {
		r.metrics.PointsExtracted.WithLabelValues(p.Direction().String()).Inc()
	}
	for _, is := range ex.Issues {
		r.metrics.EntitiesSkipped.WithLabelValues(is.Severity.String()).Inc()
	}
	r.stage("extract", start, ex.Message)

	start = time.Now()
	rotated, err := orient.RotateTo(orient.NewSnapshot(ex.Workpiece, ex.Points), r.target)
	if err != nil {
		return gcode.Program{}, err
	}
	r.stage("rotate", start, rotated.Message)

	start = time.Now()
	positioned, err := orient.Position(rotated.Snapshot, r.target)
	if err != nil {
		return gcode.Program{}, err
	}
	snap := positioned.Snapshot
	wp := snap.Workpiece()
	r.report.Workpiece = &wp
	r.report.Orientation = &OrientationReport{
		Initial:   rotated.History[0],
		Final:     snap.Orientation(),
		History:   rotated.History,
		Rotations: snap.Rotations(),
		Offset:    positioned.Offset,
	}
	r.stage("position", start, positioned.Message)

	start = time.Now()
	filtered := drill.Filter(snap.Points())
	r.report.Filter = &filtered.Stats
	r.metrics.PointsFiltered.Add(float64(filtered.Stats.Removed))
	r.stage("filter", start, filtered.Message)

	start = time.Now()
	groups, err := drill.Group(filtered.Kept)
	if err != nil {
		return gcode.Program{}, err
	}
	r.stage("group", start, groups.Message)

	start = time.Now()
	matched, err := tooling.ProcessGroups(r.resolver, groups, r.settings.EmptyGroupPolicy())
	if err != nil {
		return gcode.Program{}, err
	}
	for _, w := range matched.Warnings {
		r.logger.Warn(w, zap.String("stage", "match"))
	}
	for _, g := range matched.Groups {
		r.report.Groups = append(r.report.Groups, GroupReport{Group: g.Key, Tool: g.Tool.Number, Points: len(g.Points)})
	}
	r.metrics.Groups.Add(float64(len(matched.Groups)))
	r.stage("match", start, matched.Message)

	start = time.Now()
	gen := gcode.NewGenerator(r.settings, gcode.WithGeneratorLogger(r.logger.With(zap.String("stage", "generate"))))
	generated, err := gen.Generate(name, wp, matched.Groups)
	if err != nil {
		return gcode.Program{}, err
	}
	program := generated.Program
	if on, first, step := r.settings.LineNumbering(); on {
		program = gcode.Number(program, first, step)
	}
	if r.settings.SafetyChecks() {
		var n int
		program, n = gcode.InsertSafetyChecks(program, name+".nc")
		r.report.SafetyChecks = n
		r.metrics.SafetyChecks.Add(float64(n))
	}
	r.report.Lines = program.Len()
	r.metrics.Lines.Add(float64(program.Len()))
	r.stage("generate", start, generated.Message)

	return program, nil
}
