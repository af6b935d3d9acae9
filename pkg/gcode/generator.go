package gcode

import (
	"go.uber.org/zap"

	"edgedrill/pkg/cfg"
	"edgedrill/pkg/drill"
	"edgedrill/pkg/fault"
	"edgedrill/pkg/tooling"
)

// Generated is the outcome of a successful Generate.
type Generated struct {
	Program Program
	Tools   int
	Points  int
	Message string
}

type Generator struct {
	sections Sections
	logger   *zap.Logger
}

type GeneratorOption func(*Generator)

func WithGeneratorLogger(logger *zap.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = logger
	}
}

func NewGenerator(settings cfg.MachineSettings, opts ...GeneratorOption) *Generator {
	g := &Generator{sections: NewSections(settings), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate assembles the program: header, then for each group a tool change
// followed by one drilling cycle per point, then the footer. Groups are
// emitted in the order given. On failure the error's Partial holds the lines
// assembled so far.
func (g *Generator) Generate(name string, wp drill.Workpiece, groups []tooling.MatchedGroup) (Generated, error) {
	if len(groups) == 0 {
		return Generated{}, fault.Validation(stageGenerate, "no tool groups to generate")
	}

	var b builder
	g.sections.Header(&b, name, wp)
	points := 0
	for gi, group := range groups {
		g.logger.Debug("emitting tool group",
			zap.Stringer("group", group.Key),
			zap.Int("tool", group.Tool.Number),
			zap.Int("points", len(group.Points)))
		g.sections.ToolChange(&b, group.Tool)
		for pi, p := range group.Points {
			if err := g.sections.DrillPoint(&b, p); err != nil {
				ferr, ok := fault.As(err)
				if !ok {
					ferr = fault.Validation(stageGenerate, "drilling cycle failed").Wrap(err)
				}
				return Generated{}, ferr.
					With("group", group.Key).
					With("group_index", gi).
					With("point_index", pi).
					WithPartial(b.snapshot())
			}
			points++
		}
	}
	g.sections.Footer(&b)

	return Generated{
		Program: b.program(name),
		Tools:   len(groups),
		Points:  points,
		Message: "G-code program generated successfully",
	}, nil
}
