package pipeline

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"edgedrill/pkg/drill"
	"edgedrill/pkg/fault"
	"edgedrill/pkg/geometry"
	"edgedrill/pkg/orient"
)

// Report is the record of one conversion. It is filled as stages complete,
// so a failed conversion still reports everything up to the failure.
type Report struct {
	RunID        string             `yaml:"run_id"`
	Input        string             `yaml:"input"`
	Program      string             `yaml:"program"`
	Workpiece    *drill.Workpiece   `yaml:"workpiece,omitempty"`
	Orientation  *OrientationReport `yaml:"orientation,omitempty"`
	Points       int                `yaml:"points"`
	Skipped      []drill.Issue      `yaml:"skipped,omitempty"`
	Warnings     []drill.Issue      `yaml:"warnings,omitempty"`
	Filter       *drill.FilterStats `yaml:"filter,omitempty"`
	Groups       []GroupReport      `yaml:"groups,omitempty"`
	Lines        int                `yaml:"lines"`
	SafetyChecks int                `yaml:"safety_checks,omitempty"`
	Messages     []string           `yaml:"messages"`
	Failure      *Failure           `yaml:"failure,omitempty"`
}

type OrientationReport struct {
	Initial   orient.Orientation   `yaml:"initial"`
	Final     orient.Orientation   `yaml:"final"`
	History   []orient.Orientation `yaml:"history"`
	Rotations int                  `yaml:"rotations"`
	Offset    geometry.Vector2     `yaml:"offset"`
}

type GroupReport struct {
	Group  drill.GroupKey `yaml:"group"`
	Tool   int            `yaml:"tool"`
	Points int            `yaml:"points"`
}

// Failure is the serializable form of a fault.
type Failure struct {
	Stage   string            `yaml:"stage"`
	Kind    string            `yaml:"kind"`
	Message string            `yaml:"message"`
	Context map[string]string `yaml:"context,omitempty"`
	Cause   string            `yaml:"cause,omitempty"`
}

func failureOf(err error) *Failure {
	ferr, ok := fault.As(err)
	if !ok {
		return &Failure{Message: err.Error()}
	}
	f := &Failure{Stage: ferr.Stage, Kind: ferr.Kind.String(), Message: ferr.Message}
	if len(ferr.Context) > 0 {
		f.Context = make(map[string]string, len(ferr.Context))
		for k, v := range ferr.Context {
			f.Context[k] = fmt.Sprint(v)
		}
	}
	if ferr.Err != nil {
		f.Cause = ferr.Err.Error()
	}
	return f
}

// WriteReports encodes reports as one YAML document.
func WriteReports(w io.Writer, reports []Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(struct {
		Conversions []Report `yaml:"conversions"`
	}{reports}); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return enc.Close()
}
