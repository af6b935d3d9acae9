package tooling

import (
	"fmt"

	"go.uber.org/zap"

	"edgedrill/pkg/cfg"
	"edgedrill/pkg/drill"
	"edgedrill/pkg/fault"
	"edgedrill/pkg/float"
	"edgedrill/pkg/geometry"
)

const stageMatch = "match"

// Code returns the catalog direction code of a drilling vector.
func Code(v geometry.Vector3) (int, error) {
	d := drill.DirectionOf(v)
	if !d.Valid() {
		return 0, fault.Validation(stageMatch, "Unsupported direction vector: (%g, %g, %g)", v.X, v.Y, v.Z)
	}
	return d.Code(), nil
}

// ToolMatch is the tool chosen for one group.
type ToolMatch struct {
	Tool    Tool
	Message string
}

// Resolver finds the tool for a group key.
type Resolver interface {
	Match(key drill.GroupKey) (ToolMatch, error)
}

type Matcher struct {
	catalog Catalog
	logger  *zap.Logger
}

type MatcherOption func(*Matcher)

func WithLogger(logger *zap.Logger) MatcherOption {
	return func(m *Matcher) {
		m.logger = logger
	}
}

func NewMatcher(catalog Catalog, opts ...MatcherOption) *Matcher {
	m := &Matcher{catalog: catalog, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match reloads the catalog and returns the first tool whose diameter rounds
// to the group's hundredth of a millimetre and whose direction code matches.
// There is no nearest size fallback.
func (m *Matcher) Match(key drill.GroupKey) (ToolMatch, error) {
	code, err := Code(key.Direction.Vector())
	if err != nil {
		return ToolMatch{}, err
	}
	tools, err := m.catalog.Tools()
	if err != nil {
		return ToolMatch{}, fault.Lookup(stageMatch, "Failed to read tool data").Wrap(err)
	}

	diameter := key.Diameter()
	m.logger.Debug("looking up tool",
		zap.Float64("diameter", diameter),
		zap.Stringer("direction", key.Direction),
		zap.Int("catalog_size", len(tools)))
	for _, t := range tools {
		if drill.DiameterKey(t.Diameter) == key.DiameterKey && t.Direction.Code() == code {
			return ToolMatch{
				Tool:    t,
				Message: fmt.Sprintf("Found matching tool #%d for %smm drilling", t.Number, float.Repr(diameter)),
			}, nil
		}
	}
	return ToolMatch{}, fault.Lookup(stageMatch, "No exact diameter match found for %smm tool with direction %d",
		float.Repr(diameter), code).
		With("diameter", diameter).
		With("direction", key.Direction)
}

// MatchedGroup is a drill group together with its tool.
type MatchedGroup struct {
	Key    drill.GroupKey `yaml:"group"`
	Tool   Tool           `yaml:"tool"`
	Points []drill.Point  `yaml:"points"`
}

type Matched struct {
	Groups   []MatchedGroup
	Warnings []string
	Message  string
}

// ProcessGroups resolves every group in key order and stops at the first
// failure. The failure carries the offending group, the number of groups
// already processed and those groups as a partial result.
func ProcessGroups(r Resolver, groups drill.Groups, policy cfg.EmptyGroupPolicy) (Matched, error) {
	if groups.Len() == 0 {
		return Matched{}, fault.Validation(stageMatch, "No drill groups to process")
	}

	var res Matched
	fail := func(ferr *fault.Error, key drill.GroupKey) error {
		return ferr.
			With("failed_group", key).
			With("processed_groups", len(res.Groups)).
			WithPartial(res.Groups)
	}
	for _, key := range groups.Keys {
		points := groups.Points[key]
		if len(points) == 0 {
			switch policy {
			case cfg.EmptyGroupFail:
				return Matched{}, fail(fault.Validation(stageMatch, "drill group %s has no points", key), key)
			case cfg.EmptyGroupWarn:
				res.Warnings = append(res.Warnings, fmt.Sprintf("Empty drill points list for group %s, skipping", key))
			}
			continue
		}

		match, err := r.Match(key)
		if err != nil {
			ferr, ok := fault.As(err)
			if !ok {
				ferr = fault.Lookup(stageMatch, "tool match failed").Wrap(err)
			}
			return Matched{}, fail(ferr, key)
		}
		res.Groups = append(res.Groups, MatchedGroup{Key: key, Tool: match.Tool, Points: points})
	}
	if len(res.Groups) == 0 {
		return Matched{}, fault.Validation(stageMatch, "No drill groups to process").
			With("empty_groups", groups.Len())
	}
	res.Message = fmt.Sprintf("Matched %d tool groups", len(res.Groups))
	return res, nil
}
