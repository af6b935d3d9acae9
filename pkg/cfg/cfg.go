// Package cfg holds the machine settings used for one conversion run and the
// loader that builds them from defaults, a YAML file, the environment and
// command line flags.
package cfg

import (
	"fmt"

	"edgedrill/pkg/fault"
)

const stageConfig = "config"

// EmptyGroupPolicy decides what happens to a drill group with no points left
// when tools are matched.
type EmptyGroupPolicy string

const (
	EmptyGroupDrop EmptyGroupPolicy = "drop"
	EmptyGroupWarn EmptyGroupPolicy = "warn"
	EmptyGroupFail EmptyGroupPolicy = "fail"
)

func (p EmptyGroupPolicy) Valid() bool {
	switch p {
	case EmptyGroupDrop, EmptyGroupWarn, EmptyGroupFail:
		return true
	}
	return false
}

// Defaults for the controller profile the generated programs target.
const (
	DefaultDrillingFeedRate      = 300.0
	DefaultRetractionFeedRate    = 1000.0
	DefaultApproachDistance      = 10.0
	DefaultSpindleSpeed          = 18000
	DefaultHeightThreshold       = 550.0
	DefaultLargeCoordinateSystem = "G55"
	DefaultSmallCoordinateSystem = "G56"
	DefaultDecimalPrecision      = 3
	DefaultMismatchTolerance     = 2.0
	DefaultEmptyGroupPolicy      = EmptyGroupWarn
	DefaultLineNumberStart       = 1
	DefaultLineNumberIncrement   = 1
)

// MachineOptions is the raw, unvalidated form of MachineSettings.
type MachineOptions struct {
	DrillingFeedRate      float64          `koanf:"drilling_feed_rate"`
	RetractionFeedRate    float64          `koanf:"retraction_feed_rate"`
	ApproachDistance      float64          `koanf:"approach_distance"`
	SpindleSpeed          int              `koanf:"spindle_speed"`
	HeightThreshold       float64          `koanf:"workpiece_height_threshold"`
	LargeCoordinateSystem string           `koanf:"coordinate_system_large"`
	SmallCoordinateSystem string           `koanf:"coordinate_system_small"`
	DecimalPrecision      int              `koanf:"decimal_precision"`
	MismatchTolerance     float64          `koanf:"mismatch_tolerance"`
	EmptyGroupPolicy      EmptyGroupPolicy `koanf:"empty_group_policy"`
	LineNumbers           bool             `koanf:"line_numbers"`
	LineNumberStart       int              `koanf:"line_number_start"`
	LineNumberIncrement   int              `koanf:"line_number_increment"`
	SafetyChecks          bool             `koanf:"safety_checks"`

	// SafeZ comes from the machine macro, never from configuration.
	SafeZ *float64 `koanf:"-"`
}

// DefaultMachineOptions returns every default. SafeZ is left unset.
func DefaultMachineOptions() MachineOptions {
	return MachineOptions{
		DrillingFeedRate:      DefaultDrillingFeedRate,
		RetractionFeedRate:    DefaultRetractionFeedRate,
		ApproachDistance:      DefaultApproachDistance,
		SpindleSpeed:          DefaultSpindleSpeed,
		HeightThreshold:       DefaultHeightThreshold,
		LargeCoordinateSystem: DefaultLargeCoordinateSystem,
		SmallCoordinateSystem: DefaultSmallCoordinateSystem,
		DecimalPrecision:      DefaultDecimalPrecision,
		MismatchTolerance:     DefaultMismatchTolerance,
		EmptyGroupPolicy:      DefaultEmptyGroupPolicy,
		LineNumberStart:       DefaultLineNumberStart,
		LineNumberIncrement:   DefaultLineNumberIncrement,
	}
}

// MachineSettings is the validated machine configuration for one run. The
// zero value is not usable; build it with NewMachineSettings.
type MachineSettings struct {
	opts  MachineOptions
	safeZ float64
}

// NewMachineSettings validates opts. A missing safe Z height is a
// configuration failure.
func NewMachineSettings(opts MachineOptions) (MachineSettings, error) {
	if opts.SafeZ == nil {
		return MachineSettings{}, fault.Configuration(stageConfig, "safe Z height is not configured")
	}
	checks := []struct {
		bad  bool
		what string
		val  any
	}{
		{opts.DrillingFeedRate <= 0, "drilling feed rate", opts.DrillingFeedRate},
		{opts.RetractionFeedRate <= 0, "retraction feed rate", opts.RetractionFeedRate},
		{opts.ApproachDistance <= 0, "approach distance", opts.ApproachDistance},
		{opts.SpindleSpeed <= 0, "spindle speed", opts.SpindleSpeed},
		{opts.HeightThreshold <= 0, "workpiece height threshold", opts.HeightThreshold},
		{opts.LargeCoordinateSystem == "", "large coordinate system", opts.LargeCoordinateSystem},
		{opts.SmallCoordinateSystem == "", "small coordinate system", opts.SmallCoordinateSystem},
		{opts.DecimalPrecision < 0 || opts.DecimalPrecision > 6, "decimal precision", opts.DecimalPrecision},
		{opts.MismatchTolerance < 0, "mismatch tolerance", opts.MismatchTolerance},
		{!opts.EmptyGroupPolicy.Valid(), "empty group policy", opts.EmptyGroupPolicy},
		{opts.LineNumbers && opts.LineNumberStart < 0, "line number start", opts.LineNumberStart},
		{opts.LineNumbers && opts.LineNumberIncrement <= 0, "line number increment", opts.LineNumberIncrement},
	}
	for _, c := range checks {
		if c.bad {
			return MachineSettings{}, fault.Configuration(stageConfig, "invalid %s %v", c.what, c.val)
		}
	}

	s := MachineSettings{opts: opts, safeZ: *opts.SafeZ}
	s.opts.SafeZ = nil
	return s, nil
}

func (s MachineSettings) DrillingFeedRate() float64   { return s.opts.DrillingFeedRate }
func (s MachineSettings) RetractionFeedRate() float64 { return s.opts.RetractionFeedRate }
func (s MachineSettings) ApproachDistance() float64   { return s.opts.ApproachDistance }
func (s MachineSettings) SafeZ() float64              { return s.safeZ }
func (s MachineSettings) SpindleSpeed() int           { return s.opts.SpindleSpeed }
func (s MachineSettings) HeightThreshold() float64    { return s.opts.HeightThreshold }
func (s MachineSettings) DecimalPrecision() int       { return s.opts.DecimalPrecision }
func (s MachineSettings) MismatchTolerance() float64  { return s.opts.MismatchTolerance }
func (s MachineSettings) SafetyChecks() bool          { return s.opts.SafetyChecks }

func (s MachineSettings) EmptyGroupPolicy() EmptyGroupPolicy {
	return s.opts.EmptyGroupPolicy
}

// LineNumbering reports whether lines are numbered and how.
func (s MachineSettings) LineNumbering() (enabled bool, start, increment int) {
	return s.opts.LineNumbers, s.opts.LineNumberStart, s.opts.LineNumberIncrement
}

// CoordinateSystem picks the fixture offset for a workpiece of the given
// height. Heights above the threshold use the large system.
func (s MachineSettings) CoordinateSystem(height float64) (code string, large bool) {
	if height > s.opts.HeightThreshold {
		return s.opts.LargeCoordinateSystem, true
	}
	return s.opts.SmallCoordinateSystem, false
}

func (s MachineSettings) String() string {
	return fmt.Sprintf("feeds %g/%g approach %g safe Z %g spindle %d",
		s.opts.DrillingFeedRate, s.opts.RetractionFeedRate,
		s.opts.ApproachDistance, s.safeZ, s.opts.SpindleSpeed)
}
