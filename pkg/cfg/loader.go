package cfg

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"edgedrill/pkg/fault"
	"edgedrill/pkg/logging"
)

const envPrefix = "EDGEDRILL_"

// Config is everything the CLI reads before a run.
type Config struct {
	// Catalog is the tool catalog CSV.
	Catalog string `koanf:"catalog"`
	// Macro is the machine macro holding the safe Z constant.
	Macro             string         `koanf:"macro"`
	SafeZConstant     string         `koanf:"safe_z_constant"`
	TargetOrientation string         `koanf:"target_orientation"`
	OutputDir         string         `koanf:"output_dir"`
	Jobs              int            `koanf:"jobs"`
	Machine           MachineOptions `koanf:"machine"`
	Log               logging.Config `koanf:"log"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// flagKeys maps flag names that do not follow the kebab to snake rule.
var flagKeys = map[string]string{
	"log-level":         "log.level",
	"log-format":        "log.format",
	"approach-distance": "machine.approach_distance",
	"line-numbers":      "machine.line_numbers",
	"safety-checks":     "machine.safety_checks",
	"empty-groups":      "machine.empty_group_policy",
	"tolerance":         "machine.mismatch_tolerance",
	"target":            "target_orientation",
}

func defaults() map[string]any {
	m := DefaultMachineOptions()
	l := logging.DefaultConfig()
	return map[string]any{
		"catalog":                            "tool_data.csv",
		"macro":                              "m6start.m1s",
		"safe_z_constant":                    DefaultSafeZConstant,
		"target_orientation":                 "top-left",
		"output_dir":                         "",
		"jobs":                               4,
		"machine.drilling_feed_rate":         m.DrillingFeedRate,
		"machine.retraction_feed_rate":       m.RetractionFeedRate,
		"machine.approach_distance":          m.ApproachDistance,
		"machine.spindle_speed":              m.SpindleSpeed,
		"machine.workpiece_height_threshold": m.HeightThreshold,
		"machine.coordinate_system_large":    m.LargeCoordinateSystem,
		"machine.coordinate_system_small":    m.SmallCoordinateSystem,
		"machine.decimal_precision":          m.DecimalPrecision,
		"machine.mismatch_tolerance":         m.MismatchTolerance,
		"machine.empty_group_policy":         string(m.EmptyGroupPolicy),
		"machine.line_numbers":               m.LineNumbers,
		"machine.line_number_start":          m.LineNumberStart,
		"machine.line_number_increment":      m.LineNumberIncrement,
		"machine.safety_checks":              m.SafetyChecks,
		"log.level":                          l.Level,
		"log.format":                         l.Format,
		"log.output_path":                    l.OutputPath,
		"log.development":                    l.Development,
	}
}

// findConfigFile returns explicit, or edgedrill.yaml / edgedrill.yml in the
// working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"edgedrill.yaml", "edgedrill.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load reads configuration with precedence flags > environment > file >
// defaults. Only flags that were set on the command line count. Each call uses
// its own koanf instance.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// EDGEDRILL_MACHINE__APPROACH_DISTANCE -> machine.approach_distance
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	c.File = used
	if c.Jobs < 1 {
		c.Jobs = 1
	}
	return &c, nil
}

// MachineSettings reads the safe Z height from the machine macro and builds
// the immutable settings for a run.
func (c *Config) MachineSettings() (MachineSettings, error) {
	if c.Macro == "" {
		return MachineSettings{}, fault.Configuration(stageConfig, "machine macro path is not configured")
	}
	name := c.SafeZConstant
	if name == "" {
		name = DefaultSafeZConstant
	}
	z, err := ReadMacroConstant(c.Macro, name)
	if err != nil {
		return MachineSettings{}, err
	}
	opts := c.Machine
	opts.SafeZ = &z
	return NewMachineSettings(opts)
}
