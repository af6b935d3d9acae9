package cfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgedrill/pkg/fault"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func safeZ(z float64) *float64 {
	return &z
}

func TestNewMachineSettings(t *testing.T) {
	opts := DefaultMachineOptions()
	opts.SafeZ = safeZ(-10)
	s, err := NewMachineSettings(opts)
	require.NoError(t, err)

	assert.Equal(t, -10.0, s.SafeZ())
	assert.Equal(t, 300.0, s.DrillingFeedRate())
	assert.Equal(t, 1000.0, s.RetractionFeedRate())
	assert.Equal(t, 10.0, s.ApproachDistance())
	assert.Equal(t, 18000, s.SpindleSpeed())
	assert.Equal(t, EmptyGroupWarn, s.EmptyGroupPolicy())
	assert.Equal(t, "feeds 300/1000 approach 10 safe Z -10 spindle 18000", s.String())

	// later changes to the options do not leak into the settings
	*opts.SafeZ = 99
	assert.Equal(t, -10.0, s.SafeZ())
}

func TestNewMachineSettingsRequiresSafeZ(t *testing.T) {
	_, err := NewMachineSettings(DefaultMachineOptions())
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.KindConfiguration))
	assert.Contains(t, err.Error(), "safe Z height")
}

func TestNewMachineSettingsValidation(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*MachineOptions)
		errSubstr string
	}{
		{name: "drilling feed", modify: func(o *MachineOptions) { o.DrillingFeedRate = 0 }, errSubstr: "drilling feed rate"},
		{name: "approach", modify: func(o *MachineOptions) { o.ApproachDistance = -1 }, errSubstr: "approach distance"},
		{name: "precision", modify: func(o *MachineOptions) { o.DecimalPrecision = 9 }, errSubstr: "decimal precision"},
		{name: "policy", modify: func(o *MachineOptions) { o.EmptyGroupPolicy = "ignore" }, errSubstr: "empty group policy"},
		{name: "increment", modify: func(o *MachineOptions) {
			o.LineNumbers = true
			o.LineNumberIncrement = 0
		}, errSubstr: "line number increment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultMachineOptions()
			opts.SafeZ = safeZ(-10)
			tt.modify(&opts)
			_, err := NewMachineSettings(opts)
			require.Error(t, err)
			assert.True(t, fault.IsKind(err, fault.KindConfiguration))
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestCoordinateSystem(t *testing.T) {
	opts := DefaultMachineOptions()
	opts.SafeZ = safeZ(0)
	s, err := NewMachineSettings(opts)
	require.NoError(t, err)

	code, large := s.CoordinateSystem(700)
	assert.Equal(t, "G55", code)
	assert.True(t, large)

	code, large = s.CoordinateSystem(550)
	assert.Equal(t, "G56", code)
	assert.False(t, large)
}

func TestReadMacroConstant(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name      string
		content   string
		want      float64
		errSubstr string
	}{
		{
			name:    "plain",
			content: "' tool change macro\r\nConst TOOL_CHANGE_HEIGHT = -10.5\r\nConst OTHER = 3\r\n",
			want:    -10.5,
		},
		{
			name:    "trailing comment and case",
			content: "  const tool_change_height=42 ' mm above table\n",
			want:    42,
		},
		{
			name:      "missing",
			content:   "Const TOOL_CHANGE = 10\n",
			errSubstr: "not found",
		},
		{
			name:      "unparsable",
			content:   "Const TOOL_CHANGE_HEIGHT = high\n",
			errSubstr: "unparsable value \"high\"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name+".m1s", tt.content)
			got, err := ReadMacroConstant(path, DefaultSafeZConstant)
			if tt.errSubstr != "" {
				require.Error(t, err)
				assert.True(t, fault.IsKind(err, fault.KindConfiguration))
				assert.Contains(t, err.Error(), tt.errSubstr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ReadMacroConstant(filepath.Join(dir, "absent.m1s"), DefaultSafeZConstant)
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.KindConfiguration))
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	c, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "tool_data.csv", c.Catalog)
	assert.Equal(t, "m6start.m1s", c.Macro)
	assert.Equal(t, "top-left", c.TargetOrientation)
	assert.Equal(t, 4, c.Jobs)
	assert.Equal(t, DefaultMachineOptions(), c.Machine)
	assert.Equal(t, "info", c.Log.Level)
	assert.Empty(t, c.File)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, "edgedrill.yaml", `
catalog: shop/tools.csv
jobs: 2
machine:
  approach_distance: 12
  drilling_feed_rate: 250
  empty_group_policy: drop
log:
  level: debug
`)
	t.Setenv("EDGEDRILL_MACHINE__APPROACH_DISTANCE", "15")
	t.Setenv("EDGEDRILL_JOBS", "3")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("jobs", 4, "")
	flags.Float64("approach-distance", 10, "")
	flags.Bool("line-numbers", false, "")
	flags.String("log-level", "info", "")
	require.NoError(t, flags.Parse([]string{"--approach-distance=20", "--line-numbers"}))

	c, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "edgedrill.yaml", c.File)
	assert.Equal(t, "shop/tools.csv", c.Catalog)
	assert.Equal(t, 3, c.Jobs, "env overrides the file, unset flags do not override env")
	assert.Equal(t, 20.0, c.Machine.ApproachDistance, "flags override env")
	assert.Equal(t, 250.0, c.Machine.DrillingFeedRate)
	assert.Equal(t, EmptyGroupDrop, c.Machine.EmptyGroupPolicy)
	assert.True(t, c.Machine.LineNumbers)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestLoadBadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.yaml", "machine: [unclosed")
	_, err := Load(path, nil)
	assert.ErrorContains(t, err, "error reading config file")
}

func TestConfigMachineSettings(t *testing.T) {
	dir := t.TempDir()
	c := &Config{
		Macro:   writeFile(t, dir, "m6start.m1s", "Const TOOL_CHANGE_HEIGHT = -5\n"),
		Machine: DefaultMachineOptions(),
	}
	s, err := c.MachineSettings()
	require.NoError(t, err)
	assert.Equal(t, -5.0, s.SafeZ())

	c.Macro = ""
	_, err = c.MachineSettings()
	assert.True(t, fault.IsKind(err, fault.KindConfiguration))
}
