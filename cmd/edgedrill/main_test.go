package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgedrill/pkg/fault"
)

func testdata(t *testing.T, name string) string {
	t.Helper()
	p, err := filepath.Abs(filepath.Join("..", "..", "pkg", "pipeline", "testdata", name))
	require.NoError(t, err)
	return p
}

// run executes the CLI against the pipeline fixtures.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	base := []string{
		"--catalog", testdata(t, "tools.csv"),
		"--macro", testdata(t, "m6start.m1s"),
		"--no-color",
		"--log-level", "error",
	}

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args[:1:1], append(base, args[1:]...)...))
	err := cmd.Execute()
	return out.String(), err
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "report.yaml")
	prom := filepath.Join(dir, "edgedrill.prom")
	out, err := run(t, "convert",
		"--output-dir", filepath.Join(dir, "nc"),
		"--report", report,
		"--metrics-file", prom,
		testdata(t, "panel.dxf"))
	require.NoError(t, err, out)

	got, err := os.ReadFile(filepath.Join(dir, "nc", "panel.nc"))
	require.NoError(t, err)
	want, err := os.ReadFile(testdata(t, "panel.nc"))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))

	assert.Contains(t, out, "ok "+testdata(t, "panel.dxf"))
	assert.Contains(t, out, "skip EDGE.DRILL_D8.0: missing depth in layer name")
	assert.Contains(t, out, "8.00mm Y-")

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), "conversions:")
	assert.Contains(t, string(data), "program: panel")

	data, err = os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), `edgedrill_conversions_total{result="ok"} 1`)
}

func TestConvertContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "convert", "-o", dir, "-j", "1",
		filepath.Join(dir, "missing.dxf"),
		testdata(t, "panel.dxf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 conversions failed")
	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, out, "FAIL "+filepath.Join(dir, "missing.dxf"))
	assert.FileExists(t, filepath.Join(dir, "panel.nc"))
}

func TestConvertConfigurationFailure(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "convert", "-o", dir, "--macro", filepath.Join(dir, "absent.m1s"), testdata(t, "panel.dxf"))
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.KindConfiguration))
	assert.Equal(t, 2, exitCode(err))
	assert.NoFileExists(t, filepath.Join(dir, "panel.nc"), "no program is written on configuration errors")

	_, err = run(t, "convert", "-o", dir, "--target", "sideways", testdata(t, "panel.dxf"))
	assert.Equal(t, 2, exitCode(err))
}

func TestConvertWithLineNumbers(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "convert", "-o", dir, "--line-numbers", testdata(t, "panel.dxf"))
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(dir, "panel.nc"))
	require.NoError(t, err)
	assert.Contains(t, string(got), "N1 G21 (Set units to mm)\n")
}

func TestTools(t *testing.T) {
	out, err := run(t, "tools")
	require.NoError(t, err)
	assert.Contains(t, out, "10mm edge drill X+")
	assert.Contains(t, out, "(3 tools)")
}

func TestVersion(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "edgedrill v"+Version+"\n", out.String())
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(fault.Configuration("config", "bad")))
	assert.Equal(t, 1, exitCode(fault.Validation("extract", "bad")))
	assert.Equal(t, 1, exitCode(errors.New("plain")))
}
