package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := New()
	r.PointsExtracted.WithLabelValues("X+").Add(3)
	r.Conversion(nil)
	r.Conversion(nil)
	r.Conversion(errors.New("boom"))
	r.Time("extract", time.Now())

	assert.Equal(t, 3.0, testutil.ToFloat64(r.PointsExtracted.WithLabelValues("X+")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.Conversions.WithLabelValues(ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Conversions.WithLabelValues(ResultFailed)))
	assert.Equal(t, 1, testutil.CollectAndCount(r.StageDuration))
}

func TestRecordersAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Lines.Add(10)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Lines))
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.Lines.Add(42)
	path := filepath.Join(t.TempDir(), "edgedrill.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "edgedrill_gcode_lines_total 42")
}
