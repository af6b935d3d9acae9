package fault_test

import (
	"errors"
	"fmt"
	"testing"

	"edgedrill/pkg/fault"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	err := fault.Lookup("match", "No exact diameter match found for %.1fmm tool with direction %d", 6.0, 5).
		With("diameter", 6.0).
		With("direction", "Z+")

	assert.Equal(t, "match: No exact diameter match found for 6.0mm tool with direction 5 [diameter=6 direction=Z+]", err.Error())
	assert.Equal(t, fault.KindLookup, err.Kind)
	assert.Equal(t, fault.SeverityError, err.Severity)
}

func TestWithDoesNotShareContext(t *testing.T) {
	base := fault.Validation("group", "bad point").With("a", 1)
	derived := base.With("b", 2)

	assert.Len(t, base.Context, 1)
	assert.Len(t, derived.Context, 2)
}

func TestAsThroughWrapping(t *testing.T) {
	cause := errors.New("open tools.csv: no such file")
	inner := fault.Configuration("settings", "safe Z missing").Wrap(cause)
	wrapped := fmt.Errorf("convert panel.dxf: %w", inner)

	got, ok := fault.As(wrapped)
	require.True(t, ok)
	assert.Equal(t, fault.KindConfiguration, got.Kind)
	assert.True(t, fault.IsKind(wrapped, fault.KindConfiguration))
	assert.False(t, fault.IsKind(wrapped, fault.KindLookup))
	assert.ErrorIs(t, wrapped, cause)
}

func TestWithPartial(t *testing.T) {
	err := fault.Validation("generate", "boom").WithPartial([]string{"G21"})
	assert.Equal(t, []string{"G21"}, err.Partial)
}

func TestNamedValues(t *testing.T) {
	assert.Equal(t, "validation", fault.KindValidation.String())
	assert.Equal(t, "warning", fault.SeverityWarning.String())
	text, err := fault.SeverityInfo.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "info", string(text))
}
