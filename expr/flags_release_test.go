//go:build !symkitdebug

package expr

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/symkit/internal/format"
	"github.com/joshuapare/symkit/internal/logger"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var out bytes.Buffer
	logger.Init(logger.Options{Enabled: true, Writer: &out, Level: slog.LevelWarn})
	t.Cleanup(func() { logger.Init(logger.Options{}) })
	return &out
}

// TestFromCells_RecomputesStaleFlags tests that untrusted flag caches are
// rewritten on ingest.
func TestFromCells_RecomputesStaleFlags(t *testing.T) {
	log := captureLog(t)
	var b Builder
	good := sumXTwoY(t, &b)
	cells := good.Cells()
	format.SetFlags(cells, FlagNumeric|FlagNegative)
	format.SetFlags(format.At(cells, 2), FlagNone) // product header

	e, err := FromCells(cells)
	require.NoError(t, err)
	require.True(t, e.Equal(good))
	require.Contains(t, log.String(), "spans=2")
	require.Contains(t, log.String(), "first_cell=0")
}

func TestCheckedFlags_Recomputes(t *testing.T) {
	log := captureLog(t)
	var b Builder
	cells := b.SmallInt(5).Cells()
	format.SetFlags(cells, FlagNegative)

	v, err := ViewOf(cells, nil)
	require.NoError(t, err)
	require.Equal(t, FlagNegative, v.Flags())
	require.Equal(t, FlagNumeric|FlagReal|FlagExact|FlagPositive, v.CheckedFlags())
	require.Contains(t, log.String(), "stale flag cache")
}
