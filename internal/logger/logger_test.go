package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitDisabledDiscards(t *testing.T) {
	var out bytes.Buffer
	Init(Options{Enabled: false, Writer: &out})
	Warn("flags recomputed", "cell", 3)
	require.Zero(t, out.Len())
}

func TestInitText(t *testing.T) {
	var out bytes.Buffer
	Init(Options{Enabled: true, Writer: &out})
	t.Cleanup(func() { Init(Options{}) })

	Debug("hidden")
	Warn("flags recomputed", "cell", 3)
	require.NotContains(t, out.String(), "hidden")
	require.Contains(t, out.String(), "flags recomputed")
	require.Contains(t, out.String(), "cell=3")
}

func TestInitJSONLevel(t *testing.T) {
	var out bytes.Buffer
	Init(Options{Enabled: true, Writer: &out, JSON: true, Level: slog.LevelDebug})
	t.Cleanup(func() { Init(Options{}) })

	Debug("walk", "depth", 2)
	require.Contains(t, out.String(), `"msg":"walk"`)
	require.Contains(t, out.String(), `"depth":2`)
}
