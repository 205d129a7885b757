package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fraudscope.log")
	log, err := New("info", path)
	require.NoError(t, err)

	log.Infow("rules loaded", "count", 3)
	log.Debugw("hidden at info")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "rules loaded")
	require.Contains(t, string(data), `"count":3`)
	require.NotContains(t, string(data), "hidden at info")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("loud", "")
	require.Error(t, err)
}

func TestOrNop(t *testing.T) {
	require.NotNil(t, OrNop(nil))
	l := Nop()
	require.Same(t, l, OrNop(l))
}
