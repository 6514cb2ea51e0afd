package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/quizfeed/internal/config"
)

func TestSetupWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "quizfeed.log")

	done, err := Setup(config.LogConfig{Level: "debug", Path: path})
	require.NoError(t, err)
	zap.L().Debug("feed parsed", zap.String("stage", "repair"))
	done()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"feed parsed"`)
	assert.Contains(t, string(data), `"stage":"repair"`)
}

func TestLevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quizfeed.log")

	done, err := Setup(config.LogConfig{Level: "warn", Path: path})
	require.NoError(t, err)
	zap.L().Info("hidden")
	zap.L().Warn("shown")
	done()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestBadLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud", Path: filepath.Join(t.TempDir(), "x.log")})
	assert.Error(t, err)
}

func TestPathDefaultsToDataDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	p, err := Path(config.LogConfig{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "quizfeed", fileName), p)
}
