package logutils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "quizdeck.log")

	logger, closer, err := New("info", file)
	require.NoError(t, err)
	logger.Debug().Msg("hidden")
	logger.Info().Msg("first")
	closer()

	logger, closer, err = New("info", file)
	require.NoError(t, err)
	logger.Info().Msg("second")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2, "runs append and debug is filtered")
	assert.Contains(t, lines[0], `"message":"first"`)
	assert.Contains(t, lines[1], `"message":"second"`)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New("loud", "")
	assert.Error(t, err)
}
