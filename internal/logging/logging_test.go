package logging

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paligo/taxonomy/internal/config"
)

func TestSetup(t *testing.T) {
	t.Cleanup(func() {
		log.SetLevel(log.InfoLevel)
		log.SetFormatter(&log.TextFormatter{})
		log.SetOutput(os.Stderr)
	})

	err := Setup(config.LogConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)

	err = Setup(config.LogConfig{
		Level:   "warn",
		File:    filepath.Join(t.TempDir(), "import.log"),
		MaxSize: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, log.WarnLevel, log.GetLevel())
}

func TestSetupRejectsBadInput(t *testing.T) {
	require.Error(t, Setup(config.LogConfig{Level: "loud"}))
	require.Error(t, Setup(config.LogConfig{Level: "info", Format: "xml"}))
}
