package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	assert.Error(t, err)
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	_, err := New(Config{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preflight.log")

	log, err := New(Config{Level: "debug", Format: "json", FilePath: path})
	require.NoError(t, err)

	log.Named("test").Info("hello", String("station", "CYUL"), Float64("alt", 118))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"station":"CYUL"`)
	assert.Contains(t, string(data), `"logger":"test"`)
}

func TestNop(t *testing.T) {
	log := NewNop()
	log.Named("x").Error("ignored", Error(os.ErrNotExist))
}
