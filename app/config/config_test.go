package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		cfg, err := Parse([]byte(`
extraction:
  endpoint: http://127.0.0.1:8000/chat
`))
		require.NoError(t, err)

		assert.Equal(t, "127.0.0.1", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, ModeRemote, cfg.Extraction.Mode)
		assert.Equal(t, 30*time.Second, cfg.Extraction.Timeout())
	})

	t.Run("remote mode requires endpoint", func(t *testing.T) {
		_, err := Parse([]byte(`
extraction:
  mode: remote
`))
		assert.Error(t, err)
	})

	t.Run("builtin mode needs no endpoint", func(t *testing.T) {
		cfg, err := Parse([]byte(`
extraction:
  mode: builtin
`))
		require.NoError(t, err)
		assert.Equal(t, ModeBuiltin, cfg.Extraction.Mode)
	})

	t.Run("invalid mode rejected", func(t *testing.T) {
		_, err := Parse([]byte(`
extraction:
  mode: queued
  endpoint: http://127.0.0.1:8000/chat
`))
		assert.Error(t, err)
	})

	t.Run("explicit values kept", func(t *testing.T) {
		cfg, err := Parse([]byte(`
server:
  host: 0.0.0.0
  port: 9090
extraction:
  endpoint: https://extract.example.com/chat
  timeout_seconds: 5
`))
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, 5*time.Second, cfg.Extraction.Timeout())
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("extraction: ["))
		assert.Error(t, err)
	})
}
