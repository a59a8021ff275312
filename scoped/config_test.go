package scoped

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/AikidoSec/scopedtls-go/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	original := log.Logger()
	t.Cleanup(func() {
		log.SetLogger(original)
		_ = log.SetLogLevel("ERROR")
	})

	t.Run("nil config", func(t *testing.T) {
		assert.NoError(t, Configure(nil))
	})

	t.Run("invalid log level", func(t *testing.T) {
		assert.ErrorIs(t, Configure(&Config{LogLevel: "LOUD"}), log.ErrInvalidLevel)
	})

	t.Run("invalid log format", func(t *testing.T) {
		assert.Error(t, Configure(&Config{LogFormat: "xml"}))
	})

	t.Run("custom logger receives key events", func(t *testing.T) {
		var buf bytes.Buffer
		h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
		require.NoError(t, Configure(&Config{Debug: true, Logger: slog.New(h)}))

		key := Declare[int]("configured")
		assert.Contains(t, buf.String(), "Declared scoped key")
		assert.Contains(t, buf.String(), "key=configured")
		assert.Contains(t, buf.String(), "lib=scopedtls")

		buf.Reset()
		assert.Panics(t, func() { key.Get() })
		assert.Contains(t, buf.String(), "level=ERROR")
		assert.Contains(t, buf.String(), "key=configured")
	})
}
