package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	t.Run("writes prefix and level", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New("LABYRINTH", "\033[36m", &buf)
		require.NoError(t, err)

		l.Info("generated")
		l.Warning("slow attempt")
		l.Error("exhausted")

		out := buf.String()
		assert.Contains(t, out, "[LABYRINTH]")
		assert.Contains(t, out, "[INFO]\033[0m generated")
		assert.Contains(t, out, "[WARNING]\033[0m slow attempt")
		assert.Contains(t, out, "[ERROR]\033[0m exhausted")
	})

	t.Run("rejects empty prefix", func(t *testing.T) {
		_, err := New("", "", &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrEmptyPrefix)
	})

	t.Run("rejects nil writer", func(t *testing.T) {
		_, err := New("APP", "", nil)
		assert.ErrorIs(t, err, ErrNilWriter)
	})
}
