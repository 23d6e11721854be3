package pb

import (
	"context"
	"errors"
	"testing"

	"github.com/beka-birhanu/vinom-labyrinth/labyrinth"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestProtobufLabyrinth(t *testing.T) {
	cfg := labyrinth.DefaultConfig()
	cfg.Seed = 42
	res, err := labyrinth.Generate(context.Background(), cfg)
	require.NoError(t, err)

	p := &Protobuf{}

	t.Run("encoded labyrinth decodes to the same grid", func(t *testing.T) {
		b, err := p.MarshalLabyrinth(res)
		require.NoError(t, err)

		decoded, err := p.UnmarshalLabyrinth(b)
		require.NoError(t, err)

		if diff := cmp.Diff(res.Grid.String(), decoded.Grid.String()); diff != "" {
			t.Errorf("grid mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, res.Placements, decoded.Placements)
		assert.Equal(t, res.Attempts, decoded.Attempts)
		assert.Equal(t, res.Seed, decoded.Seed)
	})

	t.Run("unknown fields are skipped", func(t *testing.T) {
		b, err := p.MarshalLabyrinth(res)
		require.NoError(t, err)
		b = protowire.AppendTag(b, 99, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, 7)

		_, err = p.UnmarshalLabyrinth(b)
		assert.NoError(t, err)
	})

	t.Run("truncated payload", func(t *testing.T) {
		b, err := p.MarshalLabyrinth(res)
		require.NoError(t, err)

		_, err = p.UnmarshalLabyrinth(b[:len(b)/2])
		assert.True(t, errors.Is(err, ErrInvalidProtobufMessage), "got %v", err)
	})

	t.Run("oversized dimensions", func(t *testing.T) {
		var b []byte
		b = appendVarint(b, labyrinthWidth, 1<<40)
		b = appendVarint(b, labyrinthLength, 1<<40)
		b = protowire.AppendTag(b, labyrinthEntrance, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalPosition(labyrinth.CellPosition{X: 1, Z: 1}))

		_, err := p.UnmarshalLabyrinth(b)
		assert.True(t, errors.Is(err, ErrInvalidProtobufMessage), "got %v", err)
		assert.True(t, errors.Is(err, labyrinth.ErrInvalidConfiguration), "got %v", err)
	})

	t.Run("nil result", func(t *testing.T) {
		_, err := p.MarshalLabyrinth(nil)
		assert.True(t, errors.Is(err, ErrInvalidProtobufMessage))
	})
}
