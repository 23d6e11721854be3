package labyrinth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var modes = []BacktrackMode{LazyBacktrack, FullBacktrack}

func TestWalkerNeverClosesCells(t *testing.T) {
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			g, err := NewGrid(18, 28, CellPosition{X: 9, Z: 2})
			require.NoError(t, err)

			w := newWalker(g, NewRand(7), mode)
			prev := g.Clone()
			for {
				signal := w.step()
				for i, s := range prev.cells {
					if s == Open {
						require.Equal(t, Open, g.cells[i], "cell %d reverted after %s", i, signal)
					}
				}
				if signal == Terminate {
					break
				}
				prev = g.Clone()
			}
		})
	}
}

func TestWalkerTerminates(t *testing.T) {
	sizes := []struct {
		width, length int
		entrance      CellPosition
	}{
		{5, 5, CellPosition{X: 1, Z: 1}},
		{18, 28, CellPosition{X: 9, Z: 2}},
		{17, 9, CellPosition{X: 0, Z: 3}},
		{64, 64, CellPosition{X: 31, Z: 31}},
	}

	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			for _, size := range sizes {
				g, err := NewGrid(size.width, size.length, size.entrance)
				require.NoError(t, err)

				w := newWalker(g, NewRand(3), mode)
				steps := w.run()

				assert.Empty(t, w.stack)
				assert.LessOrEqual(t, steps, 2*g.Cells(), "%dx%d", size.width, size.length)
				assert.Equal(t, Terminate, w.step())
			}
		})
	}
}

func TestWalkerSignals(t *testing.T) {
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			g, err := NewGrid(5, 5, CellPosition{X: 1, Z: 1})
			require.NoError(t, err)

			w := newWalker(g, NewRand(11), mode)
			assert.Equal(t, Advance, w.step(), "entrance has carvable neighbours")

			var signals []Signal
			for {
				s := w.step()
				signals = append(signals, s)
				if s == Terminate {
					break
				}
			}

			// (1,1),(1,3),(3,1),(3,3) form the lattice: the first path covers it
			// in three advances, then each of the four cells ends in a dead end.
			advances, deadEnds := 1, 0
			for _, s := range signals {
				switch s {
				case Advance:
					advances++
				case DeadEnd:
					deadEnds++
				}
			}
			assert.Equal(t, 3, advances)
			assert.Equal(t, 4, deadEnds)
			assert.Equal(t, 7, g.OpenCount())
		})
	}
}

func TestWalkerCarvesWholeLattice(t *testing.T) {
	g, err := NewGrid(18, 28, CellPosition{X: 9, Z: 2})
	require.NoError(t, err)

	newWalker(g, NewRand(99), FullBacktrack).run()

	for x := 1; x < g.Width(); x += 2 {
		for z := 2; z < g.Length(); z += 2 {
			assert.True(t, g.IsOpen(CellPosition{X: x, Z: z}), "lattice cell (%d,%d)", x, z)
		}
	}
	// a spanning tree over 9*13 lattice cells
	assert.Equal(t, 2*9*13-1, g.OpenCount())
}

func TestWalkerLazyBacktrack(t *testing.T) {
	t.Run("stack only shrinks after the first dead end", func(t *testing.T) {
		g, err := NewGrid(18, 28, CellPosition{X: 9, Z: 2})
		require.NoError(t, err)

		w := newWalker(g, NewRand(5), LazyBacktrack)
		for w.step() != DeadEnd {
		}
		depth := len(w.stack)
		for w.step() != Terminate {
			require.LessOrEqual(t, len(w.stack), depth)
			depth = len(w.stack)
		}
	})

	t.Run("carving stays connected and density varies", func(t *testing.T) {
		counts := make(map[int]int)
		for seed := uint64(0); seed < 20; seed++ {
			g, err := NewGrid(18, 28, CellPosition{X: 9, Z: 2})
			require.NoError(t, err)

			newWalker(g, NewRand(seed), LazyBacktrack).run()

			assert.LessOrEqual(t, g.OpenCount(), 2*9*13-1, "seed %d", seed)
			assert.Equal(t, g.OpenCount(), reachable(g), "seed %d", seed)
			counts[g.OpenCount()]++
		}
		assert.Greater(t, len(counts), 1, "open counts %v", counts)
	})
}

func TestParseBacktrackMode(t *testing.T) {
	for _, mode := range modes {
		parsed, err := ParseBacktrackMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, parsed)
	}

	parsed, err := ParseBacktrackMode("")
	require.NoError(t, err)
	assert.Equal(t, LazyBacktrack, parsed)

	_, err = ParseBacktrackMode("sometimes")
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))
}

// reachable counts the open cells connected to the entrance.
func reachable(g *Grid) int {
	seen := map[CellPosition]bool{g.Entrance(): true}
	queue := []CellPosition{g.Entrance()}
	steps := []CellPosition{{X: 1}, {X: -1}, {Z: 1}, {Z: -1}}
	for len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]
		for _, d := range steps {
			next := pos.add(d)
			if g.IsOpen(next) && !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return len(seen)
}
