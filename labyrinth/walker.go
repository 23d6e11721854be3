package labyrinth

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Signal is the outcome of a single walker step.
type Signal int

const (
	Advance   Signal = iota // a move was carved
	DeadEnd                 // no carvable neighbour; the current cell was dropped
	Terminate               // nothing is left to walk from
)

func (s Signal) String() string {
	switch s {
	case Advance:
		return "advance"
	case DeadEnd:
		return "dead end"
	default:
		return "terminate"
	}
}

// BacktrackMode selects what the walker returns to after a dead end.
type BacktrackMode int

const (
	// LazyBacktrack stops pushing after the first dead end. Only cells of the
	// first path are revisited, each starting a fresh walk that is never pushed,
	// so the carved density varies from attempt to attempt.
	LazyBacktrack BacktrackMode = iota
	// FullBacktrack pushes every carved cell and carves a spanning tree over the
	// whole lattice. Every attempt on a grid size has the same density.
	FullBacktrack
)

func (m BacktrackMode) String() string {
	switch m {
	case LazyBacktrack:
		return "lazy"
	case FullBacktrack:
		return "full"
	default:
		return fmt.Sprintf("BacktrackMode(%d)", int(m))
	}
}

// ParseBacktrackMode parses the String form of a mode. The empty string selects LazyBacktrack.
func ParseBacktrackMode(s string) (BacktrackMode, error) {
	switch strings.ToLower(s) {
	case "", "lazy":
		return LazyBacktrack, nil
	case "full":
		return FullBacktrack, nil
	default:
		return 0, fmt.Errorf("%w: unknown backtrack mode %q", ErrInvalidConfiguration, s)
	}
}

// walker carves a grid depth first. While pushing, the top of the stack is the
// current cell. A lazy walker stops pushing at its first dead end and then
// drains the stack, walking from each popped cell until it is stuck.
type walker struct {
	grid    *Grid
	rng     *rand.Rand
	mode    BacktrackMode
	stack   []CellPosition
	scratch []Move
	steps   int

	draining bool         // lazy only, set by the first dead end
	walking  bool         // head is a live position while draining
	head     CellPosition // current cell while draining
}

func newWalker(g *Grid, rng *rand.Rand, mode BacktrackMode) *walker {
	return &walker{
		grid:    g,
		rng:     rng,
		mode:    mode,
		stack:   []CellPosition{g.Entrance()},
		scratch: make([]Move, 0, len(directions)),
	}
}

// step advances the traversal by one transition.
func (w *walker) step() Signal {
	if w.draining {
		return w.drain()
	}
	if len(w.stack) == 0 {
		return Terminate
	}
	w.steps++

	current := w.stack[len(w.stack)-1]
	move, ok := w.next(current)
	if !ok {
		pop(&w.stack)
		if w.mode == LazyBacktrack {
			w.draining = true
		}
		return DeadEnd
	}

	w.stack = append(w.stack, move.To)
	return Advance
}

func (w *walker) drain() Signal {
	if !w.walking {
		if len(w.stack) == 0 {
			return Terminate
		}
		w.head = pop(&w.stack)
		w.walking = true
	}
	w.steps++

	move, ok := w.next(w.head)
	if !ok {
		w.walking = false
		return DeadEnd
	}

	w.head = move.To
	return Advance
}

// next carves a random move out of pos, if any.
func (w *walker) next(pos CellPosition) (Move, bool) {
	w.scratch = w.grid.neighbors(pos, w.scratch)
	move, ok := pickMove(w.scratch, w.rng)
	if !ok {
		return Move{}, false
	}
	w.grid.carve(move.Through)
	w.grid.carve(move.To)
	return move, true
}

// run walks until Terminate and returns the number of steps taken.
func (w *walker) run() int {
	for w.step() != Terminate {
	}
	return w.steps
}

// pop removes and returns the last element of a stack of CellPositions.
func pop(s *[]CellPosition) CellPosition {
	lastIndex := len(*s) - 1
	popped := (*s)[lastIndex]
	*s = (*s)[:lastIndex]
	return popped
}
