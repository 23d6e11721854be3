package labyrinth

import "math/rand/v2"

// directions are the four carving steps, two cells along each axis.
var directions = [4]CellPosition{
	{X: 2, Z: 0},
	{X: -2, Z: 0},
	{X: 0, Z: 2},
	{X: 0, Z: -2},
}

// Move carves from one cell to another two steps away, opening Through on the way.
type Move struct {
	From    CellPosition
	Through CellPosition
	To      CellPosition
}

// neighbors appends every carvable move from pos to buf and returns it.
func (g *Grid) neighbors(pos CellPosition, buf []Move) []Move {
	buf = buf[:0]
	for _, d := range directions {
		to := pos.add(d)
		if !g.Carvable(to) {
			continue
		}
		buf = append(buf, Move{
			From:    pos,
			Through: CellPosition{X: pos.X + d.X/2, Z: pos.Z + d.Z/2},
			To:      to,
		})
	}
	return buf
}

// pickMove chooses one of moves uniformly. ok is false at a dead end.
func pickMove(moves []Move, rng *rand.Rand) (move Move, ok bool) {
	if len(moves) == 0 {
		return Move{}, false
	}
	return moves[rng.IntN(len(moves))], true
}
