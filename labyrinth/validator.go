package labyrinth

// DefaultMinOpenRatio is the free-cell ratio an attempt must reach to be accepted.
const DefaultMinOpenRatio = 0.535

// Validator accepts grids whose free-cell ratio reaches MinOpenRatio.
//
// Free cells are the carved cells plus the sealed perimeter, which the walker
// never enters. The check is a density proxy only: it does not prove that every
// open cell is reachable from the entrance.
type Validator struct {
	MinOpenRatio float64
}

// Ratio returns the free-cell ratio of g.
func (v Validator) Ratio(g *Grid) float64 {
	return float64(g.FreeCount()) / float64(g.Cells())
}

// Accept reports whether g is dense enough.
func (v Validator) Accept(g *Grid) bool {
	return float64(g.FreeCount()) >= float64(g.Cells())*v.MinOpenRatio
}
