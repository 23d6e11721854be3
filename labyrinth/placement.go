package labyrinth

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// SamplingMode selects how placements are drawn from the candidate set.
type SamplingMode int

const (
	WithoutReplacement SamplingMode = iota // every placement is a distinct candidate
	WithReplacement                        // indices are redrawn freely, duplicates possible
)

func (m SamplingMode) String() string {
	switch m {
	case WithoutReplacement:
		return "without_replacement"
	case WithReplacement:
		return "with_replacement"
	default:
		return fmt.Sprintf("SamplingMode(%d)", int(m))
	}
}

// ParseSamplingMode parses the String form of a mode. The empty string selects WithoutReplacement.
func ParseSamplingMode(s string) (SamplingMode, error) {
	switch strings.ToLower(s) {
	case "", "without_replacement":
		return WithoutReplacement, nil
	case "with_replacement":
		return WithReplacement, nil
	default:
		return 0, fmt.Errorf("%w: unknown sampling mode %q", ErrInvalidConfiguration, s)
	}
}

// PlacementCandidates returns every interior position where a two-cell item fits:
// the cell and its +X neighbour are both open. Positions are ordered by X then Z.
func PlacementCandidates(g *Grid) []CellPosition {
	var candidates []CellPosition
	for x := 1; x < g.width-2; x++ {
		for z := 1; z < g.length-1; z++ {
			pos := CellPosition{X: x, Z: z}
			if g.IsOpen(pos) && g.IsOpen(CellPosition{X: x + 1, Z: z}) {
				candidates = append(candidates, pos)
			}
		}
	}
	return candidates
}

// SamplePlacements draws between 1 and min(maxItems, candidates) positions from
// the placement candidates of g. It returns nil when nothing can be placed.
func SamplePlacements(g *Grid, maxItems int, mode SamplingMode, rng *rand.Rand) []CellPosition {
	candidates := PlacementCandidates(g)
	limit := min(maxItems, len(candidates))
	if limit <= 0 {
		return nil
	}
	n := 1 + rng.IntN(limit)

	placements := make([]CellPosition, 0, n)
	if mode == WithReplacement {
		for range n {
			placements = append(placements, candidates[rng.IntN(len(candidates))])
		}
		return placements
	}

	// partial Fisher-Yates over the candidate slice, which is ours to reorder
	for i := range n {
		j := i + rng.IntN(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
		placements = append(placements, candidates[i])
	}
	return placements
}
