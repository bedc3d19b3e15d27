package scoringdomain

import (
	"cmp"
	"slices"
)

// StrokeMap holds the handicap strokes given on each hole, in hole order.
type StrokeMap []int

// Total returns the number of strokes allocated across all holes.
func (m StrokeMap) Total() int {
	total := 0
	for _, s := range m {
		total += s
	}
	return total
}

// AllocateStrokes spreads total strokes across holes by difficulty rank.
//
// Every hole receives total / len(ranks) strokes. The remaining total % len(ranks)
// strokes go one each to the hardest holes (lowest rank). Equal ranks are ordered by
// hole position so the result is deterministic for relaxed definitions.
func AllocateStrokes(total int, ranks []int) (StrokeMap, error) {
	n := len(ranks)
	if n == 0 {
		return nil, structuralf("difficulty_rank", "no holes to allocate strokes to")
	}
	if total < 0 {
		return nil, inputf("", "allowance", "cannot allocate %d strokes", total)
	}

	base, remainder := total/n, total%n

	strokes := make(StrokeMap, n)
	for i := range strokes {
		strokes[i] = base
	}
	if remainder == 0 {
		return strokes, nil
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(ranks[a], ranks[b])
	})

	for _, idx := range order[:remainder] {
		strokes[idx]++
	}

	return strokes, nil
}
