package scoringdomain

import (
	"fmt"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

const (
	// RoundLength is the number of holes in a scored round.
	RoundLength = 15

	// ReferenceHoleCount is how many holes the operator samples for the allowance.
	ReferenceHoleCount = 10
)

// Hole is one row of the round definition.
type Hole struct {
	Number         int `json:"hole"`
	Par            int `json:"par"`
	DifficultyRank int `json:"difficulty_rank"` // 1 = hardest
}

// RoundDefinition is the validated, immutable course layout for one tournament run.
type RoundDefinition struct {
	holes []Hole
}

// NewRoundDefinition validates holes and returns a RoundDefinition.
// Holes must be exactly RoundLength long, in hole order, with pars >= 1 and
// difficulty ranks forming a permutation of 1..RoundLength.
func NewRoundDefinition(holes []Hole) (RoundDefinition, error) {
	if err := validateHoles(holes); err != nil {
		return RoundDefinition{}, err
	}

	seen := make([]bool, RoundLength+1)
	for _, h := range holes {
		if seen[h.DifficultyRank] {
			return RoundDefinition{}, structuralf("difficulty_rank",
				"rank %d assigned to more than one hole (hole %d)", h.DifficultyRank, h.Number)
		}
		seen[h.DifficultyRank] = true
	}

	return RoundDefinition{holes: slices.Clone(holes)}, nil
}

// NewRoundDefinitionRelaxed is NewRoundDefinition without the permutation check.
// Duplicate ranks are allowed; stroke allocation then breaks ties by hole number.
func NewRoundDefinitionRelaxed(holes []Hole) (RoundDefinition, error) {
	if err := validateHoles(holes); err != nil {
		return RoundDefinition{}, err
	}
	return RoundDefinition{holes: slices.Clone(holes)}, nil
}

func validateHoles(holes []Hole) error {
	if len(holes) != RoundLength {
		return structuralf("holes", "expected %d holes, got %d", RoundLength, len(holes))
	}
	for i, h := range holes {
		if h.Number != i+1 {
			return structuralf("hole", "row %d has hole number %d, expected %d", i+1, h.Number, i+1)
		}
		if h.Par < 1 {
			return structuralf("par", "hole %d has par %d", h.Number, h.Par)
		}
		if h.DifficultyRank < 1 || h.DifficultyRank > RoundLength {
			return structuralf("difficulty_rank", "hole %d has rank %d, must be 1..%d",
				h.Number, h.DifficultyRank, RoundLength)
		}
	}
	return nil
}

// Holes returns a copy of the holes in hole order.
func (d RoundDefinition) Holes() []Hole {
	return slices.Clone(d.holes)
}

// Len returns the number of holes; zero for an unset definition.
func (d RoundDefinition) Len() int {
	return len(d.holes)
}

// Pars returns the par of every hole in hole order.
func (d RoundDefinition) Pars() []int {
	pars := make([]int, len(d.holes))
	for i, h := range d.holes {
		pars[i] = h.Par
	}
	return pars
}

// DifficultyRanks returns the difficulty rank of every hole in hole order.
func (d RoundDefinition) DifficultyRanks() []int {
	ranks := make([]int, len(d.holes))
	for i, h := range d.holes {
		ranks[i] = h.DifficultyRank
	}
	return ranks
}

// ReferenceHoleSet is the operator's sample of holes used for allowance estimation.
type ReferenceHoleSet struct {
	set mapset.Set[int]
}

// NewReferenceHoleSet requires exactly ReferenceHoleCount distinct holes within 1..RoundLength.
func NewReferenceHoleSet(holes []int) (ReferenceHoleSet, error) {
	set := mapset.NewThreadUnsafeSet[int]()
	for _, h := range holes {
		if h < 1 || h > RoundLength {
			return ReferenceHoleSet{}, &SelectionError{
				Holes:  slices.Clone(holes),
				Reason: fmt.Sprintf("hole %d is outside 1..%d", h, RoundLength),
			}
		}
		if !set.Add(h) {
			return ReferenceHoleSet{}, &SelectionError{
				Holes:  slices.Clone(holes),
				Reason: fmt.Sprintf("hole %d selected more than once", h),
			}
		}
	}
	if set.Cardinality() != ReferenceHoleCount {
		return ReferenceHoleSet{}, &SelectionError{
			Holes:  slices.Clone(holes),
			Reason: fmt.Sprintf("select exactly %d holes, got %d", ReferenceHoleCount, set.Cardinality()),
		}
	}
	return ReferenceHoleSet{set: set}, nil
}

// Holes returns the selected hole numbers in ascending order.
func (r ReferenceHoleSet) Holes() []int {
	if r.set == nil {
		return nil
	}
	holes := r.set.ToSlice()
	slices.Sort(holes)
	return holes
}

// Contains reports whether hole is one of the reference holes.
func (r ReferenceHoleSet) Contains(hole int) bool {
	return r.set != nil && r.set.Contains(hole)
}

// Len returns the number of reference holes.
func (r ReferenceHoleSet) Len() int {
	if r.set == nil {
		return 0
	}
	return r.set.Cardinality()
}
