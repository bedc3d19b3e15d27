package parsers

import (
	"fmt"
	"strconv"
	"strings"

	scoringdomain "github.com/Black-And-White-Club/peoria-stableford/app/modules/scoring/domain"
)

// ParseHoleList reads a reference hole selection such as "1,3,4,6" or "1 3 4 6".
// Count and range are checked later by scoringdomain.NewReferenceHoleSet.
func ParseHoleList(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})

	holes := make([]int, 0, len(fields))
	for _, f := range fields {
		h, err := strconv.Atoi(f)
		if err != nil {
			return nil, &scoringdomain.SelectionError{
				Holes:  holes,
				Reason: fmt.Sprintf("hole %q is not a number", f),
			}
		}
		holes = append(holes, h)
	}
	return holes, nil
}
