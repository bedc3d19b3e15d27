package scoringdomain

// StablefordPoints converts a net score on a hole into Stableford points.
// Three or more under par earns the maximum of 5; two or more over earns nothing.
func StablefordPoints(par, net int) int {
	switch diff := net - par; {
	case diff >= 2:
		return 0
	case diff == 1:
		return 1
	case diff == 0:
		return 2
	case diff == -1:
		return 3
	case diff == -2:
		return 4
	default:
		return 5
	}
}
