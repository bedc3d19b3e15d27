package parsers

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// findColumn searches for a column by multiple possible names (case-insensitive)
// Removes spaces, underscores, and hyphens for normalization
func findColumn(header []string, possibleNames []string) int {
	for i, col := range header {
		colNorm := normalizeHeader(col)
		if colNorm == "" {
			continue
		}
		for _, name := range possibleNames {
			if colNorm == normalizeHeader(name) {
				return i
			}
		}
	}
	return -1
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// cell returns row[idx] trimmed, or "" when the row is short.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func allBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseWholeNumber accepts "4" and spreadsheet-formatted whole numbers such as "4.0".
func parseWholeNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("non-numeric value: %q", s)
	}
	return int(f), nil
}

func trimTrailingEmptyRows(rows [][]string) [][]string {
	for len(rows) > 0 && allBlank(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

// preprocessCSVData cleans CSV data and auto-detects delimiter
// Returns: cleaned string, delimiter rune, error
func preprocessCSVData(data []byte) (string, rune, error) {
	if len(data) == 0 {
		return "", ',', fmt.Errorf("%w: empty CSV data", ErrUnreadable)
	}

	// Strip UTF-8 BOM if present (0xEF, 0xBB, 0xBF)
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	cleaned := string(bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n")))

	// Auto-detect delimiter: count commas, semicolons and tabs in the first 5 lines
	lines := strings.SplitN(cleaned, "\n", 6)
	sample := lines[:min(5, len(lines))]

	counts := map[rune]int{}
	for _, line := range sample {
		counts[','] += strings.Count(line, ",")
		counts[';'] += strings.Count(line, ";")
		counts['\t'] += strings.Count(line, "\t")
	}

	delimiter := ','
	for _, d := range []rune{';', '\t'} {
		if counts[d] > counts[delimiter] {
			delimiter = d
		}
	}

	return cleaned, delimiter, nil
}
