package parsers

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// CSVParser parses CSV scorecard files
type CSVParser struct{}

// NewCSVParser creates a new CSV parser
func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

// Parse reads comma, semicolon or tab separated scorecards in the same layout as the
// XLSX sheet.
func (p *CSVParser) Parse(data []byte) (*ParsedScorecard, error) {
	cleaned, delimiter, err := preprocessCSVData(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(cleaned))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV: %v", ErrUnreadable, err)
	}

	return parseRows(rows)
}
