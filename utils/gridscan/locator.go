package gridscan

import (
	"regexp"
	"strconv"
	"strings"
)

// Grid is the normalized row/cell representation produced by a document
// adapter. Rows may be ragged; all lookups tolerate short rows.
type Grid [][]string

// LabeledValue is the result of a locate-and-extract operation. A value is
// either found or not; there is no partial confidence.
type LabeledValue struct {
	Found     bool    `json:"found"`
	Value     float64 `json:"value"`
	SourceRow int     `json:"source_row"`
}

// Absent returns the not-found sentinel.
func Absent() LabeledValue {
	return LabeledValue{SourceRow: -1}
}

var numberPattern = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)

// FindNumberAfterPhrase scans rows in order, concatenating all cell texts of
// each row into one case-folded search string. On the first row containing
// phrase, it collects every numeric token from that string (thousands
// separators stripped first) and returns the token at the given zero-based
// index. Absent if no row matches or the index is out of range.
func FindNumberAfterPhrase(grid Grid, phrase string, index int) LabeledValue {
	phrase = strings.ToLower(phrase)

	for rowIdx, row := range grid {
		joined := joinRow(row)
		if !strings.Contains(joined, phrase) {
			continue
		}

		tokens := numberPattern.FindAllString(stripThousands(joined), -1)
		if index < 0 || index >= len(tokens) {
			return Absent()
		}
		value, err := strconv.ParseFloat(tokens[index], 64)
		if err != nil {
			return Absent()
		}
		return LabeledValue{Found: true, Value: value, SourceRow: rowIdx}
	}

	return Absent()
}

// FindAdjacentNumber scans cells in row order looking for one whose
// case-folded text contains phrase, then parses the next cell of the same
// row as a number. Absent if the phrase never matches, the matched cell is
// the last in its row, or the adjacent cell does not parse.
func FindAdjacentNumber(grid Grid, phrase string) LabeledValue {
	phrase = strings.ToLower(phrase)

	for rowIdx, row := range grid {
		for cellIdx, cell := range row {
			if !strings.Contains(strings.ToLower(cell), phrase) {
				continue
			}
			if cellIdx+1 >= len(row) {
				return Absent()
			}
			value, ok := ParseNumber(row[cellIdx+1])
			if !ok {
				return Absent()
			}
			return LabeledValue{Found: true, Value: value, SourceRow: rowIdx}
		}
	}

	return Absent()
}

// FindNumberBelowPhrase matches rows the same way as FindNumberAfterPhrase
// but reads the value from a fixed column of the row below the match.
// Absent if the matching row is the last row or the column is out of range.
func FindNumberBelowPhrase(grid Grid, phrase string, col int) LabeledValue {
	phrase = strings.ToLower(phrase)

	for rowIdx, row := range grid {
		if !strings.Contains(joinRow(row), phrase) {
			continue
		}
		if rowIdx+1 >= len(grid) {
			return Absent()
		}
		below := grid[rowIdx+1]
		if col < 0 || col >= len(below) {
			return Absent()
		}
		value, ok := ParseNumber(below[col])
		if !ok {
			return Absent()
		}
		return LabeledValue{Found: true, Value: value, SourceRow: rowIdx + 1}
	}

	return Absent()
}

func joinRow(row []string) string {
	var b strings.Builder
	for _, cell := range row {
		b.WriteString(strings.ToLower(cell))
		b.WriteString(" ")
	}
	return b.String()
}

func stripThousands(s string) string {
	return strings.ReplaceAll(s, ",", "")
}

// ParseNumber strips everything except digits, sign, and decimal point from
// a single cell and parses the remainder.
func ParseNumber(cell string) (float64, bool) {
	var b strings.Builder
	for _, r := range cell {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '+' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
