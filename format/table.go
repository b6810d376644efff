package format

import (
	"strings"
	"unicode/utf8"
)

const (
	opTable   = "Table"
	columnGap = "  "
)

// Column is a table column: a header and the rule its cells are aligned with.
type Column struct {
	Header string
	Rule   Rule
}

// Table renders rows under cols. Each column is first aligned with Align;
// the header and the aligned cells are then widened to a common width,
// placed by the column's Int alignment. Columns are separated by two spaces,
// trailing blanks are trimmed and every line ends in '\n'.
// Errors: ErrColumnCount.
func Table(cols []Column, rows [][]string) (string, error) {
	for _, row := range rows {
		if len(row) != len(cols) {
			return "", formatErrorf(opTable, ErrColumnCount)
		}
	}

	lines := make([][]string, len(rows)+1)
	for i := range lines {
		lines[i] = make([]string, len(cols))
	}
	cells := make([]string, len(rows))
	for j, col := range cols {
		for i, row := range rows {
			cells[i] = row[j]
		}
		aligned := Align(cells, col.Rule)
		width := utf8.RuneCountInString(col.Header)
		if len(aligned) > 0 {
			width = max(width, utf8.RuneCountInString(aligned[0]))
		}
		lines[0][j] = pad(col.Header, width, col.Rule.Int)
		for i, a := range aligned {
			lines[i+1][j] = pad(a, width, col.Rule.Int)
		}
	}

	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(strings.TrimRight(strings.Join(l, columnGap), " "))
		sb.WriteByte('\n')
	}

	return sb.String(), nil
}
