package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"
)

type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
)

// Cell is one spreadsheet value. Only the field matching Kind is meaningful.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Date   time.Time
	// raw keeps the stored representation of numbers so long identifiers print unchanged.
	raw string
}

func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{Kind: CellEmpty}
	}
	return Cell{Kind: CellText, Text: s}
}

func NumberCell(v float64, raw string) Cell {
	return Cell{Kind: CellNumber, Number: v, raw: raw}
}

func DateCell(t time.Time) Cell {
	return Cell{Kind: CellDate, Date: t}
}

// String renders the cell as trimmed text. Dates render as YYYY-MM-DD.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return strings.TrimSpace(c.Text)
	case CellNumber:
		if c.raw != "" {
			if _, err := strconv.ParseInt(c.raw, 10, 64); err == nil {
				return c.raw
			}
		}
		if c.Number == math.Trunc(c.Number) && math.Abs(c.Number) < 1e21 {
			return strconv.FormatFloat(c.Number, 'f', 0, 64)
		}
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		return c.Date.Format(DateLayout)
	}
	return ""
}

func (c Cell) IsBlank() bool {
	return c.Kind == CellEmpty || (c.Kind == CellText && strings.TrimSpace(c.Text) == "")
}

// DateLayout is the textual date format used in templates.
const DateLayout = "2006-01-02"

// RawRow is one spreadsheet row. Number is the 1-based row number in the sheet.
type RawRow struct {
	Number int
	Cells  []Cell
}

// Cell returns the cell at a zero-based column index, or an empty cell.
func (r RawRow) Cell(idx int) Cell {
	if idx < 0 || idx >= len(r.Cells) {
		return Cell{}
	}
	return r.Cells[idx]
}

// Text returns the trimmed text at a zero-based column index.
func (r RawRow) Text(idx int) string {
	return r.Cell(idx).String()
}

func (r RawRow) IsBlank() bool {
	for _, c := range r.Cells {
		if !c.IsBlank() {
			return false
		}
	}
	return true
}

// Texts renders every cell of the row as text.
func (r RawRow) Texts() []string {
	out := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = c.String()
	}
	return out
}

// TextRow builds a row of text cells, e.g. from a JSON request.
func TextRow(number int, values ...string) RawRow {
	row := RawRow{Number: number, Cells: make([]Cell, len(values))}
	for i, v := range values {
		row.Cells[i] = TextCell(v)
	}
	return row
}
