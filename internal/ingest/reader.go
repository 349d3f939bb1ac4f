package ingest

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// DefaultMaxBytes is the upload ceiling applied when none is configured.
const DefaultMaxBytes int64 = 10 * 1024 * 1024

// Sheet is the materialized first worksheet of an upload.
type Sheet struct {
	Name   string
	Header RawRow
	// Rows holds every row after the header, blank rows included, in file order.
	Rows []RawRow
}

// ReadWorkbook validates an uploaded payload and parses its first worksheet.
func ReadWorkbook(filename string, payload []byte, maxBytes int64) (*Sheet, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	name := strings.ToLower(strings.TrimSpace(filename))
	if !strings.HasSuffix(name, ".xlsx") && !strings.HasSuffix(name, ".xls") {
		return nil, newFailure(ErrUnsupportedFormat, "Hanya file Excel (.xlsx, .xls) yang diizinkan")
	}
	if int64(len(payload)) > maxBytes {
		return nil, newFailure(ErrPayloadTooLarge, "File terlalu besar. Maksimal %dMB", maxBytes/(1024*1024))
	}
	if len(payload) == 0 {
		return nil, newFailure(ErrEmptyPayload, "File tidak memiliki data")
	}

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, unexpected(err, "gagal membaca file Excel")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, newFailure(ErrEmptyPayload, "File Excel tidak memiliki sheet")
	}
	sheetName := sheets[0]

	values, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, unexpected(err, "gagal membaca sheet "+sheetName)
	}

	cr := &cellReader{file: f, sheet: sheetName, dateStyles: make(map[int]bool)}
	sheet := &Sheet{Name: sheetName}
	headerFound := false
	nonBlank := 0

	for i, record := range values {
		row := RawRow{Number: i + 1, Cells: make([]Cell, len(record))}
		for col, v := range record {
			row.Cells[col] = cr.read(col, row.Number, v)
		}

		if !row.IsBlank() {
			nonBlank++
		}
		if !headerFound {
			if row.IsBlank() {
				continue
			}
			sheet.Header = row
			headerFound = true
			continue
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	if nonBlank < 2 {
		return nil, newFailure(ErrEmptyPayload, "File Excel harus memiliki minimal 1 data (setelah header)")
	}
	return sheet, nil
}

type cellReader struct {
	file       *excelize.File
	sheet      string
	dateStyles map[int]bool
}

func (cr *cellReader) read(col, row int, v string) Cell {
	if strings.TrimSpace(v) == "" {
		return Cell{}
	}

	axis, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return TextCell(v)
	}

	typ, err := cr.file.GetCellType(cr.sheet, axis)
	if err != nil {
		return TextCell(v)
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula,
		excelize.CellTypeBool, excelize.CellTypeError:
		return TextCell(v)
	case excelize.CellTypeDate:
		if t, ok := parseISODate(v); ok {
			return DateCell(t)
		}
		return TextCell(v)
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return TextCell(v)
	}
	if cr.isDateStyled(axis) {
		if t, err := excelize.ExcelDateToTime(n, false); err == nil {
			return DateCell(truncateDay(t))
		}
	}
	return NumberCell(n, strings.TrimSpace(v))
}

func (cr *cellReader) isDateStyled(axis string) bool {
	idx, err := cr.file.GetCellStyle(cr.sheet, axis)
	if err != nil || idx == 0 {
		return false
	}
	if isDate, ok := cr.dateStyles[idx]; ok {
		return isDate
	}

	isDate := false
	if style, err := cr.file.GetStyle(idx); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			isDate = isDateFormat(*style.CustomNumFmt)
		} else {
			isDate = isBuiltinDateFormat(style.NumFmt)
		}
	}
	cr.dateStyles[idx] = isDate
	return isDate
}

func isBuiltinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormat reports whether a custom number format renders a date.
// Quoted literals and bracketed sections (colours, locales) are ignored.
func isDateFormat(format string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, r := range strings.ToLower(format) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	f := b.String()
	return strings.ContainsAny(f, "dy") || (strings.Contains(f, "m") && !strings.ContainsAny(f, "0#"))
}

func parseISODate(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", DateLayout} {
		if t, err := time.Parse(layout, v); err == nil {
			return truncateDay(t), true
		}
	}
	return time.Time{}, false
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
