package ingest

import (
	"context"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Template renders every stored record, newest first, under the expected
// header, followed by a blank row and the usage notes. With no stored
// records the profile samples are used instead. Storage is only read.
func (im *Importer[T]) Template(ctx context.Context) ([]byte, error) {
	records, err := im.store.ListNewestFirst(ctx)
	if err != nil {
		return nil, unexpected(err, "gagal memuat data")
	}

	rows := im.renderRecords(records)
	if len(rows) == 0 {
		rows = im.profile.Samples
	}
	return RenderWorkbook(im.profile.SheetName, im.profile.Columns, rows, im.profile.Notes)
}

// Export renders the given records without samples or notes.
func (im *Importer[T]) Export(records []T) ([]byte, error) {
	return RenderWorkbook(im.profile.SheetName, im.profile.Columns, im.renderRecords(records), nil)
}

func (im *Importer[T]) renderRecords(records []T) [][]string {
	rows := make([][]string, 0, len(records))
	for i := range records {
		rows = append(rows, im.profile.Render(&records[i]))
	}
	return rows
}

// RenderWorkbook writes a single-sheet workbook: a bold header, the body rows
// as text cells, then notes after one blank row when notes is non-empty.
func RenderWorkbook(sheetName string, columns []Column, rows [][]string, notes []string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, unexpected(err, "gagal membuat sheet")
	}

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col.Label
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, unexpected(err, "gagal menulis header")
	}

	line := 2
	for _, row := range rows {
		if err := writeTextRow(f, sheetName, line, row); err != nil {
			return nil, err
		}
		line++
	}

	if len(notes) > 0 {
		line++
		for _, note := range notes {
			if err := writeTextRow(f, sheetName, line, []string{note}); err != nil {
				return nil, err
			}
			line++
		}
	}

	if err := styleHeader(f, sheetName, columns); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, unexpected(err, "gagal menulis file Excel")
	}
	return buf.Bytes(), nil
}

func writeTextRow(f *excelize.File, sheet string, line int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		return unexpected(err, "gagal menulis baris")
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return unexpected(err, "gagal menulis baris")
	}
	return nil
}

func styleHeader(f *excelize.File, sheet string, columns []Column) error {
	if len(columns) == 0 {
		return nil
	}

	for i, col := range columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return unexpected(err, "gagal mengatur kolom")
		}
		if err := f.SetColWidth(sheet, name, name, col.Width); err != nil {
			return unexpected(err, "gagal mengatur lebar kolom")
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return unexpected(err, "gagal membuat style")
	}
	last, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return unexpected(err, "gagal mengatur header")
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return unexpected(err, "gagal mengatur header")
	}
	return nil
}
