package ingest

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadWorkbook_RejectsNonExcelFilename(t *testing.T) {
	for _, name := range []string{"data.csv", "data.xlsx.txt", "xlsx", ""} {
		_, err := ReadWorkbook(name, []byte("payload"), 0)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrUnsupportedFormat), name)
	}
}

func TestReadWorkbook_AcceptsUppercaseSuffix(t *testing.T) {
	payload := workbook(t, dosenHeader(), dosenRow("12345", "Budi", "budi@kampus.ac.id"))

	sheet, err := ReadWorkbook("DATA.XLSX", payload, 0)
	require.NoError(t, err)
	assert.Len(t, sheet.Rows, 1)
}

func TestReadWorkbook_RejectsOversizedPayload(t *testing.T) {
	payload := workbook(t, dosenHeader(), dosenRow("12345", "Budi", "budi@kampus.ac.id"))

	_, err := ReadWorkbook("data.xlsx", payload, int64(len(payload)-1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPayloadTooLarge))

	f, ok := AsFailure(err)
	require.True(t, ok)
	assert.Contains(t, f.Message, "File terlalu besar")
}

func TestReadWorkbook_HeaderOnlyIsEmpty(t *testing.T) {
	payload := workbook(t, dosenHeader())

	_, err := ReadWorkbook("data.xlsx", payload, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyPayload))
}

func TestReadWorkbook_EmptyBytesIsEmpty(t *testing.T) {
	_, err := ReadWorkbook("data.xlsx", nil, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyPayload))
}

func TestReadWorkbook_GarbageIsUnexpected(t *testing.T) {
	_, err := ReadWorkbook("data.xlsx", []byte("definitely not a zip archive"), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpected))
}

func TestReadWorkbook_KeepsBlankRowsInOrder(t *testing.T) {
	payload := workbook(t,
		dosenHeader(),
		dosenRow("12345", "Budi", "budi@kampus.ac.id"),
		[]interface{}{"  ", "", "   "},
		dosenRow("67890", "Sari", "sari@kampus.ac.id"),
	)

	sheet, err := ReadWorkbook("data.xlsx", payload, 0)
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, 1, sheet.Header.Number)
	assert.Equal(t, []int{2, 3, 4}, []int{sheet.Rows[0].Number, sheet.Rows[1].Number, sheet.Rows[2].Number})
	assert.False(t, sheet.Rows[0].IsBlank())
	assert.True(t, sheet.Rows[1].IsBlank())
	assert.Equal(t, "67890", sheet.Rows[2].Text(0))
}

func TestReadWorkbook_PreservesDates(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	header := tarunaHeader()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "20230001"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", "Rina"))
	require.NoError(t, f.SetCellValue("Sheet1", "D2", time.Date(2001, time.August, 20, 0, 0, 0, 0, time.UTC)))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	sheet, err := ReadWorkbook("taruna.xlsx", buf.Bytes(), 0)
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 1)

	c := sheet.Rows[0].Cell(tarunaColTanggalLahir)
	require.Equal(t, CellDate, c.Kind)
	assert.Equal(t, "2001-08-20", c.String())
	assert.Equal(t, CellEmpty, sheet.Rows[0].Cell(tarunaColTempatLahir).Kind)
}

func TestReadWorkbook_LongNumericIdentifierKeepsDigits(t *testing.T) {
	payload := workbook(t, dosenHeader(), []interface{}{int64(198012152005), "", "Budi"})

	sheet, err := ReadWorkbook("data.xlsx", payload, 0)
	require.NoError(t, err)

	c := sheet.Rows[0].Cell(0)
	assert.Equal(t, CellNumber, c.Kind)
	assert.Equal(t, "198012152005", c.String())
}

func TestReadWorkbook_HeaderIsFirstNonBlankRow(t *testing.T) {
	payload := workbook(t,
		[]interface{}{" "},
		dosenHeader(),
		dosenRow("12345", "Budi", "budi@kampus.ac.id"),
	)

	sheet, err := ReadWorkbook("data.xlsx", payload, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, sheet.Header.Number)
	assert.Equal(t, "NIP", sheet.Header.Text(0))
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, 3, sheet.Rows[0].Number)
}

func TestIsDateFormat(t *testing.T) {
	assert.True(t, isDateFormat("yyyy-mm-dd"))
	assert.True(t, isDateFormat("[$-409]d-mmm-yy"))
	assert.False(t, isDateFormat("0.00"))
	assert.False(t, isDateFormat(`"day"0`))
	assert.True(t, isBuiltinDateFormat(14))
	assert.False(t, isBuiltinDateFormat(1))
}
