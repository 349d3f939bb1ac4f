package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sidata/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Student column positions.
const (
	tarunaColNIM = iota
	tarunaColNama
	tarunaColTempatLahir
	tarunaColTanggalLahir
	tarunaColJenisKelamin
	tarunaColAgama
	tarunaColAlamat
	tarunaColEmail
	tarunaColTelepon
	tarunaColProgramStudi
	tarunaColJurusan
	tarunaColTahunMasuk
	tarunaColSemester
	tarunaColStatus
)

const (
	minNIMDigits    = 8
	defaultSemester = 1
)

// TarunaProfile is the import profile for student records, keyed by NIM.
// now supplies the default TAHUN_MASUK; nil means time.Now.
func TarunaProfile(now func() time.Time) Profile[domain.Taruna] {
	if now == nil {
		now = time.Now
	}
	return Profile[domain.Taruna]{
		Entity:    "taruna",
		SheetName: "Template Taruna",
		Columns: []Column{
			{"NIM", 15}, {"NAMA", 25}, {"TEMPAT_LAHIR", 15}, {"TANGGAL_LAHIR", 15}, {"JENIS_KELAMIN", 12},
			{"AGAMA", 12}, {"ALAMAT", 25}, {"EMAIL", 25}, {"TELEPON", 15}, {"PROGRAM_STUDI", 20},
			{"JURUSAN", 15}, {"TAHUN_MASUK", 12}, {"SEMESTER", 10}, {"STATUS", 12},
		},
		NaturalKey: func(t *domain.Taruna) string { return t.NIM },
		Map: func(row RawRow, unitCode string) (*domain.Taruna, error) {
			return MapTaruna(row, unitCode, now().Year())
		},
		Render: renderTaruna,
		Samples: [][]string{
			{"202301001", "Ahmad Wijaya", "Jakarta", "2000-05-15", "L", "Islam", "Jl. Merdeka No. 123", "ahmad.wijaya@kampus.ac.id", "08123456789", "Teknik Informatika", "Teknik", "2023", "3", "AKTIF"},
			{"202301002", "Siti Rahmawati", "Bandung", "2001-08-20", "P", "Islam", "Jl. Asia Afrika No. 45", "siti.rahmawati@kampus.ac.id", "08129876543", "Sistem Informasi", "Teknik", "2023", "3", "AKTIF"},
		},
		Notes: []string{
			NotesMarker,
			"- NIM, NAMA, EMAIL wajib diisi",
			"- NIM minimal 8 digit angka",
			"- JENIS_KELAMIN: L atau P",
			"- TANGGAL_LAHIR: YYYY-MM-DD (2000-05-15)",
			"- STATUS: AKTIF, CUTI, DROP_OUT, LULUS",
			"- Data di atas adalah data existing, bisa dihapus atau diedit",
		},
	}
}

// MapTaruna validates a student row. defaultYear fills a missing TAHUN_MASUK.
func MapTaruna(row RawRow, unitCode string, defaultYear int) (*domain.Taruna, error) {
	nim := row.Text(tarunaColNIM)
	if nim == "" {
		return nil, rowError(row.Number, "NIM wajib diisi")
	}
	nama := row.Text(tarunaColNama)
	if nama == "" {
		return nil, rowError(row.Number, "Nama wajib diisi")
	}
	email := row.Text(tarunaColEmail)
	if email == "" {
		return nil, rowError(row.Number, "Email wajib diisi")
	}

	if DigitCount(nim) < minNIMDigits {
		return nil, rowError(row.Number, "Format NIM tidak valid (minimal %d digit angka)", minNIMDigits)
	}
	if !IsValidEmail(email) {
		return nil, rowError(row.Number, "Format email tidak valid")
	}

	tanggalLahir, ok := cellDate(row.Cell(tarunaColTanggalLahir))
	if !ok {
		return nil, rowError(row.Number, "Format TANGGAL_LAHIR tidak valid (YYYY-MM-DD)")
	}

	jenisKelamin, _ := NormalizeJenisKelamin(row.Text(tarunaColJenisKelamin))
	status, _ := NormalizeTarunaStatus(row.Text(tarunaColStatus))

	return &domain.Taruna{
		NIM:          nim,
		Nama:         nama,
		TempatLahir:  row.Text(tarunaColTempatLahir),
		TanggalLahir: tanggalLahir,
		JenisKelamin: jenisKelamin,
		Agama:        row.Text(tarunaColAgama),
		Alamat:       row.Text(tarunaColAlamat),
		Email:        email,
		Telepon:      row.Text(tarunaColTelepon),
		ProgramStudi: row.Text(tarunaColProgramStudi),
		Jurusan:      row.Text(tarunaColJurusan),
		TahunMasuk:   cellInt(row.Cell(tarunaColTahunMasuk), defaultYear),
		Semester:     cellInt(row.Cell(tarunaColSemester), defaultSemester),
		Status:       status,
		UptCode:      unitCode,
	}, nil
}

var textDateLayouts = []string{DateLayout, "02/01/2006", "02-01-2006", "2006/01/02"}

// cellDate reads an optional date. A blank cell yields nil, true.
func cellDate(c Cell) (*time.Time, bool) {
	switch c.Kind {
	case CellEmpty:
		return nil, true
	case CellDate:
		t := truncateDay(c.Date)
		return &t, true
	case CellNumber:
		t, err := excelize.ExcelDateToTime(c.Number, false)
		if err != nil || c.Number <= 0 {
			return nil, false
		}
		t = truncateDay(t)
		return &t, true
	}

	s := c.String()
	if s == "" {
		return nil, true
	}
	for _, layout := range textDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = truncateDay(t)
			return &t, true
		}
	}
	return nil, false
}

// cellInt reads a positive integer, returning def when absent or unparsable.
func cellInt(c Cell, def int) int {
	switch c.Kind {
	case CellNumber:
		if n := int(math.Trunc(c.Number)); n > 0 {
			return n
		}
		return def
	case CellText:
		s := strings.TrimSpace(c.Text)
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 1 {
			return int(math.Trunc(f))
		}
	}
	return def
}

func renderTaruna(t *domain.Taruna) []string {
	tanggal := ""
	if t.TanggalLahir != nil {
		tanggal = t.TanggalLahir.Format(DateLayout)
	}
	jenisKelamin := string(t.JenisKelamin)
	if jenisKelamin == "" {
		jenisKelamin = string(domain.LakiLaki)
	}
	return []string{
		t.NIM,
		t.Nama,
		t.TempatLahir,
		tanggal,
		jenisKelamin,
		t.Agama,
		t.Alamat,
		t.Email,
		t.Telepon,
		t.ProgramStudi,
		t.Jurusan,
		strconv.Itoa(t.TahunMasuk),
		strconv.Itoa(t.Semester),
		string(t.Status),
	}
}
