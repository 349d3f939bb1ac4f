package ingest

import (
	"github.com/sidata/backend/internal/domain"
)

// Faculty column positions.
const (
	dosenColNIP = iota
	dosenColNIDN
	dosenColNama
	dosenColGelarDepan
	dosenColGelarBelakang
	dosenColJurusan
	dosenColProgramStudi
	dosenColJabatan
	dosenColPendidikan
	dosenColStatus
	dosenColEmail
	dosenColTelepon
)

const (
	minNIPDigits   = 5
	defaultJabatan = "Lektor"
)

// DosenProfile is the import profile for faculty records, keyed by NIP.
func DosenProfile() Profile[domain.Dosen] {
	return Profile[domain.Dosen]{
		Entity:    "dosen",
		SheetName: "Template Dosen",
		Columns: []Column{
			{"NIP", 20}, {"NIDN", 15}, {"NAMA", 25}, {"GELAR_DEPAN", 12}, {"GELAR_BELAKANG", 12},
			{"JURUSAN", 20}, {"PROGRAM_STUDI", 25}, {"JABATAN", 15}, {"PENDIDIKAN_TERAKHIR", 18},
			{"STATUS", 12}, {"EMAIL", 25}, {"TELEPON", 15},
		},
		NaturalKey: func(d *domain.Dosen) string { return d.NIP },
		Map:        MapDosen,
		Render:     renderDosen,
		Samples: [][]string{
			{"19801215200501001", "0001127301", "Ahmad Santoso", "Dr.", "M.Kom.", "Teknik Informatika", "S1 Teknik Informatika", "Lektor", "S3", "AKTIF", "ahmad.santoso@kampus.ac.id", "08123456789"},
			{"197507102000031002", "0025077501", "Siti Rahayu", "Dra.", "M.Si.", "Sistem Informasi", "S1 Sistem Informasi", "Lektor Kepala", "S2", "AKTIF", "siti.rahayu@kampus.ac.id", "08129876543"},
		},
		Notes: []string{
			NotesMarker,
			"- NIP, NAMA, EMAIL wajib diisi",
			"- NIP minimal 5 digit angka",
			"- NIDN harus 10 digit angka (jika ada)",
			"- PENDIDIKAN: S1, S2, atau S3",
			"- STATUS: AKTIF, CUTI, atau PENSION",
			"- Data di atas adalah data existing, bisa dihapus atau diedit",
		},
	}
}

// MapDosen validates a faculty row. It never touches storage.
func MapDosen(row RawRow, unitCode string) (*domain.Dosen, error) {
	nip := row.Text(dosenColNIP)
	if nip == "" {
		return nil, rowError(row.Number, "NIP wajib diisi")
	}
	nama := row.Text(dosenColNama)
	if nama == "" {
		return nil, rowError(row.Number, "Nama wajib diisi")
	}
	email := row.Text(dosenColEmail)
	if email == "" {
		return nil, rowError(row.Number, "Email wajib diisi")
	}

	if DigitCount(nip) < minNIPDigits {
		return nil, rowError(row.Number, "Format NIP tidak valid (minimal %d digit angka)", minNIPDigits)
	}
	nidn := row.Text(dosenColNIDN)
	if nidn != "" && !nidnPattern.MatchString(nidn) {
		return nil, rowError(row.Number, "Format NIDN tidak valid (harus 10 digit angka)")
	}
	if !IsValidEmail(email) {
		return nil, rowError(row.Number, "Format email tidak valid")
	}

	jabatan := row.Text(dosenColJabatan)
	if jabatan == "" {
		jabatan = defaultJabatan
	}
	pendidikan, _ := NormalizePendidikan(row.Text(dosenColPendidikan))
	status, _ := NormalizeDosenStatus(row.Text(dosenColStatus))

	return &domain.Dosen{
		NIP:                nip,
		NIDN:               nidn,
		Nama:               nama,
		GelarDepan:         row.Text(dosenColGelarDepan),
		GelarBelakang:      row.Text(dosenColGelarBelakang),
		Jurusan:            row.Text(dosenColJurusan),
		ProgramStudi:       row.Text(dosenColProgramStudi),
		Jabatan:            jabatan,
		PendidikanTerakhir: pendidikan,
		Status:             status,
		Email:              email,
		Telepon:            row.Text(dosenColTelepon),
		UptCode:            unitCode,
	}, nil
}

func renderDosen(d *domain.Dosen) []string {
	return []string{
		d.NIP,
		d.NIDN,
		d.Nama,
		d.GelarDepan,
		d.GelarBelakang,
		d.Jurusan,
		d.ProgramStudi,
		d.Jabatan,
		string(d.PendidikanTerakhir),
		string(d.Status),
		d.Email,
		d.Telepon,
	}
}
