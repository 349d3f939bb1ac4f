package dto

import "github.com/sidata/backend/internal/domain"

// DosenRequest is the body of manual faculty create and update calls.
// On update, absent fields keep their stored value.
type DosenRequest struct {
	NIP                *string `json:"nip"`
	NIDN               *string `json:"nidn"`
	Nama               *string `json:"nama"`
	GelarDepan         *string `json:"gelar_depan"`
	GelarBelakang      *string `json:"gelar_belakang"`
	Jurusan            *string `json:"jurusan"`
	ProgramStudi       *string `json:"program_studi"`
	Jabatan            *string `json:"jabatan"`
	PendidikanTerakhir *string `json:"pendidikan_terakhir"`
	Status             *string `json:"status"`
	Email              *string `json:"email"`
	Telepon            *string `json:"telepon"`
	Alamat             *string `json:"alamat"`
	TempatLahir        *string `json:"tempat_lahir"`
	TanggalLahir       *string `json:"tanggal_lahir"`
}

// TarunaRequest is the body of manual student create and update calls.
type TarunaRequest struct {
	NIM          *string `json:"nim"`
	Nama         *string `json:"nama"`
	TempatLahir  *string `json:"tempat_lahir"`
	TanggalLahir *string `json:"tanggal_lahir"`
	JenisKelamin *string `json:"jenis_kelamin"`
	Agama        *string `json:"agama"`
	Alamat       *string `json:"alamat"`
	Email        *string `json:"email"`
	Telepon      *string `json:"telepon"`
	ProgramStudi *string `json:"program_studi"`
	Jurusan      *string `json:"jurusan"`
	TahunMasuk   *int    `json:"tahun_masuk"`
	Semester     *int    `json:"semester"`
	Status       *string `json:"status"`
}

// DosenDTO adds the titled display name to a faculty record.
type DosenDTO struct {
	domain.Dosen
	NamaLengkap string `json:"nama_lengkap"`
}

func NewDosenDTO(d domain.Dosen) DosenDTO {
	return DosenDTO{Dosen: d, NamaLengkap: d.NamaLengkap()}
}

func NewDosenDTOs(list []domain.Dosen) []DosenDTO {
	out := make([]DosenDTO, len(list))
	for i, d := range list {
		out[i] = NewDosenDTO(d)
	}
	return out
}
