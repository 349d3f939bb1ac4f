package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enum types
type UserRole string

const (
	RoleSuperAdmin UserRole = "super_admin"
	RoleAdminUPT   UserRole = "admin_upt"
)

type DosenStatus string

const (
	DosenAktif   DosenStatus = "AKTIF"
	DosenCuti    DosenStatus = "CUTI"
	DosenPension DosenStatus = "PENSION"
)

type Pendidikan string

const (
	PendidikanS1 Pendidikan = "S1"
	PendidikanS2 Pendidikan = "S2"
	PendidikanS3 Pendidikan = "S3"
)

type TarunaStatus string

const (
	TarunaAktif   TarunaStatus = "AKTIF"
	TarunaCuti    TarunaStatus = "CUTI"
	TarunaDropOut TarunaStatus = "DROP_OUT"
	TarunaLulus   TarunaStatus = "LULUS"
)

type JenisKelamin string

const (
	LakiLaki  JenisKelamin = "L"
	Perempuan JenisKelamin = "P"
)

// Base model for staff accounts
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// User is a staff account. Admin UPT accounts own records of their unit,
// super admins browse across units.
type User struct {
	BaseModel
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	Name         string     `gorm:"type:varchar(100);not null" json:"name"`
	Role         UserRole   `gorm:"type:varchar(20);not null;default:'admin_upt'" json:"role"`
	UptCode      string     `gorm:"type:varchar(20);not null" json:"upt_code"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

func (User) TableName() string { return "users" }

// Dosen (faculty member). ID follows insertion order.
type Dosen struct {
	ID                 uint        `gorm:"primaryKey" json:"id"`
	NIP                string      `gorm:"type:varchar(30);not null;uniqueIndex" json:"nip"`
	NIDN               string      `gorm:"type:varchar(10)" json:"nidn"`
	Nama               string      `gorm:"type:varchar(150);not null" json:"nama"`
	GelarDepan         string      `gorm:"type:varchar(50)" json:"gelar_depan"`
	GelarBelakang      string      `gorm:"type:varchar(50)" json:"gelar_belakang"`
	Jurusan            string      `gorm:"type:varchar(100)" json:"jurusan"`
	ProgramStudi       string      `gorm:"type:varchar(100)" json:"program_studi"`
	Jabatan            string      `gorm:"type:varchar(50)" json:"jabatan"`
	PendidikanTerakhir Pendidikan  `gorm:"type:varchar(5);not null;default:'S1'" json:"pendidikan_terakhir"`
	Status             DosenStatus `gorm:"type:varchar(10);not null;default:'AKTIF'" json:"status"`
	UptCode            string      `gorm:"type:varchar(20);not null;index" json:"upt_code"`
	Alamat             string      `gorm:"type:text" json:"alamat"`
	Email              string      `gorm:"type:varchar(255)" json:"email"`
	Telepon            string      `gorm:"type:varchar(30)" json:"telepon"`
	TanggalLahir       *time.Time  `gorm:"type:date" json:"tanggal_lahir,omitempty"`
	TempatLahir        string      `gorm:"type:varchar(100)" json:"tempat_lahir"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

func (Dosen) TableName() string { return "dosen" }

// NamaLengkap returns the name with academic titles attached.
func (d *Dosen) NamaLengkap() string {
	nama := d.Nama
	if d.GelarDepan != "" {
		nama = d.GelarDepan + " " + nama
	}
	if d.GelarBelakang != "" {
		nama = nama + ", " + d.GelarBelakang
	}
	return nama
}

// Taruna (student)
type Taruna struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	NIM          string       `gorm:"type:varchar(30);not null;uniqueIndex" json:"nim"`
	Nama         string       `gorm:"type:varchar(150);not null" json:"nama"`
	TempatLahir  string       `gorm:"type:varchar(100)" json:"tempat_lahir"`
	TanggalLahir *time.Time   `gorm:"type:date" json:"tanggal_lahir,omitempty"`
	JenisKelamin JenisKelamin `gorm:"type:varchar(1);not null;default:'L'" json:"jenis_kelamin"`
	Agama        string       `gorm:"type:varchar(30)" json:"agama"`
	Alamat       string       `gorm:"type:text" json:"alamat"`
	Email        string       `gorm:"type:varchar(255);not null" json:"email"`
	Telepon      string       `gorm:"type:varchar(30)" json:"telepon"`
	ProgramStudi string       `gorm:"type:varchar(100)" json:"program_studi"`
	Jurusan      string       `gorm:"type:varchar(100)" json:"jurusan"`
	TahunMasuk   int          `gorm:"not null" json:"tahun_masuk"`
	Semester     int          `gorm:"not null;default:1" json:"semester"`
	Status       TarunaStatus `gorm:"type:varchar(10);not null;default:'AKTIF'" json:"status"`
	UptCode      string       `gorm:"type:varchar(20);not null;index" json:"upt_code"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (Taruna) TableName() string { return "taruna" }

// ============================================================================
// HOOKS FOR UUID GENERATION
// ============================================================================

// setUUIDIfEmpty checks if ID is nil and sets it to a new UUID
func setUUIDIfEmpty(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// BaseModel Hook
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	setUUIDIfEmpty(&b.ID)
	return nil
}

// AllModels lists every persisted model, in migration order.
func AllModels() []interface{} {
	return []interface{}{&User{}, &Dosen{}, &Taruna{}}
}
