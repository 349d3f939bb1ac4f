package repository

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/sidata/backend/internal/domain"
	"gorm.io/gorm"
)

// dosenImportColumns are the columns an import overwrites on an existing row.
var dosenImportColumns = []string{
	"nip", "nidn", "nama", "gelar_depan", "gelar_belakang", "jurusan", "program_studi",
	"jabatan", "pendidikan_terakhir", "status", "email", "telepon", "upt_code",
}

type DosenFilter struct {
	Search     string
	Status     string
	Pendidikan string
	UptCode    string
	Page       int
	Limit      int
}

type DosenStats struct {
	Total        int64            `json:"total"`
	ByStatus     map[string]int64 `json:"by_status"`
	ByPendidikan map[string]int64 `json:"by_pendidikan"`
}

type DosenRepository struct {
	db *gorm.DB
}

func NewDosenRepository(db *gorm.DB) *DosenRepository {
	return &DosenRepository{db: db}
}

func (r *DosenRepository) Create(ctx context.Context, dosen *domain.Dosen) error {
	return r.db.WithContext(ctx).Create(dosen).Error
}

func (r *DosenRepository) FindByID(ctx context.Context, id uint) (*domain.Dosen, error) {
	var dosen domain.Dosen
	if err := r.db.WithContext(ctx).First(&dosen, id).Error; err != nil {
		return nil, err
	}
	return &dosen, nil
}

func (r *DosenRepository) FindByNIP(ctx context.Context, nip string) (*domain.Dosen, error) {
	var dosen domain.Dosen
	if err := r.db.WithContext(ctx).Where("nip = ?", nip).First(&dosen).Error; err != nil {
		return nil, err
	}
	return &dosen, nil
}

// FindByNaturalKey looks a faculty member up by NIP, returning nil when absent.
func (r *DosenRepository) FindByNaturalKey(ctx context.Context, nip string) (*domain.Dosen, error) {
	dosen, err := r.FindByNIP(ctx, nip)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return dosen, err
}

// Overwrite copies the imported columns of incoming onto existing. Columns
// outside the spreadsheet (alamat, tanggal_lahir, tempat_lahir) are kept.
func (r *DosenRepository) Overwrite(ctx context.Context, existing, incoming *domain.Dosen) error {
	err := r.db.WithContext(ctx).Model(existing).Select(dosenImportColumns).Updates(incoming).Error
	if err != nil {
		return err
	}
	incoming.ID = existing.ID
	incoming.CreatedAt = existing.CreatedAt
	return nil
}

func (r *DosenRepository) ListNewestFirst(ctx context.Context) ([]domain.Dosen, error) {
	var list []domain.Dosen
	err := r.db.WithContext(ctx).Order("id DESC").Find(&list).Error
	return list, err
}

func (r *DosenRepository) Update(ctx context.Context, dosen *domain.Dosen) error {
	return r.db.WithContext(ctx).Save(dosen).Error
}

func (r *DosenRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Dosen{}, id).Error
}

func (r *DosenRepository) NIPExists(ctx context.Context, nip string, excludeID *uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Dosen{}).Where("nip = ?", nip)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *DosenRepository) FindByUpt(ctx context.Context, uptCode string) ([]domain.Dosen, error) {
	var list []domain.Dosen
	err := r.db.WithContext(ctx).Where("upt_code = ?", uptCode).Order("id DESC").Find(&list).Error
	return list, err
}

// List returns one page of filtered faculty, newest first. A zero Limit
// returns every match.
func (r *DosenRepository) List(ctx context.Context, f DosenFilter) ([]domain.Dosen, int64, error) {
	filter := func(q *gorm.DB) *gorm.DB {
		if f.Search != "" {
			like := "%" + lower(f.Search) + "%"
			q = q.Where("LOWER(nip) LIKE ? OR LOWER(nidn) LIKE ? OR LOWER(nama) LIKE ? OR LOWER(gelar_depan) LIKE ? OR LOWER(gelar_belakang) LIKE ?",
				like, like, like, like, like)
		}
		if f.Status != "" {
			q = q.Where("status = ?", upper(f.Status))
		}
		if f.Pendidikan != "" {
			q = q.Where("pendidikan_terakhir = ?", upper(f.Pendidikan))
		}
		if f.UptCode != "" {
			q = q.Where("upt_code = ?", f.UptCode)
		}
		return q
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Dosen{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []domain.Dosen
	err := r.db.WithContext(ctx).Scopes(filter, page(f.Page, f.Limit)).Order("id DESC").Find(&list).Error
	return list, total, err
}

// Stats aggregates faculty, optionally scoped to one unit.
func (r *DosenRepository) Stats(ctx context.Context, uptCode string) (*DosenStats, error) {
	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&domain.Dosen{})
		if uptCode != "" {
			q = q.Where("upt_code = ?", uptCode)
		}
		return q
	}

	stats := &DosenStats{}
	if err := scope().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	var err error
	if stats.ByStatus, err = countBy(scope(), "status"); err != nil {
		return nil, err
	}
	if stats.ByPendidikan, err = countBy(scope(), "pendidikan_terakhir"); err != nil {
		return nil, err
	}
	return stats, nil
}
