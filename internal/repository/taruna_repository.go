package repository

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/sidata/backend/internal/domain"
	"gorm.io/gorm"
)

var tarunaImportColumns = []string{
	"nim", "nama", "tempat_lahir", "tanggal_lahir", "jenis_kelamin", "agama", "alamat", "email",
	"telepon", "program_studi", "jurusan", "tahun_masuk", "semester", "status", "upt_code",
}

type TarunaFilter struct {
	Search       string
	Status       string
	Jurusan      string
	ProgramStudi string
	TahunMasuk   int
	UptCode      string
	Page         int
	Limit        int
}

type TarunaStats struct {
	Total          int64            `json:"total"`
	ByStatus       map[string]int64 `json:"by_status"`
	ByProgramStudi map[string]int64 `json:"by_program_studi"`
	ByJurusan      map[string]int64 `json:"by_jurusan"`
	ByUpt          map[string]int64 `json:"by_upt"`
}

type TarunaRepository struct {
	db *gorm.DB
}

func NewTarunaRepository(db *gorm.DB) *TarunaRepository {
	return &TarunaRepository{db: db}
}

func (r *TarunaRepository) Create(ctx context.Context, taruna *domain.Taruna) error {
	return r.db.WithContext(ctx).Create(taruna).Error
}

func (r *TarunaRepository) FindByID(ctx context.Context, id uint) (*domain.Taruna, error) {
	var taruna domain.Taruna
	if err := r.db.WithContext(ctx).First(&taruna, id).Error; err != nil {
		return nil, err
	}
	return &taruna, nil
}

func (r *TarunaRepository) FindByNIM(ctx context.Context, nim string) (*domain.Taruna, error) {
	var taruna domain.Taruna
	if err := r.db.WithContext(ctx).Where("nim = ?", nim).First(&taruna).Error; err != nil {
		return nil, err
	}
	return &taruna, nil
}

func (r *TarunaRepository) FindByNaturalKey(ctx context.Context, nim string) (*domain.Taruna, error) {
	taruna, err := r.FindByNIM(ctx, nim)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return taruna, err
}

func (r *TarunaRepository) Overwrite(ctx context.Context, existing, incoming *domain.Taruna) error {
	err := r.db.WithContext(ctx).Model(existing).Select(tarunaImportColumns).Updates(incoming).Error
	if err != nil {
		return err
	}
	incoming.ID = existing.ID
	incoming.CreatedAt = existing.CreatedAt
	return nil
}

func (r *TarunaRepository) ListNewestFirst(ctx context.Context) ([]domain.Taruna, error) {
	var list []domain.Taruna
	err := r.db.WithContext(ctx).Order("id DESC").Find(&list).Error
	return list, err
}

func (r *TarunaRepository) Update(ctx context.Context, taruna *domain.Taruna) error {
	return r.db.WithContext(ctx).Save(taruna).Error
}

func (r *TarunaRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Taruna{}, id).Error
}

func (r *TarunaRepository) NIMExists(ctx context.Context, nim string, excludeID *uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Taruna{}).Where("nim = ?", nim)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *TarunaRepository) FindByUpt(ctx context.Context, uptCode string) ([]domain.Taruna, error) {
	var list []domain.Taruna
	err := r.db.WithContext(ctx).Where("upt_code = ?", uptCode).Order("id DESC").Find(&list).Error
	return list, err
}

func (r *TarunaRepository) List(ctx context.Context, f TarunaFilter) ([]domain.Taruna, int64, error) {
	filter := func(q *gorm.DB) *gorm.DB {
		if f.Search != "" {
			like := "%" + lower(f.Search) + "%"
			q = q.Where("LOWER(nim) LIKE ? OR LOWER(nama) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
		}
		if f.Status != "" {
			q = q.Where("status = ?", upper(f.Status))
		}
		if f.Jurusan != "" {
			q = q.Where("jurusan = ?", f.Jurusan)
		}
		if f.ProgramStudi != "" {
			q = q.Where("program_studi = ?", f.ProgramStudi)
		}
		if f.TahunMasuk > 0 {
			q = q.Where("tahun_masuk = ?", f.TahunMasuk)
		}
		if f.UptCode != "" {
			q = q.Where("upt_code = ?", f.UptCode)
		}
		return q
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Taruna{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []domain.Taruna
	err := r.db.WithContext(ctx).Scopes(filter, page(f.Page, f.Limit)).Order("id DESC").Find(&list).Error
	return list, total, err
}

func (r *TarunaRepository) Stats(ctx context.Context, uptCode string) (*TarunaStats, error) {
	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&domain.Taruna{})
		if uptCode != "" {
			q = q.Where("upt_code = ?", uptCode)
		}
		return q
	}

	stats := &TarunaStats{}
	if err := scope().Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	groups := []struct {
		column string
		into   *map[string]int64
	}{
		{"status", &stats.ByStatus},
		{"program_studi", &stats.ByProgramStudi},
		{"jurusan", &stats.ByJurusan},
		{"upt_code", &stats.ByUpt},
	}
	for _, g := range groups {
		counts, err := countBy(scope(), g.column)
		if err != nil {
			return nil, errors.Wrapf(err, "count taruna by %s", g.column)
		}
		*g.into = counts
	}
	return stats, nil
}
