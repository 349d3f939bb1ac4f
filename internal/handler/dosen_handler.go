package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sidata/backend/internal/domain"
	"github.com/sidata/backend/internal/dto"
	"github.com/sidata/backend/internal/ingest"
	"github.com/sidata/backend/internal/middleware"
	"github.com/sidata/backend/internal/repository"
	"go.uber.org/zap"
)

type DosenHandler struct {
	repo        *repository.DosenRepository
	importer    *ingest.Importer[domain.Dosen]
	defaultUnit string
	logger      *zap.Logger
}

func NewDosenHandler(repo *repository.DosenRepository, importer *ingest.Importer[domain.Dosen], defaultUnit string, logger *zap.Logger) *DosenHandler {
	return &DosenHandler{
		repo:        repo,
		importer:    importer,
		defaultUnit: defaultUnit,
		logger:      logger,
	}
}

func (h *DosenHandler) filter(c *fiber.Ctx) repository.DosenFilter {
	return repository.DosenFilter{
		Search:     c.Query("search"),
		Status:     c.Query("status"),
		Pendidikan: c.Query("pendidikan"),
		UptCode:    c.Query("upt"),
	}
}

func (h *DosenHandler) List(c *fiber.Ctx) error {
	f := h.filter(c)
	f.Page, f.Limit = pageParams(c)

	list, total, err := h.repo.List(c.UserContext(), f)
	if err != nil {
		h.logger.Error("list dosen", zap.Error(err))
		return internalError(c, "Gagal mengambil data dosen")
	}
	return c.JSON(dto.SuccessWithMeta(dto.NewDosenDTOs(list), dto.NewMeta(f.Page, f.Limit, total)))
}

func (h *DosenHandler) Export(c *fiber.Ctx) error {
	list, _, err := h.repo.List(c.UserContext(), h.filter(c))
	if err != nil {
		h.logger.Error("export dosen", zap.Error(err))
		return internalError(c, "Gagal mengambil data dosen")
	}
	data, err := h.importer.Export(list)
	if err != nil {
		h.logger.Error("render dosen export", zap.Error(err))
		return internalError(c, "Gagal membuat file export")
	}
	return sendWorkbook(c, "export_dosen.xlsx", data)
}

func (h *DosenHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.repo.Stats(c.UserContext(), c.Query("upt"))
	if err != nil {
		h.logger.Error("dosen stats", zap.Error(err))
		return internalError(c, "Gagal mengambil statistik dosen")
	}
	return c.JSON(dto.SuccessResponse(stats, ""))
}

func (h *DosenHandler) Get(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	dosen, err := h.repo.FindByID(c.UserContext(), id)
	if err != nil {
		return h.lookupFailure(c, err)
	}
	return c.JSON(dto.SuccessResponse(dto.NewDosenDTO(*dosen), ""))
}

func (h *DosenHandler) GetByNIP(c *fiber.Ctx) error {
	dosen, err := h.repo.FindByNIP(c.UserContext(), c.Params("nip"))
	if err != nil {
		return h.lookupFailure(c, err)
	}
	return c.JSON(dto.SuccessResponse(dto.NewDosenDTO(*dosen), ""))
}

func (h *DosenHandler) ListByUpt(c *fiber.Ctx) error {
	list, err := h.repo.FindByUpt(c.UserContext(), c.Params("upt"))
	if err != nil {
		h.logger.Error("list dosen by upt", zap.Error(err))
		return internalError(c, "Gagal mengambil data dosen")
	}
	return c.JSON(dto.SuccessResponse(dto.NewDosenDTOs(list), ""))
}

func (h *DosenHandler) Create(c *fiber.Ctx) error {
	var req dto.DosenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "Request body tidak valid"))
	}

	draft := &domain.Dosen{}
	if err := applyDosenRequest(draft, &req); err != nil {
		return validationFailure(c, err)
	}
	record, err := h.normalize(draft, middleware.GetUnitCode(c, h.defaultUnit))
	if err != nil {
		return validationFailure(c, err)
	}

	ctx := c.UserContext()
	exists, err := h.repo.NIPExists(ctx, record.NIP, nil)
	if err != nil {
		return internalError(c, "Gagal memeriksa NIP")
	}
	if exists {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse("NIP_EXISTS", "NIP sudah terdaftar"))
	}

	if err := h.repo.Create(ctx, record); err != nil {
		h.logger.Error("create dosen", zap.Error(err))
		return internalError(c, "Gagal menyimpan dosen")
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse(dto.NewDosenDTO(*record), "Dosen berhasil ditambahkan"))
}

func (h *DosenHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}

	var req dto.DosenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "Request body tidak valid"))
	}

	ctx := c.UserContext()
	existing, err := h.repo.FindByID(ctx, id)
	if err != nil {
		return h.lookupFailure(c, err)
	}

	if err := applyDosenRequest(existing, &req); err != nil {
		return validationFailure(c, err)
	}
	record, err := h.normalize(existing, existing.UptCode)
	if err != nil {
		return validationFailure(c, err)
	}

	exists, err := h.repo.NIPExists(ctx, record.NIP, &id)
	if err != nil {
		return internalError(c, "Gagal memeriksa NIP")
	}
	if exists {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse("NIP_EXISTS", "NIP sudah terdaftar"))
	}

	if err := h.repo.Update(ctx, record); err != nil {
		h.logger.Error("update dosen", zap.Uint("id", id), zap.Error(err))
		return internalError(c, "Gagal memperbarui dosen")
	}
	return c.JSON(dto.SuccessResponse(dto.NewDosenDTO(*record), "Dosen berhasil diperbarui"))
}

func (h *DosenHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}

	ctx := c.UserContext()
	if _, err := h.repo.FindByID(ctx, id); err != nil {
		return h.lookupFailure(c, err)
	}
	if err := h.repo.Delete(ctx, id); err != nil {
		h.logger.Error("delete dosen", zap.Uint("id", id), zap.Error(err))
		return internalError(c, "Gagal menghapus dosen")
	}
	return c.JSON(dto.SuccessResponse(nil, "Dosen berhasil dihapus"))
}

// normalize runs a manual record through the import validation so both
// paths store the same canonical values.
func (h *DosenHandler) normalize(d *domain.Dosen, unit string) (*domain.Dosen, error) {
	profile := h.importer.Profile()
	record, err := profile.Map(ingest.TextRow(0, profile.Render(d)...), unit)
	if err != nil {
		return nil, err
	}
	record.ID = d.ID
	record.CreatedAt = d.CreatedAt
	record.Alamat = d.Alamat
	record.TempatLahir = d.TempatLahir
	record.TanggalLahir = d.TanggalLahir
	return record, nil
}

func (h *DosenHandler) lookupFailure(c *fiber.Ctx, err error) error {
	if isNotFound(err) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse("NOT_FOUND", "Dosen tidak ditemukan"))
	}
	h.logger.Error("find dosen", zap.Error(err))
	return internalError(c, "Gagal mengambil data dosen")
}

func applyDosenRequest(d *domain.Dosen, req *dto.DosenRequest) error {
	setString(&d.NIP, req.NIP)
	setString(&d.NIDN, req.NIDN)
	setString(&d.Nama, req.Nama)
	setString(&d.GelarDepan, req.GelarDepan)
	setString(&d.GelarBelakang, req.GelarBelakang)
	setString(&d.Jurusan, req.Jurusan)
	setString(&d.ProgramStudi, req.ProgramStudi)
	setString(&d.Jabatan, req.Jabatan)
	setString(&d.Email, req.Email)
	setString(&d.Telepon, req.Telepon)
	setString(&d.Alamat, req.Alamat)
	setString(&d.TempatLahir, req.TempatLahir)
	if req.PendidikanTerakhir != nil {
		d.PendidikanTerakhir = domain.Pendidikan(strings.TrimSpace(*req.PendidikanTerakhir))
	}
	if req.Status != nil {
		d.Status = domain.DosenStatus(strings.TrimSpace(*req.Status))
	}
	return setDate(&d.TanggalLahir, req.TanggalLahir)
}
