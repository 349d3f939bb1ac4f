package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sidata/backend/internal/domain"
	"github.com/sidata/backend/internal/dto"
	"github.com/sidata/backend/internal/ingest"
	"github.com/sidata/backend/internal/middleware"
	"github.com/sidata/backend/internal/repository"
	"go.uber.org/zap"
)

type TarunaHandler struct {
	repo        *repository.TarunaRepository
	importer    *ingest.Importer[domain.Taruna]
	defaultUnit string
	logger      *zap.Logger
}

func NewTarunaHandler(repo *repository.TarunaRepository, importer *ingest.Importer[domain.Taruna], defaultUnit string, logger *zap.Logger) *TarunaHandler {
	return &TarunaHandler{
		repo:        repo,
		importer:    importer,
		defaultUnit: defaultUnit,
		logger:      logger,
	}
}

func (h *TarunaHandler) filter(c *fiber.Ctx) repository.TarunaFilter {
	tahun, _ := strconv.Atoi(c.Query("tahun_masuk"))
	return repository.TarunaFilter{
		Search:       c.Query("search"),
		Status:       c.Query("status"),
		Jurusan:      c.Query("jurusan"),
		ProgramStudi: c.Query("program_studi"),
		TahunMasuk:   tahun,
		UptCode:      c.Query("upt"),
	}
}

func (h *TarunaHandler) List(c *fiber.Ctx) error {
	f := h.filter(c)
	f.Page, f.Limit = pageParams(c)

	list, total, err := h.repo.List(c.UserContext(), f)
	if err != nil {
		h.logger.Error("list taruna", zap.Error(err))
		return internalError(c, "Gagal mengambil data taruna")
	}
	return c.JSON(dto.SuccessWithMeta(list, dto.NewMeta(f.Page, f.Limit, total)))
}

func (h *TarunaHandler) Export(c *fiber.Ctx) error {
	list, _, err := h.repo.List(c.UserContext(), h.filter(c))
	if err != nil {
		h.logger.Error("export taruna", zap.Error(err))
		return internalError(c, "Gagal mengambil data taruna")
	}
	data, err := h.importer.Export(list)
	if err != nil {
		h.logger.Error("render taruna export", zap.Error(err))
		return internalError(c, "Gagal membuat file export")
	}
	return sendWorkbook(c, "export_taruna.xlsx", data)
}

func (h *TarunaHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.repo.Stats(c.UserContext(), c.Query("upt"))
	if err != nil {
		h.logger.Error("taruna stats", zap.Error(err))
		return internalError(c, "Gagal mengambil statistik taruna")
	}
	return c.JSON(dto.SuccessResponse(stats, ""))
}

func (h *TarunaHandler) Get(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	taruna, err := h.repo.FindByID(c.UserContext(), id)
	if err != nil {
		return h.lookupFailure(c, err)
	}
	return c.JSON(dto.SuccessResponse(taruna, ""))
}

func (h *TarunaHandler) GetByNIM(c *fiber.Ctx) error {
	taruna, err := h.repo.FindByNIM(c.UserContext(), c.Params("nim"))
	if err != nil {
		return h.lookupFailure(c, err)
	}
	return c.JSON(dto.SuccessResponse(taruna, ""))
}

func (h *TarunaHandler) ListByUpt(c *fiber.Ctx) error {
	list, err := h.repo.FindByUpt(c.UserContext(), c.Params("upt"))
	if err != nil {
		h.logger.Error("list taruna by upt", zap.Error(err))
		return internalError(c, "Gagal mengambil data taruna")
	}
	return c.JSON(dto.SuccessResponse(list, ""))
}

func (h *TarunaHandler) Create(c *fiber.Ctx) error {
	var req dto.TarunaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "Request body tidak valid"))
	}

	draft := &domain.Taruna{}
	if err := applyTarunaRequest(draft, &req); err != nil {
		return validationFailure(c, err)
	}
	record, err := h.normalize(draft, middleware.GetUnitCode(c, h.defaultUnit))
	if err != nil {
		return validationFailure(c, err)
	}

	ctx := c.UserContext()
	exists, err := h.repo.NIMExists(ctx, record.NIM, nil)
	if err != nil {
		return internalError(c, "Gagal memeriksa NIM")
	}
	if exists {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse("NIM_EXISTS", "NIM sudah terdaftar"))
	}

	if err := h.repo.Create(ctx, record); err != nil {
		h.logger.Error("create taruna", zap.Error(err))
		return internalError(c, "Gagal menyimpan taruna")
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse(record, "Taruna berhasil ditambahkan"))
}

func (h *TarunaHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}

	var req dto.TarunaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "Request body tidak valid"))
	}

	ctx := c.UserContext()
	existing, err := h.repo.FindByID(ctx, id)
	if err != nil {
		return h.lookupFailure(c, err)
	}

	if err := applyTarunaRequest(existing, &req); err != nil {
		return validationFailure(c, err)
	}
	record, err := h.normalize(existing, existing.UptCode)
	if err != nil {
		return validationFailure(c, err)
	}

	exists, err := h.repo.NIMExists(ctx, record.NIM, &id)
	if err != nil {
		return internalError(c, "Gagal memeriksa NIM")
	}
	if exists {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse("NIM_EXISTS", "NIM sudah terdaftar"))
	}

	if err := h.repo.Update(ctx, record); err != nil {
		h.logger.Error("update taruna", zap.Uint("id", id), zap.Error(err))
		return internalError(c, "Gagal memperbarui taruna")
	}
	return c.JSON(dto.SuccessResponse(record, "Taruna berhasil diperbarui"))
}

func (h *TarunaHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}

	ctx := c.UserContext()
	if _, err := h.repo.FindByID(ctx, id); err != nil {
		return h.lookupFailure(c, err)
	}
	if err := h.repo.Delete(ctx, id); err != nil {
		h.logger.Error("delete taruna", zap.Uint("id", id), zap.Error(err))
		return internalError(c, "Gagal menghapus taruna")
	}
	return c.JSON(dto.SuccessResponse(nil, "Taruna berhasil dihapus"))
}

func (h *TarunaHandler) normalize(t *domain.Taruna, unit string) (*domain.Taruna, error) {
	profile := h.importer.Profile()
	record, err := profile.Map(ingest.TextRow(0, profile.Render(t)...), unit)
	if err != nil {
		return nil, err
	}
	record.ID = t.ID
	record.CreatedAt = t.CreatedAt
	return record, nil
}

func (h *TarunaHandler) lookupFailure(c *fiber.Ctx, err error) error {
	if isNotFound(err) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse("NOT_FOUND", "Taruna tidak ditemukan"))
	}
	h.logger.Error("find taruna", zap.Error(err))
	return internalError(c, "Gagal mengambil data taruna")
}

func applyTarunaRequest(t *domain.Taruna, req *dto.TarunaRequest) error {
	setString(&t.NIM, req.NIM)
	setString(&t.Nama, req.Nama)
	setString(&t.TempatLahir, req.TempatLahir)
	setString(&t.Agama, req.Agama)
	setString(&t.Alamat, req.Alamat)
	setString(&t.Email, req.Email)
	setString(&t.Telepon, req.Telepon)
	setString(&t.ProgramStudi, req.ProgramStudi)
	setString(&t.Jurusan, req.Jurusan)
	if req.JenisKelamin != nil {
		t.JenisKelamin = domain.JenisKelamin(strings.TrimSpace(*req.JenisKelamin))
	}
	if req.Status != nil {
		t.Status = domain.TarunaStatus(strings.TrimSpace(*req.Status))
	}
	if req.TahunMasuk != nil {
		t.TahunMasuk = *req.TahunMasuk
	}
	if req.Semester != nil {
		t.Semester = *req.Semester
	}
	return setDate(&t.TanggalLahir, req.TanggalLahir)
}
