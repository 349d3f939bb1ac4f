package handler

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/sidata/backend/internal/dto"
	"github.com/sidata/backend/internal/ingest"
	"github.com/sidata/backend/internal/middleware"
	"go.uber.org/zap"
)

// Archiver keeps a copy of accepted uploads.
type Archiver interface {
	Archive(ctx context.Context, entity, filename string, payload []byte) (string, error)
}

// ImportHandler serves spreadsheet upload and template download for one entity.
type ImportHandler[T any] struct {
	importer    *ingest.Importer[T]
	archiver    Archiver
	defaultUnit string
	logger      *zap.Logger
}

// NewImportHandler builds the handler. archiver may be nil.
func NewImportHandler[T any](importer *ingest.Importer[T], archiver Archiver, defaultUnit string, logger *zap.Logger) *ImportHandler[T] {
	return &ImportHandler[T]{
		importer:    importer,
		archiver:    archiver,
		defaultUnit: defaultUnit,
		logger:      logger,
	}
}

// Upload imports the multipart file under field "file".
func (h *ImportHandler[T]) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ImportError("FILE_REQUIRED", "File tidak ditemukan", nil, nil))
	}

	f, err := file.Open()
	if err != nil {
		h.logger.Error("open upload", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ImportError("INTERNAL_ERROR", "Gagal membuka file", nil, nil))
	}
	defer f.Close()

	// One byte past the ceiling is enough for the reader to reject it.
	payload, err := io.ReadAll(io.LimitReader(f, h.importer.MaxBytes()+1))
	if err != nil {
		h.logger.Error("read upload", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ImportError("INTERNAL_ERROR", "Gagal membaca file", nil, nil))
	}

	ctx := c.UserContext()
	unit := middleware.GetUnitCode(c, h.defaultUnit)
	upload := ingest.Upload{Filename: file.Filename, Payload: payload}

	result, err := h.importer.Import(ctx, upload, unit)
	archiveKey := ""
	if archivable(err) {
		archiveKey = h.archive(ctx, upload)
	}
	if err != nil {
		return h.importFailure(c, err)
	}

	return c.JSON(dto.ImportResponse{
		Success: true,
		Message: result.Message(),
		Summary: dto.ImportSummary{
			Total:    result.Total,
			Success:  result.Success,
			Failed:   result.Failed,
			Inserted: result.Inserted,
			Updated:  result.Updated,
			Skipped:  result.Skipped,
		},
		Errors:     result.Errors,
		ArchiveKey: archiveKey,
	})
}

// Template downloads the current records as an editable workbook.
func (h *ImportHandler[T]) Template(c *fiber.Ctx) error {
	data, err := h.importer.Template(c.UserContext())
	if err != nil {
		h.logger.Error("generate template", zap.String("entity", h.importer.Profile().Entity), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("TEMPLATE_ERROR", "Error generating template: "+err.Error()))
	}
	return sendWorkbook(c, fmt.Sprintf("template_%s.xlsx", h.importer.Profile().Entity), data)
}

func (h *ImportHandler[T]) archive(ctx context.Context, upload ingest.Upload) string {
	if h.archiver == nil {
		return ""
	}
	key, err := h.archiver.Archive(ctx, h.importer.Profile().Entity, upload.Filename, upload.Payload)
	if err != nil {
		h.logger.Warn("archive upload", zap.String("file", upload.Filename), zap.Error(err))
		return ""
	}
	return key
}

// archivable reports whether the payload was a readable workbook.
func archivable(err error) bool {
	return err == nil || errors.Is(err, ingest.ErrInvalidHeader) || errors.Is(err, ingest.ErrAllRowsFailed)
}

func (h *ImportHandler[T]) importFailure(c *fiber.Ctx, err error) error {
	f, ok := ingest.AsFailure(err)
	if !ok || errors.Is(err, ingest.ErrUnexpected) {
		h.logger.Error("import failed", zap.String("entity", h.importer.Profile().Entity), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ImportError(
			"INTERNAL_ERROR", "Terjadi kesalahan saat memproses file", nil, nil,
		))
	}

	code := "IMPORT_FAILED"
	switch {
	case errors.Is(err, ingest.ErrUnsupportedFormat):
		code = "INVALID_FILE_TYPE"
	case errors.Is(err, ingest.ErrPayloadTooLarge):
		code = "FILE_TOO_LARGE"
	case errors.Is(err, ingest.ErrEmptyPayload):
		code = "EMPTY_FILE"
	case errors.Is(err, ingest.ErrInvalidHeader):
		code = "INVALID_HEADER"
	case errors.Is(err, ingest.ErrAllRowsFailed):
		code = "ALL_ROWS_FAILED"
	}
	return c.Status(fiber.StatusBadRequest).JSON(dto.ImportError(code, f.Message, f.Missing, f.RowErrors))
}

func sendWorkbook(c *fiber.Ctx, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, ingest.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(data)
}
