package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Upload is one spreadsheet handed to an import.
type Upload struct {
	Filename string
	Payload  []byte
}

// BatchResult summarizes one import call. Blank rows and the template notes
// block are not counted.
type BatchResult struct {
	Total    int
	Success  int
	Failed   int
	Inserted int
	Updated  int
	Skipped  int
	Errors   []string
}

// Message is the human-readable summary line of the batch.
func (r *BatchResult) Message() string {
	return fmt.Sprintf("Upload berhasil: %d data diproses, %d gagal", r.Success, r.Failed)
}

type Option func(*options)

type options struct {
	maxBytes int64
	logger   *zap.Logger
}

// WithMaxBytes sets the payload ceiling. Non-positive values keep the default.
func WithMaxBytes(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBytes = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Importer drives the ingestion pipeline of one entity type:
// read workbook, validate header, then map and upsert every row in file order.
type Importer[T any] struct {
	profile  Profile[T]
	store    Store[T]
	maxBytes int64
	logger   *zap.Logger
}

func NewImporter[T any](profile Profile[T], store Store[T], opts ...Option) *Importer[T] {
	o := options{maxBytes: DefaultMaxBytes, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Importer[T]{
		profile:  profile,
		store:    store,
		maxBytes: o.maxBytes,
		logger:   o.logger.With(zap.String("entity", profile.Entity)),
	}
}

func (im *Importer[T]) Profile() Profile[T] {
	return im.profile
}

func (im *Importer[T]) MaxBytes() int64 {
	return im.maxBytes
}

// Import processes an upload for unitCode. Row failures are reported in the
// result; the call itself fails only for unreadable payloads, a bad header,
// or when no row succeeds.
func (im *Importer[T]) Import(ctx context.Context, upload Upload, unitCode string) (*BatchResult, error) {
	im.logger.Info("processing upload", zap.String("file", upload.Filename), zap.Int("size", len(upload.Payload)))

	sheet, err := ReadWorkbook(upload.Filename, upload.Payload, im.maxBytes)
	if err != nil {
		im.logger.Warn("upload rejected", zap.String("file", upload.Filename), zap.Error(err))
		return nil, err
	}
	if err := ValidateHeader(sheet.Header, im.profile.Labels()); err != nil {
		im.logger.Warn("invalid header", zap.String("file", upload.Filename), zap.Error(err))
		return nil, err
	}

	result := &BatchResult{Errors: []string{}}
	for _, row := range sheet.Rows {
		if isNotesMarker(row) {
			break
		}
		if row.IsBlank() {
			result.Skipped++
			im.logger.Debug("blank row skipped", zap.Int("row", row.Number))
			continue
		}

		result.Total++
		outcome, key, err := im.processRow(ctx, row, unitCode)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, FormatRowError(row.Number, err))
			im.logger.Warn("row failed", zap.Int("row", row.Number), zap.Error(err))
			continue
		}

		result.Success++
		if outcome == Inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
		im.logger.Debug("row stored", zap.Int("row", row.Number), zap.String("key", key), zap.Stringer("outcome", outcome))
	}

	if result.Success == 0 && result.Failed > 0 {
		f := newFailure(ErrAllRowsFailed, "Semua data gagal diproses")
		f.RowErrors = result.Errors
		im.logger.Warn("all rows failed", zap.Int("failed", result.Failed))
		return nil, f
	}

	im.logger.Info("upload finished",
		zap.Int("total", result.Total),
		zap.Int("success", result.Success),
		zap.Int("failed", result.Failed),
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
	)
	return result, nil
}

func (im *Importer[T]) processRow(ctx context.Context, row RawRow, unitCode string) (Outcome, string, error) {
	record, err := im.profile.Map(row, unitCode)
	if err != nil {
		return 0, "", err
	}
	key := im.profile.NaturalKey(record)
	outcome, err := Upsert(ctx, im.store, im.profile.NaturalKey, record)
	return outcome, key, err
}
