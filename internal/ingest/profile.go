package ingest

import (
	"context"
	"strings"
)

// Column is one expected spreadsheet column. Its position in Profile.Columns
// is the zero-based index the mapper reads it from.
type Column struct {
	Label string
	Width float64
}

// Profile describes the import shape of one entity type.
type Profile[T any] struct {
	// Entity names the records, e.g. "dosen". Used in filenames and logs.
	Entity    string
	SheetName string
	Columns   []Column
	// NaturalKey returns the upsert key of a record.
	NaturalKey func(*T) string
	// Map validates one row and builds a record owned by unitCode.
	// Failures are *RowValidationError.
	Map func(row RawRow, unitCode string) (*T, error)
	// Render is the inverse of Map, producing one text cell per column.
	Render func(*T) []string
	// Samples are shown in the template when no records exist.
	Samples [][]string
	// Notes are appended below the data, first line being NotesMarker.
	Notes []string
}

// NotesMarker opens the usage notes block of a generated template.
const NotesMarker = "CATATAN PENGISIAN:"

func (p Profile[T]) Labels() []string {
	labels := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		labels[i] = c.Label
	}
	return labels
}

// isNotesMarker reports whether a row opens the template notes block.
func isNotesMarker(row RawRow) bool {
	return strings.EqualFold(row.Text(0), NotesMarker)
}

// Store is the persistence collaborator of one entity type.
type Store[T any] interface {
	// FindByNaturalKey returns nil, nil when no record has the key.
	FindByNaturalKey(ctx context.Context, key string) (*T, error)
	Create(ctx context.Context, record *T) error
	// Overwrite copies the imported fields of incoming onto existing.
	Overwrite(ctx context.Context, existing, incoming *T) error
	// ListNewestFirst returns every record, most recently inserted first.
	ListNewestFirst(ctx context.Context) ([]T, error)
}
