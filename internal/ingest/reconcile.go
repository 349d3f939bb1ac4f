package ingest

import (
	"context"
)

// Outcome tells whether an upsert created or updated a record.
type Outcome int

const (
	Inserted Outcome = iota + 1
	Updated
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	}
	return "unknown"
}

// Upsert stores record under its natural key: an existing record is
// overwritten in place, otherwise a new one is inserted. Each call commits
// on its own.
func Upsert[T any](ctx context.Context, store Store[T], naturalKey func(*T) string, record *T) (Outcome, error) {
	existing, err := store.FindByNaturalKey(ctx, naturalKey(record))
	if err != nil {
		return 0, unexpected(err, "gagal mencari data")
	}
	if existing != nil {
		if err := store.Overwrite(ctx, existing, record); err != nil {
			return 0, unexpected(err, "gagal memperbarui data")
		}
		return Updated, nil
	}
	if err := store.Create(ctx, record); err != nil {
		return 0, unexpected(err, "gagal menyimpan data")
	}
	return Inserted, nil
}
