package ingest

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/sidata/backend/internal/domain"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// memStore is an in-memory Store keyed by the profile natural key.
type memStore[T any] struct {
	key     func(*T) string
	records []T
	failKey string
}

func newMemStore[T any](key func(*T) string) *memStore[T] {
	return &memStore[T]{key: key}
}

func (s *memStore[T]) FindByNaturalKey(_ context.Context, key string) (*T, error) {
	for i := range s.records {
		if s.key(&s.records[i]) == key {
			found := s.records[i]
			return &found, nil
		}
	}
	return nil, nil
}

func (s *memStore[T]) Create(_ context.Context, record *T) error {
	if s.failKey != "" && s.key(record) == s.failKey {
		return errors.New("connection reset")
	}
	s.records = append(s.records, *record)
	return nil
}

func (s *memStore[T]) Overwrite(_ context.Context, existing, incoming *T) error {
	for i := range s.records {
		if s.key(&s.records[i]) == s.key(existing) {
			s.records[i] = *incoming
			return nil
		}
	}
	return errors.New("record vanished")
}

func (s *memStore[T]) ListNewestFirst(context.Context) ([]T, error) {
	out := make([]T, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

// workbook builds an xlsx payload with one row per argument, starting at A1.
func workbook(t *testing.T, rows ...[]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &rows[i]))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func dosenHeader() []interface{} {
	return []interface{}{
		"NIP", "NIDN", "NAMA", "GELAR_DEPAN", "GELAR_BELAKANG", "JURUSAN", "PROGRAM_STUDI",
		"JABATAN", "PENDIDIKAN_TERAKHIR", "STATUS", "EMAIL", "TELEPON",
	}
}

func dosenRow(nip, nama, email string) []interface{} {
	return []interface{}{
		nip, "", nama, "Dr.", "M.Kom.", "Teknik Informatika", "S1 Teknik Informatika",
		"Lektor", "S2", "AKTIF", email, "08123456789",
	}
}

func tarunaHeader() []interface{} {
	return []interface{}{
		"NIM", "NAMA", "TEMPAT_LAHIR", "TANGGAL_LAHIR", "JENIS_KELAMIN", "AGAMA", "ALAMAT",
		"EMAIL", "TELEPON", "PROGRAM_STUDI", "JURUSAN", "TAHUN_MASUK", "SEMESTER", "STATUS",
	}
}

func tarunaRow(nim, nama, email string) []interface{} {
	return []interface{}{
		nim, nama, "Jakarta", "2000-05-15", "L", "Islam", "Jl. Merdeka No. 1",
		email, "0812000111", "Teknik Informatika", "Teknik", "2023", "3", "AKTIF",
	}
}

func newDosenImporter() (*Importer[domain.Dosen], *memStore[domain.Dosen]) {
	profile := DosenProfile()
	store := newMemStore(profile.NaturalKey)
	return NewImporter(profile, Store[domain.Dosen](store)), store
}
