package ingest

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingColumns_SubstringMatch(t *testing.T) {
	missing := MissingColumns([]string{" nip_lama ", "Nama Lengkap", "EMAIL KAMPUS"}, []string{"NIP", "NAMA", "EMAIL"})
	assert.Empty(t, missing)
}

func TestMissingColumns_ReportsUnmatchedInOrder(t *testing.T) {
	missing := MissingColumns([]string{"NIP", "NAMA"}, []string{"NIP", "EMAIL", "NAMA", "TELEPON"})
	assert.Equal(t, []string{"EMAIL", "TELEPON"}, missing)
}

func TestValidateHeader_NIPLamaSatisfiesNIP(t *testing.T) {
	labels := DosenProfile().Labels()
	values := make([]string, len(labels))
	copy(values, labels)
	values[0] = "NIP_LAMA"

	assert.NoError(t, ValidateHeader(TextRow(1, values...), labels))
}

func TestValidateHeader_MissingEmail(t *testing.T) {
	labels := DosenProfile().Labels()
	var values []string
	for _, l := range labels {
		if l != "EMAIL" {
			values = append(values, l)
		}
	}

	err := ValidateHeader(TextRow(1, values...), labels)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidHeader))

	f, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, []string{"EMAIL"}, f.Missing)
	assert.Equal(t, "Format header Excel tidak sesuai. Kolom yang diperlukan: EMAIL", f.Message)
}

func TestValidateHeader_BlankHeader(t *testing.T) {
	err := ValidateHeader(TextRow(1, "", " "), []string{"NIM"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidHeader))
}
