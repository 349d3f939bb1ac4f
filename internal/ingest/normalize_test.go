package ingest

import (
	"testing"

	"github.com/sidata/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeDosenStatus(t *testing.T) {
	tests := []struct {
		raw         string
		want        domain.DosenStatus
		usedDefault bool
	}{
		{"pensiun", domain.DosenPension, false},
		{" PenSiun ", domain.DosenPension, false},
		{"PENSION", domain.DosenPension, false},
		{"cuti", domain.DosenCuti, false},
		{"", domain.DosenAktif, true},
		{"mutasi", domain.DosenAktif, true},
	}

	for _, tt := range tests {
		got, usedDefault := NormalizeDosenStatus(tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
		assert.Equal(t, tt.usedDefault, usedDefault, tt.raw)
	}
}

func TestNormalizePendidikan(t *testing.T) {
	got, usedDefault := NormalizePendidikan("s3")
	assert.Equal(t, domain.PendidikanS3, got)
	assert.False(t, usedDefault)

	got, usedDefault = NormalizePendidikan("D4")
	assert.Equal(t, domain.PendidikanS1, got)
	assert.True(t, usedDefault)
}

func TestNormalizeTarunaStatus(t *testing.T) {
	got, usedDefault := NormalizeTarunaStatus("drop_out")
	assert.Equal(t, domain.TarunaDropOut, got)
	assert.False(t, usedDefault)

	got, usedDefault = NormalizeTarunaStatus("alumni")
	assert.Equal(t, domain.TarunaAktif, got)
	assert.True(t, usedDefault)
}

func TestNormalizeJenisKelamin(t *testing.T) {
	tests := map[string]domain.JenisKelamin{
		"l":         domain.LakiLaki,
		"Laki-Laki": domain.LakiLaki,
		"p":         domain.Perempuan,
		"perempuan": domain.Perempuan,
		"":          domain.LakiLaki,
	}
	for raw, want := range tests {
		got, _ := NormalizeJenisKelamin(raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("budi@kampus.ac.id"))
	assert.False(t, IsValidEmail("budi@kampus"))
	assert.False(t, IsValidEmail("budi kampus@ac.id"))
	assert.False(t, IsValidEmail("@kampus.ac.id"))
}

func TestDigitCount(t *testing.T) {
	assert.Equal(t, 18, DigitCount("19801215 200501 1 001"))
	assert.Equal(t, 0, DigitCount("abc"))
}
