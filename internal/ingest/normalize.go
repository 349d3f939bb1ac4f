package ingest

import (
	"regexp"
	"strings"

	"github.com/sidata/backend/internal/domain"
)

// Enum normalizes a free-text cell onto a fixed value set. Unknown or blank
// input falls back to Default; the second return value reports that fallback.
type Enum struct {
	Default string
	Values  []string
	// Aliases maps alternative spellings onto a canonical value.
	Aliases map[string]string
}

func (e Enum) Normalize(raw string) (string, bool) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if v == "" {
		return e.Default, true
	}
	if canonical, ok := e.Aliases[v]; ok {
		return canonical, false
	}
	for _, allowed := range e.Values {
		if v == allowed {
			return v, false
		}
	}
	return e.Default, true
}

var (
	DosenStatuses = Enum{
		Default: string(domain.DosenAktif),
		Values:  []string{string(domain.DosenAktif), string(domain.DosenCuti), string(domain.DosenPension)},
		Aliases: map[string]string{"PENSIUN": string(domain.DosenPension)},
	}

	PendidikanLevels = Enum{
		Default: string(domain.PendidikanS1),
		Values:  []string{string(domain.PendidikanS1), string(domain.PendidikanS2), string(domain.PendidikanS3)},
	}

	TarunaStatuses = Enum{
		Default: string(domain.TarunaAktif),
		Values: []string{
			string(domain.TarunaAktif), string(domain.TarunaCuti),
			string(domain.TarunaDropOut), string(domain.TarunaLulus),
		},
	}

	JenisKelaminValues = Enum{
		Default: string(domain.LakiLaki),
		Values:  []string{string(domain.LakiLaki), string(domain.Perempuan)},
		Aliases: map[string]string{
			"LAKI-LAKI": string(domain.LakiLaki),
			"PEREMPUAN": string(domain.Perempuan),
		},
	}
)

// NormalizeDosenStatus canonicalizes a faculty status; "PENSIUN" becomes "PENSION".
func NormalizeDosenStatus(raw string) (domain.DosenStatus, bool) {
	v, usedDefault := DosenStatuses.Normalize(raw)
	return domain.DosenStatus(v), usedDefault
}

func NormalizePendidikan(raw string) (domain.Pendidikan, bool) {
	v, usedDefault := PendidikanLevels.Normalize(raw)
	return domain.Pendidikan(v), usedDefault
}

func NormalizeTarunaStatus(raw string) (domain.TarunaStatus, bool) {
	v, usedDefault := TarunaStatuses.Normalize(raw)
	return domain.TarunaStatus(v), usedDefault
}

func NormalizeJenisKelamin(raw string) (domain.JenisKelamin, bool) {
	v, usedDefault := JenisKelaminValues.Normalize(raw)
	return domain.JenisKelamin(v), usedDefault
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nidnPattern  = regexp.MustCompile(`^\d{10}$`)
	nonDigit     = regexp.MustCompile(`\D`)
)

// IsValidEmail checks the local@domain.tld shape only.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// DigitCount counts the digits left after stripping every other character.
func DigitCount(s string) int {
	return len(nonDigit.ReplaceAllString(s, ""))
}
