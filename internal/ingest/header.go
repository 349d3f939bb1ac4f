package ingest

import "strings"

// MissingColumns returns the required labels that no header cell contains.
// Both sides are compared trimmed and upper-cased, and a header only needs to
// contain the label, so "NIP_LAMA" satisfies "NIP".
func MissingColumns(headers, required []string) []string {
	normalized := make([]string, 0, len(headers))
	for _, h := range headers {
		if h = normalizeLabel(h); h != "" {
			normalized = append(normalized, h)
		}
	}

	var missing []string
	for _, label := range required {
		want := normalizeLabel(label)
		found := false
		for _, h := range normalized {
			if strings.Contains(h, want) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, want)
		}
	}
	return missing
}

// ValidateHeader fails with ErrInvalidHeader when a required label is unmatched.
func ValidateHeader(header RawRow, required []string) error {
	texts := header.Texts()
	if len(texts) == 0 || header.IsBlank() {
		f := newFailure(ErrInvalidHeader, "Format header Excel tidak sesuai. Header tidak ditemukan")
		f.Missing = MissingColumns(nil, required)
		return f
	}

	missing := MissingColumns(texts, required)
	if len(missing) == 0 {
		return nil
	}
	f := newFailure(ErrInvalidHeader, "Format header Excel tidak sesuai. Kolom yang diperlukan: %s", strings.Join(missing, ", "))
	f.Missing = missing
	return f
}

func normalizeLabel(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
