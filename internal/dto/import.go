package dto

type ImportSummary struct {
	Total    int `json:"total"`
	Success  int `json:"success"`
	Failed   int `json:"failed"`
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

// ImportResponse is returned for a processed upload, including partial
// success. Callers detect partial failure through Summary.Failed.
type ImportResponse struct {
	Success    bool          `json:"success"`
	Message    string        `json:"message"`
	Summary    ImportSummary `json:"summary"`
	Errors     []string      `json:"errors"`
	ArchiveKey string        `json:"archive_key,omitempty"`
}

// ImportErrorResponse is returned when the whole upload is rejected.
type ImportErrorResponse struct {
	Success        bool       `json:"success"`
	Message        string     `json:"message"`
	Error          *ErrorInfo `json:"error"`
	MissingColumns []string   `json:"missing_columns,omitempty"`
	Errors         []string   `json:"errors,omitempty"`
}

func ImportError(code, message string, missing, rowErrors []string) ImportErrorResponse {
	return ImportErrorResponse{
		Success:        false,
		Message:        message,
		Error:          &ErrorInfo{Code: code, Message: message},
		MissingColumns: missing,
		Errors:         rowErrors,
	}
}
