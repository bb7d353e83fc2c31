package constants

// Error codes surfaced by the sheets and upsert providers
const (
	ErrCodeInvalidAPIKey      = "INVALID_API_KEY"
	ErrCodeSpreadsheetMissing = "SPREADSHEET_NOT_FOUND"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeServerError        = "SERVER_ERROR"
	ErrCodeNetworkError       = "NETWORK_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"

	ErrCodeMissingConfig     = "MISSING_CONFIG"
	ErrCodeMappingNotFound   = "MAPPING_NOT_FOUND"
	ErrCodeConnectionRefused = "CONNECTION_REFUSED"
)

var errorMessages = map[string]string{
	ErrCodeInvalidAPIKey:      "API key was rejected by the remote endpoint",
	ErrCodeSpreadsheetMissing: "spreadsheet or sheet tab not found",
	ErrCodeRateLimited:        "remote endpoint is rate limiting requests",
	ErrCodeServerError:        "remote endpoint returned a server error",
	ErrCodeNetworkError:       "network error while contacting remote endpoint",
	ErrCodeBadRequest:         "remote endpoint rejected the request",
	ErrCodeMissingConfig:      "required sync configuration is missing",
	ErrCodeMappingNotFound:    "external identifier mapping not found",
	ErrCodeConnectionRefused:  "could not reach the mapping store",
}

// GetErrorMessage returns the operator-facing message for an error code.
func GetErrorMessage(code string) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "unknown error"
}
