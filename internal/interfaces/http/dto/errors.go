package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeValidation is used when request validation fails
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when the caller's identity is missing or invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

// Sync configuration error codes
const (
	// ErrCodeUnknownEntityKind is used when an integration targets a local
	// entity kind outside the closed registry
	ErrCodeUnknownEntityKind = "ERR_UNKNOWN_ENTITY_KIND"
	// ErrCodeInvalidSchedule is used when a sync schedule cannot be parsed
	// or is below the minimum interval
	ErrCodeInvalidSchedule = "ERR_INVALID_SCHEDULE"
	// ErrCodeMappingGap is used when a remote-required field has no local
	// source value on export
	ErrCodeMappingGap = "ERR_MAPPING_GAP"
)

// Remote ERP error codes. These describe failures of the upstream system,
// not of the caller's request, so they map to 502.
const (
	// ErrCodeRemoteAuthFailed is used when the ERP rejects the stored credentials
	ErrCodeRemoteAuthFailed = "ERR_REMOTE_AUTH_FAILED"
	// ErrCodeRemoteSessionExpired is used when the ERP session lapsed mid-operation
	ErrCodeRemoteSessionExpired = "ERR_REMOTE_SESSION_EXPIRED"
	// ErrCodeRemoteUnavailable is used for ERP transport failures
	ErrCodeRemoteUnavailable = "ERR_REMOTE_UNAVAILABLE"
	// ErrCodeRemoteResponse is used when the ERP returns an unparseable response
	ErrCodeRemoteResponse = "ERR_REMOTE_RESPONSE"
	// ErrCodeRemotePushFailed is used when an export push fails; the local
	// record is left untouched
	ErrCodeRemotePushFailed = "ERR_REMOTE_PUSH_FAILED"
)

// Credential vault error codes
const (
	// ErrCodeCredentialVault is used when a stored credential envelope cannot
	// be opened. This is an operator problem (key rotation, corrupt row),
	// never something the caller can fix.
	ErrCodeCredentialVault = "ERR_CREDENTIAL_VAULT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeValidation:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound: http.StatusNotFound,
	ErrCodeConflict: http.StatusConflict,

	// Sync configuration errors
	ErrCodeUnknownEntityKind: http.StatusBadRequest,
	ErrCodeInvalidSchedule:   http.StatusBadRequest,
	ErrCodeMappingGap:        http.StatusUnprocessableEntity,

	// Remote ERP errors -> 502 Bad Gateway
	ErrCodeRemoteAuthFailed:     http.StatusBadGateway,
	ErrCodeRemoteSessionExpired: http.StatusBadGateway,
	ErrCodeRemoteUnavailable:    http.StatusBadGateway,
	ErrCodeRemoteResponse:       http.StatusBadGateway,
	ErrCodeRemotePushFailed:     http.StatusBadGateway,

	// Vault errors
	ErrCodeCredentialVault: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
