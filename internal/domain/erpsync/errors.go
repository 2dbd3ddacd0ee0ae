package erpsync

import "errors"

var (
	// Credential vault errors
	ErrEnvelopeFormat   = errors.New("erpsync: malformed credential envelope")
	ErrDecryptionFailed = errors.New("erpsync: credential decryption failed")

	// Remote session errors
	ErrAuthenticationFailed = errors.New("erpsync: ERP authentication failed")
	ErrSessionExpired       = errors.New("erpsync: ERP session expired")
	ErrTransport            = errors.New("erpsync: ERP transport failure")
	ErrInvalidResponse      = errors.New("erpsync: invalid ERP response")
	ErrRemoteRequestFailed  = errors.New("erpsync: ERP request failed")
	ErrRemoteObjectUnknown  = errors.New("erpsync: remote object not present in catalogue")

	// Mapping errors
	ErrMappingGap = errors.New("erpsync: required remote field has no local source value")

	// Configuration errors
	ErrConnectionNotFound     = errors.New("erpsync: connection not found")
	ErrConnectionInvalid      = errors.New("erpsync: invalid connection")
	ErrIntegrationNotFound    = errors.New("erpsync: integration not found")
	ErrIntegrationInactive    = errors.New("erpsync: integration is inactive")
	ErrIntegrationInvalid     = errors.New("erpsync: invalid integration")
	ErrUnknownEntityKind      = errors.New("erpsync: unknown local entity kind")
	ErrInvalidSchedule        = errors.New("erpsync: invalid sync schedule")
	ErrNoFieldMappings        = errors.New("erpsync: integration has no field mappings")

	// Local storage errors
	ErrRecordNotFound = errors.New("erpsync: local record not found")

	// Export errors
	ErrRemotePushFailed = errors.New("erpsync: remote push failed, local record left untouched")
)
