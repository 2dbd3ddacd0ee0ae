package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/parkops/backend/internal/domain/erpsync"
	"github.com/parkops/backend/internal/interfaces/http/dto"
)

// RequestIDKey is the context key for request ID
const RequestIDKey = "request_id"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return ""
}

// getUserID extracts the caller's account ID. Identity is handled by the
// gateway in front of this service; it forwards the account as a header.
func getUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr := c.GetHeader("X-User-ID")
	if userIDStr == "" {
		return uuid.Nil, errors.New("user ID not found in request")
	}
	return uuid.Parse(userIDStr)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	requestID := getRequestID(c)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// errorCodes maps domain sentinel errors to API error codes. Order matters
// for wrapped chains only insofar as the first match wins.
var errorCodes = []struct {
	err  error
	code string
}{
	{erpsync.ErrConnectionNotFound, dto.ErrCodeNotFound},
	{erpsync.ErrIntegrationNotFound, dto.ErrCodeNotFound},
	{erpsync.ErrRecordNotFound, dto.ErrCodeNotFound},
	{erpsync.ErrConnectionInvalid, dto.ErrCodeValidation},
	{erpsync.ErrIntegrationInvalid, dto.ErrCodeValidation},
	{erpsync.ErrNoFieldMappings, dto.ErrCodeValidation},
	{erpsync.ErrIntegrationInactive, dto.ErrCodeConflict},
	{erpsync.ErrUnknownEntityKind, dto.ErrCodeUnknownEntityKind},
	{erpsync.ErrInvalidSchedule, dto.ErrCodeInvalidSchedule},
	{erpsync.ErrMappingGap, dto.ErrCodeMappingGap},
	{erpsync.ErrAuthenticationFailed, dto.ErrCodeRemoteAuthFailed},
	{erpsync.ErrSessionExpired, dto.ErrCodeRemoteSessionExpired},
	{erpsync.ErrTransport, dto.ErrCodeRemoteUnavailable},
	{erpsync.ErrInvalidResponse, dto.ErrCodeRemoteResponse},
	{erpsync.ErrRemoteRequestFailed, dto.ErrCodeRemoteResponse},
	{erpsync.ErrRemotePushFailed, dto.ErrCodeRemotePushFailed},
	{erpsync.ErrEnvelopeFormat, dto.ErrCodeCredentialVault},
	{erpsync.ErrDecryptionFailed, dto.ErrCodeCredentialVault},
}

// HandleError converts domain errors to HTTP responses. Unknown error types
// become an opaque 500: internal details never reach the client.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	for _, m := range errorCodes {
		if errors.Is(err, m.err) {
			h.ErrorWithCode(c, m.code, m.err.Error())
			return
		}
	}

	h.InternalError(c, "An unexpected error occurred")
}
