package erpsync

import (
	"time"

	"github.com/google/uuid"

	"github.com/parkops/backend/internal/domain/erpsync"
)

// =============================================================================
// Connection DTOs
// =============================================================================

// CreateConnectionRequest represents a request to register a remote ERP
// endpoint. Password is the only place plaintext credentials enter the
// system; it is sealed before the connection is constructed and is never
// echoed back.
type CreateConnectionRequest struct {
	Username       string     `json:"username" binding:"required,min=1,max=100"`
	Password       string     `json:"password" binding:"required,min=1,max=200"`
	AppID          string     `json:"app_id" binding:"required,min=1,max=50"`
	Company        string     `json:"company" binding:"max=50"`
	Branch         string     `json:"branch" binding:"max=50"`
	Module         string     `json:"module" binding:"max=50"`
	ReferenceID    string     `json:"reference_id" binding:"max=100"`
	RegisteredName string     `json:"registered_name" binding:"max=200"`
	OwnerID        *uuid.UUID `json:"-"` // Set from request context, not from request body
}

// UpdateConnectionRequest represents a request to update a connection.
// A nil Password leaves the stored envelope untouched.
type UpdateConnectionRequest struct {
	Username       *string `json:"username" binding:"omitempty,min=1,max=100"`
	Password       *string `json:"password" binding:"omitempty,min=1,max=200"`
	AppID          *string `json:"app_id" binding:"omitempty,min=1,max=50"`
	Company        *string `json:"company" binding:"omitempty,max=50"`
	Branch         *string `json:"branch" binding:"omitempty,max=50"`
	Module         *string `json:"module" binding:"omitempty,max=50"`
	ReferenceID    *string `json:"reference_id" binding:"omitempty,max=100"`
	RegisteredName *string `json:"registered_name" binding:"omitempty,max=200"`
}

// ConnectionResponse represents a connection in API responses. It carries
// neither the plaintext password nor the stored envelope.
type ConnectionResponse struct {
	ID             uuid.UUID `json:"id"`
	OwnerID        uuid.UUID `json:"owner_id"`
	Username       string    `json:"username"`
	AppID          string    `json:"app_id"`
	Company        string    `json:"company"`
	Branch         string    `json:"branch"`
	Module         string    `json:"module"`
	ReferenceID    string    `json:"reference_id"`
	RegisteredName string    `json:"registered_name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToConnectionResponse converts a domain Connection to ConnectionResponse
func ToConnectionResponse(c *erpsync.Connection) ConnectionResponse {
	return ConnectionResponse{
		ID:             c.ID,
		OwnerID:        c.OwnerID,
		Username:       c.Username,
		AppID:          c.AppID,
		Company:        c.Company,
		Branch:         c.Branch,
		Module:         c.Module,
		ReferenceID:    c.ReferenceID,
		RegisteredName: c.RegisteredName,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// =============================================================================
// Integration DTOs
// =============================================================================

// CreateIntegrationRequest represents a request to bind a connection to one
// remote object and one local entity kind.
type CreateIntegrationRequest struct {
	ConnectionID   uuid.UUID         `json:"connection_id" binding:"required"`
	ModelName      string            `json:"model_name" binding:"required"`
	ObjectName     string            `json:"object_name" binding:"required,min=1,max=200"`
	FieldMappings  map[string]string `json:"field_mappings" binding:"required"`
	KeyField       string            `json:"key_field" binding:"required,min=1,max=100"`
	RequiredFields []string          `json:"required_fields"`
	Schedule       string            `json:"schedule" binding:"required"`
}

// UpdateIntegrationRequest represents a request to update an integration's
// mapping table or schedule.
type UpdateIntegrationRequest struct {
	ObjectName     *string           `json:"object_name" binding:"omitempty,min=1,max=200"`
	FieldMappings  map[string]string `json:"field_mappings"`
	KeyField       *string           `json:"key_field" binding:"omitempty,min=1,max=100"`
	RequiredFields []string          `json:"required_fields"`
	Schedule       *string           `json:"schedule"`
}

// IntegrationResponse represents an integration in API responses
type IntegrationResponse struct {
	ID             uuid.UUID         `json:"id"`
	ConnectionID   uuid.UUID         `json:"connection_id"`
	ModelName      string            `json:"model_name"`
	ObjectName     string            `json:"object_name"`
	FieldMappings  map[string]string `json:"field_mappings"`
	KeyField       string            `json:"key_field"`
	RequiredFields []string          `json:"required_fields"`
	Schedule       string            `json:"schedule"`
	IsActive       bool              `json:"is_active"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ToIntegrationResponse converts a domain Integration to IntegrationResponse
func ToIntegrationResponse(i *erpsync.Integration) IntegrationResponse {
	return IntegrationResponse{
		ID:             i.ID,
		ConnectionID:   i.ConnectionID,
		ModelName:      string(i.Mapping.ModelName),
		ObjectName:     i.Mapping.ObjectName,
		FieldMappings:  i.Mapping.FieldMappings,
		KeyField:       i.Mapping.KeyField,
		RequiredFields: i.Mapping.RequiredFields,
		Schedule:       i.Mapping.Schedule,
		IsActive:       i.IsActive,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
}

// =============================================================================
// Sync DTOs
// =============================================================================

// RunBatchRequest represents a request to run one page of an integration
type RunBatchRequest struct {
	IntegrationID uuid.UUID `json:"integration_id" binding:"required"`
	Limit         int       `json:"limit" binding:"omitempty,min=1,max=1000"`
	Offset        int       `json:"offset" binding:"omitempty,min=0"`
}

// RunFullRequest represents a request to run an integration to completion
type RunFullRequest struct {
	IntegrationID uuid.UUID `json:"integration_id" binding:"required"`
}

// ExportRecordRequest represents a request to update one local record and
// optionally push the result to the remote ERP first.
type ExportRecordRequest struct {
	NaturalKey string         `json:"natural_key" binding:"required,min=1,max=200"`
	Updates    map[string]any `json:"updates" binding:"required"`
	SyncToErp  bool           `json:"sync_to_erp"`
}

// BatchResultResponse represents the outcome of one sync run
type BatchResultResponse struct {
	Created    int  `json:"created"`
	Updated    int  `json:"updated"`
	Errors     int  `json:"errors"`
	Total      int  `json:"total"`
	NextOffset int  `json:"next_offset"`
	HasMore    bool `json:"has_more"`
}

// ToBatchResultResponse converts a domain BatchResult to BatchResultResponse
func ToBatchResultResponse(r *erpsync.BatchResult) BatchResultResponse {
	return BatchResultResponse{
		Created:    r.Stats.Created,
		Updated:    r.Stats.Updated,
		Errors:     r.Stats.Errors,
		Total:      r.Progress.Total,
		NextOffset: r.Progress.NextOffset,
		HasMore:    r.Progress.HasMore,
	}
}

// RemoteObjectResponse represents one catalogue entry in API responses
type RemoteObjectResponse struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ToRemoteObjectResponses converts catalogue entries to API responses
func ToRemoteObjectResponses(objects []erpsync.RemoteObject) []RemoteObjectResponse {
	out := make([]RemoteObjectResponse, 0, len(objects))
	for _, o := range objects {
		out = append(out, RemoteObjectResponse{Name: o.Name, Type: o.Type})
	}
	return out
}
