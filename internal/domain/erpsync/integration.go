package erpsync

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FieldIgnored is the sentinel mapping value meaning "ignore this remote
// field": it never produces a key in the translated local record.
const FieldIgnored = "none"

// MinSyncInterval is the smallest schedule an integration may carry. Shorter
// intervals would let runs pile up against the single-flight guard.
const MinSyncInterval = time.Minute

// ---------------------------------------------------------------------------
// ModelMapping Value Object
// ---------------------------------------------------------------------------

// ModelMapping is the admin-configured translation table between one remote
// object and one local entity kind.
type ModelMapping struct {
	// ModelName is the local entity kind records are written to
	ModelName EntityKind
	// ObjectName is the remote object this integration reads from / writes to
	ObjectName string
	// FieldMappings associates each remote field with a local field, or
	// FieldIgnored to drop the remote field
	FieldMappings map[string]string
	// KeyField is the remote field carrying the natural key. It is the single
	// source of truth for which remote field supplies the local unique key.
	KeyField string
	// RequiredFields are remote fields the ERP mandates on writes (for
	// example a parent-record id); they are force-included on export even
	// when the mapped local record lacks them
	RequiredFields []string
	// Schedule is the recurring sync interval, in time.ParseDuration syntax
	Schedule string
}

// Validate validates the mapping table
func (m *ModelMapping) Validate() error {
	if !m.ModelName.IsValid() {
		return ErrUnknownEntityKind
	}
	if m.ObjectName == "" || m.KeyField == "" {
		return ErrIntegrationInvalid
	}
	if len(m.FieldMappings) == 0 {
		return ErrNoFieldMappings
	}
	if _, err := m.Interval(); err != nil {
		return err
	}
	return nil
}

// Interval parses the stored schedule into a duration
func (m *ModelMapping) Interval() (time.Duration, error) {
	d, err := time.ParseDuration(m.Schedule)
	if err != nil || d < MinSyncInterval {
		return 0, ErrInvalidSchedule
	}
	return d, nil
}

// KeyLocalField returns the local field the natural key maps to. When the
// mapping table omits the key field, the key is still carried under the
// remote field name so every synced record keeps its natural key.
func (m *ModelMapping) KeyLocalField() string {
	if local, ok := m.FieldMappings[m.KeyField]; ok && local != FieldIgnored {
		return local
	}
	return m.KeyField
}

// ---------------------------------------------------------------------------
// Integration Entity
// ---------------------------------------------------------------------------

// Integration binds a Connection to one remote object and one local entity
// kind, with the mapping table and schedule that drive its recurring sync.
type Integration struct {
	// ID is the unique identifier of this integration
	ID uuid.UUID
	// ConnectionID is the connection used to reach the remote ERP
	ConnectionID uuid.UUID
	// Mapping is the admin-configured model mapping
	Mapping ModelMapping
	// IsActive indicates whether the scheduler should run this integration
	IsActive bool
	// CreatedAt is when this integration was created
	CreatedAt time.Time
	// UpdatedAt is when this integration was last updated
	UpdatedAt time.Time
}

// NewIntegration creates a new integration
func NewIntegration(connectionID uuid.UUID, mapping ModelMapping) (*Integration, error) {
	if connectionID == uuid.Nil {
		return nil, ErrIntegrationInvalid
	}
	if err := mapping.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Integration{
		ID:           uuid.New(),
		ConnectionID: connectionID,
		Mapping:      mapping,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Validate validates the integration
func (i *Integration) Validate() error {
	if i.ConnectionID == uuid.Nil {
		return ErrIntegrationInvalid
	}
	return i.Mapping.Validate()
}

// Activate marks the integration as schedulable
func (i *Integration) Activate() {
	i.IsActive = true
	i.UpdatedAt = time.Now()
}

// Deactivate stops future scheduled runs
func (i *Integration) Deactivate() {
	i.IsActive = false
	i.UpdatedAt = time.Now()
}

// ---------------------------------------------------------------------------
// IntegrationRepository Interface
// ---------------------------------------------------------------------------

// IntegrationRepository defines persistence for integrations
type IntegrationRepository interface {
	// FindByID finds an integration by its ID.
	// Returns ErrIntegrationNotFound when it does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*Integration, error)

	// FindActive returns every active integration
	FindActive(ctx context.Context) ([]Integration, error)

	// FindByEntityKind returns active integrations targeting a local entity kind
	FindByEntityKind(ctx context.Context, kind EntityKind) ([]Integration, error)

	// Save creates or updates an integration
	Save(ctx context.Context, integration *Integration) error

	// Delete deletes an integration
	Delete(ctx context.Context, id uuid.UUID) error
}
