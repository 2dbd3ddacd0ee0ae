package erpsync

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/parkops/backend/internal/domain/erpsync"
)

// ScheduleRegistry is the scheduler surface the integration lifecycle
// touches: activating an integration registers its timer, deactivating or
// deleting it removes the timer. The registry may be nil when scheduling is
// disabled.
type ScheduleRegistry interface {
	Register(integration *erpsync.Integration) error
	Unregister(integrationID uuid.UUID)
}

// IntegrationService manages sync integration configurations and keeps the
// scheduler's timer set in step with their lifecycle.
type IntegrationService struct {
	integrations erpsync.IntegrationRepository
	connections  erpsync.ConnectionRepository
	registry     ScheduleRegistry
}

// NewIntegrationService creates a new IntegrationService
func NewIntegrationService(
	integrations erpsync.IntegrationRepository,
	connections erpsync.ConnectionRepository,
	registry ScheduleRegistry,
) *IntegrationService {
	return &IntegrationService{
		integrations: integrations,
		connections:  connections,
		registry:     registry,
	}
}

// Create configures a new integration. The referenced connection must exist,
// and the mapping table is validated before anything is persisted. New
// integrations start active and are registered with the scheduler.
func (s *IntegrationService) Create(ctx context.Context, req CreateIntegrationRequest) (*IntegrationResponse, error) {
	if _, err := s.connections.FindByID(ctx, req.ConnectionID); err != nil {
		return nil, err
	}

	mapping := erpsync.ModelMapping{
		ModelName:      erpsync.EntityKind(req.ModelName),
		ObjectName:     req.ObjectName,
		FieldMappings:  req.FieldMappings,
		KeyField:       req.KeyField,
		RequiredFields: req.RequiredFields,
		Schedule:       req.Schedule,
	}

	integration, err := erpsync.NewIntegration(req.ConnectionID, mapping)
	if err != nil {
		return nil, err
	}

	if err := s.integrations.Save(ctx, integration); err != nil {
		return nil, err
	}
	s.register(integration)

	resp := ToIntegrationResponse(integration)
	return &resp, nil
}

// Get returns a single integration
func (s *IntegrationService) Get(ctx context.Context, id uuid.UUID) (*IntegrationResponse, error) {
	integration, err := s.integrations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToIntegrationResponse(integration)
	return &resp, nil
}

// ListActive returns every active integration
func (s *IntegrationService) ListActive(ctx context.Context) ([]IntegrationResponse, error) {
	integrations, err := s.integrations.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]IntegrationResponse, 0, len(integrations))
	for i := range integrations {
		out = append(out, ToIntegrationResponse(&integrations[i]))
	}
	return out, nil
}

// Update applies partial changes to an integration's mapping table. An
// active integration is re-registered so a schedule change takes effect
// immediately.
func (s *IntegrationService) Update(ctx context.Context, id uuid.UUID, req UpdateIntegrationRequest) (*IntegrationResponse, error) {
	integration, err := s.integrations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ObjectName != nil {
		integration.Mapping.ObjectName = *req.ObjectName
	}
	if req.FieldMappings != nil {
		integration.Mapping.FieldMappings = req.FieldMappings
	}
	if req.KeyField != nil {
		integration.Mapping.KeyField = *req.KeyField
	}
	if req.RequiredFields != nil {
		integration.Mapping.RequiredFields = req.RequiredFields
	}
	if req.Schedule != nil {
		integration.Mapping.Schedule = *req.Schedule
	}

	if err := integration.Validate(); err != nil {
		return nil, err
	}
	integration.UpdatedAt = time.Now()

	if err := s.integrations.Save(ctx, integration); err != nil {
		return nil, err
	}
	if integration.IsActive {
		s.register(integration)
	}

	resp := ToIntegrationResponse(integration)
	return &resp, nil
}

// Activate resumes scheduled runs for an integration
func (s *IntegrationService) Activate(ctx context.Context, id uuid.UUID) (*IntegrationResponse, error) {
	integration, err := s.integrations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	integration.Activate()
	if err := s.integrations.Save(ctx, integration); err != nil {
		return nil, err
	}
	s.register(integration)

	resp := ToIntegrationResponse(integration)
	return &resp, nil
}

// Deactivate stops scheduled runs for an integration. The configuration is
// kept; only the timer goes away.
func (s *IntegrationService) Deactivate(ctx context.Context, id uuid.UUID) (*IntegrationResponse, error) {
	integration, err := s.integrations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	integration.Deactivate()
	if err := s.integrations.Save(ctx, integration); err != nil {
		return nil, err
	}
	if s.registry != nil {
		s.registry.Unregister(integration.ID)
	}

	resp := ToIntegrationResponse(integration)
	return &resp, nil
}

// Delete removes an integration and its scheduled timer
func (s *IntegrationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.integrations.Delete(ctx, id); err != nil {
		return err
	}
	if s.registry != nil {
		s.registry.Unregister(id)
	}
	return nil
}

// register is best-effort: a persisted integration whose schedule the
// scheduler rejects stays configured, it just never fires.
func (s *IntegrationService) register(integration *erpsync.Integration) {
	if s.registry == nil {
		return
	}
	_ = s.registry.Register(integration)
}
