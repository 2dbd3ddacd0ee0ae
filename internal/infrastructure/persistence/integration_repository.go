package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parkops/backend/internal/domain/erpsync"
	"github.com/parkops/backend/internal/infrastructure/persistence/models"
)

// GormIntegrationRepository implements IntegrationRepository using GORM
type GormIntegrationRepository struct {
	db *gorm.DB
}

// NewGormIntegrationRepository creates a new GormIntegrationRepository
func NewGormIntegrationRepository(db *gorm.DB) *GormIntegrationRepository {
	return &GormIntegrationRepository{db: db}
}

// FindByID finds an integration by its ID
func (r *GormIntegrationRepository) FindByID(ctx context.Context, id uuid.UUID) (*erpsync.Integration, error) {
	var model models.IntegrationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, erpsync.ErrIntegrationNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive returns every active integration
func (r *GormIntegrationRepository) FindActive(ctx context.Context) ([]erpsync.Integration, error) {
	var integrationModels []models.IntegrationModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&integrationModels).Error; err != nil {
		return nil, err
	}

	integrations := make([]erpsync.Integration, len(integrationModels))
	for i, model := range integrationModels {
		integrations[i] = *model.ToDomain()
	}
	return integrations, nil
}

// FindByEntityKind returns active integrations targeting a local entity kind
func (r *GormIntegrationRepository) FindByEntityKind(ctx context.Context, kind erpsync.EntityKind) ([]erpsync.Integration, error) {
	var integrationModels []models.IntegrationModel
	if err := r.db.WithContext(ctx).
		Where("model_name = ? AND is_active = ?", string(kind), true).
		Order("created_at ASC").
		Find(&integrationModels).Error; err != nil {
		return nil, err
	}

	integrations := make([]erpsync.Integration, len(integrationModels))
	for i, model := range integrationModels {
		integrations[i] = *model.ToDomain()
	}
	return integrations, nil
}

// Save creates or updates an integration
func (r *GormIntegrationRepository) Save(ctx context.Context, integration *erpsync.Integration) error {
	model := models.IntegrationModelFromDomain(integration)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an integration
func (r *GormIntegrationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.IntegrationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return erpsync.ErrIntegrationNotFound
	}
	return nil
}

// Ensure GormIntegrationRepository implements IntegrationRepository
var _ erpsync.IntegrationRepository = (*GormIntegrationRepository)(nil)
