package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parkops/backend/internal/domain/erpsync"
	"github.com/parkops/backend/internal/infrastructure/persistence/models"
)

// GormConnectionRepository implements ConnectionRepository using GORM
type GormConnectionRepository struct {
	db *gorm.DB
}

// NewGormConnectionRepository creates a new GormConnectionRepository
func NewGormConnectionRepository(db *gorm.DB) *GormConnectionRepository {
	return &GormConnectionRepository{db: db}
}

// FindByID finds a connection by its ID
func (r *GormConnectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*erpsync.Connection, error) {
	var model models.ConnectionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, erpsync.ErrConnectionNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOwner finds all connections registered by an owner
func (r *GormConnectionRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]erpsync.Connection, error) {
	var connectionModels []models.ConnectionModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&connectionModels).Error; err != nil {
		return nil, err
	}

	connections := make([]erpsync.Connection, len(connectionModels))
	for i, model := range connectionModels {
		connections[i] = *model.ToDomain()
	}
	return connections, nil
}

// Save creates or updates a connection
func (r *GormConnectionRepository) Save(ctx context.Context, connection *erpsync.Connection) error {
	model := models.ConnectionModelFromDomain(connection)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a connection
func (r *GormConnectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ConnectionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return erpsync.ErrConnectionNotFound
	}
	return nil
}

// Ensure GormConnectionRepository implements ConnectionRepository
var _ erpsync.ConnectionRepository = (*GormConnectionRepository)(nil)
