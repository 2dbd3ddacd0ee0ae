package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/parkops/backend/internal/domain/erpsync"
	"github.com/parkops/backend/internal/infrastructure/persistence/models"
)

// naturalKeyColumn is the column every synced entity table keys on
const naturalKeyColumn = "erp_key"

// entityDescriptor declares where one entity kind lives and which columns
// the mapping engine may write. Column names outside the set are dropped
// before they ever reach SQL, so admin-configured mappings cannot touch
// arbitrary columns.
type entityDescriptor struct {
	table   string
	columns map[string]bool
}

// entityRegistry is the closed set of syncable entity kinds. Adding a kind
// means adding its model, table and column set here.
var entityRegistry = map[erpsync.EntityKind]entityDescriptor{
	erpsync.EntityKindCustomer: {
		table: models.CustomerModel{}.TableName(),
		columns: map[string]bool{
			"name":    true,
			"phone":   true,
			"email":   true,
			"address": true,
			"tax_id":  true,
		},
	},
	erpsync.EntityKindContract: {
		table: models.ContractModel{}.TableName(),
		columns: map[string]bool{
			"customer_key": true,
			"description":  true,
			"status":       true,
			"start_date":   true,
			"end_date":     true,
			"monthly_rate": true,
		},
	},
	erpsync.EntityKindContractLine: {
		table: models.ContractLineModel{}.TableName(),
		columns: map[string]bool{
			"contract_key": true,
			"description":  true,
			"space_number": true,
			"quantity":     true,
			"unit_price":   true,
			"amount":       true,
		},
	},
	erpsync.EntityKindCatalogItem: {
		table: models.CatalogItemModel{}.TableName(),
		columns: map[string]bool{
			"code":       true,
			"name":       true,
			"unit":       true,
			"unit_price": true,
			"is_active":  true,
		},
	},
}

// GormEntityStore implements EntityStore using GORM map operations against
// the registered entity tables.
type GormEntityStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormEntityStore creates a new GormEntityStore
func NewGormEntityStore(db *gorm.DB) *GormEntityStore {
	return &GormEntityStore{db: db, now: time.Now}
}

// Find loads one record of the given kind by its natural key.
// Returns ErrRecordNotFound when it does not exist.
func (s *GormEntityStore) Find(ctx context.Context, kind erpsync.EntityKind, naturalKey string) (map[string]any, error) {
	desc, ok := entityRegistry[kind]
	if !ok {
		return nil, erpsync.ErrUnknownEntityKind
	}

	row := map[string]any{}
	if err := s.db.WithContext(ctx).
		Table(desc.table).
		Where(naturalKeyColumn+" = ?", naturalKey).
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, erpsync.ErrRecordNotFound
		}
		return nil, err
	}
	return row, nil
}

// Upsert writes one record of the given kind, keyed by its natural key.
// It reports whether a new row was created, so sync runs can count created
// versus updated records. Fields naming columns outside the kind's column
// set are dropped.
func (s *GormEntityStore) Upsert(ctx context.Context, kind erpsync.EntityKind, naturalKey string, fields map[string]any) (bool, error) {
	desc, ok := entityRegistry[kind]
	if !ok {
		return false, erpsync.ErrUnknownEntityKind
	}

	row := s.filterColumns(desc, fields)

	var count int64
	if err := s.db.WithContext(ctx).
		Table(desc.table).
		Where(naturalKeyColumn+" = ?", naturalKey).
		Count(&count).Error; err != nil {
		return false, err
	}

	now := s.now()
	if count == 0 {
		row[naturalKeyColumn] = naturalKey
		row["created_at"] = now
		row["updated_at"] = now
		if err := s.db.WithContext(ctx).Table(desc.table).Create(row).Error; err != nil {
			return false, err
		}
		return true, nil
	}

	row["updated_at"] = now
	if err := s.db.WithContext(ctx).
		Table(desc.table).
		Where(naturalKeyColumn+" = ?", naturalKey).
		Updates(row).Error; err != nil {
		return false, err
	}
	return false, nil
}

// filterColumns keeps only fields naming columns the kind declares
func (s *GormEntityStore) filterColumns(desc entityDescriptor, fields map[string]any) map[string]any {
	row := make(map[string]any, len(fields))
	for column, value := range fields {
		if desc.columns[column] {
			row[column] = value
		}
	}
	return row
}

// Ensure GormEntityStore implements EntityStore
var _ erpsync.EntityStore = (*GormEntityStore)(nil)
