package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/parkops/backend/internal/domain/erpsync"
)

// ---------------------------------------------------------------------------
// ConnectionModel
// ---------------------------------------------------------------------------

// ConnectionModel is the persistence model for the Connection domain entity.
// The password column only ever holds the vault envelope.
type ConnectionModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key"`
	OwnerID           uuid.UUID `gorm:"type:uuid;not null;index:idx_connections_owner"`
	Username          string    `gorm:"type:varchar(100);not null"`
	EncryptedPassword string    `gorm:"type:text;not null"`
	AppID             string    `gorm:"type:varchar(50);not null"`
	Company           string    `gorm:"type:varchar(50)"`
	Branch            string    `gorm:"type:varchar(50)"`
	Module            string    `gorm:"type:varchar(50)"`
	ReferenceID       string    `gorm:"type:varchar(50)"`
	RegisteredName    string    `gorm:"type:varchar(100)"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ConnectionModel) TableName() string {
	return "erp_connections"
}

// ToDomain converts the persistence model to a domain Connection entity.
func (m *ConnectionModel) ToDomain() *erpsync.Connection {
	return &erpsync.Connection{
		ID:                m.ID,
		OwnerID:           m.OwnerID,
		Username:          m.Username,
		EncryptedPassword: m.EncryptedPassword,
		AppID:             m.AppID,
		Company:           m.Company,
		Branch:            m.Branch,
		Module:            m.Module,
		ReferenceID:       m.ReferenceID,
		RegisteredName:    m.RegisteredName,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Connection entity.
func (m *ConnectionModel) FromDomain(c *erpsync.Connection) {
	m.ID = c.ID
	m.OwnerID = c.OwnerID
	m.Username = c.Username
	m.EncryptedPassword = c.EncryptedPassword
	m.AppID = c.AppID
	m.Company = c.Company
	m.Branch = c.Branch
	m.Module = c.Module
	m.ReferenceID = c.ReferenceID
	m.RegisteredName = c.RegisteredName
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
}

// ConnectionModelFromDomain creates a new persistence model from a domain Connection entity.
func ConnectionModelFromDomain(c *erpsync.Connection) *ConnectionModel {
	m := &ConnectionModel{}
	m.FromDomain(c)
	return m
}

// ---------------------------------------------------------------------------
// IntegrationModel
// ---------------------------------------------------------------------------

// IntegrationModel is the persistence model for the Integration domain entity.
// The field mapping table and required-field list are stored as JSON.
type IntegrationModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key"`
	ConnectionID       uuid.UUID `gorm:"type:uuid;not null;index:idx_integrations_connection"`
	ModelName          string    `gorm:"type:varchar(50);not null;index:idx_integrations_model"`
	ObjectName         string    `gorm:"type:varchar(100);not null"`
	FieldMappingsJSON  string    `gorm:"type:jsonb;column:field_mappings"`
	KeyField           string    `gorm:"type:varchar(100);not null"`
	RequiredFieldsJSON string    `gorm:"type:jsonb;column:required_fields"`
	Schedule           string    `gorm:"type:varchar(20);not null"`
	IsActive           bool      `gorm:"not null;default:true"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (IntegrationModel) TableName() string {
	return "erp_integrations"
}

// ToDomain converts the persistence model to a domain Integration entity.
func (m *IntegrationModel) ToDomain() *erpsync.Integration {
	integration := &erpsync.Integration{
		ID:           m.ID,
		ConnectionID: m.ConnectionID,
		Mapping: erpsync.ModelMapping{
			ModelName:     erpsync.EntityKind(m.ModelName),
			ObjectName:    m.ObjectName,
			FieldMappings: make(map[string]string),
			KeyField:      m.KeyField,
			Schedule:      m.Schedule,
		},
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}

	if m.FieldMappingsJSON != "" {
		var fieldMappings map[string]string
		if err := json.Unmarshal([]byte(m.FieldMappingsJSON), &fieldMappings); err == nil {
			integration.Mapping.FieldMappings = fieldMappings
		}
	}
	if m.RequiredFieldsJSON != "" {
		var required []string
		if err := json.Unmarshal([]byte(m.RequiredFieldsJSON), &required); err == nil {
			integration.Mapping.RequiredFields = required
		}
	}

	return integration
}

// FromDomain populates the persistence model from a domain Integration entity.
func (m *IntegrationModel) FromDomain(i *erpsync.Integration) {
	m.ID = i.ID
	m.ConnectionID = i.ConnectionID
	m.ModelName = string(i.Mapping.ModelName)
	m.ObjectName = i.Mapping.ObjectName
	m.KeyField = i.Mapping.KeyField
	m.Schedule = i.Mapping.Schedule
	m.IsActive = i.IsActive
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt

	if len(i.Mapping.FieldMappings) > 0 {
		if jsonBytes, err := json.Marshal(i.Mapping.FieldMappings); err == nil {
			m.FieldMappingsJSON = string(jsonBytes)
		}
	} else {
		m.FieldMappingsJSON = "{}"
	}
	if len(i.Mapping.RequiredFields) > 0 {
		if jsonBytes, err := json.Marshal(i.Mapping.RequiredFields); err == nil {
			m.RequiredFieldsJSON = string(jsonBytes)
		}
	} else {
		m.RequiredFieldsJSON = "[]"
	}
}

// IntegrationModelFromDomain creates a new persistence model from a domain Integration entity.
func IntegrationModelFromDomain(i *erpsync.Integration) *IntegrationModel {
	m := &IntegrationModel{}
	m.FromDomain(i)
	return m
}

// ---------------------------------------------------------------------------
// Local entity models (natural-key tables)
// ---------------------------------------------------------------------------

// Local entities produced by sync are keyed by the remote primary key
// (erp_key). The unique key guarantees idempotent upsert: re-importing the
// same remote record can never create a duplicate.

// CustomerModel is a parking customer imported from the ERP
type CustomerModel struct {
	ErpKey    string    `gorm:"column:erp_key;type:varchar(100);primary_key"`
	Name      string    `gorm:"type:varchar(255)"`
	Phone     string    `gorm:"type:varchar(50)"`
	Email     string    `gorm:"type:varchar(255)"`
	Address   string    `gorm:"type:varchar(500)"`
	TaxID     string    `gorm:"column:tax_id;type:varchar(50)"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ContractModel is a parking contract imported from the ERP
type ContractModel struct {
	ErpKey      string          `gorm:"column:erp_key;type:varchar(100);primary_key"`
	CustomerKey string          `gorm:"column:customer_key;type:varchar(100);index:idx_contracts_customer"`
	Description string          `gorm:"type:varchar(500)"`
	Status      string          `gorm:"type:varchar(50)"`
	StartDate   string          `gorm:"column:start_date;type:varchar(30)"`
	EndDate     string          `gorm:"column:end_date;type:varchar(30)"`
	MonthlyRate decimal.Decimal `gorm:"column:monthly_rate;type:decimal(12,2)"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ContractModel) TableName() string {
	return "contracts"
}

// ContractLineModel is one line-item of a parking contract
type ContractLineModel struct {
	ErpKey      string          `gorm:"column:erp_key;type:varchar(100);primary_key"`
	ContractKey string          `gorm:"column:contract_key;type:varchar(100);index:idx_contract_lines_contract"`
	Description string          `gorm:"type:varchar(500)"`
	SpaceNumber string          `gorm:"column:space_number;type:varchar(50)"`
	Quantity    decimal.Decimal `gorm:"type:decimal(12,3)"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:decimal(12,2)"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2)"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ContractLineModel) TableName() string {
	return "contract_lines"
}

// CatalogItemModel is a price-list item imported from the ERP
type CatalogItemModel struct {
	ErpKey    string          `gorm:"column:erp_key;type:varchar(100);primary_key"`
	Code      string          `gorm:"type:varchar(100);index:idx_catalog_items_code"`
	Name      string          `gorm:"type:varchar(255)"`
	Unit      string          `gorm:"type:varchar(50)"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:decimal(12,2)"`
	IsActive  bool            `gorm:"not null;default:true"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CatalogItemModel) TableName() string {
	return "catalog_items"
}
