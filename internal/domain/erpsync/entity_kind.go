package erpsync

import "context"

// ---------------------------------------------------------------------------
// EntityKind
// ---------------------------------------------------------------------------

// EntityKind identifies a local entity type that can be the target of a sync.
// The set is closed: integrations referencing any other value are rejected at
// configuration-validation time, never at sync time.
type EntityKind string

const (
	// EntityKindCustomer represents parking customers
	EntityKindCustomer EntityKind = "customer"
	// EntityKindContract represents parking contracts
	EntityKindContract EntityKind = "contract"
	// EntityKindContractLine represents contract line-items
	EntityKindContractLine EntityKind = "contract_line"
	// EntityKindCatalogItem represents catalog (price list) items
	EntityKindCatalogItem EntityKind = "catalog_item"
)

// IsValid returns true if the entity kind is one of the known kinds
func (k EntityKind) IsValid() bool {
	switch k {
	case EntityKindCustomer, EntityKindContract, EntityKindContractLine, EntityKindCatalogItem:
		return true
	}
	return false
}

// AllEntityKinds returns the closed set of entity kinds
func AllEntityKinds() []EntityKind {
	return []EntityKind{
		EntityKindCustomer,
		EntityKindContract,
		EntityKindContractLine,
		EntityKindCatalogItem,
	}
}

// ---------------------------------------------------------------------------
// EntityStore Port
// ---------------------------------------------------------------------------

// EntityStore is the narrow persistence contract the sync engine consumes for
// local entity records. Records are addressed by the remote system's natural
// key, which is also the local unique key, so a repeated upsert of the same
// remote row can never create a duplicate.
type EntityStore interface {
	// Find returns the stored record for the natural key.
	// Returns ErrRecordNotFound when no record exists.
	Find(ctx context.Context, kind EntityKind, naturalKey string) (map[string]any, error)

	// Upsert creates or updates the record addressed by the natural key.
	// Returns true when a new record was created.
	Upsert(ctx context.Context, kind EntityKind, naturalKey string, fields map[string]any) (bool, error)
}
