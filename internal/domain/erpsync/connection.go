package erpsync

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Connection Entity
// ---------------------------------------------------------------------------

// Connection holds the identity of one remote ERP endpoint. The password is
// stored only as a vault envelope; the plaintext never leaves the
// vault / session-client boundary.
type Connection struct {
	// ID is the unique identifier of this connection
	ID uuid.UUID
	// OwnerID is the account that created this connection
	OwnerID uuid.UUID
	// Username is the remote ERP login name
	Username string
	// EncryptedPassword is the vault envelope (nonce:tag:ciphertext, hex)
	EncryptedPassword string
	// AppID is the remote application identifier
	AppID string
	// Company is the remote company code
	Company string
	// Branch is the remote branch code
	Branch string
	// Module is the remote module code
	Module string
	// ReferenceID is the remote reference identifier
	ReferenceID string
	// RegisteredName is the optional registered client name
	RegisteredName string
	// CreatedAt is when this connection was created
	CreatedAt time.Time
	// UpdatedAt is when this connection was last updated
	UpdatedAt time.Time
}

// NewConnection creates a new connection. The password must already be a
// vault envelope; this constructor never sees plaintext credentials.
func NewConnection(ownerID uuid.UUID, username, encryptedPassword, appID, company, branch, module, referenceID string) (*Connection, error) {
	if ownerID == uuid.Nil {
		return nil, ErrConnectionInvalid
	}
	if username == "" || encryptedPassword == "" || appID == "" {
		return nil, ErrConnectionInvalid
	}

	now := time.Now()
	return &Connection{
		ID:                uuid.New(),
		OwnerID:           ownerID,
		Username:          username,
		EncryptedPassword: encryptedPassword,
		AppID:             appID,
		Company:           company,
		Branch:            branch,
		Module:            module,
		ReferenceID:       referenceID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// Validate validates the connection
func (c *Connection) Validate() error {
	if c.OwnerID == uuid.Nil || c.Username == "" || c.EncryptedPassword == "" || c.AppID == "" {
		return ErrConnectionInvalid
	}
	return nil
}

// ---------------------------------------------------------------------------
// ConnectionRepository Interface
// ---------------------------------------------------------------------------

// ConnectionRepository defines persistence for connections
type ConnectionRepository interface {
	// FindByID finds a connection by its ID.
	// Returns ErrConnectionNotFound when it does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*Connection, error)

	// FindByOwner finds all connections owned by an account
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]Connection, error)

	// Save creates or updates a connection
	Save(ctx context.Context, conn *Connection) error

	// Delete deletes a connection
	Delete(ctx context.Context, id uuid.UUID) error
}
