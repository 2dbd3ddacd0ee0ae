package erpsync

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/parkops/backend/internal/domain/erpsync"
)

// ConnectionService manages remote ERP endpoint registrations. It is the
// only component that accepts plaintext passwords: they are sealed into
// vault envelopes here and never stored or returned in the clear.
type ConnectionService struct {
	connections erpsync.ConnectionRepository
	cipher      erpsync.CredentialCipher
}

// NewConnectionService creates a new ConnectionService
func NewConnectionService(connections erpsync.ConnectionRepository, cipher erpsync.CredentialCipher) *ConnectionService {
	return &ConnectionService{
		connections: connections,
		cipher:      cipher,
	}
}

// Create registers a new connection, sealing the password before the domain
// entity is constructed.
func (s *ConnectionService) Create(ctx context.Context, req CreateConnectionRequest) (*ConnectionResponse, error) {
	if req.OwnerID == nil || *req.OwnerID == uuid.Nil {
		return nil, erpsync.ErrConnectionInvalid
	}

	envelope, err := s.cipher.Encrypt(req.Password)
	if err != nil {
		return nil, err
	}

	conn, err := erpsync.NewConnection(*req.OwnerID, req.Username, envelope, req.AppID, req.Company, req.Branch, req.Module, req.ReferenceID)
	if err != nil {
		return nil, err
	}
	conn.RegisteredName = req.RegisteredName

	if err := s.connections.Save(ctx, conn); err != nil {
		return nil, err
	}

	resp := ToConnectionResponse(conn)
	return &resp, nil
}

// Get returns a single connection
func (s *ConnectionService) Get(ctx context.Context, id uuid.UUID) (*ConnectionResponse, error) {
	conn, err := s.connections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToConnectionResponse(conn)
	return &resp, nil
}

// ListByOwner returns every connection owned by an account
func (s *ConnectionService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]ConnectionResponse, error) {
	conns, err := s.connections.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := make([]ConnectionResponse, 0, len(conns))
	for i := range conns {
		out = append(out, ToConnectionResponse(&conns[i]))
	}
	return out, nil
}

// Update applies partial changes to a connection. A new password replaces
// the stored envelope; a nil one leaves it untouched.
func (s *ConnectionService) Update(ctx context.Context, id uuid.UUID, req UpdateConnectionRequest) (*ConnectionResponse, error) {
	conn, err := s.connections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		conn.Username = *req.Username
	}
	if req.Password != nil {
		envelope, err := s.cipher.Encrypt(*req.Password)
		if err != nil {
			return nil, err
		}
		conn.EncryptedPassword = envelope
	}
	if req.AppID != nil {
		conn.AppID = *req.AppID
	}
	if req.Company != nil {
		conn.Company = *req.Company
	}
	if req.Branch != nil {
		conn.Branch = *req.Branch
	}
	if req.Module != nil {
		conn.Module = *req.Module
	}
	if req.ReferenceID != nil {
		conn.ReferenceID = *req.ReferenceID
	}
	if req.RegisteredName != nil {
		conn.RegisteredName = *req.RegisteredName
	}

	if err := conn.Validate(); err != nil {
		return nil, err
	}
	conn.UpdatedAt = time.Now()

	if err := s.connections.Save(ctx, conn); err != nil {
		return nil, err
	}

	resp := ToConnectionResponse(conn)
	return &resp, nil
}

// Delete removes a connection
func (s *ConnectionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.connections.Delete(ctx, id)
}
