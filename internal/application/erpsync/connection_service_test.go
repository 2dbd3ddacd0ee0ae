package erpsync

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/parkops/backend/internal/domain/erpsync"
)

// prefixCipher seals by prefixing so tests can tell envelopes from plaintext
type prefixCipher struct{}

func (prefixCipher) Encrypt(plaintext string) (string, error) { return "sealed:" + plaintext, nil }
func (prefixCipher) Decrypt(envelope string) (string, error)  { return envelope, nil }

type failingCipher struct{ err error }

func (c failingCipher) Encrypt(string) (string, error) { return "", c.err }
func (c failingCipher) Decrypt(string) (string, error) { return "", c.err }

func TestConnectionService_Create(t *testing.T) {
	ownerID := uuid.New()

	t.Run("seals password before persisting", func(t *testing.T) {
		repo := new(MockConnectionRepository)
		service := NewConnectionService(repo, prefixCipher{})

		var saved *erpsync.Connection
		repo.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			saved = args.Get(1).(*erpsync.Connection)
		}).Return(nil)

		resp, err := service.Create(context.Background(), CreateConnectionRequest{
			Username:       "sync-user",
			Password:       "hunter2",
			AppID:          "PARK01",
			Company:        "100",
			Branch:         "01",
			Module:         "PARKING",
			ReferenceID:    "REF-7",
			RegisteredName: "parkops-backend",
			OwnerID:        &ownerID,
		})
		require.NoError(t, err)
		require.NotNil(t, saved)

		assert.Equal(t, "sealed:hunter2", saved.EncryptedPassword)
		assert.Equal(t, ownerID, resp.OwnerID)
		assert.Equal(t, "sync-user", resp.Username)
		assert.Equal(t, "parkops-backend", resp.RegisteredName)
		repo.AssertExpectations(t)
	})

	t.Run("rejects missing owner", func(t *testing.T) {
		service := NewConnectionService(new(MockConnectionRepository), prefixCipher{})

		_, err := service.Create(context.Background(), CreateConnectionRequest{
			Username: "sync-user",
			Password: "hunter2",
			AppID:    "PARK01",
		})
		assert.ErrorIs(t, err, erpsync.ErrConnectionInvalid)
	})

	t.Run("surfaces seal failure without persisting", func(t *testing.T) {
		repo := new(MockConnectionRepository)
		sealErr := errors.New("seal failed")
		service := NewConnectionService(repo, failingCipher{err: sealErr})

		_, err := service.Create(context.Background(), CreateConnectionRequest{
			Username: "sync-user",
			Password: "hunter2",
			AppID:    "PARK01",
			OwnerID:  &ownerID,
		})
		assert.ErrorIs(t, err, sealErr)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestConnectionService_Update(t *testing.T) {
	newConn := func() *erpsync.Connection {
		conn, err := erpsync.NewConnection(uuid.New(), "sync-user", "sealed:old", "PARK01", "100", "01", "PARKING", "REF-7")
		require.NoError(t, err)
		return conn
	}

	t.Run("replaces envelope when password changes", func(t *testing.T) {
		conn := newConn()
		repo := new(MockConnectionRepository)
		repo.On("FindByID", mock.Anything, conn.ID).Return(conn, nil)
		repo.On("Save", mock.Anything, conn).Return(nil)
		service := NewConnectionService(repo, prefixCipher{})

		password := "rotated"
		_, err := service.Update(context.Background(), conn.ID, UpdateConnectionRequest{Password: &password})
		require.NoError(t, err)
		assert.Equal(t, "sealed:rotated", conn.EncryptedPassword)
	})

	t.Run("keeps envelope when password omitted", func(t *testing.T) {
		conn := newConn()
		repo := new(MockConnectionRepository)
		repo.On("FindByID", mock.Anything, conn.ID).Return(conn, nil)
		repo.On("Save", mock.Anything, conn).Return(nil)
		service := NewConnectionService(repo, prefixCipher{})

		username := "other-user"
		resp, err := service.Update(context.Background(), conn.ID, UpdateConnectionRequest{Username: &username})
		require.NoError(t, err)
		assert.Equal(t, "sealed:old", conn.EncryptedPassword)
		assert.Equal(t, "other-user", resp.Username)
	})

	t.Run("unknown connection", func(t *testing.T) {
		repo := new(MockConnectionRepository)
		repo.On("FindByID", mock.Anything, mock.Anything).Return(nil, erpsync.ErrConnectionNotFound)
		service := NewConnectionService(repo, prefixCipher{})

		_, err := service.Update(context.Background(), uuid.New(), UpdateConnectionRequest{})
		assert.ErrorIs(t, err, erpsync.ErrConnectionNotFound)
	})
}

func TestConnectionService_ListByOwner(t *testing.T) {
	ownerID := uuid.New()
	conn, err := erpsync.NewConnection(ownerID, "sync-user", "sealed:pw", "PARK01", "100", "01", "PARKING", "REF-7")
	require.NoError(t, err)

	repo := new(MockConnectionRepository)
	repo.On("FindByOwner", mock.Anything, ownerID).Return([]erpsync.Connection{*conn}, nil)
	service := NewConnectionService(repo, prefixCipher{})

	resp, err := service.ListByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, conn.ID, resp[0].ID)
}
