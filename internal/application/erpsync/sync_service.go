package erpsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parkops/backend/internal/domain/erpsync"
)

// DefaultBatchSize bounds one SyncBatch call when the caller passes no limit
const DefaultBatchSize = 500

// CatalogueCache caches the remote schema catalogue per connection. The
// catalogue changes rarely and the remote call is slow, so scheduled runs
// share one cached copy for a short TTL.
type CatalogueCache interface {
	Get(ctx context.Context, connectionID uuid.UUID) ([]erpsync.RemoteObject, bool)
	Put(ctx context.Context, connectionID uuid.UUID, objects []erpsync.RemoteObject)
}

// Config holds sync engine tuning
type Config struct {
	// BatchSize is the default page size for SyncBatch
	BatchSize int
	// FetchRetries is how many attempts a page fetch gets on transport
	// failures before the page is surfaced as failed. Authentication
	// failures are never retried here; they surface to the caller.
	FetchRetries int
	// RetryBackoff is the linear backoff between page-fetch attempts
	RetryBackoff time.Duration
}

// DefaultConfig returns default sync engine tuning
func DefaultConfig() Config {
	return Config{
		BatchSize:    DefaultBatchSize,
		FetchRetries: 3,
		RetryBackoff: 2 * time.Second,
	}
}

// SyncService is the batch sync engine: it pages through a remote object,
// applies the field mapping, upserts into local storage keyed by the natural
// key, and reports resumable progress plus per-record outcomes.
type SyncService struct {
	config       Config
	gateway      erpsync.ErpGateway
	cipher       erpsync.CredentialCipher
	connections  erpsync.ConnectionRepository
	integrations erpsync.IntegrationRepository
	store        erpsync.EntityStore
	catalogue    CatalogueCache
	logger       *zap.Logger
}

// NewSyncService creates a new batch sync engine
func NewSyncService(
	config Config,
	gateway erpsync.ErpGateway,
	cipher erpsync.CredentialCipher,
	connections erpsync.ConnectionRepository,
	integrations erpsync.IntegrationRepository,
	store erpsync.EntityStore,
	catalogue CatalogueCache,
	logger *zap.Logger,
) *SyncService {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}
	if config.FetchRetries <= 0 {
		config.FetchRetries = 1
	}
	return &SyncService{
		config:       config,
		gateway:      gateway,
		cipher:       cipher,
		connections:  connections,
		integrations: integrations,
		store:        store,
		catalogue:    catalogue,
		logger:       logger,
	}
}

// ---------------------------------------------------------------------------
// Import direction (remote -> local)
// ---------------------------------------------------------------------------

// SyncBatch processes exactly one page of the integration's remote object,
// starting at offset and bounded by limit, and returns enough state for the
// caller to request the next page. Authentication failure aborts the whole
// call; a single bad row never does.
func (s *SyncService) SyncBatch(ctx context.Context, integrationID uuid.UUID, limit, offset int) (*erpsync.BatchResult, error) {
	integration, err := s.integrations.FindByID(ctx, integrationID)
	if err != nil {
		return nil, err
	}
	return s.syncPage(ctx, integration, limit, offset)
}

// RunFull drives the pagination loop to completion for one integration:
// repeated SyncBatch calls with offset = previous NextOffset until no rows
// remain. Stats accumulate across pages; progress reflects the last page.
func (s *SyncService) RunFull(ctx context.Context, integrationID uuid.UUID) (*erpsync.BatchResult, error) {
	integration, err := s.integrations.FindByID(ctx, integrationID)
	if err != nil {
		return nil, err
	}

	total := erpsync.BatchResult{}
	offset := 0
	for {
		page, err := s.syncPage(ctx, integration, s.config.BatchSize, offset)
		if err != nil {
			return nil, err
		}

		total.Stats.Merge(page.Stats)
		total.Progress = page.Progress

		// Defensive termination: trust the offset arithmetic over the
		// remote HasMore flag, and never loop on an empty page.
		if !page.Progress.HasMore || page.Progress.NextOffset >= page.Progress.Total {
			break
		}
		if page.Progress.NextOffset <= offset {
			s.logger.Warn("remote pagination made no progress, stopping full sync",
				zap.String("integration_id", integrationID.String()),
				zap.Int("offset", offset),
			)
			break
		}
		offset = page.Progress.NextOffset
	}
	return &total, nil
}

// syncPage runs the per-page algorithm: authenticate, fetch, translate,
// upsert, report.
func (s *SyncService) syncPage(ctx context.Context, integration *erpsync.Integration, limit, offset int) (*erpsync.BatchResult, error) {
	if limit <= 0 {
		limit = s.config.BatchSize
	}
	if offset < 0 {
		offset = 0
	}

	conn, creds, err := s.credentialsFor(ctx, integration.ConnectionID)
	if err != nil {
		return nil, err
	}

	token, err := s.gateway.Authenticate(ctx, *creds)
	if err != nil {
		return nil, fmt.Errorf("authenticating connection %s: %w", conn.ID, err)
	}

	s.checkCatalogue(ctx, conn, token, integration.Mapping.ObjectName)

	page, err := s.fetchPage(ctx, erpsync.DataQuery{
		ObjectName: integration.Mapping.ObjectName,
		Token:      token,
		AppID:      conn.AppID,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, err
	}

	stats := erpsync.SyncStats{}
	processed := 0
	for _, row := range page.Rows {
		// Cooperative cancellation between rows so a partially-processed
		// page finishes its current row cleanly.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		processed++
		s.importRow(ctx, integration, row, &stats)
	}

	progress := erpsync.NewSyncProgress(page.Total, offset, processed)

	s.logger.Info("sync page processed",
		zap.String("integration_id", integration.ID.String()),
		zap.String("object", integration.Mapping.ObjectName),
		zap.Int("offset", offset),
		zap.Int("created", stats.Created),
		zap.Int("updated", stats.Updated),
		zap.Int("errors", stats.Errors),
		zap.Int("total", page.Total),
	)

	return &erpsync.BatchResult{Stats: stats, Progress: progress}, nil
}

// importRow translates and upserts one remote row. Failures are absorbed
// into stats and logged with the remote key so one bad row never aborts the
// batch.
func (s *SyncService) importRow(ctx context.Context, integration *erpsync.Integration, row map[string]any, stats *erpsync.SyncStats) {
	mapping := integration.Mapping

	naturalKey := stringValue(row[mapping.KeyField])
	if naturalKey == "" {
		stats.Errors++
		s.logger.Warn("remote row has no natural key, skipping",
			zap.String("integration_id", integration.ID.String()),
			zap.String("key_field", mapping.KeyField),
		)
		return
	}

	local := ToLocal(row, mapping.FieldMappings)
	// The natural key must reach storage even when the mapping table omits
	// the key field, and always in its canonical string form.
	local[mapping.KeyLocalField()] = naturalKey

	created, err := s.store.Upsert(ctx, mapping.ModelName, naturalKey, local)
	if err != nil {
		stats.Errors++
		s.logger.Warn("local upsert failed",
			zap.String("integration_id", integration.ID.String()),
			zap.String("remote_key", naturalKey),
			zap.Error(err),
		)
		return
	}
	if created {
		stats.Created++
	} else {
		stats.Updated++
	}
}

// fetchPage carries the bounded retry policy for transport failures: up to
// FetchRetries attempts with linear backoff. Other failures surface
// immediately.
func (s *SyncService) fetchPage(ctx context.Context, q erpsync.DataQuery) (*erpsync.DataPage, error) {
	var lastErr error
	for attempt := 1; attempt <= s.config.FetchRetries; attempt++ {
		page, err := s.gateway.FetchData(ctx, q)
		if err == nil {
			return page, nil
		}
		lastErr = err

		if !errors.Is(err, erpsync.ErrTransport) {
			return nil, err
		}
		if attempt == s.config.FetchRetries {
			break
		}

		s.logger.Warn("page fetch failed, retrying",
			zap.String("object", q.ObjectName),
			zap.Int("offset", q.Offset),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * s.config.RetryBackoff):
		}
	}
	return nil, lastErr
}

// checkCatalogue warns when the object is missing from the cached remote
// catalogue. The catalogue is advisory only: the remote system has been
// observed to omit available objects, so a miss is logged, never fatal.
func (s *SyncService) checkCatalogue(ctx context.Context, conn *erpsync.Connection, token erpsync.SessionToken, objectName string) {
	if s.catalogue == nil {
		return
	}

	objects, ok := s.catalogue.Get(ctx, conn.ID)
	if !ok {
		var err error
		objects, err = s.gateway.ListObjects(ctx, token, conn.AppID)
		if err != nil {
			s.logger.Warn("could not list remote catalogue", zap.String("connection_id", conn.ID.String()), zap.Error(err))
			return
		}
		s.catalogue.Put(ctx, conn.ID, objects)
	}

	for _, o := range objects {
		if o.Name == objectName {
			return
		}
	}
	s.logger.Warn("remote object missing from declared catalogue, continuing anyway",
		zap.String("connection_id", conn.ID.String()),
		zap.String("object", objectName),
	)
}

// Catalogue returns the remote schema catalogue for a connection, served from
// cache when fresh. Callers use it to populate mapping configuration UIs.
func (s *SyncService) Catalogue(ctx context.Context, connectionID uuid.UUID) ([]erpsync.RemoteObject, error) {
	conn, err := s.connections.FindByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	if s.catalogue != nil {
		if objects, ok := s.catalogue.Get(ctx, conn.ID); ok {
			return objects, nil
		}
	}

	_, creds, err := s.credentialsFor(ctx, conn.ID)
	if err != nil {
		return nil, err
	}

	token, err := s.gateway.Authenticate(ctx, *creds)
	if err != nil {
		return nil, err
	}

	objects, err := s.gateway.ListObjects(ctx, token, conn.AppID)
	if err != nil {
		return nil, err
	}
	if s.catalogue != nil {
		s.catalogue.Put(ctx, conn.ID, objects)
	}
	return objects, nil
}

// ---------------------------------------------------------------------------
// Export direction (local -> remote)
// ---------------------------------------------------------------------------

// ExportRecord applies updates to a local record and, when syncToErp is set,
// pushes the mapped result to the remote object first. Local and remote must
// not diverge: if the remote push fails, no local mutation occurs.
func (s *SyncService) ExportRecord(ctx context.Context, kind erpsync.EntityKind, naturalKey string, updates map[string]any, syncToErp bool) error {
	if !kind.IsValid() {
		return erpsync.ErrUnknownEntityKind
	}

	existing, err := s.store.Find(ctx, kind, naturalKey)
	if err != nil {
		return err
	}

	merged := make(map[string]any, len(existing)+len(updates))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range updates {
		merged[k] = v
	}

	if syncToErp {
		if err := s.pushRecord(ctx, kind, naturalKey, merged); err != nil {
			return fmt.Errorf("%w: %v", erpsync.ErrRemotePushFailed, err)
		}
	}

	if _, err := s.store.Upsert(ctx, kind, naturalKey, merged); err != nil {
		return err
	}
	return nil
}

// pushRecord finds the integration targeting the entity kind, builds the
// reverse mapping, and pushes with the natural key as the update key.
func (s *SyncService) pushRecord(ctx context.Context, kind erpsync.EntityKind, naturalKey string, record map[string]any) error {
	candidates, err := s.integrations.FindByEntityKind(ctx, kind)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return erpsync.ErrIntegrationNotFound
	}
	integration := &candidates[0]
	mapping := integration.Mapping

	conn, creds, err := s.credentialsFor(ctx, integration.ConnectionID)
	if err != nil {
		return err
	}

	token, err := s.gateway.Authenticate(ctx, *creds)
	if err != nil {
		return err
	}

	remoteRow := ToRemote(record, mapping.FieldMappings)
	required := append([]string{mapping.KeyField}, mapping.RequiredFields...)
	if err := ApplyRequiredFields(remoteRow, record, mapping.FieldMappings, required...); err != nil {
		return err
	}

	return s.gateway.PushData(ctx, erpsync.DataPush{
		ObjectName: mapping.ObjectName,
		Key:        naturalKey,
		Payload:    remoteRow,
		Token:      token,
		AppID:      conn.AppID,
		Version:    creds.Version,
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// credentialsFor loads a connection and decrypts its password. Vault errors
// are fatal for the operation; they are never auto-repaired.
func (s *SyncService) credentialsFor(ctx context.Context, connectionID uuid.UUID) (*erpsync.Connection, *erpsync.Credentials, error) {
	conn, err := s.connections.FindByID(ctx, connectionID)
	if err != nil {
		return nil, nil, err
	}

	password, err := s.cipher.Decrypt(conn.EncryptedPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("decrypting credentials for connection %s: %w", conn.ID, err)
	}

	return conn, &erpsync.Credentials{
		Username:       conn.Username,
		Password:       password,
		AppID:          conn.AppID,
		Company:        conn.Company,
		Branch:         conn.Branch,
		Module:         conn.Module,
		ReferenceID:    conn.ReferenceID,
		RegisteredName: conn.RegisteredName,
	}, nil
}

// stringValue renders a remote key value as its canonical string form.
// Decoded JSON numbers arrive as float64, so they need explicit formatting:
// %v would render large integer keys in exponent notation.
func stringValue(v any) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}
