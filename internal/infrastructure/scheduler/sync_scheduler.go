package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parkops/backend/internal/domain/erpsync"
)

// ---------------------------------------------------------------------------
// SyncRunner Interface
// ---------------------------------------------------------------------------

// SyncRunner executes one full sync pass for an integration
type SyncRunner interface {
	// RunFull pulls every remote page of the integration and imports it
	RunFull(ctx context.Context, integrationID uuid.UUID) (*erpsync.BatchResult, error)
}

// ---------------------------------------------------------------------------
// SyncSchedulerConfig
// ---------------------------------------------------------------------------

// SyncSchedulerConfig holds configuration for the integration sync scheduler
type SyncSchedulerConfig struct {
	// Enabled indicates if the scheduler is enabled
	Enabled bool
	// RunTimeout is the maximum time a single integration run can take
	RunTimeout time.Duration
	// InitTimeout bounds the deferred initial load of integrations
	InitTimeout time.Duration
}

// DefaultSyncSchedulerConfig returns default configuration
func DefaultSyncSchedulerConfig() SyncSchedulerConfig {
	return SyncSchedulerConfig{
		Enabled:     true,
		RunTimeout:  30 * time.Minute,
		InitTimeout: 2 * time.Minute,
	}
}

// Validate validates the configuration
func (c *SyncSchedulerConfig) Validate() error {
	if c.RunTimeout <= 0 || c.InitTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// ---------------------------------------------------------------------------
// SyncScheduler
// ---------------------------------------------------------------------------

// scheduleEntry is one registered integration with its recurring trigger.
// inFlight is the single-flight guard: a tick that lands while a run is
// still executing is skipped, never queued.
type scheduleEntry struct {
	integrationID uuid.UUID
	interval      time.Duration
	ticker        *time.Ticker
	cancel        context.CancelFunc
	inFlight      bool
	lastRunAt     *time.Time
	lastError     string
}

// SyncScheduler drives recurring sync runs, one independent timer per active
// integration. Registration is keyed by integration ID, so re-registering an
// integration replaces its previous timer.
type SyncScheduler struct {
	config       SyncSchedulerConfig
	runner       SyncRunner
	integrations erpsync.IntegrationRepository
	logger       *zap.Logger

	mu        sync.Mutex
	entries   map[uuid.UUID]*scheduleEntry
	isRunning bool
	ready     bool
	wg        sync.WaitGroup
}

// NewSyncScheduler creates a new integration sync scheduler
func NewSyncScheduler(config SyncSchedulerConfig, runner SyncRunner, integrations erpsync.IntegrationRepository, logger *zap.Logger) (*SyncScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &SyncScheduler{
		config:       config,
		runner:       runner,
		integrations: integrations,
		logger:       logger,
		entries:      make(map[uuid.UUID]*scheduleEntry),
	}, nil
}

// Start marks the scheduler as running. It does not load integrations;
// InitializeAll does that, typically from a deferred startup goroutine so a
// slow or unavailable database never blocks process startup.
func (s *SyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	s.isRunning = true

	s.logger.Info("Sync scheduler started",
		zap.Duration("run_timeout", s.config.RunTimeout),
	)
	return nil
}

// Stop stops every timer and waits for in-flight runs to finish
func (s *SyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.ready = false

	for id, entry := range s.entries {
		entry.ticker.Stop()
		entry.cancel()
		delete(s.entries, id)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Sync scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Sync scheduler stop timed out")
		return ctx.Err()
	}
}

// InitializeAll loads every active integration and registers its timer. It is
// re-entrant: calling it again re-registers everything from current state, so
// it also serves as a reload after configuration changes.
func (s *SyncScheduler) InitializeAll(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.config.InitTimeout)
	defer cancel()

	integrations, err := s.integrations.FindActive(ctx)
	if err != nil {
		return err
	}

	registered := 0
	for i := range integrations {
		integration := &integrations[i]
		if err := s.Register(integration); err != nil {
			// One bad schedule never blocks the rest
			s.logger.Warn("Skipping integration with invalid schedule",
				zap.String("integration_id", integration.ID.String()),
				zap.String("schedule", integration.Mapping.Schedule),
				zap.Error(err),
			)
			continue
		}
		registered++
	}

	s.mu.Lock()
	s.ready = true
	s.mu.Unlock()

	s.logger.Info("Sync scheduler initialized",
		zap.Int("active_integrations", len(integrations)),
		zap.Int("registered", registered),
	)
	return nil
}

// Register starts (or replaces) the recurring timer for one integration
func (s *SyncScheduler) Register(integration *erpsync.Integration) error {
	interval, err := integration.Mapping.Interval()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return ErrSchedulerNotRunning
	}

	if existing, ok := s.entries[integration.ID]; ok {
		existing.ticker.Stop()
		existing.cancel()
	}

	entryCtx, cancel := context.WithCancel(context.Background())
	entry := &scheduleEntry{
		integrationID: integration.ID,
		interval:      interval,
		ticker:        time.NewTicker(interval),
		cancel:        cancel,
	}
	s.entries[integration.ID] = entry

	s.wg.Add(1)
	go s.tickLoop(entryCtx, entry)

	s.logger.Info("Integration registered for recurring sync",
		zap.String("integration_id", integration.ID.String()),
		zap.String("entity_kind", string(integration.Mapping.ModelName)),
		zap.Duration("interval", interval),
	)
	return nil
}

// Unregister stops the recurring timer for one integration
func (s *SyncScheduler) Unregister(integrationID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[integrationID]
	if !ok {
		return
	}
	entry.ticker.Stop()
	entry.cancel()
	delete(s.entries, integrationID)

	s.logger.Info("Integration unregistered from recurring sync",
		zap.String("integration_id", integrationID.String()),
	)
}

// Ready reports whether the deferred initial load has completed. Health
// probes distinguish "starting" from "scheduling" with this.
func (s *SyncScheduler) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Status returns a snapshot of every registered entry
func (s *SyncScheduler) Status() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]map[string]any, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, map[string]any{
			"integration_id": entry.integrationID.String(),
			"interval":       entry.interval.String(),
			"in_flight":      entry.inFlight,
			"last_run_at":    entry.lastRunAt,
			"last_error":     entry.lastError,
		})
	}

	return map[string]any{
		"enabled":      s.config.Enabled,
		"is_running":   s.isRunning,
		"ready":        s.ready,
		"integrations": entries,
	}
}

// tickLoop waits for ticks and fires runs for one integration. Each fire
// runs in its own goroutine so the loop keeps draining ticks while a run is
// in flight; the single-flight guard in fire turns those ticks into skips
// instead of letting them queue behind the running pass.
func (s *SyncScheduler) tickLoop(ctx context.Context, entry *scheduleEntry) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-entry.ticker.C:
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.fire(ctx, entry)
			}()
		}
	}
}

// fire runs one sync pass unless the previous pass is still in flight
func (s *SyncScheduler) fire(ctx context.Context, entry *scheduleEntry) {
	s.mu.Lock()
	if entry.inFlight {
		s.mu.Unlock()
		s.logger.Warn("Skipping sync tick, previous run still in flight",
			zap.String("integration_id", entry.integrationID.String()),
		)
		return
	}
	entry.inFlight = true
	now := time.Now()
	entry.lastRunAt = &now
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		entry.inFlight = false
		s.mu.Unlock()
	}()

	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	result, err := s.runner.RunFull(runCtx, entry.integrationID)
	if err != nil {
		// Failures are contained to this integration; the timer keeps ticking
		s.mu.Lock()
		entry.lastError = err.Error()
		s.mu.Unlock()
		s.logger.Error("Scheduled sync run failed",
			zap.String("integration_id", entry.integrationID.String()),
			zap.Error(err),
		)
		return
	}

	s.mu.Lock()
	entry.lastError = ""
	s.mu.Unlock()

	s.logger.Info("Scheduled sync run completed",
		zap.String("integration_id", entry.integrationID.String()),
		zap.Int("created", result.Stats.Created),
		zap.Int("updated", result.Stats.Updated),
		zap.Int("errors", result.Stats.Errors),
	)
}
