package handler

import (
	"github.com/gin-gonic/gin"

	syncapp "github.com/parkops/backend/internal/application/erpsync"
	"github.com/parkops/backend/internal/domain/erpsync"
	"github.com/parkops/backend/internal/interfaces/http/dto"
)

// SchedulerStatus is the read-only scheduler surface exposed over HTTP
type SchedulerStatus interface {
	Ready() bool
	Status() map[string]any
}

// SyncHandler handles sync run and catalogue API endpoints
type SyncHandler struct {
	BaseHandler
	syncService *syncapp.SyncService
	scheduler   SchedulerStatus
}

// NewSyncHandler creates a new SyncHandler. The scheduler may be nil when
// scheduling is disabled.
func NewSyncHandler(syncService *syncapp.SyncService, scheduler SchedulerStatus) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		scheduler:   scheduler,
	}
}

// RunBatch godoc
// @ID           runSyncBatch
// @Summary      Run one page of an integration
// @Description  Processes a single page of the integration's remote object and returns resumable progress.
// @Tags         sync
// @Accept       json
// @Produce      json
// @Success      200 {object} APIResponse[syncapp.BatchResultResponse]
// @Failure      502 {object} ErrorResponse
// @Router       /sync/runs/batch [post]
func (h *SyncHandler) RunBatch(c *gin.Context) {
	var req syncapp.RunBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, err.Error())
		return
	}

	result, err := h.syncService.SyncBatch(c.Request.Context(), req.IntegrationID, req.Limit, req.Offset)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, syncapp.ToBatchResultResponse(result))
}

// RunFull godoc
// @ID           runSyncFull
// @Summary      Run an integration to completion
// @Description  Pages through the whole remote object. Stats accumulate across pages.
// @Tags         sync
// @Accept       json
// @Produce      json
// @Success      200 {object} APIResponse[syncapp.BatchResultResponse]
// @Failure      502 {object} ErrorResponse
// @Router       /sync/runs/full [post]
func (h *SyncHandler) RunFull(c *gin.Context) {
	var req syncapp.RunFullRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, err.Error())
		return
	}

	result, err := h.syncService.RunFull(c.Request.Context(), req.IntegrationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, syncapp.ToBatchResultResponse(result))
}

// ExportRecord godoc
// @ID           exportSyncRecord
// @Summary      Update a local record, optionally pushing to the ERP first
// @Description  When sync_to_erp is set the remote push happens before the local write; a failed push leaves the local record untouched.
// @Tags         sync
// @Accept       json
// @Produce      json
// @Param        kind path string true "Local entity kind"
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /sync/records/{kind} [post]
func (h *SyncHandler) ExportRecord(c *gin.Context) {
	kind := erpsync.EntityKind(c.Param("kind"))

	var req syncapp.ExportRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, err.Error())
		return
	}

	err := h.syncService.ExportRecord(c.Request.Context(), kind, req.NaturalKey, req.Updates, req.SyncToErp)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Catalogue godoc
// @ID           getSyncCatalogue
// @Summary      List the remote schema catalogue for a connection
// @Description  Served from cache when fresh. The catalogue is advisory; absent objects can still be synced.
// @Tags         sync
// @Produce      json
// @Param        id path string true "Connection ID"
// @Success      200 {object} APIResponse[[]syncapp.RemoteObjectResponse]
// @Failure      502 {object} ErrorResponse
// @Router       /sync/connections/{id}/catalogue [get]
func (h *SyncHandler) Catalogue(c *gin.Context) {
	id, ok := h.bindIDParam(c, "connection")
	if !ok {
		return
	}

	objects, err := h.syncService.Catalogue(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, syncapp.ToRemoteObjectResponses(objects))
}

// SchedulerStatusResponse represents the scheduler status payload
type SchedulerStatusResponse struct {
	Enabled bool           `json:"enabled"`
	Ready   bool           `json:"ready"`
	Entries map[string]any `json:"entries,omitempty"`
}

// GetSchedulerStatus godoc
// @ID           getSyncSchedulerStatus
// @Summary      Get scheduler status
// @Description  Reports per-integration timer state: last run, last error, in-flight flag.
// @Tags         sync
// @Produce      json
// @Success      200 {object} APIResponse[SchedulerStatusResponse]
// @Router       /sync/scheduler/status [get]
func (h *SyncHandler) GetSchedulerStatus(c *gin.Context) {
	resp := SchedulerStatusResponse{}
	if h.scheduler != nil {
		resp.Enabled = true
		resp.Ready = h.scheduler.Ready()
		resp.Entries = h.scheduler.Status()
	}
	h.Success(c, resp)
}
