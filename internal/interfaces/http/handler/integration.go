package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	syncapp "github.com/parkops/backend/internal/application/erpsync"
	"github.com/parkops/backend/internal/interfaces/http/dto"
)

// IntegrationHandler handles sync integration API endpoints
type IntegrationHandler struct {
	BaseHandler
	integrationService *syncapp.IntegrationService
}

// NewIntegrationHandler creates a new IntegrationHandler
func NewIntegrationHandler(integrationService *syncapp.IntegrationService) *IntegrationHandler {
	return &IntegrationHandler{
		integrationService: integrationService,
	}
}

// Create godoc
// @ID           createIntegration
// @Summary      Configure a sync integration
// @Description  Binds a connection to one remote object and one local entity kind with a field mapping table and schedule.
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Success      201 {object} APIResponse[syncapp.IntegrationResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /sync/integrations [post]
func (h *IntegrationHandler) Create(c *gin.Context) {
	var req syncapp.CreateIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, err.Error())
		return
	}

	resp, err := h.integrationService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID godoc
// @ID           getIntegration
// @Summary      Get an integration
// @Tags         integrations
// @Produce      json
// @Param        id path string true "Integration ID"
// @Success      200 {object} APIResponse[syncapp.IntegrationResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /sync/integrations/{id} [get]
func (h *IntegrationHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.integrationService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listIntegrations
// @Summary      List active integrations
// @Tags         integrations
// @Produce      json
// @Success      200 {object} APIResponse[[]syncapp.IntegrationResponse]
// @Router       /sync/integrations [get]
func (h *IntegrationHandler) List(c *gin.Context) {
	resp, err := h.integrationService.ListActive(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update godoc
// @ID           updateIntegration
// @Summary      Update an integration's mapping or schedule
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Param        id path string true "Integration ID"
// @Success      200 {object} APIResponse[syncapp.IntegrationResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /sync/integrations/{id} [put]
func (h *IntegrationHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req syncapp.UpdateIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, err.Error())
		return
	}

	resp, err := h.integrationService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Activate godoc
// @ID           activateIntegration
// @Summary      Activate an integration
// @Description  Resumes scheduled runs and registers the integration's timer.
// @Tags         integrations
// @Produce      json
// @Param        id path string true "Integration ID"
// @Success      200 {object} APIResponse[syncapp.IntegrationResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /sync/integrations/{id}/activate [post]
func (h *IntegrationHandler) Activate(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.integrationService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Deactivate godoc
// @ID           deactivateIntegration
// @Summary      Deactivate an integration
// @Description  Stops scheduled runs. The configuration is kept.
// @Tags         integrations
// @Produce      json
// @Param        id path string true "Integration ID"
// @Success      200 {object} APIResponse[syncapp.IntegrationResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /sync/integrations/{id}/deactivate [post]
func (h *IntegrationHandler) Deactivate(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.integrationService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteIntegration
// @Summary      Delete an integration
// @Tags         integrations
// @Param        id path string true "Integration ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Router       /sync/integrations/{id} [delete]
func (h *IntegrationHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.integrationService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// parseID binds and parses the :id path parameter
func (h *IntegrationHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	return h.bindIDParam(c, "integration")
}
