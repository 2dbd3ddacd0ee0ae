package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	syncapp "github.com/parkops/backend/internal/application/erpsync"
	"github.com/parkops/backend/internal/interfaces/http/dto"
)

// ConnectionHandler handles ERP connection API endpoints
type ConnectionHandler struct {
	BaseHandler
	connectionService *syncapp.ConnectionService
}

// NewConnectionHandler creates a new ConnectionHandler
func NewConnectionHandler(connectionService *syncapp.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{
		connectionService: connectionService,
	}
}

// Create godoc
// @ID           createConnection
// @Summary      Register an ERP connection
// @Description  Registers a remote ERP endpoint. The password is encrypted at rest and never returned.
// @Tags         connections
// @Accept       json
// @Produce      json
// @Success      201 {object} APIResponse[syncapp.ConnectionResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /sync/connections [post]
func (h *ConnectionHandler) Create(c *gin.Context) {
	var req syncapp.CreateConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, err.Error())
		return
	}

	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "missing caller identity")
		return
	}
	req.OwnerID = &ownerID

	resp, err := h.connectionService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID godoc
// @ID           getConnection
// @Summary      Get a connection
// @Tags         connections
// @Produce      json
// @Param        id path string true "Connection ID"
// @Success      200 {object} APIResponse[syncapp.ConnectionResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /sync/connections/{id} [get]
func (h *ConnectionHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.connectionService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listConnections
// @Summary      List the caller's connections
// @Tags         connections
// @Produce      json
// @Success      200 {object} APIResponse[[]syncapp.ConnectionResponse]
// @Router       /sync/connections [get]
func (h *ConnectionHandler) List(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "missing caller identity")
		return
	}

	resp, err := h.connectionService.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update godoc
// @ID           updateConnection
// @Summary      Update a connection
// @Description  Applies partial changes. Supplying a password re-encrypts it; omitting it keeps the stored one.
// @Tags         connections
// @Accept       json
// @Produce      json
// @Param        id path string true "Connection ID"
// @Success      200 {object} APIResponse[syncapp.ConnectionResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /sync/connections/{id} [put]
func (h *ConnectionHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req syncapp.UpdateConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, err.Error())
		return
	}

	resp, err := h.connectionService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteConnection
// @Summary      Delete a connection
// @Tags         connections
// @Param        id path string true "Connection ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Router       /sync/connections/{id} [delete]
func (h *ConnectionHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.connectionService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// parseID binds and parses the :id path parameter
func (h *ConnectionHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	return h.bindIDParam(c, "connection")
}
