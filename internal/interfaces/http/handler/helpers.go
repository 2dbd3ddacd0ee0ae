package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/parkops/backend/internal/interfaces/http/dto"
)

// bindIDParam binds and parses the :id path parameter. On failure it writes
// a 400 response and returns false.
func (h *BaseHandler) bindIDParam(c *gin.Context, what string) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "invalid "+what+" ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}
