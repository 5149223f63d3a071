package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/shareholder-portal/internal/interface/http/dto"
	"github.com/ignatzorin/shareholder-portal/internal/interface/http/response"
	"github.com/ignatzorin/shareholder-portal/internal/usecase/trail"
)

type TrailHandler struct {
	getTrailUC *trail.GetTrailUseCase
}

func NewTrailHandler(getTrailUC *trail.GetTrailUseCase) *TrailHandler {
	return &TrailHandler{getTrailUC: getTrailUC}
}

// GetTrail обрабатывает GET /api/sessions/:logId/trail.
func (h *TrailHandler) GetTrail(c *gin.Context) {
	out, err := h.getTrailUC.Execute(c.Request.Context(), c.Param("logId"))
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, dto.NewTrailResponse(out))
}
