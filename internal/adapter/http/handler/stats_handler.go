package handler

import (
	"time"

	"github.com/Godzilaa/Hostel-mess-attendance/internal/adapter/http/dto"
	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/ports"
	"github.com/Godzilaa/Hostel-mess-attendance/pkg/response"

	"github.com/gin-gonic/gin"
)

// StatsHandler handles attendance analytics endpoints.
type StatsHandler struct {
	statsSvc ports.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsSvc ports.StatsService) *StatsHandler {
	return &StatsHandler{statsSvc: statsSvc}
}

// Get handles GET /api/v1/students/:walletAddress/stats. The snapshot is
// derived at request time; a cached snapshot may lag by at most the TTL.
func (h *StatsHandler) Get(c *gin.Context) {
	stats, err := h.statsSvc.ComputeStats(c.Request.Context(), c.Param("walletAddress"), time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewStatsResponse(stats))
}
