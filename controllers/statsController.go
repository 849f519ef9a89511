package controllers

import (
	"context"
	"log"
	"net/http"

	"termometro/models"
	"termometro/utils"
)

type StatsProvider interface {
	Get(ctx context.Context) (models.Stats, error)
}

type StatsController struct {
	stats StatsProvider
}

func NewStatsController(stats StatsProvider) *StatsController {
	return &StatsController{stats: stats}
}

// GetStats returns the per room table and the chart series.
func (c *StatsController) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.stats.Get(r.Context())
	if err != nil {
		log.Printf("❌ Failed to build statistics: %v", err)
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeUpstreamFailed, "No se pudieron cargar las estadísticas.", nil, http.StatusBadGateway))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, stats)
}
