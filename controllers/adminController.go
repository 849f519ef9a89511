package controllers

import (
	"context"
	"encoding/csv"
	"log"
	"net/http"
	"time"

	"termometro/models"
	"termometro/utils"
)

const wipeConfirmation = "borrar"

// ReportArchive is the store surface the admin endpoints need.
type ReportArchive interface {
	LoadAll(ctx context.Context) ([]models.StoredReport, error)
	DeleteAll(ctx context.Context) error
}

type CacheResetter interface {
	Reset(ctx context.Context)
}

type AdminController struct {
	store ReportArchive
	stats CacheResetter
}

func NewAdminController(store ReportArchive, stats CacheResetter) *AdminController {
	return &AdminController{store: store, stats: stats}
}

// ExportReports streams every stored report as CSV.
func (c *AdminController) ExportReports(w http.ResponseWriter, r *http.Request) {
	reports, err := c.store.LoadAll(r.Context())
	if err != nil {
		log.Printf("❌ Export failed: %v", err)
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeUpstreamFailed, "failed to load reports", nil, http.StatusBadGateway))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="reportes.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "recorded_at", "fecha", "ubicacion", "temperatura"})
	for _, rep := range reports {
		_ = cw.Write([]string{rep.ID, rep.RecordedAt.UTC().Format(time.RFC3339), rep.Fecha, rep.Ubicacion, string(rep.Temperatura)})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		log.Printf("❌ Failed to write CSV export: %v", err)
		return
	}
	log.Printf("✅ Exported %d reports for %q", len(reports), utils.Subject(r))
}

type wipeRequest struct {
	Confirm string `json:"confirm"`
}

// DeleteReports wipes the store. The body must carry the confirmation word.
func (c *AdminController) DeleteReports(w http.ResponseWriter, r *http.Request) {
	var req wipeRequest
	if !utils.DecodeJSON(w, r, &req) {
		return
	}
	if req.Confirm != wipeConfirmation {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeValidationFailed, `confirm must be "borrar"`, nil, http.StatusBadRequest))
		return
	}

	if err := c.store.DeleteAll(r.Context()); err != nil {
		log.Printf("❌ Failed to delete reports: %v", err)
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeUpstreamFailed, "failed to delete reports", nil, http.StatusBadGateway))
		return
	}
	c.stats.Reset(r.Context())

	log.Printf("✅ All reports deleted by %q", utils.Subject(r))
	w.WriteHeader(http.StatusNoContent)
}
