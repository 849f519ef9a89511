package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"termometro/geo"
	"termometro/models"
	"termometro/services"
	"termometro/utils"
)

type geofenceResponse struct {
	Habilitada bool          `json:"habilitada"`
	Geocerca   *geo.Geofence `json:"geocerca,omitempty"`
}

// ReportController handles submissions and report listing.
type ReportController struct {
	gate  *services.Gate
	store services.ReportLoader
}

func NewReportController(gate *services.Gate, store services.ReportLoader) *ReportController {
	return &ReportController{gate: gate, store: store}
}

// SubmitReport runs the submission gate with the position the client sent.
func (c *ReportController) SubmitReport(w http.ResponseWriter, r *http.Request) {
	var req models.ReportRequest
	if !utils.DecodeJSON(w, r, &req) {
		return
	}

	temp, err := models.ParseTemperatura(req.Temperatura)
	if err != nil {
		// The gate still decides first whether a room was selected.
		temp = models.Temperatura(strings.TrimSpace(req.Temperatura))
	}
	sel := models.Selection{Aula: req.Aula, Temperatura: temp}

	receipt, err := c.gate.Submit(r.Context(), sel, services.PositionFromClient(req.Posicion, req.PosicionError))
	switch {
	case errors.Is(err, models.ErrTemperaturaInvalida):
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeValidationFailed, err.Error(), models.Temperaturas, http.StatusBadRequest))
		return
	case err != nil && !errors.Is(err, services.ErrStorage):
		log.Printf("❌ Unexpected submission error: %v", err)
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInternalServerError, "failed to process report", nil, http.StatusInternalServerError))
		return
	}

	utils.RespondWithJSON(w, receipt.Outcome.StatusCode(), models.ReportResponse{
		Resultado:       receipt.Outcome,
		Mensaje:         receipt.Message(),
		Reporte:         receipt.Record,
		DistanciaMetros: receipt.DistanceMeters,
	})
}

// ListReports returns every stored report in insertion order.
func (c *ReportController) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := c.store.LoadAll(r.Context())
	if err != nil {
		log.Printf("❌ Failed to load reports: %v", err)
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeUpstreamFailed, "failed to load reports", nil, http.StatusBadGateway))
		return
	}
	if reports == nil {
		reports = []models.StoredReport{}
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"reportes": reports, "total": len(reports)})
}

// GetGeofence describes the active geofence.
func (c *ReportController) GetGeofence(w http.ResponseWriter, r *http.Request) {
	fence := c.gate.Geofence()
	utils.RespondWithJSON(w, http.StatusOK, geofenceResponse{Habilitada: fence != nil, Geocerca: fence})
}
