package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"termometro/controllers"
)

// SetupReportRoutes registers submission, listing and statistics routes.
func SetupReportRoutes(router *mux.Router, reports *controllers.ReportController, stats *controllers.StatsController) {
	router.HandleFunc("/reportes", reports.SubmitReport).Methods(http.MethodPost)
	router.HandleFunc("/reportes", reports.ListReports).Methods(http.MethodGet)
	router.HandleFunc("/geocerca", reports.GetGeofence).Methods(http.MethodGet)
	router.HandleFunc("/estadisticas", stats.GetStats).Methods(http.MethodGet)
}
