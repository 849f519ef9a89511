package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"termometro/controllers"
)

// SetupAdminRoutes registers the token protected maintenance routes.
func SetupAdminRoutes(router *mux.Router, admin *controllers.AdminController, auth func(http.Handler) http.Handler) {
	sub := router.PathPrefix("/admin").Subrouter()
	sub.Use(auth)
	sub.HandleFunc("/reportes/export", admin.ExportReports).Methods(http.MethodGet)
	sub.HandleFunc("/reportes", admin.DeleteReports).Methods(http.MethodDelete)
}
