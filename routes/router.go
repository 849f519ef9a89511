package routes

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"termometro/controllers"
	"termometro/models"
	"termometro/utils"
)

// Handlers groups what the router serves. Admin routes are registered only
// when both Admin and AdminAuth are set.
type Handlers struct {
	Rooms     *controllers.RoomController
	Reports   *controllers.ReportController
	Stats     *controllers.StatsController
	Admin     *controllers.AdminController
	AdminAuth func(http.Handler) http.Handler
	Metrics   http.Handler
	WebDir    string
}

// SetupRouter defines all API routes.
func SetupRouter(h Handlers) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	router.HandleFunc("/health", health).Methods(http.MethodGet)
	if h.Metrics != nil {
		router.Handle("/metrics", h.Metrics).Methods(http.MethodGet)
	}

	api := router.PathPrefix("/api").Subrouter()
	SetupRoomRoutes(api, h.Rooms)
	SetupReportRoutes(api, h.Reports, h.Stats)
	if h.Admin != nil && h.AdminAuth != nil {
		SetupAdminRoutes(api, h.Admin, h.AdminAuth)
	}

	if h.WebDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(h.WebDir))).Methods(http.MethodGet, http.MethodHead)
	}
	return router
}

func health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func notFound(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeNotFound, "route not found", r.URL.Path, http.StatusNotFound))
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeMethodNotAllowed, "method not allowed", r.Method, http.StatusMethodNotAllowed))
}
