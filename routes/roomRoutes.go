package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"termometro/controllers"
)

func SetupRoomRoutes(router *mux.Router, rooms *controllers.RoomController) {
	router.HandleFunc("/aulas", rooms.ListRooms).Methods(http.MethodGet)
}
