package controllers

import (
	"context"
	"net/http"

	"termometro/models"
	"termometro/utils"
)

// RoomLister is satisfied by services.RoomCatalog.
type RoomLister interface {
	List(ctx context.Context) ([]string, error)
}

type RoomController struct {
	rooms RoomLister
}

func NewRoomController(rooms RoomLister) *RoomController {
	return &RoomController{rooms: rooms}
}

// ListRooms returns the selectable rooms.
func (c *RoomController) ListRooms(w http.ResponseWriter, r *http.Request) {
	aulas, err := c.rooms.List(r.Context())
	if err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeUpstreamFailed, "No se pudo cargar la lista de aulas.", nil, http.StatusBadGateway))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"aulas": aulas, "total": len(aulas)})
}
