package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/openleague/league-system/live"
	"github.com/openleague/league-system/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the frontend origin before exposing publicly.
		return true
	},
}

type WebSocketHandler struct {
	hub             *live.Hub
	divisionService services.DivisionService
	logger          *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, ds services.DivisionService, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:             hub,
		divisionService: ds,
		logger:          logger,
	}
}

// ServeWs upgrades the connection and subscribes the client to the division's
// live room. Clients connect to /ws/divisions/{divisionID}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	divisionID, err := getIDFromURL(r, "divisionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.divisionService.GetDivisionByID(r.Context(), divisionID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			slog.Int("division_id", divisionID),
			slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, live.DivisionRoom(divisionID))
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
