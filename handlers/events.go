package handlers

import (
	"log"
	"net/http"

	"github.com/Matthew12-t/UAS-TST/middleware"
	"github.com/Matthew12-t/UAS-TST/utils"
)

type EventsHandler struct {
	Hub *utils.Hub
}

func NewEventsHandler(hub *utils.Hub) *EventsHandler {
	return &EventsHandler{Hub: hub}
}

// Subscribe upgrades the request to a websocket and streams the caller's loan
// events until the peer disconnects.
func (h *EventsHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeErrorBody(w, http.StatusUnauthorized, "Unauthenticated", "Missing authenticated identity.")
		return
	}

	conn, err := utils.Upgrade(w, r)
	if err != nil {
		log.Println("events: upgrade failed:", err)
		return
	}

	client := utils.NewClient(identity.UserID, conn)
	h.Hub.Register <- client

	go client.WritePump()
	client.ReadPump(h.Hub)
}
