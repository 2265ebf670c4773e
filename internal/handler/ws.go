package handler

import (
	"log"
	"net/http"
	"tush00nka/utransfer/internal/ws"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	hub      *ws.Hub
	upgrader *websocket.Upgrader
}

func NewWSHandler(hub *ws.Hub, upgrader *websocket.Upgrader) *WSHandler {
	return &WSHandler{hub: hub, upgrader: upgrader}
}

func (h *WSHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ws", h.serveWS).Methods("GET")
}

// @Summary File list stream
// @Description WebSocket. Sends {"type":"update","files":[...]} on connect and after every change. Send {"type":"refresh"} to get the list again.
// @ID ws
// @Tags files
// @Success 101
// @Router /ws [get]
func (h *WSHandler) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := ws.NewClient(r.Context(), conn)
	log.Printf("🔗 Client connected: %s (%s)", client.ID, r.RemoteAddr)

	// WritePump стартует до регистрации, чтобы отказ хаба дошёл до клиента
	go client.WritePump()

	h.hub.Register(client)
	defer func() {
		h.hub.Unregister(client)
		log.Printf("❌ Client disconnected: %s", client.ID)
	}()

	client.ReadPump(h.hub.HandleIncoming)
}
