package handler

import (
	"log"
	"net/http"
	"tush00nka/utransfer/internal/pkg/httputils"
	"tush00nka/utransfer/internal/pkg/lan"

	"github.com/gorilla/mux"
)

const qrSize = 256

type PongResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Files   int    `json:"files"`
	Clients int    `json:"clients"`
}

// SystemHandler отдает служебные эндпоинты
type SystemHandler struct {
	files   func() int
	clients func() int
	url     string
}

func NewSystemHandler(files, clients func() int, url string) *SystemHandler {
	return &SystemHandler{files: files, clients: clients, url: url}
}

func (h *SystemHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ping", Ping).Methods("GET")
	router.HandleFunc("/healthz", h.health).Methods("GET")
	router.HandleFunc("/qr.png", h.qr).Methods("GET")
}

// Ping
// @Summary Пингануть свервер
// @Description Пинганиуть сервер
// @Tags system
// @Produce json
// @Success 200 {object} PongResponse
// @Router /ping [get]
func Ping(w http.ResponseWriter, r *http.Request) {
	httputils.ResponseJSON(w, 200, PongResponse{Message: "Pong"})
}

// @Summary Состояние сервера
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (h *SystemHandler) health(w http.ResponseWriter, r *http.Request) {
	httputils.ResponseJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Files:   h.files(),
		Clients: h.clients(),
	})
}

// @Summary QR-код адреса в локальной сети
// @Tags system
// @Produce png
// @Success 200 {file} binary
// @Failure 500 {object} response.ErrorResponse
// @Router /qr.png [get]
func (h *SystemHandler) qr(w http.ResponseWriter, r *http.Request) {
	png, err := lan.QRPNG(h.url, qrSize)
	if err != nil {
		log.Printf("❌ [%s] QR encode failed: %v", httputils.RequestIDFrom(r.Context()), err)
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to render QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}
