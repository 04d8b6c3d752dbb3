package scoreboard

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Handler serves the aggregated scoreboard.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the scoreboard route with an HTTP mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/scoreboard", h.handleBoard)
}

func (h *Handler) handleBoard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rows, err := h.service.Board(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to build scoreboard")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rows)
}
