package ratings

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Handler exposes rating submission and averages over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers rating routes with an HTTP mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/ratings", h.handleSubmit)
	mux.HandleFunc("/api/ratings/average", h.handleAverage)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		TeamID  int64  `json:"teamId"`
		JudgeID string `json:"judgeId"`
		Score   int    `json:"score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.JudgeID == "" {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	rating, err := h.service.Submit(r.Context(), req.TeamID, req.JudgeID, req.Score)
	if errors.Is(err, ErrRatingClosed) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("team_id", req.TeamID).Msg("failed to submit rating")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rating)
}

func (h *Handler) handleAverage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	teamID, err := strconv.ParseInt(r.URL.Query().Get("teamId"), 10, 64)
	if err != nil {
		http.Error(w, "teamId is required", http.StatusBadRequest)
		return
	}
	avg, err := h.service.Average(r.Context(), teamID)
	if err != nil {
		log.Error().Err(err).Int64("team_id", teamID).Msg("failed to average ratings")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(avg)
}
