package votes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Handler exposes vote submission and tallies over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers vote routes with an HTTP mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/votes", h.handleSubmit)
	mux.HandleFunc("/api/votes/tally", h.handleTally)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		TeamID  int64  `json:"teamId"`
		VoterID string `json:"voterId"`
		Value   int    `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VoterID == "" {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	vote, err := h.service.Submit(r.Context(), req.TeamID, req.VoterID, req.Value)
	if errors.Is(err, ErrVotingClosed) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("team_id", req.TeamID).Msg("failed to submit vote")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(vote)
}

func (h *Handler) handleTally(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	teamID, err := strconv.ParseInt(r.URL.Query().Get("teamId"), 10, 64)
	if err != nil {
		http.Error(w, "teamId is required", http.StatusBadRequest)
		return
	}
	tally, err := h.service.Tally(r.Context(), teamID)
	if err != nil {
		log.Error().Err(err).Int64("team_id", teamID).Msg("failed to tally votes")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tally)
}
