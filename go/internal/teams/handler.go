package teams

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/pitchnight/arena/go/internal/auth"
)

// Handler exposes team CRUD over HTTP. Reads are public; writes need the
// admin capability.
type Handler struct {
	service *Service
	authz   auth.Authorizer
}

func NewHandler(service *Service, authz auth.Authorizer) *Handler {
	return &Handler{service: service, authz: authz}
}

// RegisterRoutes registers team routes with an HTTP mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/teams", h.handleTeams)
}

func (h *Handler) handleTeams(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	teams, err := h.service.ListTeams(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list teams")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(teams)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if err := h.authz.IsAdmin(r); err != nil {
		status := http.StatusForbidden
		if errors.Is(err, auth.ErrUnauthenticated) {
			status = http.StatusUnauthorized
		}
		http.Error(w, err.Error(), status)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	team, err := h.service.CreateTeam(r.Context(), req.Name)
	if err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("failed to create team")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(team)
}
