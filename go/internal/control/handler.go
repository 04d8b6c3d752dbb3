package control

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/pitchnight/arena/go/internal/auth"
	"github.com/pitchnight/arena/go/internal/models"
	"github.com/pitchnight/arena/go/internal/phaseclock"
)

// TeamLookup resolves a bare team id into the reference stored in live state.
type TeamLookup interface {
	Lookup(ctx context.Context, id int64) (*models.TeamRef, error)
}

// Handler is the admin command surface over one round's phase clock, plus the
// unauthenticated snapshot read used as a polling fallback.
type Handler struct {
	clock *phaseclock.Clock
	teams TeamLookup
	authz auth.Authorizer
}

func NewHandler(clock *phaseclock.Clock, teams TeamLookup, authz auth.Authorizer) *Handler {
	return &Handler{clock: clock, teams: teams, authz: authz}
}

// RegisterRoutes mounts the state and control endpoints under prefix,
// e.g. /api/live/voting.
func (h *Handler) RegisterRoutes(mux *http.ServeMux, prefix string) {
	mux.HandleFunc(prefix+"/state", h.handleState)
	mux.HandleFunc(prefix+"/control", h.handleControl)
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, CodeInvalidCommand, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, h.clock.Snapshot())
}

type commandRequest struct {
	Action    string `json:"action"`
	TeamID    *int64 `json:"teamId"`
	Completed *bool  `json:"completed"`
}

type commandResponse struct {
	Success bool                `json:"success"`
	State   phaseclock.Snapshot `json:"state"`
	Message string              `json:"message,omitempty"`
}

// advanceActions maps command names to the phase they force. Whether the
// phase exists is decided per round config.
var advanceActions = map[string]string{
	"start-prep":           phaseclock.PhasePreparing,
	"start-voting":         phaseclock.PhaseVoting,
	"start-qna":            phaseclock.PhaseQnaPause,
	"start-rating-warning": phaseclock.PhaseRatingWarning,
	"start-rating":         phaseclock.PhaseRatingActive,
}

func (h *Handler) handleControl(w http.ResponseWriter, r *http.Request) {
	if err := h.authz.IsAdmin(r); err != nil {
		if errors.Is(err, auth.ErrUnauthenticated) {
			writeError(w, http.StatusUnauthorized, CodeUnauthenticated, err.Error())
			return
		}
		writeError(w, http.StatusForbidden, CodeForbidden, err.Error())
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.handleCommand(w, r)
	case http.MethodPatch:
		h.handlePatch(w, r)
	default:
		w.Header().Set("Allow", "POST, PATCH")
		writeError(w, http.StatusMethodNotAllowed, CodeInvalidCommand, "method not allowed")
	}
}

func (h *Handler) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidCommand, "malformed request body")
		return
	}

	var snap phaseclock.Snapshot
	switch req.Action {
	case "set-team":
		snap = h.clock.SetActiveTeam(h.resolveTeam(r.Context(), req.TeamID))
	case "start-cycle":
		snap = h.clock.StartCycle()
	case "stop":
		snap = h.clock.StopCycle()
	case "start":
		snap = h.clock.SetInteractionActive(true)
	case "set-all-pitches-completed":
		done := true
		if req.Completed != nil {
			done = *req.Completed
		}
		snap = h.clock.SetAllPitchesCompleted(done)
	default:
		phase, ok := advanceActions[req.Action]
		if !ok || !h.clock.Config().ValidPhase(phase) {
			writeError(w, http.StatusBadRequest, CodeInvalidCommand, "unknown action "+req.Action)
			return
		}
		// No-op when no cycle is running: the unchanged state comes back.
		snap, _ = h.clock.AdvanceTo(phase)
	}

	writeJSON(w, http.StatusOK, commandResponse{Success: true, State: snap})
}

// handlePatch applies a restricted partial-state update. Only the round's
// interactive flag, the completed flag, a valid phase name and the cycle flag
// are honored; anything else in the body is silently ignored.
func (h *Handler) handlePatch(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidCommand, "malformed request body")
		return
	}

	var patch phaseclock.Patch
	if raw, ok := body[h.clock.Config().InteractiveField]; ok {
		var v bool
		if json.Unmarshal(raw, &v) == nil {
			patch.InteractionActive = &v
		}
	}
	if raw, ok := body["allPitchesCompleted"]; ok {
		var v bool
		if json.Unmarshal(raw, &v) == nil {
			patch.AllPitchesCompleted = &v
		}
	}
	if raw, ok := body["cycleActive"]; ok {
		var v bool
		if json.Unmarshal(raw, &v) == nil {
			patch.CycleActive = &v
		}
	}
	if raw, ok := body["currentPhase"]; ok {
		var v string
		if json.Unmarshal(raw, &v) == nil {
			patch.CurrentPhase = &v
		}
	}

	snap, err := h.clock.ApplyPatch(patch)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidCommand, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, commandResponse{Success: true, State: snap})
}

// resolveTeam turns an optional team id into a stored reference. A lookup miss
// degrades to an unresolved reference rather than failing the whole command.
func (h *Handler) resolveTeam(ctx context.Context, id *int64) *models.TeamRef {
	if id == nil {
		return nil
	}
	ref, err := h.teams.Lookup(ctx, *id)
	if err != nil {
		log.Warn().
			Err(err).
			Int64("team_id", *id).
			Str("round", h.clock.Round()).
			Msg("team lookup failed, storing unresolved reference")
		return &models.TeamRef{ID: *id}
	}
	return ref
}
