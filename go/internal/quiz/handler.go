package quiz

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Handler exposes the quiz over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers quiz routes with an HTTP mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/quiz/questions", h.handleQuestions)
	mux.HandleFunc("/api/quiz/answers", h.handleAnswer)
}

func (h *Handler) handleQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	round, err := strconv.Atoi(r.URL.Query().Get("round"))
	if err != nil {
		round = 1
	}
	questions, err := h.service.ListQuestions(r.Context(), round)
	if err != nil {
		log.Error().Err(err).Int("round", round).Msg("failed to list questions")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(questions)
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		TeamID     int64  `json:"teamId"`
		QuestionID int64  `json:"questionId"`
		Answer     string `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	res, err := h.service.SubmitAnswer(r.Context(), req.TeamID, req.QuestionID, req.Answer)
	if errors.Is(err, ErrQuestionNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("team_id", req.TeamID).Msg("failed to submit answer")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}
