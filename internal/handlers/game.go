package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/jwebster45206/musilife/pkg/engine"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// StartRequest begins a new career.
type StartRequest struct {
	Name string `json:"name"`
}

// ChoiceRequest answers the current prompt.
type ChoiceRequest struct {
	Index *int `json:"index"`
}

// ChoiceResponse is the outcome of a choice plus the state that follows it.
type ChoiceResponse struct {
	Result *engine.TurnResult `json:"result"`
	State  engine.Snapshot    `json:"state"`
}

// GameHandler serves the single game session of the process.
type GameHandler struct {
	mu      sync.Mutex
	session *engine.Session
	logger  *slog.Logger
}

func NewGameHandler(session *engine.Session, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		session: session,
		logger:  logger,
	}
}

// ServeHTTP handles HTTP requests for the game
// Routes:
// GET  /v1/game        - Current snapshot
// POST /v1/game        - Start a new game
// POST /v1/game/choice - Answer the current prompt
// POST /v1/game/reset  - Reset to the pristine state
// POST /v1/game/reroll - Reroll starting stats
func (h *GameHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	action := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/game"), "/")

	h.mu.Lock()
	defer h.mu.Unlock()

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.writeJSON(w, http.StatusOK, h.session.Snapshot())
	case action == "" && r.Method == http.MethodPost:
		h.handleStart(w, r)
	case action == "choice" && r.Method == http.MethodPost:
		h.handleChoice(w, r)
	case action == "reset" && r.Method == http.MethodPost:
		h.session.Reset()
		h.writeJSON(w, http.StatusOK, h.session.Snapshot())
	case action == "reroll" && r.Method == http.MethodPost:
		if err := h.session.Reroll(); err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, h.session.Snapshot())
	case action == "" || action == "choice" || action == "reset" || action == "reroll":
		h.logger.Warn("Method not allowed for game endpoint", "method", r.Method, "path", r.URL.Path)
		h.writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
	default:
		h.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Not found"})
	}
}

func (h *GameHandler) handleStart(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid start request", "error", err)
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON in request body"})
		return
	}

	if err := h.session.Start(req.Name); err != nil {
		h.writeError(w, err)
		return
	}

	player := h.session.Player()
	h.logger.Info("Game started via API", "session_id", player.ID, "name", player.Name)
	h.writeJSON(w, http.StatusCreated, h.session.Snapshot())
}

func (h *GameHandler) handleChoice(w http.ResponseWriter, r *http.Request) {
	var req ChoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		h.logger.Warn("Invalid choice request", "error", err)
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Request body must be {\"index\": <int>}"})
		return
	}

	result, err := h.session.Choose(*req.Index)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, ChoiceResponse{
		Result: result,
		State:  h.session.Snapshot(),
	})
}

// statusFor maps session errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrInvalidName), errors.Is(err, engine.ErrInvalidChoice):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrNotStarted), errors.Is(err, engine.ErrWrongPhase), errors.Is(err, engine.ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, engine.ErrOptionLocked):
		return http.StatusLocked
	default:
		return http.StatusInternalServerError
	}
}

func (h *GameHandler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Game request failed", "error", err)
	} else {
		h.logger.Debug("Game request rejected", "error", err, "status", status)
	}
	h.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (h *GameHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}
