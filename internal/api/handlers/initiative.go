package handlers

import (
	"net/http"
	"strconv"

	"github.com/dom/combat-tracker/internal/domain"
	"github.com/dom/combat-tracker/internal/service"
	"github.com/dom/combat-tracker/internal/tracker"
	"go.uber.org/zap"
)

// InitiativeHandler serves the derived turn order. It keeps no turn state;
// callers pass theirs in the query string.
type InitiativeHandler struct {
	characterService *service.CharacterService
	logger           *zap.Logger
}

func NewInitiativeHandler(characterService *service.CharacterService, logger *zap.Logger) *InitiativeHandler {
	return &InitiativeHandler{
		characterService: characterService,
		logger:           logger,
	}
}

type InitiativeResponse struct {
	Order    []*domain.Character `json:"order"`
	Turn     int                 `json:"turn"`
	Round    int                 `json:"round"`
	Current  *domain.Character   `json:"current"`
	Next     tracker.State       `json:"next"`
	Previous tracker.State       `json:"previous"`
}

func (h *InitiativeHandler) Get(w http.ResponseWriter, r *http.Request) {
	state := tracker.NewState()
	var err error
	if v := r.URL.Query().Get("turn"); v != "" {
		if state.Turn, err = strconv.Atoi(v); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid turn")
			return
		}
	}
	if v := r.URL.Query().Get("round"); v != "" {
		if state.Round, err = strconv.Atoi(v); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid round")
			return
		}
	}

	characters, err := h.characterService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list characters", zap.String("op", "initiative.Get"), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to get characters")
		return
	}

	order := tracker.Order(characters)
	state = tracker.Clamp(state, len(order))
	current, _ := tracker.Current(order, state)

	resp := InitiativeResponse{
		Order:    order,
		Turn:     state.Turn,
		Round:    state.Round,
		Current:  current,
		Next:     state,
		Previous: state,
	}
	if len(order) > 0 {
		resp.Next = tracker.Next(state, len(order))
		resp.Previous = tracker.Previous(state, len(order))
	}

	writeJSON(w, http.StatusOK, resp)
}
