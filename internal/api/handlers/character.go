package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dom/combat-tracker/internal/domain"
	"github.com/dom/combat-tracker/internal/service"
	"go.uber.org/zap"
)

type CharacterHandler struct {
	characterService *service.CharacterService
	logger           *zap.Logger
}

func NewCharacterHandler(characterService *service.CharacterService, logger *zap.Logger) *CharacterHandler {
	return &CharacterHandler{
		characterService: characterService,
		logger:           logger,
	}
}

// BatchCreateRequest is an InsertCharacter plus how many copies to add.
type BatchCreateRequest struct {
	domain.InsertCharacter
	Quantity *int `json:"quantity,omitempty"`
}

func (h *CharacterHandler) List(w http.ResponseWriter, r *http.Request) {
	characters, err := h.characterService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list characters", zap.String("op", "character.List"), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to get characters")
		return
	}

	if characters == nil {
		characters = []*domain.Character{}
	}
	writeJSON(w, http.StatusOK, characters)
}

func (h *CharacterHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := characterID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid character ID")
		return
	}

	character, err := h.characterService.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "character.Get", id, err)
		return
	}
	writeJSON(w, http.StatusOK, character)
}

func (h *CharacterHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.InsertCharacter
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	character, err := h.characterService.Create(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, "character.Create", 0, err)
		return
	}
	writeJSON(w, http.StatusOK, character)
}

func (h *CharacterHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	created, err := h.characterService.CreateBatch(r.Context(), req.InsertCharacter, quantity)
	if err != nil {
		if len(created) == 0 {
			h.writeServiceError(w, "character.CreateBatch", 0, err)
			return
		}
		h.logger.Warn("batch partially created",
			zap.String("op", "character.CreateBatch"),
			zap.Int("created", len(created)),
			zap.Int("requested", quantity),
			zap.Error(err),
		)
	}
	writeJSON(w, http.StatusOK, created)
}

func (h *CharacterHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := characterID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid character ID")
		return
	}

	var patch domain.CharacterPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	character, err := h.characterService.Update(r.Context(), id, patch)
	if err != nil {
		h.writeServiceError(w, "character.Update", id, err)
		return
	}
	writeJSON(w, http.StatusOK, character)
}

func (h *CharacterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := characterID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid character ID")
		return
	}

	if err := h.characterService.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, "character.Delete", id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CharacterHandler) writeServiceError(w http.ResponseWriter, op string, id int, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid character", Fields: verr.Fields})
	case errors.Is(err, domain.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrCharacterNotFound):
		writeError(w, http.StatusNotFound, "Character not found")
	default:
		h.logger.Error("character request failed", zap.String("op", op), zap.Int("character_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
