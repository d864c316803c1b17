package handlers

import (
	"net/http"

	"github.com/dom/combat-tracker/internal/domain"
)

type ConditionHandler struct{}

func NewConditionHandler() *ConditionHandler {
	return &ConditionHandler{}
}

func (h *ConditionHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.Conditions())
}
