package handlers

import (
	"net/http"

	"github.com/Dosada05/swiss-tables/middleware"
	"github.com/Dosada05/swiss-tables/services"
)

type SwapHandler struct {
	editor services.PairingEditor
}

func NewSwapHandler(editor services.PairingEditor) *SwapHandler {
	return &SwapHandler{editor: editor}
}

// Swap godoc
// @Summary Поменять игроков местами
// @Tags pairings
// @Description Обмен двух занятых мест в матчах одного тура без результатов. Слоты 0-3.
// @Accept json
// @Produce json
// @Param body body services.SwapInput true "Два места"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /swaps [post]
func (h *SwapHandler) Swap(w http.ResponseWriter, r *http.Request) {
	var input services.SwapInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.editor.Swap(r.Context(), middleware.CallerFromContext(r.Context()), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
