package handlers

import (
	"net/http"

	"github.com/Dosada05/swiss-tables/middleware"
	"github.com/Dosada05/swiss-tables/services"
)

type RoundHandler struct {
	roundService services.RoundService
}

func NewRoundHandler(rs services.RoundService) *RoundHandler {
	return &RoundHandler{roundService: rs}
}

// Generate godoc
// @Summary Сгенерировать следующий тур
// @Tags rounds
// @Description Рассаживает активных участников по столам на четверых по текущей таблице.
// @Produce json
// @Success 201 {object} models.GeneratedRound
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string "Нет участников или конкурентная генерация"
// @Security BearerAuth
// @Router /rounds [post]
func (h *RoundHandler) Generate(w http.ResponseWriter, r *http.Request) {
	round, err := h.roundService.GenerateNextRound(r.Context(), middleware.CallerFromContext(r.Context()))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, round, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List godoc
// @Summary Список туров
// @Tags rounds
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /rounds [get]
func (h *RoundHandler) List(w http.ResponseWriter, r *http.Request) {
	rounds, err := h.roundService.ListRounds(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"rounds": rounds}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RoundHandler) Current(w http.ResponseWriter, r *http.Request) {
	round, err := h.roundService.GetCurrentRound(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, round, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Matches godoc
// @Summary Матчи тура
// @Tags rounds
// @Produce json
// @Param roundID path int true "Round ID"
// @Success 200 {object} models.RoundMatches
// @Failure 404 {object} map[string]string
// @Router /rounds/{roundID}/matches [get]
func (h *RoundHandler) Matches(w http.ResponseWriter, r *http.Request) {
	roundID, err := getIDFromURL(r, "roundID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	round, err := h.roundService.GetRoundMatches(r.Context(), roundID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, round, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Delete godoc
// @Summary Удалить тур
// @Tags rounds
// @Description Разрешено, пока ни в одном матче тура нет результатов.
// @Param roundID path int true "Round ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "В туре уже есть результаты"
// @Security BearerAuth
// @Router /rounds/{roundID} [delete]
func (h *RoundHandler) Delete(w http.ResponseWriter, r *http.Request) {
	roundID, err := getIDFromURL(r, "roundID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.roundService.DeleteRound(r.Context(), middleware.CallerFromContext(r.Context()), roundID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reset godoc
// @Summary Сбросить турнир
// @Tags rounds
// @Description Удаляет всех участников, туры, матчи и результаты. Только для администратора.
// @Success 204
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /reset [post]
func (h *RoundHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.roundService.ResetTournament(r.Context(), middleware.CallerFromContext(r.Context())); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
