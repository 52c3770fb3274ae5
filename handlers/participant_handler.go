package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/swiss-tables/middleware"
	"github.com/Dosada05/swiss-tables/services"
)

type ParticipantHandler struct {
	participantService services.ParticipantService
}

func NewParticipantHandler(ps services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{
		participantService: ps,
	}
}

// List godoc
// @Summary Список участников
// @Tags participants
// @Description Участники в порядке регистрации со статистикой, посчитанной по результатам.
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /participants [get]
func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	participants, err := h.participantService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"participants": participants}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Register godoc
// @Summary Зарегистрировать участника
// @Tags participants
// @Accept json
// @Produce json
// @Param body body services.RegisterParticipantInput true "Имя и необязательный пароль"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "Имя уже занято"
// @Router /participants [post]
func (h *ParticipantHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterParticipantInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.participantService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"participant": participant}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Remove godoc
// @Summary Удалить участника
// @Tags participants
// @Description Участник без матчей удаляется, участник с матчами деактивируется.
// @Produce json
// @Param participantID path int true "Participant ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /participants/{participantID} [delete]
func (h *ParticipantHandler) Remove(w http.ResponseWriter, r *http.Request) {
	participantID, err := getIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	soft, err := h.participantService.Remove(r.Context(), middleware.CallerFromContext(r.Context()), participantID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeEnvelope(w, r, http.StatusOK, jsonResponse{
		"participant_id": participantID,
		"soft_removed":   soft,
	})
}

type setActiveInput struct {
	Active *bool `json:"active"`
}

func (h *ParticipantHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	participantID, err := getIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input setActiveInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Active == nil {
		badRequestResponse(w, r, errors.New("active is required"))
		return
	}

	participant, err := h.participantService.SetActive(r.Context(), middleware.CallerFromContext(r.Context()), participantID, *input.Active)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeEnvelope(w, r, http.StatusOK, jsonResponse{"participant": participant})
}
