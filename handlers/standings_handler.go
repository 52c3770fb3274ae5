package handlers

import (
	"net/http"

	"github.com/Dosada05/swiss-tables/middleware"
	"github.com/Dosada05/swiss-tables/services"
)

type StandingsHandler struct {
	standingsService services.StandingsService
	exportService    services.ExportService
}

func NewStandingsHandler(ss services.StandingsService, es services.ExportService) *StandingsHandler {
	return &StandingsHandler{
		standingsService: ss,
		exportService:    es,
	}
}

// Standings godoc
// @Summary Турнирная таблица
// @Tags standings
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /standings [get]
func (h *StandingsHandler) Standings(w http.ResponseWriter, r *http.Request) {
	standings, err := h.standingsService.Standings(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PlayerMatches godoc
// @Summary Матчи игрока
// @Tags standings
// @Produce json
// @Param participantID path int true "Participant ID"
// @Success 200 {object} models.PlayerMatches
// @Failure 404 {object} map[string]string
// @Router /players/{participantID}/matches [get]
func (h *StandingsHandler) PlayerMatches(w http.ResponseWriter, r *http.Request) {
	participantID, err := getIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.standingsService.PlayerMatches(r.Context(), middleware.CallerFromContext(r.Context()), participantID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, matches, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Export godoc
// @Summary Выгрузить таблицу в хранилище
// @Tags standings
// @Produce json
// @Success 201 {object} services.ExportResult
// @Failure 403 {object} map[string]string
// @Failure 503 {object} map[string]string "Хранилище не настроено"
// @Security BearerAuth
// @Router /standings/export [post]
func (h *StandingsHandler) Export(w http.ResponseWriter, r *http.Request) {
	result, err := h.exportService.ExportStandings(r.Context(), middleware.CallerFromContext(r.Context()))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
