package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-manager/services"
)

type LeagueHandler struct {
	leagueService services.LeagueService
}

func NewLeagueHandler(ls services.LeagueService) *LeagueHandler {
	return &LeagueHandler{leagueService: ls}
}

// StartHandler godoc
// @Summary Generate and store the round-robin schedule
// @Tags league
// @Produce json
// @Param tournamentID path string true "Tournament UUID"
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]string "Fewer than two teams"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/league/start [post]
func (h *LeagueHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rounds, err := h.leagueService.StartLeague(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"rounds": rounds}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// @Summary Full schedule with results so far
// @Tags league
// @Produce json
// @Param tournamentID path string true "Tournament UUID"
// @Success 200 {object} map[string]interface{}
// @Router /tournaments/{tournamentID}/league/schedule [get]
func (h *LeagueHandler) ScheduleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rounds, err := h.leagueService.Schedule(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"rounds": rounds}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// @Summary Fixture waiting for a result
// @Tags league
// @Produce json
// @Param tournamentID path string true "Tournament UUID"
// @Success 200 {object} services.LeagueProgress
// @Router /tournaments/{tournamentID}/league/current [get]
func (h *LeagueHandler) CurrentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	progress, err := h.leagueService.Current(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, progress, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordResultHandler godoc
// @Summary Record the score of the current fixture
// @Tags league
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament UUID"
// @Param input body services.ResultInput true "Fixture and score"
// @Success 200 {object} services.ResultOutcome
// @Failure 409 {object} map[string]string "Out of sequence or league complete"
// @Failure 422 {object} map[string]string "Negative score or rest fixture"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/league/results [post]
func (h *LeagueHandler) RecordResultHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.leagueService.RecordResult(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, outcome, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// @Summary Ranked league table
// @Tags league
// @Produce json
// @Param tournamentID path string true "Tournament UUID"
// @Success 200 {object} map[string]interface{}
// @Router /tournaments/{tournamentID}/league/standings [get]
func (h *LeagueHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.leagueService.Standings(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
