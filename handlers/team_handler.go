package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-manager/services"
)

type TeamHandler struct {
	leagueService services.LeagueService
}

func NewTeamHandler(ls services.LeagueService) *TeamHandler {
	return &TeamHandler{leagueService: ls}
}

type registerTeamInput struct {
	Name string `json:"name"`
}

// ListHandler godoc
// @Summary List registered teams
// @Tags teams
// @Produce json
// @Param tournamentID path string true "Tournament UUID"
// @Success 200 {object} map[string]interface{}
// @Router /tournaments/{tournamentID}/teams [get]
func (h *TeamHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	teams, err := h.leagueService.ListTeams(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RegisterHandler godoc
// @Summary Register a team
// @Tags teams
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament UUID"
// @Param input body registerTeamInput true "Team name"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Name taken or league running"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/teams [post]
func (h *TeamHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input registerTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.leagueService.RegisterTeam(r.Context(), id, input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RemoveHandler godoc
// @Summary Remove a team and its fixtures
// @Tags teams
// @Param tournamentID path string true "Tournament UUID"
// @Param teamID path int true "Team ID"
// @Success 204
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/teams/{teamID} [delete]
func (h *TeamHandler) RemoveHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.leagueService.RemoveTeam(r.Context(), id, teamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
