package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Dosada05/tournament-manager/services"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bs services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bs}
}

type seedManualInput struct {
	TeamIDs []int `json:"team_ids"`
}

type seedRankedInput struct {
	Count int `json:"count"`
}

type reportWinnerInput struct {
	Index  int `json:"index"`
	TeamID int `json:"team_id"`
}

// QualifiersHandler godoc
// @Summary Top teams of the stored league table
// @Tags knockout
// @Produce json
// @Param tournamentID path string true "Tournament UUID"
// @Param count query int true "Number of qualifiers (4, 8 or 16 suggested)"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]string
// @Router /tournaments/{tournamentID}/qualifiers [get]
func (h *BracketHandler) QualifiersHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	count, err := strconv.Atoi(r.URL.Query().Get("count"))
	if err != nil {
		badRequestResponse(w, r, errors.New("count query parameter must be an integer"))
		return
	}

	teams, err := h.bracketService.Qualifiers(r.Context(), id, count)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"qualifiers": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SeedManualHandler godoc
// @Summary Seed the knockout from chosen teams, shuffled and padded with byes
// @Tags knockout
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament UUID"
// @Param input body seedManualInput false "Team ids; empty means every registered team"
// @Success 201 {object} services.BracketView
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/bracket/manual [post]
func (h *BracketHandler) SeedManualHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input seedManualInput
	if r.ContentLength != 0 {
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	view, err := h.bracketService.SeedManual(r.Context(), id, input.TeamIDs)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SeedRankedHandler godoc
// @Summary Seed the knockout from the league qualifiers, 1 vs N
// @Tags knockout
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament UUID"
// @Param input body seedRankedInput true "Number of qualifiers"
// @Success 201 {object} services.BracketView
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/bracket/ranked [post]
func (h *BracketHandler) SeedRankedHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input seedRankedInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.bracketService.SeedRanked(r.Context(), id, input.Count)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ReportWinnerHandler godoc
// @Summary Report the winner of a pairing in the current round
// @Tags knockout
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament UUID"
// @Param input body reportWinnerInput true "Pairing index and winning team"
// @Success 200 {object} services.BracketView
// @Failure 409 {object} map[string]string "Invalid pairing"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/bracket/winner [post]
func (h *BracketHandler) ReportWinnerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input reportWinnerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.bracketService.ReportWinner(r.Context(), id, input.Index, input.TeamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// @Summary Clear the knockout bracket
// @Tags knockout
// @Produce json
// @Param tournamentID path string true "Tournament UUID"
// @Success 200 {object} services.BracketView
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/bracket/reset [post]
func (h *BracketHandler) ResetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.bracketService.Reset(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// @Summary Current bracket state
// @Tags knockout
// @Produce json
// @Param tournamentID path string true "Tournament UUID"
// @Success 200 {object} services.BracketView
// @Router /tournaments/{tournamentID}/bracket [get]
func (h *BracketHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.bracketService.View(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
