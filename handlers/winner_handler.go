package handlers

import (
	"net/http"

	"github.com/contestly/competition-hub/services"
)

type WinnerHandler struct {
	winnerService services.WinnerService
}

func NewWinnerHandler(ws services.WinnerService) *WinnerHandler {
	return &WinnerHandler{winnerService: ws}
}

// ListEligibleHandler handles GET /admin/winner-selection.
func (h *WinnerHandler) ListEligibleHandler(w http.ResponseWriter, r *http.Request) {
	competitions, err := h.winnerService.ListEligibleCompetitions(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"competitions": competitions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListCandidatesHandler handles GET /admin/competitions/{competitionID}/submissions.
// Candidates are the approved submissions of the competition.
func (h *WinnerHandler) ListCandidatesHandler(w http.ResponseWriter, r *http.Request) {
	competitionID, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	submissions, err := h.winnerService.ListCandidates(r.Context(), competitionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"submissions": submissions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SelectWinnerHandler handles POST /admin/competitions/{competitionID}/winner.
func (h *WinnerHandler) SelectWinnerHandler(w http.ResponseWriter, r *http.Request) {
	competitionID, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		SubmissionID int `json:"submission_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	competition, err := h.winnerService.SelectWinner(r.Context(), competitionID, input.SubmissionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"competition": competition}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
