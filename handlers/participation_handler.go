package handlers

import (
	"net/http"

	"github.com/contestly/competition-hub/middleware"
	"github.com/contestly/competition-hub/services"
)

type ParticipationHandler struct {
	participationService services.ParticipationService
}

func NewParticipationHandler(ps services.ParticipationService) *ParticipationHandler {
	return &ParticipationHandler{participationService: ps}
}

// EnterHandler handles POST /competitions/{competitionID}/enter.
// Entering twice is not an error: the existing participation is returned
// with a 200 instead of a 201.
func (h *ParticipationHandler) EnterHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	competitionID, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.participationService.Enter(r.Context(), userID, competitionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	status := http.StatusCreated
	if result.AlreadyEntered {
		status = http.StatusOK
	}
	env := jsonResponse{
		"participation":   result.Participation,
		"already_entered": result.AlreadyEntered,
	}
	if err := writeJSON(w, status, env, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateProgressHandler handles PATCH /participations/{participationID}/progress.
func (h *ParticipationHandler) UpdateProgressHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	participationID, err := getIDFromURL(r, "participationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Progress int `json:"progress"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participation, err := h.participationService.UpdateProgress(r.Context(), userID, participationID, input.Progress)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"participation": participation}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
