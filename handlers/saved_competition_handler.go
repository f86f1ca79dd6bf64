package handlers

import (
	"net/http"

	"github.com/contestly/competition-hub/middleware"
	"github.com/contestly/competition-hub/services"
)

type SavedCompetitionHandler struct {
	savedService services.SavedCompetitionService
}

func NewSavedCompetitionHandler(ss services.SavedCompetitionService) *SavedCompetitionHandler {
	return &SavedCompetitionHandler{savedService: ss}
}

// ToggleHandler handles POST /me/saved-competitions.
func (h *SavedCompetitionHandler) ToggleHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input struct {
		CompetitionID int    `json:"competition_id"`
		Action        string `json:"action"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.savedService.Toggle(r.Context(), userID, input.CompetitionID, input.Action)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
