package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/portal-arena/auth"
	"github.com/Dosada05/portal-arena/services"
)

type SessionHandler struct {
	tournamentService services.TournamentService
	capabilities      *auth.Manager
}

func NewSessionHandler(ts services.TournamentService, capabilities *auth.Manager) *SessionHandler {
	return &SessionHandler{
		tournamentService: ts,
		capabilities:      capabilities,
	}
}

type sessionInput struct {
	Code string `json:"code"`
	Role string `json:"role"`
}

// CreateSessionHandler handles POST /api/session. It validates the join code
// and issues a signed capability bound to that one tournament. Organizer
// capabilities are never issued here; the only source for those is tournament
// creation, otherwise anyone claiming the role would gain control over an
// existing tournament.
func (h *SessionHandler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var input sessionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	role, ok := auth.ParseRole(input.Role)
	if !ok {
		badRequestResponse(w, errors.New("role must be competitor or observer"))
		return
	}
	if role == auth.RoleOrganizer {
		forbiddenResponse(w, "organizer capabilities are issued when the tournament is created")
		return
	}
	if input.Code == "" {
		badRequestResponse(w, errors.New("code is required"))
		return
	}

	if !h.tournamentService.Exists(r.Context(), input.Code) {
		notFoundResponse(w)
		return
	}

	token, err := h.capabilities.Issue(auth.Capability{
		TournamentID: input.Code,
		Role:         role,
	})
	if err != nil {
		serverErrorResponse(w, err)
		return
	}

	payload := jsonResponse{
		"token":        token,
		"role":         role,
		"tournamentId": input.Code,
	}
	if err := writeJSON(w, http.StatusOK, payload, nil); err != nil {
		serverErrorResponse(w, err)
	}
}
