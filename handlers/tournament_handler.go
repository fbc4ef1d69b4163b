package handlers

import (
	"net/http"

	"github.com/Dosada05/portal-arena/auth"
	"github.com/Dosada05/portal-arena/models"
	"github.com/Dosada05/portal-arena/services"
	"github.com/go-chi/chi/v5"
)

// StatePublisher fans a fresh canonical snapshot out to the tournament's
// room. Satisfied by realtime.Hub; REST mutations publish through it so
// websocket viewers see changes made over HTTP.
type StatePublisher interface {
	PushState(t *models.Tournament)
}

type TournamentHandler struct {
	tournamentService services.TournamentService
	capabilities      *auth.Manager
	publisher         StatePublisher
}

func NewTournamentHandler(ts services.TournamentService, capabilities *auth.Manager, publisher StatePublisher) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
		capabilities:      capabilities,
		publisher:         publisher,
	}
}

// CreateHandler handles POST /api/tournaments. The creator gets the fresh
// join code back along with an organizer capability for it.
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.tournamentService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	token, err := h.capabilities.Issue(auth.Capability{
		TournamentID: tournament.ID,
		Role:         auth.RoleOrganizer,
	})
	if err != nil {
		serverErrorResponse(w, err)
		return
	}

	payload := jsonResponse{"tournament": tournament, "token": token}
	if err := writeJSON(w, http.StatusCreated, payload, nil); err != nil {
		serverErrorResponse(w, err)
	}
}

// GetByIDHandler handles GET /api/tournaments/{tournamentID}.
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tournamentID")

	tournament, err := h.tournamentService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, err)
	}
}

// UpdateSettingsHandler handles PUT /api/tournaments/{tournamentID}/settings.
// Settings are replaced wholesale; stored match scores are not recomputed.
func (h *TournamentHandler) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tournamentID")
	capability := capabilityFromRequest(r, h.capabilities)
	if capability == nil {
		unauthorizedResponse(w, "capability token required")
		return
	}
	if !capability.CanAdminister(id) {
		forbiddenResponse(w, "organizer capability required")
		return
	}

	var settings models.TournamentSettings
	if err := readJSON(w, r, &settings); err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.tournamentService.UpdateSettings(r.Context(), id, settings)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	h.publisher.PushState(tournament)

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, err)
	}
}

// UpdateFieldsHandler handles PATCH /api/tournaments/{tournamentID}: a
// shallow merge of name and team list. Matches are never touched here.
func (h *TournamentHandler) UpdateFieldsHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tournamentID")
	capability := capabilityFromRequest(r, h.capabilities)
	if capability == nil {
		unauthorizedResponse(w, "capability token required")
		return
	}
	if !capability.CanAdminister(id) {
		forbiddenResponse(w, "organizer capability required")
		return
	}

	var patch services.TournamentPatch
	if err := readJSON(w, r, &patch); err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.tournamentService.UpdateFields(r.Context(), id, patch)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	h.publisher.PushState(tournament)

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, err)
	}
}

type generateBracketInput struct {
	Teams []string `json:"teams"`
	Force bool     `json:"force"`
}

// GenerateBracketHandler handles POST /api/tournaments/{tournamentID}/bracket.
// Replaces the match list wholesale and discards all prior match state. Once
// any match is approved the call is refused unless force is set.
func (h *TournamentHandler) GenerateBracketHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tournamentID")
	capability := capabilityFromRequest(r, h.capabilities)
	if capability == nil {
		unauthorizedResponse(w, "capability token required")
		return
	}
	if !capability.CanAdminister(id) {
		forbiddenResponse(w, "organizer capability required")
		return
	}

	var input generateBracketInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.tournamentService.GenerateBracket(r.Context(), id, input.Teams, input.Force)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	h.publisher.PushState(tournament)

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, err)
	}
}

// SubmitResultHandler handles
// POST /api/tournaments/{tournamentID}/matches/{matchID}/result. Scores and
// the winner are computed from the current settings; on approval the winner
// is propagated into the successor match.
func (h *TournamentHandler) SubmitResultHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tournamentID")
	matchID := chi.URLParam(r, "matchID")
	capability := capabilityFromRequest(r, h.capabilities)
	if capability == nil {
		unauthorizedResponse(w, "capability token required")
		return
	}
	if !capability.CanMutate(id) {
		forbiddenResponse(w, "organizer or competitor capability required")
		return
	}

	var input services.MatchResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.tournamentService.SubmitResult(r.Context(), id, matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	h.publisher.PushState(tournament)

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, err)
	}
}
