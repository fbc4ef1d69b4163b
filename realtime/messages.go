package realtime

import "github.com/Dosada05/portal-arena/models"

// Message types of the room protocol. Clients send the check/join/leave/
// create/update messages; the coordinator answers with tournament_state,
// check_result and error.
const (
	MsgCheckTournament  = "check_tournament"
	MsgJoinTournament   = "join_tournament"
	MsgLeaveTournament  = "leave_tournament"
	MsgCreateTournament = "create_tournament"
	MsgUpdateTournament = "update_tournament"
	MsgTournamentState  = "tournament_state"
	MsgCheckResult      = "check_result"
	MsgError            = "error"
)

// Envelope is the single JSON frame exchanged over a room connection. Which
// fields are set depends on Type: ID for the room-scoped messages, Tournament
// for the full-snapshot messages, Exists for check_result, Message for
// errors.
type Envelope struct {
	Type       string             `json:"type"`
	ID         string             `json:"id,omitempty"`
	Tournament *models.Tournament `json:"tournament,omitempty"`
	Exists     *bool              `json:"exists,omitempty"`
	Message    string             `json:"message,omitempty"`
}
