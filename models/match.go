package models

// MatchStatus is the lifecycle of a single match. A status only advances
// (pending -> draft -> approved); regressions happen only through an explicit
// organizer edit.
type MatchStatus string

const (
	MatchStatusPending  MatchStatus = "pending"
	MatchStatusDraft    MatchStatus = "draft"
	MatchStatusApproved MatchStatus = "approved"
)

// Winner names the side that won a match. The empty value means undecided
// (either the match is still pending or it ended in a tie).
type Winner string

const (
	WinnerNone Winner = ""
	WinnerBlue Winner = "blue"
	WinnerRed  Winner = "red"
)

// Zone is one of the five fixed map locations a team can claim during a match.
type Zone string

const (
	ZoneA Zone = "A"
	ZoneB Zone = "B"
	ZoneC Zone = "C"
	ZoneD Zone = "D"
	ZoneE Zone = "E"
)

// AllZones returns the five zones in display order.
func AllZones() []Zone {
	return []Zone{ZoneA, ZoneB, ZoneC, ZoneD, ZoneE}
}

// TeamResult is one side of a match. An empty Name means the slot has not been
// filled yet (seeding placeholder, or waiting for a feeder match to resolve).
type TeamResult struct {
	Name    string `json:"name"`
	Portals []Zone `json:"portals"`
	Kills   int    `json:"kills"`
	Score   int    `json:"score"`
}

type Match struct {
	ID          string      `json:"id"`
	Round       int         `json:"round"`
	MatchNumber int         `json:"matchNumber"`
	TeamBlue    TeamResult  `json:"teamBlue"`
	TeamRed     TeamResult  `json:"teamRed"`
	Winner      Winner      `json:"winner,omitempty"`
	Status      MatchStatus `json:"status"`

	// NextMatchID points at the successor match this one feeds; nil only for
	// the final. NextMatchSlot records which side of the successor receives
	// this match's winner (0 = blue, 1 = red). Snapshots from older clients
	// may lack the slot, in which case propagation falls back to name
	// matching.
	NextMatchID   *string `json:"nextMatchId,omitempty"`
	NextMatchSlot *int    `json:"nextMatchSlot,omitempty"`
}
