package models

import (
	"errors"
	"fmt"
)

// TournamentSettings is the scoring configuration for every match of a
// tournament. It is replaced wholesale on update, never merged field by field.
type TournamentSettings struct {
	PortalPoints map[Zone]int `json:"portalPoints"`
	KillPoint    int          `json:"killPoint"`
	WinBonus     int          `json:"winBonus"`
	LossPenalty  int          `json:"lossPenalty"`
}

// Tournament is the aggregate: settings, the seeded team list and the full
// match set of the current bracket. ID is the 6-digit join code.
type Tournament struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Settings TournamentSettings `json:"settings"`
	Teams    []string           `json:"teams"`
	Matches  []Match            `json:"matches"`
}

// FindMatch returns a pointer into Matches, or nil if the id is unknown.
func (t *Tournament) FindMatch(matchID string) *Match {
	for i := range t.Matches {
		if t.Matches[i].ID == matchID {
			return &t.Matches[i]
		}
	}
	return nil
}

// Clone makes a deep copy so that canonical state and caller-held snapshots
// never share memory.
func (t *Tournament) Clone() *Tournament {
	if t == nil {
		return nil
	}
	out := *t
	if t.Settings.PortalPoints != nil {
		out.Settings.PortalPoints = make(map[Zone]int, len(t.Settings.PortalPoints))
		for z, p := range t.Settings.PortalPoints {
			out.Settings.PortalPoints[z] = p
		}
	}
	if t.Teams != nil {
		out.Teams = make([]string, len(t.Teams))
		copy(out.Teams, t.Teams)
	}
	if t.Matches != nil {
		out.Matches = make([]Match, len(t.Matches))
		for i, m := range t.Matches {
			out.Matches[i] = m.clone()
		}
	}
	return &out
}

func (m Match) clone() Match {
	out := m
	out.TeamBlue.Portals = cloneZones(m.TeamBlue.Portals)
	out.TeamRed.Portals = cloneZones(m.TeamRed.Portals)
	if m.NextMatchID != nil {
		id := *m.NextMatchID
		out.NextMatchID = &id
	}
	if m.NextMatchSlot != nil {
		slot := *m.NextMatchSlot
		out.NextMatchSlot = &slot
	}
	return out
}

// cloneZones copies a zone set, preserving the nil/empty distinction so a
// cloned snapshot serializes identically to its source.
func cloneZones(zones []Zone) []Zone {
	if zones == nil {
		return nil
	}
	out := make([]Zone, len(zones))
	copy(out, zones)
	return out
}

var (
	ErrDuplicateMatchID = errors.New("duplicate match id in bracket")
	ErrNoFinalMatch     = errors.New("bracket has no final match")
	ErrDanglingLink     = errors.New("match references a successor that does not exist")
)

// ValidateBracket checks the structural invariants of the match set: unique
// ids, exactly one final, every successor link landing one round later, and
// every non-final match having exactly two feeders into its successor. An
// empty match set (bracket not generated yet) is valid.
func (t *Tournament) ValidateBracket() error {
	if len(t.Matches) == 0 {
		return nil
	}

	byID := make(map[string]*Match, len(t.Matches))
	for i := range t.Matches {
		m := &t.Matches[i]
		if _, ok := byID[m.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateMatchID, m.ID)
		}
		byID[m.ID] = m
	}

	finals := 0
	feeders := make(map[string]int)
	for i := range t.Matches {
		m := &t.Matches[i]
		if m.NextMatchID == nil {
			finals++
			continue
		}
		next, ok := byID[*m.NextMatchID]
		if !ok {
			return fmt.Errorf("%w: %s -> %s", ErrDanglingLink, m.ID, *m.NextMatchID)
		}
		if next.Round != m.Round+1 {
			return fmt.Errorf("match %s in round %d links to round %d", m.ID, m.Round, next.Round)
		}
		feeders[next.ID]++
	}
	if finals != 1 {
		return fmt.Errorf("%w: found %d matches without a successor", ErrNoFinalMatch, finals)
	}
	for i := range t.Matches {
		m := &t.Matches[i]
		if m.Round == 1 {
			continue
		}
		if n := feeders[m.ID]; n != 2 {
			return fmt.Errorf("match %s has %d feeders, want 2", m.ID, n)
		}
	}
	return nil
}
