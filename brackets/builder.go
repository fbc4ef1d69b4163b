package brackets

import (
	"fmt"
	"math"

	"github.com/Dosada05/portal-arena/models"
	"github.com/google/uuid"
)

// Build derives a complete single-elimination bracket from an ordered team
// list. Team order is the seeding: round 1 match i pairs teams[2i] (blue)
// against teams[2i+1] (red). The list is padded with empty names up to the
// next power of two, so a lone team still gets one match against a
// placeholder. Matches of later rounds start with empty names on both sides;
// they are filled by winner propagation.
//
// Match ids carry a fresh random prefix per build plus a counter, so ids
// never collide with a previously generated bracket that stale clients may
// still reference.
func Build(teams []string) []models.Match {
	numTeams := len(teams)
	if numTeams < 2 {
		numTeams = 2
	}
	numRounds := int(math.Ceil(math.Log2(float64(numTeams))))
	totalSlots := 1 << uint(numRounds)

	padded := make([]string, totalSlots)
	copy(padded, teams)

	prefix := uuid.NewString()[:8]
	counter := 0

	matches := make([]models.Match, 0, totalSlots-1)
	var prevRound []int // indexes into matches for the previous round

	for round := 1; round <= numRounds; round++ {
		numInRound := totalSlots >> uint(round)
		thisRound := make([]int, 0, numInRound)

		for i := 0; i < numInRound; i++ {
			counter++
			m := models.Match{
				ID:          fmt.Sprintf("m_%s_%d", prefix, counter),
				Round:       round,
				MatchNumber: i + 1,
				TeamBlue:    models.TeamResult{Portals: []models.Zone{}},
				TeamRed:     models.TeamResult{Portals: []models.Zone{}},
				Winner:      models.WinnerNone,
				Status:      models.MatchStatusPending,
			}
			if round == 1 {
				m.TeamBlue.Name = padded[i*2]
				m.TeamRed.Name = padded[i*2+1]
			}
			thisRound = append(thisRound, len(matches))
			matches = append(matches, m)
		}

		// Each pair of previous-round matches feeds one match of this round;
		// the even sibling takes the blue slot, the odd one the red slot.
		if round > 1 {
			for i, idx := range prevRound {
				nextID := matches[thisRound[i/2]].ID
				slot := i % 2
				matches[idx].NextMatchID = &nextID
				matches[idx].NextMatchSlot = &slot
			}
		}

		prevRound = thisRound
	}

	return matches
}
