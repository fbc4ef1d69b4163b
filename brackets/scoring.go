package brackets

import "github.com/Dosada05/portal-arena/models"

// Score applies the tournament scoring formula to one match's raw inputs and
// returns both side scores plus the winning side.
//
// Each side scores the configured points for every zone it owns plus
// kills * killPoint. The winner is decided in priority order: a side owning
// all five zones wins outright, otherwise the side owning strictly more zones
// wins, otherwise the match is a tie (WinnerNone) and no bonus or penalty is
// applied. When there is a winner, winBonus is added to its score and
// lossPenalty subtracted from the loser's; scores may go negative.
//
// The function is pure and assumes the two zone sets are disjoint; zone
// exclusivity is the caller's responsibility.
func Score(settings models.TournamentSettings, bluePortals, redPortals []models.Zone, blueKills, redKills int) (blueScore, redScore int, winner models.Winner) {
	for _, z := range bluePortals {
		blueScore += settings.PortalPoints[z]
	}
	for _, z := range redPortals {
		redScore += settings.PortalPoints[z]
	}
	blueScore += blueKills * settings.KillPoint
	redScore += redKills * settings.KillPoint

	numZones := len(models.AllZones())
	switch {
	case len(bluePortals) == numZones:
		winner = models.WinnerBlue
	case len(redPortals) == numZones:
		winner = models.WinnerRed
	case len(bluePortals) > len(redPortals):
		winner = models.WinnerBlue
	case len(redPortals) > len(bluePortals):
		winner = models.WinnerRed
	default:
		winner = models.WinnerNone
	}

	switch winner {
	case models.WinnerBlue:
		blueScore += settings.WinBonus
		redScore -= settings.LossPenalty
	case models.WinnerRed:
		redScore += settings.WinBonus
		blueScore -= settings.LossPenalty
	}

	return blueScore, redScore, winner
}
