package brackets

import (
	"testing"

	"github.com/Dosada05/portal-arena/models"
	"github.com/stretchr/testify/assert"
)

func testSettings() models.TournamentSettings {
	return models.TournamentSettings{
		PortalPoints: map[models.Zone]int{
			models.ZoneA: 1,
			models.ZoneB: 2,
			models.ZoneC: 3,
			models.ZoneD: 4,
			models.ZoneE: 5,
		},
		KillPoint:   2,
		WinBonus:    10,
		LossPenalty: 5,
	}
}

func TestScoreSweepWinsOutright(t *testing.T) {
	settings := testSettings()

	blueScore, redScore, winner := Score(settings, models.AllZones(), nil, 0, 0)
	assert.Equal(t, models.WinnerBlue, winner)
	// All five zones (15) plus the win bonus.
	assert.Equal(t, 25, blueScore)
	assert.Equal(t, -5, redScore)

	// Sweep dominance holds for any settings, including zero-valued ones.
	_, _, winner = Score(models.TournamentSettings{}, models.AllZones(), nil, 0, 0)
	assert.Equal(t, models.WinnerBlue, winner)
}

func TestScoreZoneMajority(t *testing.T) {
	settings := testSettings()

	tests := []struct {
		name        string
		bluePortals []models.Zone
		redPortals  []models.Zone
		blueKills   int
		redKills    int
		wantBlue    int
		wantRed     int
		wantWinner  models.Winner
	}{
		{
			name:        "blue majority",
			bluePortals: []models.Zone{models.ZoneA, models.ZoneB},
			redPortals:  []models.Zone{models.ZoneE},
			wantBlue:    1 + 2 + 10,
			wantRed:     5 - 5,
			wantWinner:  models.WinnerBlue,
		},
		{
			name:        "red majority beats higher blue points",
			bluePortals: []models.Zone{models.ZoneE},
			redPortals:  []models.Zone{models.ZoneA, models.ZoneB},
			blueKills:   4,
			wantBlue:    5 + 8 - 5,
			wantRed:     3 + 10,
			wantWinner:  models.WinnerRed,
		},
		{
			name:       "loser may go negative",
			redPortals: []models.Zone{models.ZoneA},
			wantBlue:   -5,
			wantRed:    1 + 10,
			wantWinner: models.WinnerRed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			blueScore, redScore, winner := Score(settings, tc.bluePortals, tc.redPortals, tc.blueKills, tc.redKills)
			assert.Equal(t, tc.wantWinner, winner)
			assert.Equal(t, tc.wantBlue, blueScore)
			assert.Equal(t, tc.wantRed, redScore)
		})
	}
}

func TestScoreTieAppliesNoBonusOrPenalty(t *testing.T) {
	settings := testSettings()

	blueScore, redScore, winner := Score(settings,
		[]models.Zone{models.ZoneA, models.ZoneB},
		[]models.Zone{models.ZoneC, models.ZoneD},
		3, 3)

	assert.Equal(t, models.WinnerNone, winner)
	assert.Equal(t, 1+2+6, blueScore)
	assert.Equal(t, 3+4+6, redScore)
}

func TestScoreEmptyInputs(t *testing.T) {
	blueScore, redScore, winner := Score(testSettings(), nil, nil, 0, 0)
	assert.Equal(t, 0, blueScore)
	assert.Equal(t, 0, redScore)
	assert.Equal(t, models.WinnerNone, winner)
}

func TestScoreKillsAloneDoNotDecideWinner(t *testing.T) {
	// Equal zone counts are a tie no matter the kill difference.
	blueScore, redScore, winner := Score(testSettings(), nil, nil, 10, 0)
	assert.Equal(t, models.WinnerNone, winner)
	assert.Equal(t, 20, blueScore)
	assert.Equal(t, 0, redScore)
}
