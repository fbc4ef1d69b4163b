package services

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/Dosada05/portal-arena/models"
	"github.com/Dosada05/portal-arena/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() TournamentService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewTournamentService(store.NewTournamentStore(), logger)
}

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

// createWithBracket creates a tournament and generates its bracket in one go.
func createWithBracket(t *testing.T, svc TournamentService, teams []string) *models.Tournament {
	t.Helper()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTournamentInput{
		Name:     "Test Cup",
		Settings: testSettings(),
		Teams:    teams,
	})
	require.NoError(t, err)

	generated, err := svc.GenerateBracket(ctx, created.ID, teams, false)
	require.NoError(t, err)
	return generated
}

func TestCreateAllocatesSixDigitJoinCode(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	codePattern := regexp.MustCompile(`^\d{6}$`)

	seen := make(map[string]bool)
	for i := 0; i < 25; i++ {
		created, err := svc.Create(ctx, CreateTournamentInput{Name: "Cup", Settings: testSettings()})
		require.NoError(t, err)
		assert.Regexp(t, codePattern, created.ID)
		assert.False(t, seen[created.ID], "join codes must be unique")
		seen[created.ID] = true
		assert.Empty(t, created.Matches, "a fresh tournament has no bracket")
	}
}

func TestCreateRequiresName(t *testing.T) {
	svc := newTestService()
	_, err := svc.Create(context.Background(), CreateTournamentInput{})
	assert.ErrorIs(t, err, ErrTournamentNameRequired)
}

func TestGetByIDMissing(t *testing.T) {
	svc := newTestService()
	_, err := svc.GetByID(context.Background(), "000000")
	assert.ErrorIs(t, err, ErrTournamentNotFound)
	assert.False(t, svc.Exists(context.Background(), "000000"))
}

func TestUpdateSettingsIsNotRetroactive(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	tournament := createWithBracket(t, svc, []string{"T1", "T2"})
	matchID := tournament.Matches[0].ID

	updated, err := svc.SubmitResult(ctx, tournament.ID, matchID, MatchResultInput{
		TeamBlueName: "T1",
		TeamRedName:  "T2",
		BluePortals:  []models.Zone{models.ZoneA, models.ZoneB},
		Status:       models.MatchStatusApproved,
	})
	require.NoError(t, err)
	scoreBefore := updated.Matches[0].TeamBlue.Score
	assert.Equal(t, 1+2+10, scoreBefore)

	newSettings := testSettings()
	newSettings.PortalPoints[models.ZoneA] = 100
	afterSettings, err := svc.UpdateSettings(ctx, tournament.ID, newSettings)
	require.NoError(t, err)

	// Stored scores stay as submitted until the match is saved again.
	assert.Equal(t, scoreBefore, afterSettings.Matches[0].TeamBlue.Score)

	resubmitted, err := svc.SubmitResult(ctx, tournament.ID, matchID, MatchResultInput{
		TeamBlueName: "T1",
		TeamRedName:  "T2",
		BluePortals:  []models.Zone{models.ZoneA, models.ZoneB},
		Status:       models.MatchStatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, 100+2+10, resubmitted.Matches[0].TeamBlue.Score)
}

func TestUpdateFieldsShallowMerge(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	tournament := createWithBracket(t, svc, []string{"T1", "T2"})

	name := "Renamed Cup"
	updated, err := svc.UpdateFields(ctx, tournament.ID, TournamentPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Cup", updated.Name)
	assert.Equal(t, tournament.Teams, updated.Teams, "teams untouched by a name patch")
	assert.Equal(t, tournament.Matches, updated.Matches, "matches never patched this way")

	teams := []string{"A", "B", "C"}
	updated, err = svc.UpdateFields(ctx, tournament.ID, TournamentPatch{Teams: &teams})
	require.NoError(t, err)
	assert.Equal(t, teams, updated.Teams)
	assert.Equal(t, "Renamed Cup", updated.Name)
}

func TestGenerateBracketReplacesWholesale(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	tournament := createWithBracket(t, svc, []string{"T1", "T2", "T3", "T4"})
	require.Len(t, tournament.Matches, 3)

	firstIDs := make(map[string]bool)
	for _, m := range tournament.Matches {
		firstIDs[m.ID] = true
	}

	regenerated, err := svc.GenerateBracket(ctx, tournament.ID, []string{"X", "Y"}, false)
	require.NoError(t, err)
	require.Len(t, regenerated.Matches, 1)
	assert.Equal(t, []string{"X", "Y"}, regenerated.Teams)
	assert.False(t, firstIDs[regenerated.Matches[0].ID], "new bracket must not reuse old ids")
}

func TestGenerateBracketDoesNotAliasCallerTeams(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTournamentInput{Name: "Cup", Settings: testSettings()})
	require.NoError(t, err)

	teams := []string{"T1", "T2"}
	_, err = svc.GenerateBracket(ctx, created.ID, teams, false)
	require.NoError(t, err)

	// Mutating the caller's slice after the call must not reach the stored
	// team list or the seeded round-1 names.
	teams[0] = "tampered"

	stored, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "T2"}, stored.Teams)
	require.Len(t, stored.Matches, 1)
	assert.Equal(t, "T1", stored.Matches[0].TeamBlue.Name)
}

func TestGenerateBracketLockedAfterApproval(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	tournament := createWithBracket(t, svc, []string{"T1", "T2"})

	_, err := svc.SubmitResult(ctx, tournament.ID, tournament.Matches[0].ID, MatchResultInput{
		TeamBlueName: "T1",
		TeamRedName:  "T2",
		BluePortals:  []models.Zone{models.ZoneA},
		Status:       models.MatchStatusApproved,
	})
	require.NoError(t, err)

	_, err = svc.GenerateBracket(ctx, tournament.ID, []string{"T1", "T2"}, false)
	assert.ErrorIs(t, err, ErrBracketLocked)

	// force overrides the guard and discards all match state.
	regenerated, err := svc.GenerateBracket(ctx, tournament.ID, []string{"T1", "T2"}, true)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusPending, regenerated.Matches[0].Status)
}

func TestUpdateMatchShallowMerge(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	tournament := createWithBracket(t, svc, []string{"T1", "T2", "T3", "T4"})
	target := tournament.Matches[0]

	status := models.MatchStatusDraft
	updated, err := svc.UpdateMatch(ctx, tournament.ID, target.ID, MatchPatch{Status: &status})
	require.NoError(t, err)

	got := updated.FindMatch(target.ID)
	require.NotNil(t, got)
	assert.Equal(t, models.MatchStatusDraft, got.Status)
	assert.Equal(t, target.TeamBlue, got.TeamBlue, "unpatched fields survive the merge")
	assert.Equal(t, tournament.Matches[1], *updated.FindMatch(tournament.Matches[1].ID), "other matches untouched")
}

func TestUpdateMatchUnknownIDs(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	tournament := createWithBracket(t, svc, []string{"T1", "T2"})

	status := models.MatchStatusDraft
	_, err := svc.UpdateMatch(ctx, "000000", "whatever", MatchPatch{Status: &status})
	assert.ErrorIs(t, err, ErrTournamentNotFound)

	_, err = svc.UpdateMatch(ctx, tournament.ID, "missing-match", MatchPatch{Status: &status})
	assert.ErrorIs(t, err, ErrMatchNotFound)

	// Neither failed call left a mark.
	unchanged, err := svc.GetByID(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, tournament.Matches, unchanged.Matches)
}

func TestSubmitResultRejectsPendingStatus(t *testing.T) {
	svc := newTestService()
	tournament := createWithBracket(t, svc, []string{"T1", "T2"})

	_, err := svc.SubmitResult(context.Background(), tournament.ID, tournament.Matches[0].ID, MatchResultInput{
		Status: models.MatchStatusPending,
	})
	assert.ErrorIs(t, err, ErrInvalidMatchStatus)
}

func TestSubmitResultPropagatesIntoBothSlots(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	tournament := createWithBracket(t, svc, []string{"T1", "T2", "T3", "T4"})
	match1, match2, final := tournament.Matches[0], tournament.Matches[1], tournament.Matches[2]

	// Approving match 1 with a blue win fills the final's blue slot.
	updated, err := svc.SubmitResult(ctx, tournament.ID, match1.ID, MatchResultInput{
		TeamBlueName: "T1",
		TeamRedName:  "T2",
		BluePortals:  []models.Zone{models.ZoneA, models.ZoneB},
		RedPortals:   []models.Zone{models.ZoneC},
		Status:       models.MatchStatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, "T1", updated.FindMatch(final.ID).TeamBlue.Name)
	assert.Empty(t, updated.FindMatch(final.ID).TeamRed.Name)

	// Approving match 2 with a red win fills the red slot without touching
	// the first winner.
	updated, err = svc.SubmitResult(ctx, tournament.ID, match2.ID, MatchResultInput{
		TeamBlueName: "T3",
		TeamRedName:  "T4",
		BluePortals:  []models.Zone{models.ZoneE},
		RedPortals:   []models.Zone{models.ZoneA, models.ZoneB},
		Status:       models.MatchStatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, "T1", updated.FindMatch(final.ID).TeamBlue.Name)
	assert.Equal(t, "T4", updated.FindMatch(final.ID).TeamRed.Name)
}

func TestSubmitResultDraftDoesNotPropagate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	tournament := createWithBracket(t, svc, []string{"T1", "T2", "T3", "T4"})
	final := tournament.Matches[2]

	updated, err := svc.SubmitResult(ctx, tournament.ID, tournament.Matches[0].ID, MatchResultInput{
		TeamBlueName: "T1",
		TeamRedName:  "T2",
		BluePortals:  []models.Zone{models.ZoneA},
		Status:       models.MatchStatusDraft,
	})
	require.NoError(t, err)
	assert.Equal(t, models.WinnerBlue, updated.FindMatch(tournament.Matches[0].ID).Winner)
	assert.Empty(t, updated.FindMatch(final.ID).TeamBlue.Name)
}

func TestUpdateMatchPropagatesOnApprovalTransition(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	tournament := createWithBracket(t, svc, []string{"T1", "T2", "T3", "T4"})
	match1, final := tournament.Matches[0], tournament.Matches[2]

	winner := models.WinnerBlue
	status := models.MatchStatusApproved
	updated, err := svc.UpdateMatch(ctx, tournament.ID, match1.ID, MatchPatch{
		Winner: &winner,
		Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, "T1", updated.FindMatch(final.ID).TeamBlue.Name)

	// Re-approving an already approved match does not propagate again.
	redWinner := models.WinnerRed
	updated, err = svc.UpdateMatch(ctx, tournament.ID, match1.ID, MatchPatch{Winner: &redWinner})
	require.NoError(t, err)
	assert.Equal(t, "T1", updated.FindMatch(final.ID).TeamBlue.Name)
}

func TestReplaceStoresSnapshotAsGiven(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	// A structurally broken snapshot is still accepted; the coordinator
	// never rejects, it only logs.
	snapshot := &models.Tournament{
		ID:   "777777",
		Name: "Client Provided",
		Matches: []models.Match{
			{ID: "dup", Round: 1},
			{ID: "dup", Round: 1},
		},
	}
	svc.Replace(ctx, snapshot)

	got, err := svc.GetByID(ctx, "777777")
	require.NoError(t, err)
	assert.Equal(t, "Client Provided", got.Name)
	assert.Len(t, got.Matches, 2)
}
