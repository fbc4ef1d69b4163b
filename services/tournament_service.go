package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/Dosada05/portal-arena/brackets"
	"github.com/Dosada05/portal-arena/models"
	"github.com/Dosada05/portal-arena/store"
)

// createRetryLimit bounds the join-code resample loop. The 6-digit space has
// 900000 values, so hitting the limit means the store is essentially full.
const createRetryLimit = 1000

type CreateTournamentInput struct {
	Name     string                    `json:"name"`
	Settings models.TournamentSettings `json:"settings"`
	Teams    []string                  `json:"teams"`
}

// TournamentPatch carries a shallow merge into the tournament record. Nil
// fields are left untouched; Matches are never patched this way.
type TournamentPatch struct {
	Name  *string   `json:"name,omitempty"`
	Teams *[]string `json:"teams,omitempty"`
}

// MatchPatch carries a shallow merge into a single match. Nil fields are left
// untouched.
type MatchPatch struct {
	TeamBlue *models.TeamResult  `json:"teamBlue,omitempty"`
	TeamRed  *models.TeamResult  `json:"teamRed,omitempty"`
	Winner   *models.Winner      `json:"winner,omitempty"`
	Status   *models.MatchStatus `json:"status,omitempty"`
}

// MatchResultInput is a raw result submission: who owned which zones and how
// many kills each side made. Scores and the winner are computed server-side
// from the tournament settings.
type MatchResultInput struct {
	TeamBlueName string             `json:"teamBlueName"`
	TeamRedName  string             `json:"teamRedName"`
	BluePortals  []models.Zone      `json:"bluePortals"`
	RedPortals   []models.Zone      `json:"redPortals"`
	BlueKills    int                `json:"blueKills"`
	RedKills     int                `json:"redKills"`
	Status       models.MatchStatus `json:"status"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	Exists(ctx context.Context, id string) bool
	UpdateSettings(ctx context.Context, id string, settings models.TournamentSettings) (*models.Tournament, error)
	UpdateFields(ctx context.Context, id string, patch TournamentPatch) (*models.Tournament, error)
	GenerateBracket(ctx context.Context, id string, teams []string, force bool) (*models.Tournament, error)
	UpdateMatch(ctx context.Context, tournamentID, matchID string, patch MatchPatch) (*models.Tournament, error)
	SubmitResult(ctx context.Context, tournamentID, matchID string, input MatchResultInput) (*models.Tournament, error)

	// Replace stores the given snapshot as canonical for its id, overwriting
	// without merging. This is the whole-snapshot path used by the realtime
	// protocol; it never rejects, it only logs invariant violations.
	Replace(ctx context.Context, t *models.Tournament)
}

type tournamentService struct {
	store  *store.TournamentStore
	logger *slog.Logger
}

func NewTournamentService(st *store.TournamentStore, logger *slog.Logger) TournamentService {
	return &tournamentService{
		store:  st,
		logger: logger,
	}
}

func (s *tournamentService) Create(_ context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, ErrTournamentNameRequired
	}

	for attempt := 0; attempt < createRetryLimit; attempt++ {
		t := &models.Tournament{
			ID:       newJoinCode(),
			Name:     input.Name,
			Settings: input.Settings,
			Teams:    input.Teams,
			Matches:  []models.Match{},
		}
		if s.store.PutIfAbsent(t) {
			s.logger.Info("tournament created",
				slog.String("tournament_id", t.ID),
				slog.Int("teams", len(t.Teams)))
			return t, nil
		}
	}
	return nil, ErrJoinCodeSpaceExhausted
}

// newJoinCode picks a random 6-digit numeric code (100000..999999).
func newJoinCode() string {
	return fmt.Sprintf("%06d", 100000+rand.Intn(900000))
}

func (s *tournamentService) GetByID(_ context.Context, id string) (*models.Tournament, error) {
	t, ok := s.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTournamentNotFound, id)
	}
	return t, nil
}

func (s *tournamentService) Exists(_ context.Context, id string) bool {
	return s.store.Exists(id)
}

func (s *tournamentService) UpdateSettings(_ context.Context, id string, settings models.TournamentSettings) (*models.Tournament, error) {
	// Settings replace wholesale. Already-stored match scores are left as
	// submitted; a match picks up the new values the next time its result is
	// saved.
	t, err := s.store.Update(id, func(t *models.Tournament) error {
		t.Settings = settings
		return nil
	})
	if err != nil {
		return nil, mapStoreError(err, id)
	}
	return t, nil
}

func (s *tournamentService) UpdateFields(_ context.Context, id string, patch TournamentPatch) (*models.Tournament, error) {
	t, err := s.store.Update(id, func(t *models.Tournament) error {
		if patch.Name != nil {
			t.Name = *patch.Name
		}
		if patch.Teams != nil {
			t.Teams = append([]string(nil), (*patch.Teams)...)
		}
		return nil
	})
	if err != nil {
		return nil, mapStoreError(err, id)
	}
	return t, nil
}

func (s *tournamentService) GenerateBracket(_ context.Context, id string, teams []string, force bool) (*models.Tournament, error) {
	t, err := s.store.Update(id, func(t *models.Tournament) error {
		if !force {
			for i := range t.Matches {
				if t.Matches[i].Status == models.MatchStatusApproved {
					return ErrBracketLocked
				}
			}
		}
		t.Teams = append([]string(nil), teams...)
		t.Matches = brackets.Build(t.Teams)
		return nil
	})
	if err != nil {
		return nil, mapStoreError(err, id)
	}
	s.logger.Info("bracket generated",
		slog.String("tournament_id", id),
		slog.Int("matches", len(t.Matches)))
	return t, nil
}

func (s *tournamentService) UpdateMatch(_ context.Context, tournamentID, matchID string, patch MatchPatch) (*models.Tournament, error) {
	t, err := s.store.Update(tournamentID, func(t *models.Tournament) error {
		m := t.FindMatch(matchID)
		if m == nil {
			return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
		}
		wasApproved := m.Status == models.MatchStatusApproved
		if patch.TeamBlue != nil {
			m.TeamBlue = *patch.TeamBlue
		}
		if patch.TeamRed != nil {
			m.TeamRed = *patch.TeamRed
		}
		if patch.Winner != nil {
			m.Winner = *patch.Winner
		}
		if patch.Status != nil {
			m.Status = *patch.Status
		}
		if !wasApproved && m.Status == models.MatchStatusApproved {
			propagateWinner(t, m)
		}
		return nil
	})
	if err != nil {
		return nil, mapStoreError(err, tournamentID)
	}
	return t, nil
}

func (s *tournamentService) SubmitResult(_ context.Context, tournamentID, matchID string, input MatchResultInput) (*models.Tournament, error) {
	if input.Status != models.MatchStatusDraft && input.Status != models.MatchStatusApproved {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMatchStatus, input.Status)
	}

	t, err := s.store.Update(tournamentID, func(t *models.Tournament) error {
		m := t.FindMatch(matchID)
		if m == nil {
			return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
		}

		blueScore, redScore, winner := brackets.Score(
			t.Settings, input.BluePortals, input.RedPortals, input.BlueKills, input.RedKills)

		m.TeamBlue = models.TeamResult{
			Name:    input.TeamBlueName,
			Portals: append([]models.Zone(nil), input.BluePortals...),
			Kills:   input.BlueKills,
			Score:   blueScore,
		}
		m.TeamRed = models.TeamResult{
			Name:    input.TeamRedName,
			Portals: append([]models.Zone(nil), input.RedPortals...),
			Kills:   input.RedKills,
			Score:   redScore,
		}
		m.Winner = winner
		m.Status = input.Status

		if m.Status == models.MatchStatusApproved {
			propagateWinner(t, m)
		}
		return nil
	})
	if err != nil {
		return nil, mapStoreError(err, tournamentID)
	}
	return t, nil
}

func (s *tournamentService) Replace(_ context.Context, t *models.Tournament) {
	if t == nil || t.ID == "" {
		s.logger.Warn("replace skipped: snapshot without id")
		return
	}
	if err := t.ValidateBracket(); err != nil {
		// The coordinator accepts what it is given; violations are only
		// surfaced in the log.
		s.logger.Warn("snapshot violates bracket invariants",
			slog.String("tournament_id", t.ID),
			slog.Any("error", err))
	}
	s.store.Put(t)
}

// propagateWinner feeds an approved match's winner into its successor. The
// builder stamps every non-final match with the successor slot it feeds
// (0 = blue, 1 = red); snapshots lacking the slot fall back to the name
// heuristic: the blue slot is taken if it is still empty or holds one of the
// feeder's team names, otherwise the red slot. Single write, no cascade.
func propagateWinner(t *models.Tournament, m *models.Match) {
	if m.Winner == models.WinnerNone || m.NextMatchID == nil {
		return
	}
	next := t.FindMatch(*m.NextMatchID)
	if next == nil {
		return
	}

	winnerName := m.TeamBlue.Name
	if m.Winner == models.WinnerRed {
		winnerName = m.TeamRed.Name
	}

	if m.NextMatchSlot != nil {
		if *m.NextMatchSlot == 0 {
			next.TeamBlue.Name = winnerName
		} else {
			next.TeamRed.Name = winnerName
		}
		return
	}

	if next.TeamBlue.Name == "" ||
		next.TeamBlue.Name == m.TeamBlue.Name ||
		next.TeamBlue.Name == m.TeamRed.Name {
		next.TeamBlue.Name = winnerName
	} else {
		next.TeamRed.Name = winnerName
	}
}

func mapStoreError(err error, id string) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrTournamentNotFound, id)
	}
	return err
}
