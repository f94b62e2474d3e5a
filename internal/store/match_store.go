package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sbasnet/npl-fantasy/internal/league"
)

type MatchStore struct {
	db *sqlx.DB
}

func NewMatchStore(db *sqlx.DB) *MatchStore {
	return &MatchStore{db: db}
}

func (s *MatchStore) CreateTournament(ctx context.Context, tournament *league.Tournament) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO tournaments (id, name, start_date, end_date, status)
        VALUES (:id, :name, :start_date, :end_date, :status)`, tournament)
	return err
}

func (s *MatchStore) GetActiveTournament(ctx context.Context) (*league.Tournament, error) {
	var tournament league.Tournament
	err := s.db.GetContext(ctx, &tournament,
		"SELECT * FROM tournaments WHERE status = ? ORDER BY start_date ASC LIMIT 1", league.TournamentActive)
	if err != nil {
		return nil, err
	}
	return &tournament, nil
}

func (s *MatchStore) CreateMatches(ctx context.Context, matches []league.Match) error {
	if len(matches) == 0 {
		return nil
	}
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO matches (id, tournament_id, match_number, match_type, team_a_name, team_b_name, venue, match_date, deadline, status)
        VALUES (:id, :tournament_id, :match_number, :match_type, :team_a_name, :team_b_name, :venue, :match_date, :deadline, :status)`, matches)
	return err
}

func (s *MatchStore) GetMatch(ctx context.Context, id string) (*league.Match, error) {
	var match league.Match
	err := s.db.GetContext(ctx, &match, "SELECT * FROM matches WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// ListMatches returns the tournament's full fixture list ordered by start
// time. The rules functions rely on getting the whole list, completed
// matches included.
func (s *MatchStore) ListMatches(ctx context.Context, tournamentID string) ([]league.Match, error) {
	var matches []league.Match
	err := s.db.SelectContext(ctx, &matches,
		"SELECT * FROM matches WHERE tournament_id = ? ORDER BY match_date ASC", tournamentID)
	return matches, err
}

func (s *MatchStore) UpdateMatchStatus(ctx context.Context, id string, status league.MatchStatus) error {
	_, err := s.db.ExecContext(ctx, "UPDATE matches SET status = ? WHERE id = ?", status, id)
	return err
}
