package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbasnet/npl-fantasy/internal/league"
)

type PredictionStore struct {
	db *sqlx.DB
}

const (
	createPredictionQuery = `
		INSERT INTO predictions (id, user_id, match_id, match_number, predicted_winner, predicted_pom,
			team_a_score_category, team_a_wickets, team_b_score_category, team_b_wickets,
			scheduled_for, scheduled_at, submitted_at)
		VALUES (:id, :user_id, :match_id, :match_number, :predicted_winner, :predicted_pom,
			:team_a_score_category, :team_a_wickets, :team_b_score_category, :team_b_wickets,
			:scheduled_for, :scheduled_at, :submitted_at)
	`
	updatePredictionQuery = `
		UPDATE predictions SET
			predicted_winner = :predicted_winner,
			predicted_pom = :predicted_pom,
			team_a_score_category = :team_a_score_category,
			team_a_wickets = :team_a_wickets,
			team_b_score_category = :team_b_score_category,
			team_b_wickets = :team_b_wickets,
			scheduled_for = :scheduled_for,
			scheduled_at = :scheduled_at,
			submitted_at = :submitted_at
		WHERE id = :id
	`
)

func NewPredictionStore(db *sqlx.DB) *PredictionStore {
	return &PredictionStore{db: db}
}

func (s *PredictionStore) CreatePrediction(ctx context.Context, p *league.Prediction) error {
	_, err := s.db.NamedExecContext(ctx, createPredictionQuery, p)
	return err
}

func (s *PredictionStore) UpdatePrediction(ctx context.Context, p *league.Prediction) error {
	_, err := s.db.NamedExecContext(ctx, updatePredictionQuery, p)
	return err
}

func (s *PredictionStore) GetPrediction(ctx context.Context, userID, matchID uuid.UUID) (*league.Prediction, error) {
	var p league.Prediction
	err := s.db.GetContext(ctx, &p,
		"SELECT * FROM predictions WHERE user_id = ? AND match_id = ?", userID, matchID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PredictionStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]league.Prediction, error) {
	var predictions []league.Prediction
	err := s.db.SelectContext(ctx, &predictions,
		"SELECT * FROM predictions WHERE user_id = ? ORDER BY match_number ASC", userID)
	return predictions, err
}

// ListScheduledDue returns staged predictions whose activation instant has
// elapsed, oldest first. Already-active rows never match, which is what
// makes the activation pass safe to re-run.
func (s *PredictionStore) ListScheduledDue(ctx context.Context, now time.Time) ([]league.Prediction, error) {
	var predictions []league.Prediction
	err := s.db.SelectContext(ctx, &predictions,
		"SELECT * FROM predictions WHERE scheduled_for IS NOT NULL AND scheduled_for <= ? ORDER BY scheduled_for ASC", now)
	return predictions, err
}

// Activate flips a staged prediction to active in a single statement:
// scheduled fields cleared, submitted_at re-stamped. Returns true when the
// prediction is active afterwards, including the case where it already
// was. False means the row does not exist.
func (s *PredictionStore) Activate(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE predictions SET scheduled_for = NULL, scheduled_at = NULL, submitted_at = ? WHERE id = ? AND scheduled_for IS NOT NULL",
		now, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected > 0 {
		return true, nil
	}

	var exists bool
	err = s.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM predictions WHERE id = ?)", id)
	return exists, err
}

// ListForMatch returns every prediction for a match, used when revealing
// the battleground view after the edit cutoff.
func (s *PredictionStore) ListForMatch(ctx context.Context, matchID uuid.UUID) ([]league.Prediction, error) {
	var predictions []league.Prediction
	err := s.db.SelectContext(ctx, &predictions,
		"SELECT * FROM predictions WHERE match_id = ? ORDER BY submitted_at ASC", matchID)
	return predictions, err
}
