package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/sbasnet/npl-fantasy/internal/league"
	"github.com/sbasnet/npl-fantasy/internal/rules"
	"github.com/sbasnet/npl-fantasy/internal/store"
	"github.com/sbasnet/npl-fantasy/internal/utils"
)

var (
	ErrDeadlinePassed = errors.New("prediction deadline has passed")
	ErrMatchLocked    = errors.New("match is not open for predictions yet")
	ErrMatchNotOpen   = errors.New("match is no longer upcoming")
)

type PredictionService struct {
	db          *sqlx.DB
	matches     *store.MatchStore
	predictions *store.PredictionStore
	log         *logrus.Logger

	// now is swappable so the window rules can be tested at fixed instants.
	now func() time.Time
}

func NewPredictionService(db *sqlx.DB, matches *store.MatchStore, predictions *store.PredictionStore, log *logrus.Logger) *PredictionService {
	return &PredictionService{db: db, matches: matches, predictions: predictions, log: log, now: time.Now}
}

// PredictionInput is one submission. Optional picks stay pointers all the
// way down; the store writes NULL for absent values so there is no
// empty-vs-missing ambiguity in storage.
type PredictionInput struct {
	MatchID            uuid.UUID             `json:"matchId"`
	PredictedWinner    string                `json:"predictedWinner"`
	PredictedPom       string                `json:"predictedPom"`
	TeamAScoreCategory *league.ScoreCategory `json:"teamAScoreCategory"`
	TeamAWickets       *int                  `json:"teamAWickets"`
	TeamBScoreCategory *league.ScoreCategory `json:"teamBScoreCategory"`
	TeamBWickets       *int                  `json:"teamBWickets"`

	// Schedule asks for a staged prediction that activates when the
	// match's window opens, for users who will be unreachable then.
	Schedule bool `json:"schedule"`
}

// Submit creates or updates the caller's prediction for a match.
//
// An ordinary submission must beat the effective deadline and the match
// must be inside the caller-visible prediction window. A scheduled
// submission bypasses the window: it is stamped with the match's
// activation time and stays staged until the cron pass promotes it.
func (s *PredictionService) Submit(ctx context.Context, userID uuid.UUID, in PredictionInput) (*league.Prediction, error) {
	match, err := s.matches.GetMatch(ctx, in.MatchID.String())
	if err != nil {
		return nil, err
	}
	if !match.IsUpcoming() {
		return nil, ErrMatchNotOpen
	}

	allMatches, err := s.matches.ListMatches(ctx, match.TournamentID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	now := s.now()

	var scheduledFor, scheduledAt *time.Time
	if in.Schedule {
		activateAt := rules.ActivationTime(*match, allMatches, now)
		if activateAt.After(now) {
			scheduledFor = &activateAt
			scheduledAt = &now
		}
		// An activation time already in the past means the window is open;
		// fall through to an ordinary active submission.
	}

	if scheduledFor == nil {
		info := rules.EffectiveDeadline(*match, allMatches, now)
		if info.IsPast {
			return nil, ErrDeadlinePassed
		}

		userPredictions, err := s.predictions.ListForUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list predictions: %w", err)
		}
		if !rules.CanPredict(match.ID, allMatches, userPredictions, now) {
			return nil, ErrMatchLocked
		}
	}

	existing, err := s.predictions.GetPrediction(ctx, userID, match.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	p := &league.Prediction{
		UserID:             userID,
		MatchID:            match.ID,
		MatchNumber:        match.MatchNumber,
		PredictedWinner:    in.PredictedWinner,
		PredictedPom:       utils.StringOrNil(in.PredictedPom),
		TeamAScoreCategory: in.TeamAScoreCategory,
		TeamAWickets:       in.TeamAWickets,
		TeamBScoreCategory: in.TeamBScoreCategory,
		TeamBWickets:       in.TeamBWickets,
		ScheduledFor:       scheduledFor,
		ScheduledAt:        scheduledAt,
		SubmittedAt:        now,
	}

	if existing != nil {
		p.ID = existing.ID
		if err := s.predictions.UpdatePrediction(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to update prediction: %w", err)
		}
		return p, nil
	}

	p.ID = uuid.New()
	if err := s.predictions.CreatePrediction(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create prediction: %w", err)
	}
	return p, nil
}

// PredictionsForUser returns the caller's predictions, staged ones
// included so the UI can show the pending state.
func (s *PredictionService) PredictionsForUser(ctx context.Context, userID uuid.UUID) ([]league.Prediction, error) {
	return s.predictions.ListForUser(ctx, userID)
}
