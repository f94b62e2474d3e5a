package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sbasnet/npl-fantasy/internal/league"
	"github.com/sbasnet/npl-fantasy/internal/rules"
	"github.com/sbasnet/npl-fantasy/internal/store"
)

type MatchService struct {
	db          *sqlx.DB
	matches     *store.MatchStore
	predictions *store.PredictionStore
}

func NewMatchService(db *sqlx.DB, matches *store.MatchStore, predictions *store.PredictionStore) *MatchService {
	return &MatchService{db: db, matches: matches, predictions: predictions}
}

// MatchView is a match annotated with everything the frontend needs to
// render its card: the computed deadline, whether the window is open for
// the calling user, and whether they already predicted.
type MatchView struct {
	league.Match
	EffectiveDeadline time.Time `json:"effectiveDeadline"`
	IsPastDeadline    bool      `json:"isPastDeadline"`
	Predictable       bool      `json:"predictable"`
	HasPredicted      bool      `json:"hasPredicted"`
}

// ListMatchViews builds the annotated fixture list for one user. The
// deadline and the predictable flag come from two separate rule sets on
// purpose: the deadline drives the closed banner, eligibility drives the
// predict button, and they are kept independently computed.
func (s *MatchService) ListMatchViews(ctx context.Context, tournamentID string, userID uuid.UUID, now time.Time) ([]MatchView, error) {
	allMatches, err := s.matches.ListMatches(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	userPredictions, err := s.predictions.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	predicted := make(map[uuid.UUID]bool, len(userPredictions))
	for _, p := range userPredictions {
		predicted[p.MatchID] = true
	}

	predictable := rules.PredictableMatches(allMatches, userPredictions, now)

	views := make([]MatchView, 0, len(allMatches))
	for _, m := range allMatches {
		info := rules.EffectiveDeadline(m, allMatches, now)
		_, open := predictable[m.ID]
		views = append(views, MatchView{
			Match:             m,
			EffectiveDeadline: info.Deadline,
			IsPastDeadline:    info.IsPast,
			Predictable:       open,
			HasPredicted:      predicted[m.ID],
		})
	}
	return views, nil
}
