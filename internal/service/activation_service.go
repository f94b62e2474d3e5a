package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sbasnet/npl-fantasy/internal/league"
	"github.com/sbasnet/npl-fantasy/internal/rules"
)

// ScheduledPredictions is the slice of the prediction store the activation
// pass consumes.
type ScheduledPredictions interface {
	ListScheduledDue(ctx context.Context, now time.Time) ([]league.Prediction, error)
	Activate(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
}

// FixtureSource supplies the match snapshot used to re-validate due
// predictions.
type FixtureSource interface {
	ListMatches(ctx context.Context, tournamentID string) ([]league.Match, error)
}

// ActivationService turns staged predictions active once their scheduled
// instant and the match's own activation time have both passed. It runs
// from a cron trigger and is safe to re-run: the due query only ever
// returns still-staged rows.
type ActivationService struct {
	predictions  ScheduledPredictions
	matches      FixtureSource
	tournamentID string
	log          *logrus.Logger
}

func NewActivationService(predictions ScheduledPredictions, matches FixtureSource, tournamentID string, log *logrus.Logger) *ActivationService {
	return &ActivationService{
		predictions:  predictions,
		matches:      matches,
		tournamentID: tournamentID,
		log:          log,
	}
}

// ActivationSummary is the structured result of one activation run.
type ActivationSummary struct {
	Activated    int      `json:"activated"`
	Skipped      int      `json:"skipped"`
	Errors       int      `json:"errors"`
	ErrorDetails []string `json:"errorDetails,omitempty"`
}

// Run processes every due scheduled prediction sequentially. A prediction
// that fails re-validation is skipped and stays staged for the next tick;
// a prediction whose write fails is counted as an error and the batch
// carries on. Only a failure to read the due list at the start aborts the
// run.
func (s *ActivationService) Run(ctx context.Context, now time.Time) (*ActivationSummary, error) {
	due, err := s.predictions.ListScheduledDue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due scheduled predictions: %w", err)
	}

	summary := &ActivationSummary{}
	if len(due) == 0 {
		s.log.Info("no scheduled predictions due")
		return summary, nil
	}
	s.log.WithField("count", len(due)).Info("activating scheduled predictions")

	allMatches, err := s.matches.ListMatches(ctx, s.tournamentID)
	if err != nil {
		// Without a fixture snapshot the re-validation is skipped, same as
		// an empty list. The due query already did the primary time check.
		s.log.WithError(err).Warn("match list unavailable, skipping re-validation")
		allMatches = nil
	}

	for _, p := range due {
		if len(allMatches) > 0 && !rules.ShouldActivateScheduled(p, allMatches, now) {
			summary.Skipped++
			s.log.WithField("prediction", p.ID).Info("not yet due, leaving scheduled")
			continue
		}

		activated, err := s.predictions.Activate(ctx, p.ID, now)
		if err != nil {
			summary.Errors++
			summary.ErrorDetails = append(summary.ErrorDetails, fmt.Sprintf("activate %s: %v", p.ID, err))
			s.log.WithError(err).WithField("prediction", p.ID).Error("activation failed")
			continue
		}
		if !activated {
			summary.Errors++
			summary.ErrorDetails = append(summary.ErrorDetails, fmt.Sprintf("prediction %s does not exist", p.ID))
			s.log.WithField("prediction", p.ID).Warn("prediction missing, cannot activate")
			continue
		}
		summary.Activated++
	}

	s.log.WithFields(logrus.Fields{
		"activated": summary.Activated,
		"skipped":   summary.Skipped,
		"errors":    summary.Errors,
	}).Info("activation run complete")

	return summary, nil
}
