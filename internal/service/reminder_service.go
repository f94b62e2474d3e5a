package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sbasnet/npl-fantasy/internal/rules"
	"github.com/sbasnet/npl-fantasy/internal/store"
	users "github.com/sbasnet/npl-fantasy/internal/user"
)

// Notifier is the downstream notification collaborator. Delivery transport
// lives elsewhere; this service only decides who to poke about what.
type Notifier interface {
	Notify(ctx context.Context, user users.User, matchID uuid.UUID, deadline time.Time) error
}

// LogNotifier is the default Notifier: it records the trigger and nothing
// else, for deployments without a push pipeline.
type LogNotifier struct {
	Log *logrus.Logger
}

func (n *LogNotifier) Notify(ctx context.Context, user users.User, matchID uuid.UUID, deadline time.Time) error {
	n.Log.WithFields(logrus.Fields{
		"user":     user.ID,
		"match":    matchID,
		"deadline": deadline,
	}).Info("deadline reminder")
	return nil
}

// ReminderService nudges users who have not predicted a match whose
// effective deadline falls inside the reminder window. It is keyed off the
// deadline resolver, independent of the activation pass.
type ReminderService struct {
	matches      *store.MatchStore
	userStore    *store.UserStore
	notifier     Notifier
	tournamentID string
	window       time.Duration
	log          *logrus.Logger
}

func NewReminderService(matches *store.MatchStore, userStore *store.UserStore, notifier Notifier, tournamentID string, window time.Duration, log *logrus.Logger) *ReminderService {
	return &ReminderService{
		matches:      matches,
		userStore:    userStore,
		notifier:     notifier,
		tournamentID: tournamentID,
		window:       window,
		log:          log,
	}
}

type ReminderSummary struct {
	Notified     int      `json:"notified"`
	Errors       int      `json:"errors"`
	ErrorDetails []string `json:"errorDetails,omitempty"`
}

// Run walks the upcoming matches with an open deadline inside the window
// and notifies every user missing a prediction. One failed notification
// does not stop the rest.
func (s *ReminderService) Run(ctx context.Context, now time.Time) (*ReminderSummary, error) {
	allMatches, err := s.matches.ListMatches(ctx, s.tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	summary := &ReminderSummary{}
	for _, m := range allMatches {
		if !m.IsUpcoming() {
			continue
		}
		info := rules.EffectiveDeadline(m, allMatches, now)
		if info.IsPast || info.Deadline.Sub(now) > s.window {
			continue
		}

		missing, err := s.userStore.ListUsersWithoutPrediction(ctx, m.ID)
		if err != nil {
			summary.Errors++
			summary.ErrorDetails = append(summary.ErrorDetails, fmt.Sprintf("list users for match %s: %v", m.ID, err))
			continue
		}

		for _, u := range missing {
			if err := s.notifier.Notify(ctx, u, m.ID, info.Deadline); err != nil {
				summary.Errors++
				summary.ErrorDetails = append(summary.ErrorDetails, fmt.Sprintf("notify %s about %s: %v", u.ID, m.ID, err))
				continue
			}
			summary.Notified++
		}
	}

	s.log.WithFields(logrus.Fields{
		"notified": summary.Notified,
		"errors":   summary.Errors,
	}).Info("reminder run complete")

	return summary, nil
}
