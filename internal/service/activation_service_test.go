package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbasnet/npl-fantasy/internal/league"
	"github.com/sbasnet/npl-fantasy/internal/store"
	"github.com/sbasnet/npl-fantasy/internal/utils"
)

func stagePrediction(t *testing.T, predictions *store.PredictionStore, userID uuid.UUID, m league.Match, scheduledFor time.Time) league.Prediction {
	t.Helper()

	p := league.Prediction{
		ID:              uuid.New(),
		UserID:          userID,
		MatchID:         m.ID,
		MatchNumber:     m.MatchNumber,
		PredictedWinner: m.TeamAName,
		ScheduledFor:    utils.Ptr(scheduledFor),
		ScheduledAt:     utils.Ptr(scheduledFor.Add(-48 * time.Hour)),
		SubmittedAt:     scheduledFor.Add(-48 * time.Hour),
	}
	require.NoError(t, predictions.CreatePrediction(context.Background(), &p))
	return p
}

func TestActivationRun_ActivatesDuePredictions(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	tournamentID := seedTournament(t, db)
	matches := seedMatches(t, db, tournamentID, []league.Match{
		{MatchNumber: 1, MatchDate: time.Date(2026, 1, 16, 9, 0, 0, 0, time.UTC)},
		{MatchNumber: 2, MatchDate: time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC)},
	})
	user := seedUser(t, db, "tester")

	predictionStore := store.NewPredictionStore(db)
	due := stagePrediction(t, predictionStore, user.ID, matches[0], time.Date(2026, 1, 16, 2, 0, 0, 0, time.UTC))
	farOut := stagePrediction(t, predictionStore, user.ID, matches[1], time.Date(2026, 1, 20, 2, 0, 0, 0, time.UTC))

	svc := NewActivationService(predictionStore, store.NewMatchStore(db), tournamentID.String(), testLogger())

	now := time.Date(2026, 1, 16, 3, 0, 0, 0, time.UTC)
	summary, err := svc.Run(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Activated)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.Errors)
	assert.Empty(t, summary.ErrorDetails)

	activated, err := predictionStore.GetPrediction(ctx, user.ID, due.MatchID)
	require.NoError(t, err)
	assert.False(t, activated.IsScheduled())
	assert.True(t, activated.SubmittedAt.Equal(now))

	untouched, err := predictionStore.GetPrediction(ctx, user.ID, farOut.MatchID)
	require.NoError(t, err)
	assert.True(t, untouched.IsScheduled())

	// A second run finds nothing left to do.
	summary, err = svc.Run(ctx, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Activated)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.Errors)
}

func TestActivationRun_SkipsWhenWindowStillClosed(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	tournamentID := seedTournament(t, db)
	matches := seedMatches(t, db, tournamentID, []league.Match{
		{MatchNumber: 1, MatchDate: time.Date(2026, 1, 16, 9, 0, 0, 0, time.UTC)},
	})
	user := seedUser(t, db, "tester")

	predictionStore := store.NewPredictionStore(db)
	// The scheduled instant is stale but the match window opens at the CST
	// cutoff, Jan 16 02:00 UTC, which has not passed yet.
	staged := stagePrediction(t, predictionStore, user.ID, matches[0], time.Date(2026, 1, 15, 17, 0, 0, 0, time.UTC))

	svc := NewActivationService(predictionStore, store.NewMatchStore(db), tournamentID.String(), testLogger())

	now := time.Date(2026, 1, 15, 18, 0, 0, 0, time.UTC)
	summary, err := svc.Run(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Activated)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Errors)

	still, err := predictionStore.GetPrediction(ctx, user.ID, staged.MatchID)
	require.NoError(t, err)
	assert.True(t, still.IsScheduled())
}

func TestActivationRun_EmptyQueue(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tournamentID := seedTournament(t, db)
	predictionStore := store.NewPredictionStore(db)
	svc := NewActivationService(predictionStore, store.NewMatchStore(db), tournamentID.String(), testLogger())

	summary, err := svc.Run(context.Background(), time.Date(2026, 1, 16, 3, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, &ActivationSummary{}, summary)
}
