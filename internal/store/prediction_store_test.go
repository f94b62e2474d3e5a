package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbasnet/npl-fantasy/internal/league"
	"github.com/sbasnet/npl-fantasy/internal/utils"
)

func TestListScheduledDue(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	now := time.Date(2026, 1, 16, 3, 0, 0, 0, time.UTC)
	_, matches := seedFixture(t, db,
		time.Date(2026, 1, 16, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 17, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 18, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 19, 9, 0, 0, 0, time.UTC),
	)
	user := seedUser(t, db)

	predictionStore := NewPredictionStore(db)
	newPrediction := func(match league.Match, scheduledFor *time.Time) league.Prediction {
		p := league.Prediction{
			ID:              uuid.New(),
			UserID:          user.ID,
			MatchID:         match.ID,
			MatchNumber:     match.MatchNumber,
			PredictedWinner: match.TeamAName,
			ScheduledFor:    scheduledFor,
			SubmittedAt:     now.Add(-24 * time.Hour),
		}
		if scheduledFor != nil {
			p.ScheduledAt = utils.Ptr(now.Add(-24 * time.Hour))
		}
		require.NoError(t, predictionStore.CreatePrediction(ctx, &p))
		return p
	}

	older := newPrediction(matches[0], utils.Ptr(now.Add(-2*time.Hour)))
	recent := newPrediction(matches[1], utils.Ptr(now.Add(-time.Hour)))
	newPrediction(matches[2], utils.Ptr(now.Add(time.Hour))) // not due yet
	newPrediction(matches[3], nil)                           // already active

	due, err := predictionStore.ListScheduledDue(ctx, now)
	require.NoError(t, err)

	require.Len(t, due, 2)
	assert.Equal(t, older.ID, due[0].ID)
	assert.Equal(t, recent.ID, due[1].ID)
}

func TestActivate(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	now := time.Date(2026, 1, 16, 3, 0, 0, 0, time.UTC)
	_, matches := seedFixture(t, db, time.Date(2026, 1, 16, 9, 0, 0, 0, time.UTC))
	user := seedUser(t, db)

	predictionStore := NewPredictionStore(db)
	staged := league.Prediction{
		ID:              uuid.New(),
		UserID:          user.ID,
		MatchID:         matches[0].ID,
		MatchNumber:     matches[0].MatchNumber,
		PredictedWinner: matches[0].TeamAName,
		ScheduledFor:    utils.Ptr(now.Add(-time.Hour)),
		ScheduledAt:     utils.Ptr(now.Add(-24 * time.Hour)),
		SubmittedAt:     now.Add(-24 * time.Hour),
	}
	require.NoError(t, predictionStore.CreatePrediction(ctx, &staged))

	activated, err := predictionStore.Activate(ctx, staged.ID, now)
	require.NoError(t, err)
	assert.True(t, activated)

	got, err := predictionStore.GetPrediction(ctx, user.ID, matches[0].ID)
	require.NoError(t, err)
	assert.Nil(t, got.ScheduledFor)
	assert.Nil(t, got.ScheduledAt)
	assert.True(t, got.SubmittedAt.Equal(now), "submitted_at should be re-stamped, got %v", got.SubmittedAt)

	// Re-running against an already active prediction is a no-op that still
	// reports success.
	again, err := predictionStore.Activate(ctx, staged.ID, now.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, again)

	reread, err := predictionStore.GetPrediction(ctx, user.ID, matches[0].ID)
	require.NoError(t, err)
	assert.True(t, reread.SubmittedAt.Equal(now), "no-op must not touch submitted_at")

	// A prediction that does not exist at all reports false.
	missing, err := predictionStore.Activate(ctx, uuid.New(), now)
	require.NoError(t, err)
	assert.False(t, missing)
}

func TestUpdatePredictionRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	now := time.Date(2026, 1, 16, 3, 0, 0, 0, time.UTC)
	_, matches := seedFixture(t, db, time.Date(2026, 1, 16, 9, 0, 0, 0, time.UTC))
	user := seedUser(t, db)

	predictionStore := NewPredictionStore(db)
	p := league.Prediction{
		ID:              uuid.New(),
		UserID:          user.ID,
		MatchID:         matches[0].ID,
		MatchNumber:     matches[0].MatchNumber,
		PredictedWinner: matches[0].TeamAName,
		SubmittedAt:     now,
	}
	require.NoError(t, predictionStore.CreatePrediction(ctx, &p))

	p.PredictedWinner = matches[0].TeamBName
	p.PredictedPom = utils.Ptr("Sandeep Lamichhane")
	p.TeamAScoreCategory = utils.Ptr(league.ScoreCategoryC)
	p.TeamAWickets = utils.Ptr(7)
	require.NoError(t, predictionStore.UpdatePrediction(ctx, &p))

	got, err := predictionStore.GetPrediction(ctx, user.ID, matches[0].ID)
	require.NoError(t, err)
	assert.Equal(t, matches[0].TeamBName, got.PredictedWinner)
	require.NotNil(t, got.PredictedPom)
	assert.Equal(t, "Sandeep Lamichhane", *got.PredictedPom)
	require.NotNil(t, got.TeamAScoreCategory)
	assert.Equal(t, league.ScoreCategoryC, *got.TeamAScoreCategory)
	require.NotNil(t, got.TeamAWickets)
	assert.Equal(t, 7, *got.TeamAWickets)
}

func TestListUsersWithoutPrediction(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	now := time.Date(2026, 1, 16, 3, 0, 0, 0, time.UTC)
	_, matches := seedFixture(t, db, time.Date(2026, 1, 16, 9, 0, 0, 0, time.UTC))
	predicted := seedUser(t, db)

	userStore := NewUserStore(db)
	missing := seedUserWithEmail(t, db, "quiet@npl-fantasy.app", "quiet")

	predictionStore := NewPredictionStore(db)
	require.NoError(t, predictionStore.CreatePrediction(ctx, &league.Prediction{
		ID:              uuid.New(),
		UserID:          predicted.ID,
		MatchID:         matches[0].ID,
		MatchNumber:     matches[0].MatchNumber,
		PredictedWinner: matches[0].TeamAName,
		SubmittedAt:     now,
	}))

	got, err := userStore.ListUsersWithoutPrediction(ctx, matches[0].ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, missing.ID, got[0].ID)
}
