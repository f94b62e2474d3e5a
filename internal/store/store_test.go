package store

import (
	"context"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/sbasnet/npl-fantasy/internal/league"
	users "github.com/sbasnet/npl-fantasy/internal/user"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")

	_, err = database.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)

	driver, err := sqlite3.WithInstance(database.DB, &sqlite3.Config{})
	require.NoError(t, err, "Failed to create migrate driver instance")

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"sqlite3",
		driver,
	)
	require.NoError(t, err, "Failed to create migrate instance")

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to apply migrations")
	}

	return database
}

func seedFixture(t *testing.T, db *sqlx.DB, matchDates ...time.Time) (uuid.UUID, []league.Match) {
	t.Helper()
	ctx := context.Background()

	matchStore := NewMatchStore(db)
	tournamentID := uuid.New()
	require.NoError(t, matchStore.CreateTournament(ctx, &league.Tournament{
		ID:        tournamentID,
		Name:      "NPL 2026",
		StartDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		Status:    league.TournamentActive,
	}))

	matches := make([]league.Match, 0, len(matchDates))
	for i, date := range matchDates {
		matches = append(matches, league.Match{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			MatchNumber:  i + 1,
			MatchType:    league.LeagueMatch,
			TeamAName:    "Kathmandu Gurkhas",
			TeamBName:    "Pokhara Avengers",
			MatchDate:    date,
			Deadline:     date,
			Status:       league.MatchUpcoming,
		})
	}
	require.NoError(t, matchStore.CreateMatches(ctx, matches))

	return tournamentID, matches
}

func seedUser(t *testing.T, db *sqlx.DB) *users.User {
	return seedUserWithEmail(t, db, "tester@npl-fantasy.app", "tester")
}

func seedUserWithEmail(t *testing.T, db *sqlx.DB, email, username string) *users.User {
	t.Helper()

	userStore := NewUserStore(db)
	u := &users.User{
		ID:       uuid.New(),
		Email:    email,
		Username: username,
	}
	require.NoError(t, userStore.CreateUser(context.Background(), u))
	return u
}
