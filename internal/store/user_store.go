package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	users "github.com/sbasnet/npl-fantasy/internal/user"
)

type UserStore struct {
	db *sqlx.DB
}

const (
	getUserQuery           = "SELECT * FROM users WHERE id = ?"
	getUserByProviderQuery = `
        SELECT * FROM users
        WHERE provider = ?
        AND provider_id = ?
    `
	createUserQuery = `
		INSERT INTO users (id, email, username, provider, provider_id, avatar_url) VALUES
		(:id, :email, :username, :provider, :provider_id, :avatar_url)
	`
	// Users with no prediction at all for the given match, scheduled ones
	// included. Feeds the deadline reminder pass.
	listUsersWithoutPredictionQuery = `
		SELECT u.* FROM users u
		WHERE NOT EXISTS (
			SELECT 1 FROM predictions p
			WHERE p.user_id = u.id AND p.match_id = ?
		)
		ORDER BY u.created_at ASC
	`
)

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) GetUserByProvider(ctx context.Context, provider string, providerID string) (*users.User, error) {
	var user users.User
	err := s.db.GetContext(ctx, &user, getUserByProviderQuery, provider, providerID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetUser(ctx context.Context, id uuid.UUID) (*users.User, error) {
	var user users.User
	err := s.db.GetContext(ctx, &user, getUserQuery, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) CreateUser(ctx context.Context, user *users.User) error {
	_, err := s.db.NamedExecContext(ctx, createUserQuery, user)
	return err
}

func (s *UserStore) ListUsersWithoutPrediction(ctx context.Context, matchID uuid.UUID) ([]users.User, error) {
	var result []users.User
	err := s.db.SelectContext(ctx, &result, listUsersWithoutPredictionQuery, matchID)
	return result, err
}
