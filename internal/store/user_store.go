package store

import "context"

// UserStore is the directory of internal users keyed by the stable external
// identity issued by the identity provider.
type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

type User struct {
	ID         string `db:"id"`
	ExternalID string `db:"external_id"`
	Email      string `db:"email"`
	Name       string `db:"name"`
	CreatedAt  any    `db:"created_at"`
}

// Upsert creates the user on first sighting of an external identity and
// refreshes email/name on every later one. The unique constraint on
// external_id guarantees a single internal row even under concurrent calls;
// the returned id is stable across all of them.
func (s *UserStore) Upsert(ctx context.Context, id, externalID, email, name string) (string, error) {
	var userID string
	err := s.db.GetContext(ctx, &userID, `
		INSERT INTO users (id, external_id, email, name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (external_id) DO UPDATE
		SET email = EXCLUDED.email, name = EXCLUDED.name
		RETURNING id
	`, id, externalID, email, name)
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *UserStore) GetByExternalID(ctx context.Context, externalID string) (User, error) {
	var row User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, external_id, email, name, created_at
		FROM users
		WHERE external_id = $1
	`, externalID)
	if err != nil {
		return User{}, err
	}
	return row, nil
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (User, error) {
	var row User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, external_id, email, name, created_at
		FROM users
		WHERE id = $1
	`, userID)
	if err != nil {
		return User{}, err
	}
	return row, nil
}
