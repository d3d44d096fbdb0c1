package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/strayline/casevault/internal/domain"
)

// UserRepository implements the user repository for PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// GetUserByID retrieves a user profile by ID
func (r *UserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	const query = `
		SELECT user_id, username, level, COALESCE(avatar_url, ''), inventory_cap, discount_level
		FROM users
		WHERE user_id = $1`

	user := &domain.User{}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&user.ID, &user.Username, &user.Level, &user.AvatarURL,
		&user.InventoryCap, &user.DiscountLevel)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsgQueryUser, err)
	}
	return user, nil
}

// HasUnlockPass reports whether the user holds the given pass
func (r *UserRepository) HasUnlockPass(ctx context.Context, userID string, pass domain.UnlockPass) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM unlock_passes WHERE user_id = $1 AND pass = $2)`

	var held bool
	if err := r.db.QueryRow(ctx, query, userID, string(pass)).Scan(&held); err != nil {
		return false, fmt.Errorf("%s: %w", errMsgQueryPass, err)
	}
	return held, nil
}

// GrantUnlockPass gives the user a pass; granting an already-held pass is a no-op
func (r *UserRepository) GrantUnlockPass(ctx context.Context, userID string, pass domain.UnlockPass) error {
	const query = `INSERT INTO unlock_passes (user_id, pass) VALUES ($1, $2)`

	_, err := r.db.Exec(ctx, query, userID, string(pass))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return nil
		}
		return fmt.Errorf("%s: %w", errMsgGrantPass, err)
	}
	return nil
}

// UpdateDiscountLevelIfMatches persists the new level only when the stored
// level still equals expected
func (r *UserRepository) UpdateDiscountLevelIfMatches(ctx context.Context, userID string, expected, updated int) (bool, error) {
	const query = `
		UPDATE users
		SET discount_level = $3
		WHERE user_id = $1 AND discount_level = $2`

	tag, err := r.db.Exec(ctx, query, userID, expected, updated)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errMsgUpdateDiscount, err)
	}
	return tag.RowsAffected() == 1, nil
}
