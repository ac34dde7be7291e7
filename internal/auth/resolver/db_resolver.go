package resolver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"signin-portal/internal/auth"
	"signin-portal/internal/db"
)

var (
	// ErrEmailNotVerified is returned when an unverified provider email
	// matches an existing account.
	ErrEmailNotVerified = errors.New("resolver: provider email not verified")

	// ErrUnverifiedAccount is returned when the matching account never
	// proved it owns its email, as with password sign-ups. Linking would
	// hand that account to whoever registered the address first.
	ErrUnverifiedAccount = errors.New("resolver: matching account email is not verified")
)

// DBResolver resolves identities using the database.
type DBResolver struct {
	db *db.DB
}

func NewDBResolver(db *db.DB) *DBResolver {
	return &DBResolver{db: db}
}

// Resolve maps an identity to a user, in order: an existing identity
// link, an existing user with the same email (both sides verified), or
// a new user.
func (r *DBResolver) Resolve(
	ctx context.Context,
	identity *auth.Identity,
) (string, error) {

	if identity == nil {
		return "", errors.New("identity is nil")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("resolver: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var userID uuid.UUID
	err = tx.QueryRowContext(ctx, `
		SELECT user_id
		FROM identities
		WHERE provider = $1
		  AND provider_user_id = $2
	`,
		identity.Provider,
		identity.ProviderUserID,
	).Scan(&userID)

	if err == nil {
		return userID.String(), tx.Commit()
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	var accountVerified bool
	err = tx.QueryRowContext(ctx, `
		SELECT id, email_verified
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`,
		identity.Email,
	).Scan(&userID, &accountVerified)

	switch {
	case err == nil:
		if !identity.EmailVerified {
			return "", ErrEmailNotVerified
		}
		if !accountVerified {
			return "", ErrUnverifiedAccount
		}
	case errors.Is(err, sql.ErrNoRows):
		err = tx.QueryRowContext(ctx, `
			INSERT INTO users (email, email_verified)
			VALUES ($1, $2)
			RETURNING id
		`,
			identity.Email,
			identity.EmailVerified,
		).Scan(&userID)
		if err != nil {
			return "", err
		}
	default:
		return "", err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO identities (user_id, provider, provider_user_id)
		VALUES ($1, $2, $3)
	`,
		userID,
		identity.Provider,
		identity.ProviderUserID,
	)
	if err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return userID.String(), nil
}
