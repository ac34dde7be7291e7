package credentials

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"signin-portal/internal/db"
)

type Service struct {
	db *db.DB
}

func NewService(db *db.DB) *Service {
	return &Service{db: db}
}

// Register creates a new user with a password credential and returns
// its ID. An email already held by any user, whether it signed up here
// or through an OAuth provider, yields ErrAlreadyRegistered.
func (s *Service) Register(
	ctx context.Context,
	email string,
	password string,
) (string, error) {

	email = normalizeEmail(email)

	hash, version, err := HashPassword(password)
	if err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", &unavailableError{cause: err}
	}
	defer func() { _ = tx.Rollback() }()

	var userID uuid.UUID

	err = tx.QueryRowContext(ctx, `
		SELECT id FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&userID)

	switch {
	case err == nil:
		return "", ErrAlreadyRegistered
	case !errors.Is(err, sql.ErrNoRows):
		return "", &unavailableError{cause: err}
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (email, email_verified)
		VALUES ($1, false)
		RETURNING id
	`, email).Scan(&userID)

	if isUniqueViolation(err) {
		return "", ErrAlreadyRegistered
	}
	if err != nil {
		return "", &unavailableError{cause: err}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO credentials (user_id, password_hash, hash_version)
		VALUES ($1, $2, $3)
	`, userID, hash, version)

	if err != nil {
		return "", &unavailableError{cause: err}
	}

	if err := tx.Commit(); err != nil {
		return "", &unavailableError{cause: err}
	}

	return userID.String(), nil
}

// Authenticate returns the user ID for a matching email and password.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Authenticate(
	ctx context.Context,
	email string,
	password string,
) (string, error) {

	var (
		userID       uuid.UUID
		passwordHash string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, c.password_hash
		FROM users u
		JOIN credentials c ON c.user_id = u.id
		WHERE LOWER(u.email) = LOWER($1)
		  AND u.status = 'active'
	`, normalizeEmail(email)).Scan(&userID, &passwordHash)

	if errors.Is(err, sql.ErrNoRows) {
		_ = VerifyPassword(string(dummyHash), password)
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", &unavailableError{cause: err}
	}

	if err := VerifyPassword(passwordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	return userID.String(), nil
}

// isUniqueViolation reports a concurrent insert of the same email
// losing against users_email_lower_unique.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
