package user

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"mybooklist/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const userColumns = `
id, firstname, lastname, username, email, password_hash, role, account_verified, verification_code
`

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (firstname, lastname, username, email, password_hash, role, account_verified, verification_code)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + userColumns + `
`
	row := r.pool.QueryRow(ctx, q,
		u.FirstName, u.LastName, u.Username, strings.ToLower(u.Email),
		u.PasswordHash, u.Role, u.Verified, u.VerificationCode,
	)
	out, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("create user %s: %v", u.Username, err)
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *postgresRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, "username = $1", username)
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, "email = $1", strings.ToLower(email))
}

func (r *postgresRepo) GetByVerificationCode(ctx context.Context, code string) (*domain.User, error) {
	return r.getBy(ctx, "verification_code = $1", code)
}

func (r *postgresRepo) getBy(ctx context.Context, where string, arg any) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	out, err := scanUser(r.pool.QueryRow(ctx, q, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

// MarkVerified flips the verification flag and clears the code.
func (r *postgresRepo) MarkVerified(ctx context.Context, id int64) error {
	const q = `
UPDATE users
SET account_verified = TRUE,
    verification_code = NULL
WHERE id = $1
`
	cmd, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const q = `
UPDATE users
SET password_hash = $1
WHERE id = $2
`
	cmd, err := r.pool.Exec(ctx, q, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) UpdateProfile(ctx context.Context, id int64, in UpdateProfileInput) (*domain.User, error) {
	const q = `
UPDATE users
SET firstname = $1,
    lastname = $2,
    username = $3,
    email = $4
WHERE id = $5
RETURNING ` + userColumns + `
`
	row := r.pool.QueryRow(ctx, q, in.FirstName, in.LastName, in.Username, strings.ToLower(in.Email), id)
	out, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return out, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Email,
		&u.PasswordHash, &u.Role, &u.Verified, &u.VerificationCode,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
