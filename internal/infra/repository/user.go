package repository

import (
	"context"
	"errors"
	"time"

	"tourbook/internal/domain/user"
	"tourbook/internal/infra"
	"tourbook/internal/infra/db"
	"tourbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	dbtx db.DBTX
}

func NewUserRepository(dbtx db.DBTX) *UserRepository {
	return &UserRepository{dbtx: dbtx}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	const query = `
		INSERT INTO users (id, email, password_hash, name, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.dbtx.Exec(ctx, query,
		u.ID(), u.Email().Value(), u.PasswordHash(), u.Name(), u.Role().String(), u.IsActive(),
	)
	if err != nil {
		return wrapPgError("failed to create user", err)
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	const query = `UPDATE users SET last_login = $2, updated_at = now() WHERE id = $1`

	tag, err := r.dbtx.Exec(ctx, query, userID, at)
	if err != nil {
		return wrapPgError("failed to update last login", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "user not found", nil)
	}
	return nil
}

const userColumns = `id, email, name, role, is_active, last_login`

// FindByEmail also returns the password hash separately so it never rides
// along on the snapshot handed to upper layers.
func (r *UserRepository) FindByEmail(ctx context.Context, email user.Email) (*shared.AuthorizedUser, string, error) {
	query := `SELECT ` + userColumns + `, password_hash FROM users WHERE email = $1`

	var (
		u    shared.AuthorizedUser
		hash string
	)
	err := r.dbtx.QueryRow(ctx, query, email.Value()).Scan(
		&u.ID, &u.Email, &u.Name, &u.Role, &u.IsActive, &u.LastLogin, &hash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", infra.NewRepoErr(infra.KindNotFound, "user not found", err)
		}
		return nil, "", wrapPgError("failed to find user by email", err)
	}
	return &u, hash, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.AuthorizedUser, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u shared.AuthorizedUser
	err := r.dbtx.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.Name, &u.Role, &u.IsActive, &u.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "user not found", err)
		}
		return nil, wrapPgError("failed to find user by id", err)
	}
	return &u, nil
}
