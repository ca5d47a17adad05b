package repository

import (
	"context"
	"errors"

	"github.com/evgall/ticketline/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository interface {
	Create(ctx context.Context, username, passwordHash string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type PGUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &PGUserRepository{db: db}
}

func (r *PGUserRepository) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
	}
	err := r.db.QueryRow(ctx, `INSERT INTO users (id, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`,
		user.ID, user.Username, user.PasswordHash).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrDuplicateName
		}
		return nil, err
	}
	return user, nil
}

func (r *PGUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT id, username, password_hash, created_at, updated_at FROM users WHERE username=$1`, username)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	return &u, nil
}

var _ UserRepository = (*PGUserRepository)(nil)
