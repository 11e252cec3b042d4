package repository

import (
	"context"
	"time"

	"pitchpay/internal/model"
	apperrors "pitchpay/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository interface {
	FindByID(ctx context.Context, id int) (*model.User, error)
	FindByToken(ctx context.Context, token string) (*model.User, error)
	FindByNickname(ctx context.Context, nickname string) (*model.User, error)
	UpdateNickname(ctx context.Context, id int, nickname string, changedAt time.Time) (*model.User, error)
	SetCanCreateEvents(ctx context.Context, id int, allowed bool) error
}

type UserRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &UserRepositoryImpl{
		pool: pool,
	}
}

const userColumns = `id, nickname, email, role, can_create_events,
		email_verified, nickname_changed_at, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Nickname,
		&user.Email,
		&user.Role,
		&user.CanCreateEvents,
		&user.EmailVerified,
		&user.NicknameChangedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id int) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepositoryImpl) FindByToken(ctx context.Context, token string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE api_token = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, token))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepositoryImpl) FindByNickname(ctx context.Context, nickname string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE nickname = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, nickname))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepositoryImpl) UpdateNickname(ctx context.Context, id int, nickname string, changedAt time.Time) (*model.User, error) {
	query := `
		UPDATE users
		SET nickname = $1, nickname_changed_at = $2, updated_at = $3
		WHERE id = $4
		RETURNING ` + userColumns + `
	`

	user, err := scanUser(r.pool.QueryRow(ctx, query, nickname, changedAt, time.Now().UTC(), id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepositoryImpl) SetCanCreateEvents(ctx context.Context, id int, allowed bool) error {
	query := `
		UPDATE users
		SET can_create_events = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.pool.Exec(ctx, query, allowed, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}
