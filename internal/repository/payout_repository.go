package repository

import (
	"context"
	"time"

	"pitchpay/internal/model"
	apperrors "pitchpay/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PayoutAccountRepository interface {
	Create(ctx context.Context, account *model.PayoutAccount) (*model.PayoutAccount, error)
	FindByOrganizer(ctx context.Context, organizerID int) (*model.PayoutAccount, error)
	UpdateFlags(ctx context.Context, organizerID int, chargesEnabled, payoutsEnabled bool) (*model.PayoutAccount, error)
}

type PayoutAccountRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewPayoutAccountRepository(pool *pgxpool.Pool) PayoutAccountRepository {
	return &PayoutAccountRepositoryImpl{
		pool: pool,
	}
}

const payoutColumns = `id, organizer_id, stripe_account_id,
		charges_enabled, payouts_enabled, created_at, updated_at`

func scanPayoutAccount(row pgx.Row) (*model.PayoutAccount, error) {
	var account model.PayoutAccount
	err := row.Scan(
		&account.ID,
		&account.OrganizerID,
		&account.StripeAccountID,
		&account.ChargesEnabled,
		&account.PayoutsEnabled,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *PayoutAccountRepositoryImpl) Create(ctx context.Context, account *model.PayoutAccount) (*model.PayoutAccount, error) {
	query := `
		INSERT INTO payout_accounts (organizer_id, stripe_account_id, charges_enabled, payouts_enabled)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + payoutColumns + `
	`

	created, err := scanPayoutAccount(r.pool.QueryRow(ctx, query,
		account.OrganizerID, account.StripeAccountID,
		account.ChargesEnabled, account.PayoutsEnabled,
	))
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *PayoutAccountRepositoryImpl) FindByOrganizer(ctx context.Context, organizerID int) (*model.PayoutAccount, error) {
	query := `SELECT ` + payoutColumns + ` FROM payout_accounts WHERE organizer_id = $1`

	account, err := scanPayoutAccount(r.pool.QueryRow(ctx, query, organizerID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrPayoutAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (r *PayoutAccountRepositoryImpl) UpdateFlags(ctx context.Context, organizerID int, chargesEnabled, payoutsEnabled bool) (*model.PayoutAccount, error) {
	query := `
		UPDATE payout_accounts
		SET charges_enabled = $1, payouts_enabled = $2, updated_at = $3
		WHERE organizer_id = $4
		RETURNING ` + payoutColumns + `
	`

	account, err := scanPayoutAccount(r.pool.QueryRow(ctx, query,
		chargesEnabled, payoutsEnabled, time.Now().UTC(), organizerID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrPayoutAccountNotFound
		}
		return nil, err
	}
	return account, nil
}
