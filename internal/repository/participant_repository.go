package repository

import (
	"context"
	"errors"
	"fmt"

	"pitchpay/internal/model"
	apperrors "pitchpay/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ParticipantRepository interface {
	FindByParticipantID(ctx context.Context, participantID uuid.UUID) (*model.Participant, error)
	FindByPaymentRef(ctx context.Context, paymentRef string) (*model.Participant, error)
	ExistsUserForEvent(ctx context.Context, eventID int, userID int) (bool, error)
	ListByEvent(ctx context.Context, eventID int, ascending bool) ([]*model.Participant, error)
	CountSucceeded(ctx context.Context, eventID int) (int, error)
	Delete(ctx context.Context, id int) error

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, participant *model.Participant) (*model.Participant, error)
	CountSucceededTx(ctx context.Context, tx pgx.Tx, eventID int) (int, error)
}

type ParticipantRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewParticipantRepository(pool *pgxpool.Pool) ParticipantRepository {
	return &ParticipantRepositoryImpl{
		pool: pool,
	}
}

const participantColumns = `id, participant_id, event_id, name, email, user_id,
		status, payment_ref, created_at`

func scanParticipant(row pgx.Row) (*model.Participant, error) {
	var p model.Participant
	err := row.Scan(
		&p.ID,
		&p.ParticipantID,
		&p.EventID,
		&p.Name,
		&p.Email,
		&p.UserID,
		&p.Status,
		&p.PaymentRef,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a ledger row inside the caller's transaction. A duplicate
// payment reference or a duplicate (event, user) pair surfaces as a domain
// error so the caller can treat redelivery as success.
func (r *ParticipantRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, participant *model.Participant) (*model.Participant, error) {
	query := `
		INSERT INTO participants (
			participant_id, event_id, name, email, user_id, status, payment_ref
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + participantColumns + `
	`

	created, err := scanParticipant(tx.QueryRow(ctx, query,
		participant.ParticipantID, participant.EventID, participant.Name,
		participant.Email, participant.UserID, participant.Status, participant.PaymentRef,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "participants_payment_ref_key":
				return nil, apperrors.ErrDuplicateConfirmation
			case "participants_event_user_key":
				return nil, apperrors.ErrAlreadyRegistered
			}
		}
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}
	return created, nil
}

func (r *ParticipantRepositoryImpl) FindByParticipantID(ctx context.Context, participantID uuid.UUID) (*model.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE participant_id = $1`

	p, err := scanParticipant(r.pool.QueryRow(ctx, query, participantID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrParticipantNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ParticipantRepositoryImpl) FindByPaymentRef(ctx context.Context, paymentRef string) (*model.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE payment_ref = $1`

	p, err := scanParticipant(r.pool.QueryRow(ctx, query, paymentRef))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrParticipantNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ParticipantRepositoryImpl) ExistsUserForEvent(ctx context.Context, eventID int, userID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM participants
			WHERE event_id = $1 AND user_id = $2 AND status != $3
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, eventID, userID, model.PaymentStatusFailed).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// ListByEvent supports both orderings: ascending for public display,
// descending for the organizer's management view.
func (r *ParticipantRepositoryImpl) ListByEvent(ctx context.Context, eventID int, ascending bool) ([]*model.Participant, error) {
	direction := "DESC"
	if ascending {
		direction = "ASC"
	}
	query := fmt.Sprintf(`
		SELECT `+participantColumns+`
		FROM participants
		WHERE event_id = $1
		ORDER BY created_at %s
	`, direction)

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]*model.Participant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *ParticipantRepositoryImpl) CountSucceeded(ctx context.Context, eventID int) (int, error) {
	return countSucceeded(ctx, r.pool, eventID)
}

func (r *ParticipantRepositoryImpl) CountSucceededTx(ctx context.Context, tx pgx.Tx, eventID int) (int, error) {
	return countSucceeded(ctx, tx, eventID)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func countSucceeded(ctx context.Context, q queryRower, eventID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM participants
		WHERE event_id = $1 AND status = $2
	`

	var count int
	err := q.QueryRow(ctx, query, eventID, model.PaymentStatusSucceeded).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ParticipantRepositoryImpl) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM participants WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrParticipantNotFound
	}

	return nil
}
