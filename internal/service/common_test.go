package service_test

import (
	"context"
	"time"

	"pitchpay/internal/cache"
	"pitchpay/internal/model"
	"pitchpay/internal/payment"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// fakeTxBeginner hands out no-op transactions so the tx-orchestrating
// services can run against mocked repositories.
type fakeTxBeginner struct {
	tx *fakeTx
}

func newFakeTxBeginner() *fakeTxBeginner {
	return &fakeTxBeginner{tx: &fakeTx{}}
}

func (f *fakeTxBeginner) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	return f.tx, nil
}

type fakeTx struct {
	commits   int
	rollbacks int
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *fakeTx) Commit(ctx context.Context) error          { t.commits++; return nil }
func (t *fakeTx) Rollback(ctx context.Context) error        { t.rollbacks++; return nil }
func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *fakeTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *fakeTx) Conn() *pgx.Conn                                               { return nil }

type EventRepositoryMock struct {
	mock.Mock
}

func (m *EventRepositoryMock) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	args := m.Called(ctx, event)
	if fn, ok := args.Get(0).(func(context.Context, *model.Event) *model.Event); ok {
		return fn(ctx, event), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) ListPublic(ctx context.Context, now time.Time) ([]*model.Event, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) ListByOrganizer(ctx context.Context, organizerID int) ([]*model.Event, error) {
	args := m.Called(ctx, organizerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

type ParticipantRepositoryMock struct {
	mock.Mock
}

func (m *ParticipantRepositoryMock) FindByParticipantID(ctx context.Context, participantID uuid.UUID) (*model.Participant, error) {
	args := m.Called(ctx, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Participant), args.Error(1)
}

func (m *ParticipantRepositoryMock) FindByPaymentRef(ctx context.Context, paymentRef string) (*model.Participant, error) {
	args := m.Called(ctx, paymentRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Participant), args.Error(1)
}

func (m *ParticipantRepositoryMock) ExistsUserForEvent(ctx context.Context, eventID int, userID int) (bool, error) {
	args := m.Called(ctx, eventID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *ParticipantRepositoryMock) ListByEvent(ctx context.Context, eventID int, ascending bool) ([]*model.Participant, error) {
	args := m.Called(ctx, eventID, ascending)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Participant), args.Error(1)
}

func (m *ParticipantRepositoryMock) CountSucceeded(ctx context.Context, eventID int) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

func (m *ParticipantRepositoryMock) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ParticipantRepositoryMock) Create(ctx context.Context, tx pgx.Tx, participant *model.Participant) (*model.Participant, error) {
	args := m.Called(ctx, tx, participant)
	if fn, ok := args.Get(0).(func(context.Context, pgx.Tx, *model.Participant) *model.Participant); ok {
		return fn(ctx, tx, participant), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Participant), args.Error(1)
}

func (m *ParticipantRepositoryMock) CountSucceededTx(ctx context.Context, tx pgx.Tx, eventID int) (int, error) {
	args := m.Called(ctx, tx, eventID)
	return args.Int(0), args.Error(1)
}

type PayoutAccountRepositoryMock struct {
	mock.Mock
}

func (m *PayoutAccountRepositoryMock) Create(ctx context.Context, account *model.PayoutAccount) (*model.PayoutAccount, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PayoutAccount), args.Error(1)
}

func (m *PayoutAccountRepositoryMock) FindByOrganizer(ctx context.Context, organizerID int) (*model.PayoutAccount, error) {
	args := m.Called(ctx, organizerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PayoutAccount), args.Error(1)
}

func (m *PayoutAccountRepositoryMock) UpdateFlags(ctx context.Context, organizerID int, chargesEnabled, payoutsEnabled bool) (*model.PayoutAccount, error) {
	args := m.Called(ctx, organizerID, chargesEnabled, payoutsEnabled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PayoutAccount), args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) FindByID(ctx context.Context, id int) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UserRepositoryMock) FindByToken(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UserRepositoryMock) FindByNickname(ctx context.Context, nickname string) (*model.User, error) {
	args := m.Called(ctx, nickname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UserRepositoryMock) UpdateNickname(ctx context.Context, id int, nickname string, changedAt time.Time) (*model.User, error) {
	args := m.Called(ctx, id, nickname, changedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UserRepositoryMock) SetCanCreateEvents(ctx context.Context, id int, allowed bool) error {
	args := m.Called(ctx, id, allowed)
	return args.Error(0)
}

type SlotReservationManagerMock struct {
	mock.Mock
}

var _ cache.SlotReservationManager = (*SlotReservationManagerMock)(nil)

func (m *SlotReservationManagerMock) Reserve(ctx context.Context, eventID int, sessionRef string, succeededCount, maxPlayers int, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, eventID, sessionRef, succeededCount, maxPlayers, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *SlotReservationManagerMock) Release(ctx context.Context, eventID int, sessionRef string) error {
	args := m.Called(ctx, eventID, sessionRef)
	return args.Error(0)
}

type ProcessorMock struct {
	mock.Mock
}

var _ payment.Processor = (*ProcessorMock)(nil)

func (m *ProcessorMock) CreateCheckoutSession(ctx context.Context, params payment.CheckoutParams) (*payment.CheckoutSession, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CheckoutSession), args.Error(1)
}

func (m *ProcessorMock) VerifyWebhook(payload []byte, signature string) (*payment.Confirmation, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Confirmation), args.Error(1)
}

func (m *ProcessorMock) CreateAccount(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *ProcessorMock) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	args := m.Called(ctx, accountID, refreshURL, returnURL)
	return args.String(0), args.Error(1)
}

func (m *ProcessorMock) GetAccountStatus(ctx context.Context, accountID string) (*payment.AccountStatus, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.AccountStatus), args.Error(1)
}
