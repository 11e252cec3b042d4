package queue

import (
	"context"

	"pitchpay/internal/model"
	"pitchpay/pkg/logger"

	"go.uber.org/zap"
)

type Delivery struct {
	Data *model.PaymentConfirmation
	Ack  func()
	Nack func(requeue bool)
}

// ConfirmationQueue decouples webhook receipt from ledger insertion. The
// processor delivers at least once and the consumer is idempotent, so the
// queue only needs at-least-once semantics itself.
type ConfirmationQueue interface {
	PublishConfirmation(ctx context.Context, confirmation *model.PaymentConfirmation) error
	SubscribeConfirmations(ctx context.Context) (<-chan Delivery, error)
}

// ConfirmationQueueImpl is the in-process channel implementation, used in
// tests and single-node deployments.
type ConfirmationQueueImpl struct {
	ch chan *model.PaymentConfirmation
}

func NewConfirmationQueue(bufferSize int) ConfirmationQueue {
	return &ConfirmationQueueImpl{
		ch: make(chan *model.PaymentConfirmation, bufferSize),
	}
}

func (q *ConfirmationQueueImpl) PublishConfirmation(ctx context.Context, confirmation *model.PaymentConfirmation) error {
	q.ch <- confirmation
	return nil
}

func (q *ConfirmationQueueImpl) SubscribeConfirmations(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case confirmation, ok := <-q.ch:
				if !ok {
					return
				}

				out <- Delivery{
					Data: confirmation,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if !requeue {
							return
						}
						// Nack runs on the consumer goroutine; a blocking
						// send on a full buffer would deadlock the worker.
						select {
						case q.ch <- confirmation:
						default:
							logger.WithComponent("mq").Warn("requeue dropped, buffer full",
								zap.String("payment_ref", confirmation.PaymentRef))
						}
					},
				}
			}
		}
	}()

	return out, nil
}
