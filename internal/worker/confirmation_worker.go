package worker

import (
	"context"

	"pitchpay/internal/queue"
	"pitchpay/internal/service"
	"pitchpay/pkg/logger"

	"go.uber.org/zap"
)

// ConfirmationWorker drains the confirmation queue into the participant
// ledger. HandleConfirmation is idempotent, so redeliveries after a crash or
// a Nack are safe.
type ConfirmationWorker interface {
	Start(ctx context.Context) error
}

type ConfirmationWorkerImpl struct {
	service service.CheckoutService
	queue   queue.ConfirmationQueue
}

func NewConfirmationWorker(service service.CheckoutService, queue queue.ConfirmationQueue) ConfirmationWorker {
	return &ConfirmationWorkerImpl{
		service: service,
		queue:   queue,
	}
}

func (w *ConfirmationWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeConfirmations(ctx)
	if err != nil {
		return err
	}

	go func() {
		log := logger.WithComponent("worker")
		for msg := range msgs {
			if err := w.service.HandleConfirmation(ctx, msg.Data); err != nil {
				log.Warn("confirmation handling failed, requeueing",
					zap.String("payment_ref", msg.Data.PaymentRef), zap.Error(err))
				msg.Nack(true)
			} else {
				msg.Ack()
			}
		}
	}()
	return nil
}
