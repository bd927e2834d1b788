package results

import (
	"context"
	"fmt"
	"labbridge-service/internal/app/config"
	"labbridge-service/internal/app/contracts"
	"labbridge-service/internal/app/services/shared/resultqueue"
	"labbridge-service/internal/pkg/constvars"
	"time"

	"go.uber.org/zap"
)

// Worker drains the result-event queue with at-least-once semantics: a
// failed ingestion goes back to the queue tail until its attempt budget is
// spent, then parks in the DLQ.
type Worker struct {
	log     *zap.Logger
	cfg     *config.InternalConfig
	queue   *resultqueue.Service
	usecase contracts.ResultUsecase
	stop    chan struct{}
}

func NewWorker(log *zap.Logger, cfg *config.InternalConfig, queue *resultqueue.Service, usecase contracts.ResultUsecase) *Worker {
	return &Worker{
		log:     log,
		cfg:     cfg,
		queue:   queue,
		usecase: usecase,
		stop:    make(chan struct{}),
	}
}

// Start begins the ticker loop. It returns a stop function to halt execution.
func (w *Worker) Start(ctx context.Context) (stop func()) {
	interval := time.Duration(w.cfg.Worker.IntervalInSeconds) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)

	fmt.Println("Result worker started")

	go func() {
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-w.stop:
				ticker.Stop()
				return
			case <-ticker.C:
				w.runOnce(ctx)
			}
		}
	}()

	return func() {
		close(w.stop)
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	batch := w.cfg.Worker.BatchSize
	if batch <= 0 {
		batch = 1
	}

	items, err := w.queue.FetchN(ctx, batch)
	if err != nil {
		w.log.Info("result.worker FetchN error", zap.Error(err))
		return
	}
	if len(items) == 0 {
		return
	}

	w.log.Info("result.worker fetched events", zap.Int("fetched_count", len(items)))

	for _, item := range items {
		w.processItem(ctx, item)
	}
}

func (w *Worker) processItem(ctx context.Context, item resultqueue.QueuedItem) {
	msg := item.Message
	itemCtx := context.WithValue(ctx, constvars.CONTEXT_REQUEST_ID_KEY, constvars.REQUEST_ID_PREFIX+"worker_"+msg.OrderID)

	w.log.Info("result.worker ingesting order",
		zap.String("order_id", msg.OrderID),
		zap.Int("failed_count", msg.FailedCount),
	)

	_, err := w.usecase.ProcessResult(itemCtx, msg.OrderID)
	if err == nil {
		if ackErr := w.queue.AckMessage(item.DeliveryTag); ackErr != nil {
			w.log.Info("result.worker ack failed after success",
				zap.String("order_id", msg.OrderID),
				zap.Error(ackErr))
		}
		return
	}

	w.log.Warn("result.worker ingestion failed",
		zap.String("order_id", msg.OrderID),
		zap.Int("failed_count", msg.FailedCount),
		zap.Error(err),
	)

	msg.FailedCount++
	maxAttempts := w.cfg.Worker.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	if msg.FailedCount >= maxAttempts {
		if err := w.queue.EnqueueToDeadQueue(itemCtx, msg); err != nil {
			w.log.Error("result.worker DLQ enqueue failed; leaving message unacked",
				zap.String("order_id", msg.OrderID),
				zap.Error(err))
			return
		}
		w.log.Warn("result.worker moved order to DLQ",
			zap.String("order_id", msg.OrderID),
			zap.Int("failed_count", msg.FailedCount))
	} else {
		if err := w.queue.Reenqueue(itemCtx, msg); err != nil {
			w.log.Error("result.worker reenqueue failed; leaving message unacked",
				zap.String("order_id", msg.OrderID),
				zap.Error(err))
			return
		}
	}

	_ = w.queue.AckMessage(item.DeliveryTag)
}
