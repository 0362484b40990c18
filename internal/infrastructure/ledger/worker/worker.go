package worker

import (
	"context"

	"inventorypos/internal/domain/event"
	"inventorypos/internal/domain/payment"
	"inventorypos/internal/domain/sale"
	"inventorypos/internal/observability"
	"inventorypos/internal/observability/logctx"
)

const (
	componentLedgerWorker = "ledger_worker"
	lowStockThreshold     = 1
)

// Worker consumes post-commit sale and payment events for bookkeeping:
// metrics and low-stock warnings. It never writes back to the store.
type Worker struct {
	subscriber event.Subscriber

	log           observability.Logger
	salesRecorded observability.Counter
}

func New(subscriber event.Subscriber, tel observability.Observability) *Worker {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Worker{
		subscriber:    subscriber,
		log:           tel.Logger().With(observability.F("component", componentLedgerWorker)),
		salesRecorded: tel.Metrics().Counter(observability.MSalesRecorded),
	}
}

func (w *Worker) Start() {
	if w.subscriber == nil {
		return
	}
	w.subscriber.Subscribe(sale.RecordedEvent{}.EventName(), w.handleSaleRecorded)
	w.subscriber.Subscribe(payment.RecordedEvent{}.EventName(), w.handlePaymentRecorded)
}

func (w *Worker) handleSaleRecorded(ctx context.Context, e event.Event) error {
	logger := logctx.FromOr(ctx, w.log)

	evt, ok := e.(sale.RecordedEvent)
	if !ok {
		return nil
	}

	w.salesRecorded.Add(1)

	if evt.Remaining <= lowStockThreshold {
		logger.Warn("product_low_stock",
			observability.F("product_id", evt.ProductID),
			observability.F("product_name", evt.ProductName),
			observability.F("remaining", evt.Remaining),
		)
	}

	logger.Info("sale_recorded",
		observability.F("sale_id", evt.SaleID),
		observability.F("product_id", evt.ProductID),
		observability.F("selling_price", evt.SellingPrice),
	)
	return nil
}

func (w *Worker) handlePaymentRecorded(ctx context.Context, e event.Event) error {
	logger := logctx.FromOr(ctx, w.log)

	evt, ok := e.(payment.RecordedEvent)
	if !ok {
		return nil
	}

	logger.Info("payment_quota_applied",
		observability.F("payment_id", evt.PaymentID),
		observability.F("plan", evt.Plan),
		observability.F("quota", evt.Quota),
	)
	return nil
}
