package selling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventorypos/internal/domain/event"
	"inventorypos/internal/domain/product"
	"inventorypos/internal/domain/sale"
	"inventorypos/internal/observability"
	"inventorypos/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	sellingService = "selling-service"
	useCaseSell    = "sale.sell"
	spanPrefix     = "UC."
)

var (
	ErrNotFound   = product.ErrNotFound
	ErrOutOfStock = product.ErrOutOfStock
	ErrRepository = errors.New("selling: repository failure")
	ErrValidation = errors.New("selling: invalid input")
)

// SellUseCase executes one sale of one unit of a product.
//
// The flow is a fixed, non-atomic sequence of independent store calls:
// fetch, price, ledger append, sale-count increment, stock decrement. The
// out-of-stock check happens last, so a rejected sale still leaves the
// ledger entry and the incremented sale count behind; there is no
// rollback. The ordering is part of the contract.
type SellUseCase struct {
	products  product.Repository
	sales     sale.Repository
	idGen     IDGenerator
	publisher event.Publisher
	tel       observability.Observability

	log          observability.Logger
	reqCounter   observability.Counter
	durHistogram observability.Histogram
	oversells    observability.Counter
}

func NewSellUseCase(
	products product.Repository,
	sales sale.Repository,
	idGen IDGenerator,
	publisher event.Publisher,
	tel observability.Observability,
) *SellUseCase {
	if tel == nil {
		tel = observability.Nop()
	}

	metrics := tel.Metrics()
	return &SellUseCase{
		products:     products,
		sales:        sales,
		idGen:        idGen,
		publisher:    publisher,
		tel:          tel,
		log:          tel.Logger().With(observability.F("service", sellingService)),
		reqCounter:   metrics.Counter(observability.MUsecaseRequests),
		durHistogram: metrics.Histogram(observability.MUsecaseDuration),
		oversells:    metrics.Counter(observability.MOversellRejections),
	}
}

type SellInput struct {
	ProductID string
}

type SellResult struct {
	SaleID       string
	SellingPrice float64
	Remaining    int
}

// Execute performs the sale flow.
func (uc *SellUseCase) Execute(ctx context.Context, cmd SellInput) (_ *SellResult, err error) {
	logger := logctx.FromOr(ctx, uc.log).With(observability.F("use_case", useCaseSell))

	ctx, span := uc.tel.Tracer().Start(ctx, spanPrefix+"Sell",
		attribute.String("use_case", useCaseSell),
		attribute.String("product.id", cmd.ProductID),
	)
	start := time.Now()
	outcome, statusText := "success", "OK"

	defer func() {
		lat := time.Since(start).Seconds()

		if span != nil {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, statusText)
			} else {
				span.SetStatus(codes.Ok, statusText)
			}
			span.End()
		}

		uc.reqCounter.Add(1,
			observability.L("use_case", useCaseSell),
			observability.L("outcome", outcome),
		)
		uc.durHistogram.Observe(lat,
			observability.L("use_case", useCaseSell),
		)

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", lat),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}

		logger.Info("use_case_done", fields...)
	}()

	if cmd.ProductID == "" {
		outcome, statusText = "error", "PRODUCT_ID_REQUIRED"
		return nil, newValidation("product id is required")
	}

	p, err := uc.products.GetByID(ctx, cmd.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			outcome, statusText = "error", "PRODUCT_NOT_FOUND"
			return nil, ErrNotFound
		}
		outcome, statusText = "error", "REPO_GET_FAILED"
		return nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}

	price := SellingPrice(p.Cost, p.Profit)
	span.AddEvent("sale.priced",
		trace.WithAttributes(attribute.Float64("sale.selling_price", price)),
	)

	// Ledger entry snapshots the pre-sale quantity, not the single unit
	// sold, so history reflects on-hand stock at the moment of sale.
	rec := sale.NewRecord(uc.idGen.NewID(), p.ID, p.Name, p.Quantity, price)
	if err := uc.sales.Append(ctx, rec); err != nil {
		outcome, statusText = "error", "LEDGER_APPEND_FAILED"
		return nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}

	if err := uc.products.IncrementSaleCount(ctx, p.ID); err != nil {
		outcome, statusText = "error", "SALE_COUNT_FAILED"
		return nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}

	// Last step. On refusal the ledger entry and the counter above stand.
	remaining, err := uc.products.DecrementStock(ctx, p.ID, 1)
	if err != nil {
		if errors.Is(err, product.ErrOutOfStock) {
			outcome, statusText = "rejected", "OUT_OF_STOCK"
			uc.oversells.Add(1, observability.L("product_id", p.ID))
			uc.publish(ctx, logger, sale.NewRecordedEvent(rec, p.Quantity))
			return nil, ErrOutOfStock
		}
		outcome, statusText = "error", "STOCK_DECREMENT_FAILED"
		return nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}

	uc.publish(ctx, logger, sale.NewRecordedEvent(rec, remaining))

	span.AddEvent("sale.committed",
		trace.WithAttributes(
			attribute.String("sale.id", rec.ID),
			attribute.Int("product.remaining", remaining),
		),
	)

	return &SellResult{
		SaleID:       rec.ID,
		SellingPrice: price,
		Remaining:    remaining,
	}, nil
}

func (uc *SellUseCase) publish(ctx context.Context, logger observability.Logger, e sale.RecordedEvent) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, e); err != nil {
		logger.Warn("sale_event_publish_failed",
			observability.F("sale_id", e.SaleID),
			observability.F("error", err.Error()),
		)
	}
}

func newValidation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
