package selling_test

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"

	"inventorypos/internal/application/selling"
	"inventorypos/internal/domain/event"
	"inventorypos/internal/domain/product"
	"inventorypos/internal/domain/sale"
	"inventorypos/internal/infrastructure/memory"
	"inventorypos/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seqIDGen struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDGen) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *capturingPublisher) Publish(_ context.Context, e event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *capturingPublisher) recorded() []sale.RecordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]sale.RecordedEvent, 0, len(p.events))
	for _, e := range p.events {
		if re, ok := e.(sale.RecordedEvent); ok {
			out = append(out, re)
		}
	}
	return out
}

type fixture struct {
	products  *memory.ProductRepository
	sales     *memory.SaleRepository
	publisher *capturingPublisher
	uc        *selling.SellUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	products := memory.NewProductRepository()
	sales := memory.NewSaleRepository()
	publisher := &capturingPublisher{}
	uc := selling.NewSellUseCase(products, sales, &seqIDGen{}, publisher, observability.Nop())
	return &fixture{products: products, sales: sales, publisher: publisher, uc: uc}
}

func (f *fixture) seedProduct(t *testing.T, id string, quantity int, cost, profit string) {
	t.Helper()
	p, err := product.New(id, "owner@example.com", product.Fields{
		Name:     "widget",
		Quantity: quantity,
		Cost:     cost,
		Profit:   profit,
	})
	require.NoError(t, err)
	require.NoError(t, f.products.Insert(context.Background(), p))
}

func TestSellDecrementsStockAndRecordsSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", 3, "100", "20")

	result, err := f.uc.Execute(ctx, selling.SellInput{ProductID: "p1"})
	require.NoError(t, err)

	assert.InDelta(t, 127.5, result.SellingPrice, 1e-9)
	assert.Equal(t, 2, result.Remaining)

	p, err := f.products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Quantity)
	assert.Equal(t, 1, p.SaleCount)

	rec, err := f.sales.FindByProductID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "widget", rec.ProductName)
	// Ledger snapshots the pre-sale quantity, not the unit sold.
	assert.Equal(t, 3, rec.Quantity)
	assert.InDelta(t, 127.5, rec.SellingPrice, 1e-9)

	events := f.publisher.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, 2, events[0].Remaining)
}

func TestSellRepeatedlyUntilEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", 3, "10", "1")

	for i := 0; i < 3; i++ {
		result, err := f.uc.Execute(ctx, selling.SellInput{ProductID: "p1"})
		require.NoError(t, err)
		assert.Equal(t, 2-i, result.Remaining)
	}

	p, err := f.products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Quantity)
	assert.Equal(t, 3, p.SaleCount)

	n, err := f.sales.CountByProductID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

// A sale against exhausted stock is refused, but only after the ledger
// entry and the sale-count increment were already written; those writes
// stand. There is no rollback.
func TestSellOutOfStockLeavesLedgerEntryBehind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", 0, "10", "1")

	_, err := f.uc.Execute(ctx, selling.SellInput{ProductID: "p1"})
	assert.ErrorIs(t, err, selling.ErrOutOfStock)

	p, err := f.products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Quantity)
	assert.Equal(t, 1, p.SaleCount)

	n, err := f.sales.CountByProductID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	events := f.publisher.recorded()
	require.Len(t, events, 1)
	// The event carries the pre-sale quantity when the decrement was refused.
	assert.Equal(t, 0, events[0].Remaining)
}

func TestSellUnknownProduct(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), selling.SellInput{ProductID: "ghost"})
	assert.ErrorIs(t, err, selling.ErrNotFound)

	n, err := f.sales.CountByProductID(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSellEmptyProductID(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), selling.SellInput{})
	assert.ErrorIs(t, err, selling.ErrValidation)
}

// Non-numeric cost propagates NaN through the price and into the ledger.
func TestSellNonNumericCost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", 2, "free", "20")

	result, err := f.uc.Execute(ctx, selling.SellInput{ProductID: "p1"})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(result.SellingPrice))

	rec, err := f.sales.FindByProductID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(rec.SellingPrice))
}

func TestSaleQueryByProductID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", 2, "10", "1")

	_, err := f.uc.Execute(ctx, selling.SellInput{ProductID: "p1"})
	require.NoError(t, err)

	query := selling.NewSaleQuery(f.sales)

	first, err := query.ByProductID(ctx, "p1")
	require.NoError(t, err)
	second, err := query.ByProductID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = query.ByProductID(ctx, "ghost")
	assert.ErrorIs(t, err, sale.ErrNotFound)

	_, err = query.ByProductID(ctx, "")
	assert.ErrorIs(t, err, selling.ErrValidation)
}
