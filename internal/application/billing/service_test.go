package billing_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"inventorypos/internal/application/billing"
	"inventorypos/internal/domain/shop"
	"inventorypos/internal/domain/user"
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
	return fmt.Sprintf("pay-%d", g.n)
}

type stubAuthorizer struct {
	lastAmount   int64
	lastCurrency string
	secret       string
	err          error
}

func (a *stubAuthorizer) AuthorizeCharge(_ context.Context, amount int64, currency string) (billing.Authorization, error) {
	a.lastAmount = amount
	a.lastCurrency = currency
	if a.err != nil {
		return billing.Authorization{}, a.err
	}
	return billing.Authorization{ClientSecret: a.secret}, nil
}

type fixture struct {
	payments *memory.PaymentRepository
	users    *memory.UserRepository
	shops    *memory.ShopRepository
	svc      *billing.Service
}

func newFixture(t *testing.T, authorizer billing.ChargeAuthorizer) *fixture {
	t.Helper()
	payments := memory.NewPaymentRepository()
	users := memory.NewUserRepository()
	shops := memory.NewShopRepository()
	svc := billing.NewService(payments, users, shops, &seqIDGen{}, authorizer, nil, observability.Nop())
	return &fixture{payments: payments, users: users, shops: shops, svc: svc}
}

func TestRecordPaymentSetsUserQuotaAbsolutely(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	u := user.New("owner@example.com", "Owner", user.RoleAdmin, "")
	u.ProductLimit = 200 // prior purchase
	require.NoError(t, f.users.Insert(ctx, u))
	require.NoError(t, f.shops.Insert(ctx, shop.New("s1", "owner@example.com", shop.Fields{
		OwnerID: "uid-1",
		Name:    "main",
	})))

	result, err := f.svc.RecordPayment(ctx, billing.RecordPaymentInput{
		Email:  "owner@example.com",
		UserID: "uid-1",
		Plan:   "$50",
		Amount: 50,
		Role:   user.RoleAdmin,
	})
	require.NoError(t, err)

	// The user quota is replaced, not accumulated: 200 -> 1500, not 1700.
	assert.Equal(t, 1500, result.ProductLimit)
	got, err := f.users.FindByEmail(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1500, got.ProductLimit)

	// The shop quota is additive and keyed by OwnerID.
	shops, err := f.shops.ListByOwner(ctx, "owner@example.com")
	require.NoError(t, err)
	require.Len(t, shops, 1)
	assert.Equal(t, 1500, shops[0].ProductLimit)
	assert.InDelta(t, 50, shops[0].Income, 1e-9)

	records, err := f.payments.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "$50", records[0].Plan)
}

func TestRecordPaymentShopGrantAccumulates(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.users.Insert(ctx, user.New("owner@example.com", "Owner", user.RoleAdmin, "")))
	require.NoError(t, f.shops.Insert(ctx, shop.New("s1", "owner@example.com", shop.Fields{OwnerID: "uid-1"})))

	for _, plan := range []string{"$10", "$20"} {
		_, err := f.svc.RecordPayment(ctx, billing.RecordPaymentInput{
			Email:  "owner@example.com",
			UserID: "uid-1",
			Plan:   plan,
			Amount: 10,
			Role:   user.RoleAdmin,
		})
		require.NoError(t, err)
	}

	// User holds the last tier; the shop holds the running sum.
	got, err := f.users.FindByEmail(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, 450, got.ProductLimit)

	shops, err := f.shops.ListByOwner(ctx, "owner@example.com")
	require.NoError(t, err)
	require.Len(t, shops, 1)
	assert.Equal(t, 650, shops[0].ProductLimit)
	assert.InDelta(t, 20, shops[0].Income, 1e-9)
}

func TestRecordPaymentRegularRoleSkipsShopGrant(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.users.Insert(ctx, user.New("owner@example.com", "Owner", user.RoleRegular, "")))
	require.NoError(t, f.shops.Insert(ctx, shop.New("s1", "owner@example.com", shop.Fields{OwnerID: "uid-1"})))

	_, err := f.svc.RecordPayment(ctx, billing.RecordPaymentInput{
		Email:  "owner@example.com",
		UserID: "uid-1",
		Plan:   "$10",
		Amount: 10,
		Role:   user.RoleRegular,
	})
	require.NoError(t, err)

	shops, err := f.shops.ListByOwner(ctx, "owner@example.com")
	require.NoError(t, err)
	require.Len(t, shops, 1)
	assert.Equal(t, 0, shops[0].ProductLimit)
	assert.InDelta(t, 0, shops[0].Income, 1e-9)
}

// An unknown plan resolves to the zero tier; the payment is still recorded
// and the user's quota is overwritten with zero.
func TestRecordPaymentUnknownPlan(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	u := user.New("owner@example.com", "Owner", user.RoleRegular, "")
	u.ProductLimit = 450
	require.NoError(t, f.users.Insert(ctx, u))

	result, err := f.svc.RecordPayment(ctx, billing.RecordPaymentInput{
		Email:  "owner@example.com",
		UserID: "uid-1",
		Plan:   "$99",
		Amount: 99,
		Role:   user.RoleRegular,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ProductLimit)

	got, err := f.users.FindByEmail(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, got.ProductLimit)
}

// A shop grant that matches no shop is logged, not surfaced: the payment
// and the user quota update stand.
func TestRecordPaymentUnmatchedShopGrantNotSurfaced(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.users.Insert(ctx, user.New("owner@example.com", "Owner", user.RoleAdmin, "")))

	result, err := f.svc.RecordPayment(ctx, billing.RecordPaymentInput{
		Email:  "owner@example.com",
		UserID: "nobody",
		Plan:   "$10",
		Amount: 10,
		Role:   user.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, 200, result.ProductLimit)
}

func TestRecordPaymentUnknownUser(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.RecordPayment(context.Background(), billing.RecordPaymentInput{
		Email:  "ghost@example.com",
		UserID: "uid-1",
		Plan:   "$10",
		Amount: 10,
	})
	assert.ErrorIs(t, err, billing.ErrRepository)
}

func TestRecordPaymentRequiresEmail(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.RecordPayment(context.Background(), billing.RecordPaymentInput{Plan: "$10"})
	assert.ErrorIs(t, err, billing.ErrValidation)
}

func TestAuthorizeCharge(t *testing.T) {
	authorizer := &stubAuthorizer{secret: "cs_test_123"}
	f := newFixture(t, authorizer)

	auth, err := f.svc.AuthorizeCharge(context.Background(), 2000, "")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", auth.ClientSecret)
	assert.Equal(t, int64(2000), authorizer.lastAmount)
	assert.Equal(t, "usd", authorizer.lastCurrency)
}

func TestAuthorizeChargeRejectsNonPositiveAmount(t *testing.T) {
	f := newFixture(t, &stubAuthorizer{})

	_, err := f.svc.AuthorizeCharge(context.Background(), 0, "usd")
	assert.ErrorIs(t, err, billing.ErrValidation)
}

func TestAuthorizeChargeWithoutGateway(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.AuthorizeCharge(context.Background(), 2000, "usd")
	assert.Error(t, err)
}
