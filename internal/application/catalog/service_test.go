package catalog_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"inventorypos/internal/application/catalog"
	"inventorypos/internal/domain/product"
	"inventorypos/internal/domain/quota"
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
	return fmt.Sprintf("id-%d", g.n)
}

type fixture struct {
	shops    *memory.ShopRepository
	products *memory.ProductRepository
	users    *memory.UserRepository
	svc      *catalog.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	shops := memory.NewShopRepository()
	products := memory.NewProductRepository()
	users := memory.NewUserRepository()
	svc := catalog.NewService(shops, products, users, &seqIDGen{}, observability.Nop())
	return &fixture{shops: shops, products: products, users: users, svc: svc}
}

func TestCreateShopEnforcesSingleShopPerOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.svc.CreateShop(ctx, catalog.CreateShopInput{
		OwnerEmail: "owner@example.com",
		Fields:     shop.Fields{OwnerID: "uid-1", Name: "first"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = f.svc.CreateShop(ctx, catalog.CreateShopInput{
		OwnerEmail: "owner@example.com",
		Fields:     shop.Fields{OwnerID: "uid-1", Name: "second"},
	})
	assert.ErrorIs(t, err, quota.ErrCapacityExceeded)

	// Other owners are unaffected.
	_, err = f.svc.CreateShop(ctx, catalog.CreateShopInput{
		OwnerEmail: "other@example.com",
		Fields:     shop.Fields{OwnerID: "uid-2", Name: "theirs"},
	})
	assert.NoError(t, err)
}

// The product cap is a fixed constant, not the per-user quota bought
// through payment plans: a user holding a 1500 limit is still capped at
// three products.
func TestCreateProductCapIgnoresPurchasedQuota(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := user.New("owner@example.com", "Owner", user.RoleRegular, "")
	u.ProductLimit = 1500
	require.NoError(t, f.users.Insert(ctx, u))

	for i := 0; i < 3; i++ {
		_, err := f.svc.CreateProduct(ctx, catalog.CreateProductInput{
			OwnerEmail: "owner@example.com",
			Fields:     product.Fields{Name: fmt.Sprintf("item-%d", i), Quantity: 1, Cost: "10", Profit: "1"},
		})
		require.NoError(t, err)
	}

	_, err := f.svc.CreateProduct(ctx, catalog.CreateProductInput{
		OwnerEmail: "owner@example.com",
		Fields:     product.Fields{Name: "one too many", Quantity: 1, Cost: "10", Profit: "1"},
	})
	assert.ErrorIs(t, err, quota.ErrCapacityExceeded)
}

func TestCreateProductRejectsNegativeQuantity(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateProduct(context.Background(), catalog.CreateProductInput{
		OwnerEmail: "owner@example.com",
		Fields:     product.Fields{Name: "bad", Quantity: -1},
	})
	assert.ErrorIs(t, err, product.ErrInvalidQuantity)
}

func TestReplaceProductIsFullOverwrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.svc.CreateProduct(ctx, catalog.CreateProductInput{
		OwnerEmail: "owner@example.com",
		Fields: product.Fields{
			Name:        "widget",
			Quantity:    5,
			Cost:        "10",
			Profit:      "2",
			Description: "a fine widget",
			Location:    "aisle 3",
		},
	})
	require.NoError(t, err)
	require.NoError(t, f.products.IncrementSaleCount(ctx, id))

	// Re-send only a subset; the rest must come back cleared.
	err = f.svc.ReplaceProduct(ctx, id, product.Fields{
		Name:     "widget v2",
		Quantity: 7,
		Cost:     "12",
		Profit:   "3",
	})
	require.NoError(t, err)

	got, err := f.svc.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "widget v2", got.Name)
	assert.Equal(t, 7, got.Quantity)
	assert.Empty(t, got.Description)
	assert.Empty(t, got.Location)
	// Identity and sale history live outside the replaced field set.
	assert.Equal(t, "owner@example.com", got.OwnerEmail)
	assert.Equal(t, 1, got.SaleCount)
}

func TestDeleteProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.svc.CreateProduct(ctx, catalog.CreateProductInput{
		OwnerEmail: "owner@example.com",
		Fields:     product.Fields{Name: "widget", Quantity: 1},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteProduct(ctx, id))

	_, err = f.svc.GetProduct(ctx, id)
	assert.ErrorIs(t, err, product.ErrNotFound)

	err = f.svc.DeleteProduct(ctx, id)
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestListProductsByOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, owner := range []string{"a@example.com", "a@example.com", "b@example.com"} {
		_, err := f.svc.CreateProduct(ctx, catalog.CreateProductInput{
			OwnerEmail: owner,
			Fields:     product.Fields{Name: "widget", Quantity: 1},
		})
		require.NoError(t, err)
	}

	mine, err := f.svc.ListProducts(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := f.svc.ListProducts(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRegisterUserIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.RegisterUser(ctx, catalog.RegisterUserInput{
		Email: "owner@example.com",
		Name:  "Owner",
		Role:  user.RoleAdmin,
	})
	require.NoError(t, err)
	assert.True(t, first.Created)

	second, err := f.svc.RegisterUser(ctx, catalog.RegisterUserInput{
		Email: "owner@example.com",
		Name:  "Someone Else",
	})
	require.NoError(t, err)
	assert.False(t, second.Created)

	// The original document is untouched by the repeat registration.
	got, err := f.users.FindByEmail(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Owner", got.Name)
	assert.Equal(t, user.RoleAdmin, got.Role)
}

func TestRegisterUserDefaultsRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RegisterUser(ctx, catalog.RegisterUserInput{Email: "owner@example.com"})
	require.NoError(t, err)

	got, err := f.users.FindByEmail(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.RoleRegular, got.Role)
}

func TestCreateShopRequiresOwnerEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateShop(context.Background(), catalog.CreateShopInput{})
	assert.ErrorIs(t, err, catalog.ErrValidation)
}
