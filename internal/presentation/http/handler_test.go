package httppresentation_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	appBilling "inventorypos/internal/application/billing"
	appCart "inventorypos/internal/application/cart"
	appCatalog "inventorypos/internal/application/catalog"
	appSelling "inventorypos/internal/application/selling"
	"inventorypos/internal/infrastructure/memory"
	"inventorypos/internal/observability"
	httppresentation "inventorypos/internal/presentation/http"

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

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	shops := memory.NewShopRepository()
	products := memory.NewProductRepository()
	users := memory.NewUserRepository()
	carts := memory.NewCartRepository()
	sales := memory.NewSaleRepository()
	payments := memory.NewPaymentRepository()

	idGen := &seqIDGen{}
	tel := observability.Nop()

	handler := httppresentation.NewHandler(
		appCatalog.NewService(shops, products, users, idGen, tel),
		appSelling.NewSellUseCase(products, sales, idGen, nil, tel),
		appSelling.NewSaleQuery(sales),
		appBilling.NewService(payments, users, shops, idGen, nil, nil, tel),
		appCart.NewService(carts, idGen),
		tel,
	)

	srv := httptest.NewServer(handler.Router())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&decoded)
	}
	return resp, decoded
}

func createProduct(t *testing.T, srv *httptest.Server, quantity int) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/products", map[string]any{
		"ownerEmail": "owner@example.com",
		"name":       "widget",
		"quantity":   quantity,
		"cost":       "100",
		"profit":     "20",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestShopCreationQuota(t *testing.T) {
	srv := newServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/shop", map[string]any{
		"ownerEmail": "owner@example.com",
		"ownerId":    "uid-1",
		"name":       "first",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/shop", map[string]any{
		"ownerEmail": "owner@example.com",
		"ownerId":    "uid-1",
		"name":       "second",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body["error"], "limit")
}

func TestSellProduct(t *testing.T) {
	srv := newServer(t)
	id := createProduct(t, srv, 1)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/products/"+id+"/sell", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.InDelta(t, 127.5, body["sellingPrice"], 1e-9)
	assert.EqualValues(t, 0, body["remaining"])

	// Stock is gone; the next attempt is refused.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/products/"+id+"/sell", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// The refused attempt still appended to the ledger.
	resp, sale := doJSON(t, http.MethodGet, srv.URL+"/products/"+id+"/sale", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, sale["Quantity"])
}

func TestSellUnknownProduct(t *testing.T) {
	srv := newServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/products/ghost/sell", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReplaceProductClearsOmittedFields(t *testing.T) {
	srv := newServer(t)
	id := createProduct(t, srv, 5)

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/products/"+id, map[string]any{
		"name":     "widget v2",
		"quantity": 9,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/products/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "widget v2", body["Name"])
	assert.EqualValues(t, 9, body["Quantity"])
	assert.Empty(t, body["Cost"])
	assert.Equal(t, "owner@example.com", body["OwnerEmail"])
}

func TestDeleteProduct(t *testing.T) {
	srv := newServer(t)
	id := createProduct(t, srv, 1)

	resp, _ := doJSON(t, http.MethodDelete, srv.URL+"/products/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/products/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegisterUserTwice(t *testing.T) {
	srv := newServer(t)

	payload := map[string]any{"email": "owner@example.com", "name": "Owner", "role": "admin"}

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/user", payload)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/user", payload)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "user already exists", body["message"])
}

func TestRecordPayment(t *testing.T) {
	srv := newServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/user", map[string]any{
		"email": "owner@example.com", "name": "Owner", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/payments", map[string]any{
		"email":  "owner@example.com",
		"userId": "uid-1",
		"plan":   "$20",
		"amount": 20,
		"role":   "admin",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.EqualValues(t, 450, body["productLimit"])
}

func TestCartLifecycle(t *testing.T) {
	srv := newServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/carts", map[string]any{
		"ownerEmail": "owner@example.com",
		"productId":  "p1",
		"quantity":   2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	itemID, _ := body["id"].(string)
	require.NotEmpty(t, itemID)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/carts?email=owner@example.com", nil)
	require.NoError(t, err)
	listResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer listResp.Body.Close()
	var items []map[string]any
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&items))
	assert.Len(t, items, 1)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/carts/"+itemID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/carts/"+itemID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCartRejectsZeroQuantity(t *testing.T) {
	srv := newServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/carts", map[string]any{
		"ownerEmail": "owner@example.com",
		"productId":  "p1",
		"quantity":   0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMalformedJSON(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Post(srv.URL+"/products", "application/json", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
