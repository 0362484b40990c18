package httppresentation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	appBilling "inventorypos/internal/application/billing"
	appCart "inventorypos/internal/application/cart"
	appCatalog "inventorypos/internal/application/catalog"
	appSelling "inventorypos/internal/application/selling"
	domainCart "inventorypos/internal/domain/cart"
	domainProduct "inventorypos/internal/domain/product"
	domainQuota "inventorypos/internal/domain/quota"
	domainSale "inventorypos/internal/domain/sale"
	domainShop "inventorypos/internal/domain/shop"
	domainUser "inventorypos/internal/domain/user"
	"inventorypos/internal/observability"
	"inventorypos/internal/observability/logctx"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	componentHTTPHandler = "http_server"
	headerRequestID      = "X-Request-ID"
)

type Handler struct {
	catalog   *appCatalog.Service
	selling   *appSelling.SellUseCase
	saleQuery *appSelling.SaleQuery
	billing   *appBilling.Service
	carts     *appCart.Service
	log       observability.Logger
	tel       observability.Observability
}

func NewHandler(
	catalog *appCatalog.Service,
	selling *appSelling.SellUseCase,
	saleQuery *appSelling.SaleQuery,
	billing *appBilling.Service,
	carts *appCart.Service,
	tel observability.Observability,
) *Handler {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Handler{
		catalog:   catalog,
		selling:   selling,
		saleQuery: saleQuery,
		billing:   billing,
		carts:     carts,
		log:       tel.Logger().With(observability.F("component", componentHTTPHandler)),
		tel:       tel,
	}
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	h.muxHandle(mux, http.MethodGet, "/shop", h.handleListShops)
	h.muxHandle(mux, http.MethodPost, "/shop", h.handleCreateShop)

	h.muxHandle(mux, http.MethodGet, "/products", h.handleListProducts)
	h.muxHandle(mux, http.MethodPost, "/products", h.handleCreateProduct)
	h.muxHandle(mux, http.MethodGet, "/products/{id}", h.handleGetProduct)
	h.muxHandle(mux, http.MethodPut, "/products/{id}", h.handleReplaceProduct)
	h.muxHandle(mux, http.MethodDelete, "/products/{id}", h.handleDeleteProduct)

	h.muxHandle(mux, http.MethodPost, "/products/{id}/sell", h.handleSellProduct)
	h.muxHandle(mux, http.MethodGet, "/products/{id}/sale", h.handleGetSale)

	h.muxHandle(mux, http.MethodPost, "/user", h.handleRegisterUser)

	h.muxHandle(mux, http.MethodPost, "/create-payment-intent", h.handleCreatePaymentIntent)
	h.muxHandle(mux, http.MethodPost, "/payments", h.handleRecordPayment)

	h.muxHandle(mux, http.MethodGet, "/carts", h.handleListCartItems)
	h.muxHandle(mux, http.MethodPost, "/carts", h.handleAddCartItem)
	h.muxHandle(mux, http.MethodDelete, "/carts/{id}", h.handleRemoveCartItem)

	h.muxHandle(mux, http.MethodGet, "/health", h.handleHealth)

	return mux
}

// muxHandle registers a route with the middleware chain:
// Trace → request logger → access log → metrics → handler.
func (h *Handler) muxHandle(mux *http.ServeMux, method, route string, handler http.HandlerFunc) {
	mux.HandleFunc(method+" "+route, func(w http.ResponseWriter, r *http.Request) {
		// Stable route template for low-cardinality labels.
		ctx := contextWithRoute(r.Context(), route)
		r = r.WithContext(ctx)

		wrapped := h.withTrace(
			ObservabilityMiddleware(
				logctx.FromOr(ctx, h.log),
				func(r *http.Request) string {
					return r.Header.Get(headerRequestID)
				},
			)(
				h.withAccessLog(
					h.withHTTPMetrics(http.HandlerFunc(handler)),
				),
			),
		)
		wrapped.ServeHTTP(w, r)
	})
}

type createShopRequest struct {
	OwnerEmail string `json:"ownerEmail"`
	OwnerID    string `json:"ownerId"`
	Name       string `json:"name"`
	Logo       string `json:"logo"`
}

func (h *Handler) handleCreateShop(w http.ResponseWriter, r *http.Request) {
	var req createShopRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	id, err := h.catalog.CreateShop(r.Context(), appCatalog.CreateShopInput{
		OwnerEmail: req.OwnerEmail,
		Fields: domainShop.Fields{
			OwnerID: req.OwnerID,
			Name:    req.Name,
			Logo:    req.Logo,
		},
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) handleListShops(w http.ResponseWriter, r *http.Request) {
	shops, err := h.catalog.ListShops(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shops)
}

type productRequest struct {
	OwnerEmail  string `json:"ownerEmail"`
	Name        string `json:"name"`
	ImageURL    string `json:"imageUrl"`
	Quantity    int    `json:"quantity"`
	Cost        string `json:"cost"`
	Profit      string `json:"profit"`
	Discount    string `json:"discount"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

func (r productRequest) fields() domainProduct.Fields {
	return domainProduct.Fields{
		Name:        r.Name,
		ImageURL:    r.ImageURL,
		Quantity:    r.Quantity,
		Cost:        r.Cost,
		Profit:      r.Profit,
		Discount:    r.Discount,
		Description: r.Description,
		Location:    r.Location,
	}
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	id, err := h.catalog.CreateProduct(r.Context(), appCatalog.CreateProductInput{
		OwnerEmail: req.OwnerEmail,
		Fields:     req.fields(),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleReplaceProduct is a full overwrite, not a merge: the whole field
// set is applied and omitted fields end up cleared.
func (h *Handler) handleReplaceProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.catalog.ReplaceProduct(r.Context(), r.PathValue("id"), req.fields()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": r.PathValue("id")})
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sellProductResponse struct {
	SaleID       string  `json:"saleId"`
	SellingPrice float64 `json:"sellingPrice"`
	Remaining    int     `json:"remaining"`
}

func (h *Handler) handleSellProduct(w http.ResponseWriter, r *http.Request) {
	result, err := h.selling.Execute(r.Context(), appSelling.SellInput{
		ProductID: r.PathValue("id"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sellProductResponse{
		SaleID:       result.SaleID,
		SellingPrice: result.SellingPrice,
		Remaining:    result.Remaining,
	})
}

func (h *Handler) handleGetSale(w http.ResponseWriter, r *http.Request) {
	rec, err := h.saleQuery.ByProductID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type registerUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Logo  string `json:"logo"`
}

func (h *Handler) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.catalog.RegisterUser(r.Context(), appCatalog.RegisterUserInput{
		Email: req.Email,
		Name:  req.Name,
		Role:  domainUser.Role(req.Role),
		Logo:  req.Logo,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !result.Created {
		writeJSON(w, http.StatusOK, map[string]any{"message": "user already exists"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"email": req.Email})
}

type createPaymentIntentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (h *Handler) handleCreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req createPaymentIntentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	auth, err := h.billing.AuthorizeCharge(r.Context(), req.Amount, req.Currency)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"clientSecret": auth.ClientSecret})
}

type recordPaymentRequest struct {
	Email  string  `json:"email"`
	UserID string  `json:"userId"`
	Plan   string  `json:"plan"`
	Amount float64 `json:"amount"`
	Role   string  `json:"role"`
}

func (h *Handler) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var req recordPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.billing.RecordPayment(r.Context(), appBilling.RecordPaymentInput{
		Email:  req.Email,
		UserID: req.UserID,
		Plan:   req.Plan,
		Amount: req.Amount,
		Role:   domainUser.Role(req.Role),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"paymentId":    result.PaymentID,
		"productLimit": result.ProductLimit,
	})
}

type addCartItemRequest struct {
	OwnerEmail string `json:"ownerEmail"`
	ProductID  string `json:"productId"`
	Quantity   int    `json:"quantity"`
}

func (h *Handler) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	id, err := h.carts.Add(r.Context(), appCart.AddInput{
		OwnerEmail: req.OwnerEmail,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) handleListCartItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.carts.ListByOwner(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// withAccessLog writes a single access log after the handler completes,
// using the request-scoped logger injected by ObservabilityMiddleware.
func (h *Handler) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(lrw, r)

		logctx.FromOr(r.Context(), h.log).Info("http_access",
			observability.F("method", r.Method),
			observability.F("route", routeFromContext(r.Context())),
			observability.F("path", r.URL.Path),
			observability.F("status", lrw.status),
			observability.F("latency_ms", time.Since(start).Milliseconds()),
		)
	})
}

// withTrace creates a server span for the request using OTel and W3C propagation.
func (h *Handler) withTrace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tracer := otel.Tracer("inventorypos.http")
		parentCtx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		route := routeFromContext(parentCtx)
		spanName := r.Method + " " + route
		if route == "unknown" {
			spanName = r.Method + " " + r.URL.Path
		}

		ctxWithSpan, span := tracer.Start(parentCtx,
			spanName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("http.target", r.URL.Path),
				attribute.String("http.user_agent", r.UserAgent()),
			),
		)
		defer span.End()

		next.ServeHTTP(w, r.WithContext(ctxWithSpan))
	})
}

// withHTTPMetrics records request count and duration with low-cardinality
// route labels.
func (h *Handler) withHTTPMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(lrw, r)

		route := routeFromContext(r.Context())
		statusLabel := http.StatusText(lrw.status)
		metrics := h.tel.Metrics()
		metrics.Counter(observability.MHTTPRequests).Add(1,
			observability.L("method", r.Method),
			observability.L("route", route),
			observability.L("status", statusLabel),
		)
		metrics.Histogram(observability.MHTTPRequestDuration).Observe(time.Since(start).Seconds(),
			observability.L("method", r.Method),
			observability.L("route", route),
		)
	})
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeDomainError maps domain failures to responses. Capacity and
// out-of-stock rejections carry their explanatory text; everything
// unexpected collapses to a generic failure without internal detail.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainQuota.ErrCapacityExceeded):
		writeError(w, http.StatusForbidden, err)
	case errors.Is(err, domainProduct.ErrOutOfStock):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, domainProduct.ErrNotFound),
		errors.Is(err, domainSale.ErrNotFound),
		errors.Is(err, domainShop.ErrNotFound),
		errors.Is(err, domainUser.ErrNotFound),
		errors.Is(err, domainCart.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domainProduct.ErrInvalidQuantity),
		errors.Is(err, domainCart.ErrInvalidQuantity),
		errors.Is(err, appSelling.ErrValidation),
		errors.Is(err, appCatalog.ErrValidation),
		errors.Is(err, appBilling.ErrValidation),
		errors.Is(err, appCart.ErrValidation):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

type routeKey struct{}

func contextWithRoute(ctx context.Context, route string) context.Context {
	if route == "" {
		return ctx
	}
	return context.WithValue(ctx, routeKey{}, route)
}

func routeFromContext(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	if route, ok := ctx.Value(routeKey{}).(string); ok && route != "" {
		return route
	}
	return "unknown"
}
