package billing

import (
	"context"
	"errors"
	"fmt"

	"inventorypos/internal/domain/event"
	"inventorypos/internal/domain/payment"
	"inventorypos/internal/domain/quota"
	"inventorypos/internal/domain/shop"
	"inventorypos/internal/domain/user"
	"inventorypos/internal/observability"
	"inventorypos/internal/observability/logctx"
)

const componentBilling = "billing_service"

var (
	ErrRepository = errors.New("billing: repository failure")
	ErrValidation = errors.New("billing: invalid input")
)

// Service records payments and propagates the purchased quota tier to the
// paying user and, for admins, to their shop.
type Service struct {
	payments   payment.Repository
	users      user.Repository
	shops      shop.Repository
	idGen      IDGenerator
	authorizer ChargeAuthorizer
	publisher  event.Publisher

	log              observability.Logger
	paymentsRecorded observability.Counter
}

func NewService(
	payments payment.Repository,
	users user.Repository,
	shops shop.Repository,
	idGen IDGenerator,
	authorizer ChargeAuthorizer,
	publisher event.Publisher,
	tel observability.Observability,
) *Service {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Service{
		payments:         payments,
		users:            users,
		shops:            shops,
		idGen:            idGen,
		authorizer:       authorizer,
		publisher:        publisher,
		log:              tel.Logger().With(observability.F("component", componentBilling)),
		paymentsRecorded: tel.Metrics().Counter(observability.MPaymentsRecorded),
	}
}

type RecordPaymentInput struct {
	Email  string
	UserID string
	Plan   string
	Amount float64
	Role   user.Role
}

type RecordPaymentResult struct {
	PaymentID    string
	ProductLimit int
}

// RecordPayment persists the payment, resolves the plan's tier, and
// applies it: the user's productLimit is SET to the tier (absolute,
// keyed by email); an admin's shop gets the tier ADDED to its
// productLimit and the amount ADDED to its income, matched on OwnerID
// rather than email. The shop update's outcome is logged but never
// surfaced to the caller.
func (s *Service) RecordPayment(ctx context.Context, in RecordPaymentInput) (*RecordPaymentResult, error) {
	logger := logctx.FromOr(ctx, s.log)

	if in.Email == "" {
		return nil, fmt.Errorf("%w: payer email is required", ErrValidation)
	}

	rec := payment.NewRecord(s.idGen.NewID(), in.Email, in.UserID, in.Plan, in.Amount, in.Role)
	if err := s.payments.Append(ctx, rec); err != nil {
		logger.Error("payment_append_failed",
			observability.F("email", in.Email),
			observability.F("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}

	tier := quota.TierForPlan(in.Plan)

	if err := s.users.SetProductLimit(ctx, in.Email, tier); err != nil {
		logger.Error("user_quota_update_failed",
			observability.F("email", in.Email),
			observability.F("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}

	if in.Role == user.RoleAdmin {
		if err := s.shops.GrantQuota(ctx, in.UserID, tier, in.Amount); err != nil {
			// Not surfaced; the payment and user update already stand.
			logger.Warn("shop_quota_grant_failed",
				observability.F("owner_id", in.UserID),
				observability.F("error", err.Error()),
			)
		}
	}

	s.paymentsRecorded.Add(1, observability.L("plan", in.Plan))

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, payment.NewRecordedEvent(rec, tier)); err != nil {
			logger.Warn("payment_event_publish_failed",
				observability.F("payment_id", rec.ID),
				observability.F("error", err.Error()),
			)
		}
	}

	logger.Info("payment_recorded",
		observability.F("payment_id", rec.ID),
		observability.F("plan", in.Plan),
		observability.F("quota", tier),
	)

	return &RecordPaymentResult{PaymentID: rec.ID, ProductLimit: tier}, nil
}

// AuthorizeCharge asks the gateway for an authorization token. Amount is
// in the currency's minor unit.
func (s *Service) AuthorizeCharge(ctx context.Context, amount int64, currency string) (Authorization, error) {
	if amount <= 0 {
		return Authorization{}, fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	}
	if currency == "" {
		currency = "usd"
	}
	if s.authorizer == nil {
		return Authorization{}, errors.New("billing: no payment gateway configured")
	}
	return s.authorizer.AuthorizeCharge(ctx, amount, currency)
}
