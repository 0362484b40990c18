package stripe

import (
	"context"
	"fmt"

	"inventorypos/internal/application/billing"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// Client implements billing.ChargeAuthorizer against Stripe. A payment
// intent is created for the amount and the client secret is handed back;
// the actual charge completes client-side against the gateway.
type Client struct{}

func NewClient(secretKey string) *Client {
	stripe.Key = secretKey
	return &Client{}
}

func (c *Client) AuthorizeCharge(ctx context.Context, amount int64, currency string) (billing.Authorization, error) {
	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return billing.Authorization{}, fmt.Errorf("stripe: create payment intent: %w", err)
	}
	return billing.Authorization{ClientSecret: pi.ClientSecret}, nil
}
