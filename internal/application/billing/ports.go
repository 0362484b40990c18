package billing

import "context"

type IDGenerator interface {
	NewID() string
}

// Authorization is the opaque token handed back to the client to complete
// a charge with the gateway.
type Authorization struct {
	ClientSecret string
}

// ChargeAuthorizer is the payment gateway boundary. The gateway is a
// black box here; only the authorization token crosses back.
type ChargeAuthorizer interface {
	AuthorizeCharge(ctx context.Context, amount int64, currency string) (Authorization, error)
}
