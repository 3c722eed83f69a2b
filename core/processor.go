package core

import "context"

// PaymentProcessor requests a charge handle from the external payment
// processor. Amounts are integer minor units (cents).
type PaymentProcessor interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (clientSecret string, err error)
}
