// Package processorsvc implements core.PaymentProcessor on Stripe's
// PaymentIntents API.
package processorsvc

import (
	"context"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"

	"github.com/darasahq/backend/core"
)

type StripeProcessor struct {
	api *client.API
}

var _ core.PaymentProcessor = (*StripeProcessor)(nil)

func NewStripeProcessor(conf *core.Config) *StripeProcessor {
	api := &client.API{}
	api.Init(conf.StripeSecretKey, nil)
	return &StripeProcessor{api: api}
}

func (p *StripeProcessor) CreateIntent(ctx context.Context, amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context:        ctx,
			IdempotencyKey: stripe.String(uuid.NewString()),
		},
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
	}
	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return "", core.UpstreamError(err, "payment processor")
	}
	return pi.ClientSecret, nil
}
