package stripe_payment

import (
	"context"
	"errors"

	stripe "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"

	cfgpkg "github.com/wemahope/donations/pkg/config"
)

// ErrNotConfigured is returned when no Stripe secret key is configured.
var ErrNotConfigured = errors.New("payment service not configured")

// Intent is the slice of a created payment intent the rest of the service
// needs: the provider-side reference and the client-side secret the donor's
// browser uses to complete payment.
type Intent struct {
	ID           string
	ClientSecret string
}

// IntentClient creates provider-side payment intents. The production
// implementation wraps the Stripe API client; tests inject fakes.
type IntentClient interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error)
}

type Client struct {
	api *client.API
}

func NewClient(cfg *cfgpkg.Config) IntentClient {
	c := &Client{}
	if cfg.Stripe.SecretKey != "" {
		c.api = &client.API{}
		c.api.Init(cfg.Stripe.SecretKey, nil)
	}
	return c
}

// CreateIntent creates a payment intent for amount in minor units of
// currency, with redirect-free automatic payment methods and platform
// metadata attached.
func (c *Client) CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error) {
	if c.api == nil {
		return nil, ErrNotConfigured
	}

	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("platform", "wema-donations")

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, err
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}
