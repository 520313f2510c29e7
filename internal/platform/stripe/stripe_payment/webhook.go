package stripe_payment

import (
	"errors"
	"fmt"

	stripe "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/fx"
)

// ErrInvalidEvent is returned for deliveries that fail signature
// verification or carry a payload that cannot be decoded. Nothing behind
// this error may mutate state.
var ErrInvalidEvent = errors.New("invalid webhook event")

// VerifyEvent checks the Stripe-Signature header against the signing secret
// and decodes the payload into a typed event. The account's API version may
// trail the SDK's pinned version, so version mismatches are not treated as
// verification failures.
func VerifyEvent(payload []byte, sigHeader, secret string) (*stripe.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	return &event, nil
}

var Module = fx.Options(
	fx.Provide(NewClient),
)
