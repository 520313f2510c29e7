package reconciler

import (
	"encoding/json"

	stripe "github.com/stripe/stripe-go/v81"
)

// EventKind is the closed set of webhook event kinds the reconciler acts on,
// plus a catch-all for every other recognized delivery. New provider event
// types land in EventKindOther instead of silently drifting.
type EventKind string

const (
	EventKindIntentCreated   EventKind = "intent_created"
	EventKindIntentSucceeded EventKind = "intent_succeeded"
	EventKindIntentFailed    EventKind = "intent_failed"
	EventKindChargeRefunded  EventKind = "charge_refunded"
	// EventKindOther: no status change, but the idempotency stamp still
	// advances so a replay of the same delivery is detected.
	EventKindOther EventKind = "other"
)

// Event is the decoded view of one verified webhook delivery.
type Event struct {
	ID       string
	Type     string
	Kind     EventKind
	IntentID string

	// set on intent_succeeded
	ChargeID       string
	AmountReceived int64
	Currency       string

	// set on intent_failed
	FailureReason string
}

// fallbackFailureReason is recorded when a failed payment carries no nested
// error object.
const fallbackFailureReason = "unknown"

// DecodeEvent maps a verified Stripe event onto the internal union. Payload
// fields are extracted tolerantly: partial or older-schema payloads must not
// fail decoding, they just yield fewer fields.
func DecodeEvent(ev *stripe.Event) Event {
	out := Event{ID: ev.ID, Type: string(ev.Type), Kind: EventKindOther}

	switch ev.Type {
	case stripe.EventTypePaymentIntentCreated,
		stripe.EventTypePaymentIntentSucceeded,
		stripe.EventTypePaymentIntentPaymentFailed:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil {
			out.IntentID = extractIntentRef(ev.Data.Raw)
			return out
		}
		out.IntentID = pi.ID
		switch ev.Type {
		case stripe.EventTypePaymentIntentCreated:
			out.Kind = EventKindIntentCreated
		case stripe.EventTypePaymentIntentSucceeded:
			out.Kind = EventKindIntentSucceeded
			out.AmountReceived = pi.AmountReceived
			out.Currency = string(pi.Currency)
			if pi.LatestCharge != nil {
				out.ChargeID = pi.LatestCharge.ID
			}
		case stripe.EventTypePaymentIntentPaymentFailed:
			out.Kind = EventKindIntentFailed
			out.FailureReason = fallbackFailureReason
			if pi.LastPaymentError != nil && pi.LastPaymentError.Msg != "" {
				out.FailureReason = pi.LastPaymentError.Msg
			}
		}
	case stripe.EventTypeChargeRefunded:
		var ch stripe.Charge
		if err := json.Unmarshal(ev.Data.Raw, &ch); err != nil {
			out.IntentID = extractIntentRef(ev.Data.Raw)
			return out
		}
		out.Kind = EventKindChargeRefunded
		out.ChargeID = ch.ID
		if ch.PaymentIntent != nil {
			out.IntentID = ch.PaymentIntent.ID
		}
	default:
		out.IntentID = extractIntentRef(ev.Data.Raw)
	}
	return out
}

// extractIntentRef digs a payment intent reference out of an arbitrary event
// object: either the object is itself a payment intent, or it points at one
// via a payment_intent field (string id or expanded object).
func extractIntentRef(raw json.RawMessage) string {
	var obj struct {
		ID            string          `json:"id"`
		Object        string          `json:"object"`
		PaymentIntent json.RawMessage `json:"payment_intent"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	if len(obj.PaymentIntent) > 0 {
		var s string
		if json.Unmarshal(obj.PaymentIntent, &s) == nil && s != "" {
			return s
		}
		var nested struct {
			ID string `json:"id"`
		}
		if json.Unmarshal(obj.PaymentIntent, &nested) == nil && nested.ID != "" {
			return nested.ID
		}
	}
	if obj.Object == "payment_intent" {
		return obj.ID
	}
	return ""
}
