package reconciler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v81"
)

func stripeEvent(t *testing.T, id, typ, object string) *stripe.Event {
	t.Helper()
	return &stripe.Event{
		ID:   id,
		Type: stripe.EventType(typ),
		Data: &stripe.EventData{Raw: json.RawMessage(object)},
	}
}

func TestDecodeEvent_Succeeded(t *testing.T) {
	ev := stripeEvent(t, "evt_1", "payment_intent.succeeded",
		`{"id":"pi_1","object":"payment_intent","amount":5000,"amount_received":4800,"currency":"eur","latest_charge":"ch_9"}`)

	got := DecodeEvent(ev)
	require.Equal(t, EventKindIntentSucceeded, got.Kind)
	require.Equal(t, "pi_1", got.IntentID)
	require.Equal(t, int64(4800), got.AmountReceived)
	require.Equal(t, "eur", got.Currency)
	require.Equal(t, "ch_9", got.ChargeID)
}

func TestDecodeEvent_SucceededWithExpandedCharge(t *testing.T) {
	ev := stripeEvent(t, "evt_1", "payment_intent.succeeded",
		`{"id":"pi_1","object":"payment_intent","amount_received":100,"latest_charge":{"id":"ch_9","object":"charge"}}`)

	got := DecodeEvent(ev)
	require.Equal(t, EventKindIntentSucceeded, got.Kind)
	require.Equal(t, "ch_9", got.ChargeID)
}

func TestDecodeEvent_FailedWithoutErrorObject(t *testing.T) {
	ev := stripeEvent(t, "evt_1", "payment_intent.payment_failed",
		`{"id":"pi_1","object":"payment_intent"}`)

	got := DecodeEvent(ev)
	require.Equal(t, EventKindIntentFailed, got.Kind)
	require.Equal(t, "unknown", got.FailureReason)
}

func TestDecodeEvent_FailedWithMessage(t *testing.T) {
	ev := stripeEvent(t, "evt_1", "payment_intent.payment_failed",
		`{"id":"pi_1","object":"payment_intent","last_payment_error":{"message":"card declined"}}`)

	got := DecodeEvent(ev)
	require.Equal(t, "card declined", got.FailureReason)
}

func TestDecodeEvent_ChargeRefunded_StringIntentRef(t *testing.T) {
	ev := stripeEvent(t, "evt_1", "charge.refunded",
		`{"id":"ch_1","object":"charge","payment_intent":"pi_1"}`)

	got := DecodeEvent(ev)
	require.Equal(t, EventKindChargeRefunded, got.Kind)
	require.Equal(t, "pi_1", got.IntentID)
	require.Equal(t, "ch_1", got.ChargeID)
}

func TestDecodeEvent_ChargeRefunded_ExpandedIntentRef(t *testing.T) {
	ev := stripeEvent(t, "evt_1", "charge.refunded",
		`{"id":"ch_1","object":"charge","payment_intent":{"id":"pi_1","object":"payment_intent"}}`)

	got := DecodeEvent(ev)
	require.Equal(t, EventKindChargeRefunded, got.Kind)
	require.Equal(t, "pi_1", got.IntentID)
}

func TestDecodeEvent_UnrecognizedTypeFallsToOther(t *testing.T) {
	ev := stripeEvent(t, "evt_1", "payment_intent.canceled",
		`{"id":"pi_1","object":"payment_intent"}`)

	got := DecodeEvent(ev)
	require.Equal(t, EventKindOther, got.Kind)
	require.Equal(t, "pi_1", got.IntentID)
}

func TestDecodeEvent_UnrecognizedTypeWithIndirectIntentRef(t *testing.T) {
	ev := stripeEvent(t, "evt_1", "charge.dispute.created",
		`{"id":"dp_1","object":"dispute","payment_intent":"pi_1"}`)

	got := DecodeEvent(ev)
	require.Equal(t, EventKindOther, got.Kind)
	require.Equal(t, "pi_1", got.IntentID)
}

func TestDecodeEvent_UnrecognizedObjectWithoutIntentRef(t *testing.T) {
	ev := stripeEvent(t, "evt_1", "customer.created",
		`{"id":"cus_1","object":"customer"}`)

	got := DecodeEvent(ev)
	require.Equal(t, EventKindOther, got.Kind)
	require.Empty(t, got.IntentID)
}
