package stripe_payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// signPayload produces a Stripe-Signature header value for payload using the
// documented scheme: v1 = HMAC-SHA256(secret, "<timestamp>.<payload>").
func signPayload(payload []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", at.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyEvent_ValidSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","object":"payment_intent"}}}`)
	secret := "whsec_test"

	ev, err := VerifyEvent(payload, signPayload(payload, secret, time.Now()), secret)
	require.NoError(t, err)
	require.Equal(t, "evt_1", ev.ID)
	require.Equal(t, "payment_intent.succeeded", string(ev.Type))
}

func TestVerifyEvent_WrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)

	_, err := VerifyEvent(payload, signPayload(payload, "whsec_other", time.Now()), "whsec_test")
	require.ErrorIs(t, err, ErrInvalidEvent)
}

func TestVerifyEvent_TamperedPayload(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	secret := "whsec_test"
	header := signPayload(payload, secret, time.Now())

	tampered := []byte(`{"id":"evt_1","type":"charge.refunded"}`)
	_, err := VerifyEvent(tampered, header, secret)
	require.ErrorIs(t, err, ErrInvalidEvent)
}

func TestVerifyEvent_GarbageHeader(t *testing.T) {
	_, err := VerifyEvent([]byte(`{}`), "not-a-signature", "whsec_test")
	require.ErrorIs(t, err, ErrInvalidEvent)
}
