package reconciler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wemahope/donations/internal/app/service/donation"
	"github.com/wemahope/donations/internal/app/service/webhook_log"
	"github.com/wemahope/donations/internal/models"
	"github.com/wemahope/donations/pkg/config"
	"github.com/wemahope/donations/pkg/types"
)

const testSecret = "whsec_test"

func newTestReconciler(t *testing.T, secret string) (*Service, *donation.Service) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Donation{}, &models.WebhookEventLog{}))

	log := zap.NewNop().Sugar()
	donations := donation.New(db, log)
	cfg := &config.Config{Currency: "usd", Stripe: config.StripeConfig{WebhookSecret: secret}}
	return New(cfg, donations, webhook_log.New(db, log), log), donations
}

func sign(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func deliver(t *testing.T, svc *Service, payload string) error {
	t.Helper()
	return svc.Process(context.Background(), []byte(payload), sign([]byte(payload), testSecret))
}

func pendingStripeDonation(t *testing.T, donations *donation.Service, intentID string, amount int64) *models.Donation {
	t.Helper()
	d, err := donations.Create(context.Background(), donation.CreateParams{
		Amount:          amount,
		Currency:        "usd",
		Provider:        types.PaymentProviderStripe,
		PaymentIntentID: lo.ToPtr(intentID),
	})
	require.NoError(t, err)
	return d
}

func succeededPayload(eventID, intentID string, amount int64) string {
	return fmt.Sprintf(`{"id":%q,"type":"payment_intent.succeeded","data":{"object":{"id":%q,"object":"payment_intent","amount":%d,"amount_received":%d,"currency":"usd","latest_charge":"ch_1"}}}`,
		eventID, intentID, amount, amount)
}

func TestProcess_MissingSecretDisablesWebhooks(t *testing.T) {
	svc, _ := newTestReconciler(t, "")
	err := svc.Process(context.Background(), []byte(`{}`), "t=1,v1=abc")
	require.ErrorIs(t, err, ErrWebhookNotConfigured)
}

func TestProcess_BadSignatureNeverMutates(t *testing.T) {
	svc, donations := newTestReconciler(t, testSecret)
	d := pendingStripeDonation(t, donations, "pi_1", 5000)

	payload := succeededPayload("evt_1", "pi_1", 5000)
	badSig := sign([]byte(payload), "whsec_wrong")
	err := svc.Process(context.Background(), []byte(payload), badSig)
	require.Error(t, err)

	got, err := donations.FindByID(context.Background(), d.ID)
	require.NoError(t, err)
	require.Equal(t, types.DonationStatusPending, got.Status)
	require.Nil(t, got.LastStripeEventID)
}

func TestProcess_IntentSucceeded(t *testing.T) {
	svc, donations := newTestReconciler(t, testSecret)
	d := pendingStripeDonation(t, donations, "pi_1", 5000)

	require.NoError(t, deliver(t, svc, succeededPayload("evt_100", "pi_1", 5000)))

	got, err := donations.FindByID(context.Background(), d.ID)
	require.NoError(t, err)
	require.Equal(t, types.DonationStatusCompleted, got.Status)
	require.Equal(t, int64(5000), *got.AmountReceived)
	require.Equal(t, "ch_1", *got.ChargeID)
	require.Equal(t, "evt_100", *got.LastStripeEventID)
}

func TestProcess_ReplayedEventIsIdempotent(t *testing.T) {
	svc, donations := newTestReconciler(t, testSecret)
	d := pendingStripeDonation(t, donations, "pi_1", 5000)

	payload := succeededPayload("evt_100", "pi_1", 5000)
	require.NoError(t, deliver(t, svc, payload))

	first, err := donations.FindByID(context.Background(), d.ID)
	require.NoError(t, err)

	// provider redelivery of the identical event
	require.NoError(t, deliver(t, svc, payload))

	second, err := donations.FindByID(context.Background(), d.ID)
	require.NoError(t, err)
	require.Equal(t, first.Status, second.Status)
	require.Equal(t, *first.AmountReceived, *second.AmountReceived)
	require.Equal(t, "evt_100", *second.LastStripeEventID)
}

func TestProcess_UnknownIntentIsAcknowledgedNoOp(t *testing.T) {
	svc, donations := newTestReconciler(t, testSecret)

	require.NoError(t, deliver(t, svc, succeededPayload("evt_1", "pi_not_ours", 900)))

	rows, err := donations.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestProcess_IntentCreatedMovesToProcessing(t *testing.T) {
	svc, donations := newTestReconciler(t, testSecret)
	d := pendingStripeDonation(t, donations, "pi_1", 5000)

	payload := `{"id":"evt_1","type":"payment_intent.created","data":{"object":{"id":"pi_1","object":"payment_intent"}}}`
	require.NoError(t, deliver(t, svc, payload))

	got, err := donations.FindByID(context.Background(), d.ID)
	require.NoError(t, err)
	require.Equal(t, types.DonationStatusProcessing, got.Status)
	require.Equal(t, "evt_1", *got.LastStripeEventID)
}

func TestProcess_PaymentFailedWithMessage(t *testing.T) {
	svc, donations := newTestReconciler(t, testSecret)
	d := pendingStripeDonation(t, donations, "pi_1", 5000)

	payload := `{"id":"evt_1","type":"payment_intent.payment_failed","data":{"object":{"id":"pi_1","object":"payment_intent","last_payment_error":{"message":"Your card was declined."}}}}`
	require.NoError(t, deliver(t, svc, payload))

	got, err := donations.FindByID(context.Background(), d.ID)
	require.NoError(t, err)
	require.Equal(t, types.DonationStatusFailed, got.Status)
	require.Equal(t, "Your card was declined.", *got.FailureReason)
}

func TestProcess_PaymentFailedWithoutErrorObject(t *testing.T) {
	svc, donations := newTestReconciler(t, testSecret)
	d := pendingStripeDonation(t, donations, "pi_1", 5000)

	payload := `{"id":"evt_1","type":"payment_intent.payment_failed","data":{"object":{"id":"pi_1","object":"payment_intent"}}}`
	require.NoError(t, deliver(t, svc, payload))

	got, err := donations.FindByID(context.Background(), d.ID)
	require.NoError(t, err)
	require.Equal(t, types.DonationStatusFailed, got.Status)
	require.Equal(t, "unknown", *got.FailureReason)
}

func TestProcess_RefundAfterCompletion(t *testing.T) {
	svc, donations := newTestReconciler(t, testSecret)
	d := pendingStripeDonation(t, donations, "pi_1", 5000)

	require.NoError(t, deliver(t, svc, succeededPayload("evt_100", "pi_1", 5000)))
	// re-delivery of the success event changes nothing
	require.NoError(t, deliver(t, svc, succeededPayload("evt_100", "pi_1", 5000)))

	refund := `{"id":"evt_101","type":"charge.refunded","data":{"object":{"id":"ch_1","object":"charge","payment_intent":"pi_1"}}}`
	require.NoError(t, deliver(t, svc, refund))

	got, err := donations.FindByID(context.Background(), d.ID)
	require.NoError(t, err)
	require.Equal(t, types.DonationStatusRefunded, got.Status)
	require.Equal(t, "evt_101", *got.LastStripeEventID)
}

func TestProcess_RefundBeforeCompletionStampsWithoutTransition(t *testing.T) {
	svc, donations := newTestReconciler(t, testSecret)
	d := pendingStripeDonation(t, donations, "pi_1", 5000)

	refund := `{"id":"evt_1","type":"charge.refunded","data":{"object":{"id":"ch_1","object":"charge","payment_intent":"pi_1"}}}`
	require.NoError(t, deliver(t, svc, refund))

	got, err := donations.FindByID(context.Background(), d.ID)
	require.NoError(t, err)
	require.Equal(t, types.DonationStatusPending, got.Status)
	require.Equal(t, "evt_1", *got.LastStripeEventID)
}

func TestProcess_LateNonTerminalEventDoesNotRevert(t *testing.T) {
	svc, donations := newTestReconciler(t, testSecret)
	d := pendingStripeDonation(t, donations, "pi_1", 5000)

	require.NoError(t, deliver(t, svc, succeededPayload("evt_1", "pi_1", 5000)))

	// payment_intent.created delivered out of order, after the terminal event
	late := `{"id":"evt_2","type":"payment_intent.created","data":{"object":{"id":"pi_1","object":"payment_intent"}}}`
	require.NoError(t, deliver(t, svc, late))

	got, err := donations.FindByID(context.Background(), d.ID)
	require.NoError(t, err)
	require.Equal(t, types.DonationStatusCompleted, got.Status)
	require.Equal(t, "evt_2", *got.LastStripeEventID)
}

func TestProcess_UnrecognizedEventStampsWithoutTransition(t *testing.T) {
	svc, donations := newTestReconciler(t, testSecret)
	d := pendingStripeDonation(t, donations, "pi_1", 5000)

	payload := `{"id":"evt_1","type":"payment_intent.canceled","data":{"object":{"id":"pi_1","object":"payment_intent"}}}`
	require.NoError(t, deliver(t, svc, payload))

	got, err := donations.FindByID(context.Background(), d.ID)
	require.NoError(t, err)
	require.Equal(t, types.DonationStatusPending, got.Status)
	require.Equal(t, "evt_1", *got.LastStripeEventID)
}

// Full lifecycle from the product scenario: pending -> completed via
// evt_100, replay ignored, refunded via evt_101.
func TestProcess_DonationLifecycle(t *testing.T) {
	svc, donations := newTestReconciler(t, testSecret)
	d := pendingStripeDonation(t, donations, "pi_life", 5000)
	require.Equal(t, types.DonationStatusPending, d.Status)

	require.NoError(t, deliver(t, svc, succeededPayload("evt_100", "pi_life", 5000)))
	got, err := donations.FindByID(context.Background(), d.ID)
	require.NoError(t, err)
	require.Equal(t, types.DonationStatusCompleted, got.Status)
	require.Equal(t, int64(5000), *got.AmountReceived)
	require.Equal(t, "evt_100", *got.LastStripeEventID)

	require.NoError(t, deliver(t, svc, succeededPayload("evt_100", "pi_life", 5000)))

	refund := `{"id":"evt_101","type":"charge.refunded","data":{"object":{"id":"ch_1","object":"charge","payment_intent":"pi_life"}}}`
	require.NoError(t, deliver(t, svc, refund))
	got, err = donations.FindByID(context.Background(), d.ID)
	require.NoError(t, err)
	require.Equal(t, types.DonationStatusRefunded, got.Status)
	require.Equal(t, "evt_101", *got.LastStripeEventID)
}
