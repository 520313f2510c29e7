package reconciler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/wemahope/donations/internal/app/service/donation"
	"github.com/wemahope/donations/internal/app/service/webhook_log"
	"github.com/wemahope/donations/internal/models"
	"github.com/wemahope/donations/internal/platform/stripe/stripe_payment"
	"github.com/wemahope/donations/pkg/config"
	"github.com/wemahope/donations/pkg/logctx"
	"github.com/wemahope/donations/pkg/metrics"
	"github.com/wemahope/donations/pkg/types"
)

// ErrWebhookNotConfigured is returned when no signing secret is configured.
// Processing is disabled outright in that case; unverified events are never
// accepted.
var ErrWebhookNotConfigured = errors.New("webhook not configured")

// Service applies verified provider events to donation records. It is the
// trust boundary for asynchronous payment outcomes: signature verification
// first, then an idempotent status transition inside one storage
// transaction.
type Service struct {
	cfg       *config.Config
	donations *donation.Service
	events    *webhook_log.Service
	Logger    *zap.SugaredLogger
}

func New(cfg *config.Config, donations *donation.Service, events *webhook_log.Service, log *zap.SugaredLogger) *Service {
	return &Service{cfg: cfg, donations: donations, events: events, Logger: log}
}

// Process verifies and applies one raw webhook delivery. The returned error
// is one of the exported sentinels for caller-visible failures; a nil return
// means the delivery was acknowledged, including the discard cases (unknown
// intent reference, replayed event id, transition that maps to no allowed
// edge).
func (s *Service) Process(ctx context.Context, payload []byte, sigHeader string) (resErr error) {
	if s.cfg.Stripe.WebhookSecret == "" {
		return ErrWebhookNotConfigured
	}

	raw, err := stripe_payment.VerifyEvent(payload, sigHeader, s.cfg.Stripe.WebhookSecret)
	if err != nil {
		return err
	}
	event := DecodeEvent(raw)

	traceID, _ := ctx.Value("traceID").(string)
	s.events.Save(ctx, &models.WebhookEventLog{
		ProviderID: string(types.PaymentProviderStripe),
		TraceID:    traceID,
		EventID:    event.ID,
		EventType:  event.Type,
		Data:       datatypes.JSON(payload),
		Status:     models.WebhookEventLogStatusReceived,
	})
	defer func() {
		status := models.WebhookEventLogStatusHandled
		resMap := map[string]any{"kind": event.Kind}
		if resErr != nil {
			status = models.WebhookEventLogStatusHandleFailed
			resMap["error"] = resErr.Error()
		}
		resBytes, _ := json.Marshal(resMap)
		s.events.Save(ctx, &models.WebhookEventLog{
			ProviderID: string(types.PaymentProviderStripe),
			TraceID:    traceID,
			EventID:    event.ID,
			EventType:  event.Type,
			Data:       datatypes.JSON(payload),
			Result:     func() *datatypes.JSON { j := datatypes.JSON(resBytes); return &j }(),
			Status:     status,
		})
	}()

	log := logctx.FromCtx(ctx, s.Logger)

	if event.IntentID == "" {
		// nothing to reconcile against; acknowledge and move on
		log.Infow("webhook_event_discarded", "event_id", event.ID, "event_type", event.Type)
		metrics.WebhookEvents.WithLabelValues(event.Type, "discarded").Inc()
		return nil
	}

	resErr = s.donations.Transaction(ctx, func(tx *donation.Service) error {
		d, err := tx.FindByIntentID(ctx, event.IntentID)
		if err != nil {
			return err
		}
		if d == nil {
			// an intent this system did not create (or whose record failed
			// to persist); acknowledged but discarded
			log.Infow("webhook_unknown_intent", "event_id", event.ID, "intent_id", event.IntentID)
			return nil
		}
		if d.LastStripeEventID != nil && *d.LastStripeEventID == event.ID {
			log.Infow("webhook_event_replayed", "event_id", event.ID, "donation_id", d.ID)
			return nil
		}

		prev := d.Status
		applyTransition(d, event)
		if d.Status != prev {
			metrics.DonationTransitions.WithLabelValues(string(prev), string(d.Status)).Inc()
		}

		// stamp on every recognized event, no-op kinds included, so a replay
		// arriving while processing is pending is still detected
		d.LastStripeEventID = lo.ToPtr(event.ID)
		return tx.Update(ctx, d)
	})
	if resErr != nil {
		metrics.WebhookEvents.WithLabelValues(event.Type, "failed").Inc()
		resErr = fmt.Errorf("failed to apply webhook event %s: %w", event.ID, resErr)
		return resErr
	}

	metrics.WebhookEvents.WithLabelValues(event.Type, "handled").Inc()
	log.Infow("webhook_event_applied", "event_id", event.ID, "event_type", event.Type)
	return nil
}

// targetStatus maps an event kind to the status it drives toward. The second
// return is false for kinds that never change status.
func targetStatus(kind EventKind) (types.DonationStatus, bool) {
	switch kind {
	case EventKindIntentCreated:
		return types.DonationStatusProcessing, true
	case EventKindIntentSucceeded:
		return types.DonationStatusCompleted, true
	case EventKindIntentFailed:
		return types.DonationStatusFailed, true
	case EventKindChargeRefunded:
		return types.DonationStatusRefunded, true
	default:
		return "", false
	}
}

// applyTransition mutates d in place per the event kind. Transitions outside
// the allowed lifecycle edges are ignored; terminal states never revert.
func applyTransition(d *models.Donation, event Event) {
	next, ok := targetStatus(event.Kind)
	if !ok || !d.Status.CanTransitionTo(next) {
		return
	}

	d.Status = next
	switch event.Kind {
	case EventKindIntentSucceeded:
		d.AmountReceived = lo.ToPtr(event.AmountReceived)
		if event.ChargeID != "" {
			d.ChargeID = lo.ToPtr(event.ChargeID)
		}
		if event.Currency != "" {
			d.Currency = event.Currency
		}
	case EventKindIntentFailed:
		reason := event.FailureReason
		if reason == "" {
			reason = fallbackFailureReason
		}
		d.FailureReason = lo.ToPtr(reason)
	}
}
