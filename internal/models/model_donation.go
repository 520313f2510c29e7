package models

import (
	"time"

	"github.com/wemahope/donations/pkg/types"
)

// Donation is one row per donation attempt. Amount is stored in minor
// currency units and never changes after creation; only the reconciler and
// the manual confirmation path mutate the remaining fields.
type Donation struct {
	ID         string  `gorm:"column:id;primary_key;type:uuid" json:"id"`
	DonorName  *string `gorm:"column:donor_name;type:varchar(120)" json:"donorName"`
	DonorEmail *string `gorm:"column:donor_email;type:varchar(120)" json:"donorEmail"`
	Amount     int64   `gorm:"column:amount;type:bigint;not null" json:"amount"`
	// AmountReceived is set only on success and may differ from Amount.
	AmountReceived *int64                `gorm:"column:amount_received;type:bigint" json:"amountReceived"`
	Currency       string                `gorm:"column:currency;type:varchar(10);not null" json:"currency"`
	Provider       types.PaymentProvider `gorm:"column:payment_provider;type:varchar(20);not null;index" json:"paymentProvider"`
	// PaymentIntentID is the provider-side intent reference. Present for
	// Stripe flows, absent for PayPal flows. Unique when present (one intent
	// maps to at most one donation); Postgres allows repeated NULLs.
	PaymentIntentID *string `gorm:"column:payment_intent_id;type:varchar(255);uniqueIndex" json:"paymentIntentId"`
	// ChargeID is the provider-side charge reference, set only on success.
	ChargeID      *string              `gorm:"column:charge_id;type:varchar(255)" json:"chargeId"`
	Status        types.DonationStatus `gorm:"column:status;type:varchar(30);not null" json:"status"`
	FailureReason *string              `gorm:"column:failure_reason;type:text" json:"failureReason"`
	// LastStripeEventID is the idempotency stamp: the id of the last provider
	// event applied to this row. Unique when present so replays of one
	// donation's events can never collide with another's.
	LastStripeEventID *string   `gorm:"column:last_stripe_event_id;type:varchar(255);uniqueIndex" json:"lastStripeEventId"`
	CreatedAt         time.Time `gorm:"index:idx_donation_created_at,sort:desc" json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (Donation) TableName() string {
	return "donations"
}
