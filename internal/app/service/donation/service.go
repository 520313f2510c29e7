package donation

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wemahope/donations/internal/models"
	"github.com/wemahope/donations/pkg/tool"
	"github.com/wemahope/donations/pkg/types"
)

// Service is the donation record store: a thin gorm-backed CRUD layer over
// the donations table.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

type CreateParams struct {
	DonorName  *string
	DonorEmail *string
	Amount     int64
	Currency   string
	Provider   types.PaymentProvider
	// PaymentIntentID is set for Stripe flows; PayPal donations carry no
	// provider reference until confirmation.
	PaymentIntentID *string
}

// Create persists a new donation in pending state, assigning the id and
// timestamps.
func (s *Service) Create(ctx context.Context, p CreateParams) (*models.Donation, error) {
	if p.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %d", p.Amount)
	}
	if !p.Provider.Valid() {
		return nil, fmt.Errorf("unknown payment provider: %s", p.Provider)
	}
	d := &models.Donation{
		ID:              tool.GenerateUUIDV7(),
		DonorName:       p.DonorName,
		DonorEmail:      p.DonorEmail,
		Amount:          p.Amount,
		Currency:        p.Currency,
		Provider:        p.Provider,
		PaymentIntentID: p.PaymentIntentID,
		Status:          types.DonationStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(d).Error; err != nil {
		return nil, fmt.Errorf("failed to create donation: %w", err)
	}
	return d, nil
}

// FindByID returns the donation with the given id, or nil when absent.
func (s *Service) FindByID(ctx context.Context, id string) (*models.Donation, error) {
	var d models.Donation
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find donation: %w", err)
	}
	return &d, nil
}

// FindByIntentID returns the donation holding the given provider intent
// reference, or nil when no local record matches.
func (s *Service) FindByIntentID(ctx context.Context, intentID string) (*models.Donation, error) {
	var d models.Donation
	err := s.db.WithContext(ctx).Where("payment_intent_id = ?", intentID).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find donation by intent: %w", err)
	}
	return &d, nil
}

// Update persists mutated fields and refreshes updated_at.
func (s *Service) Update(ctx context.Context, d *models.Donation) error {
	if err := s.db.WithContext(ctx).Save(d).Error; err != nil {
		return fmt.Errorf("failed to update donation: %w", err)
	}
	return nil
}

// List returns all donations, newest first.
func (s *Service) List(ctx context.Context) ([]*models.Donation, error) {
	var rows []*models.Donation
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	return rows, nil
}

// Transaction runs fn against a tx-scoped store; all reads and writes inside
// fn commit or roll back together.
func (s *Service) Transaction(ctx context.Context, fn func(tx *Service) error) error {
	return s.db.WithContext(ctx).Transaction(func(txdb *gorm.DB) error {
		return fn(&Service{db: txdb, log: s.log})
	})
}
