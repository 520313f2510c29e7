package statistics

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/wemahope/donations/internal/models"
	"github.com/wemahope/donations/pkg/types"
)

// DailyStatItem is one aggregate bucket keyed by day (and currency where the
// measure is an amount).
type DailyStatItem struct {
	Date  string `json:"date"`
	Label string `json:"label,omitempty"`
	Value int64  `json:"value"`
}

type DonationStats struct {
	// DailyCount is donation attempts per day, all statuses.
	DailyCount []DailyStatItem `json:"daily_count"`
	// DailyCompleted sums received amounts of completed donations per day,
	// grouped by currency.
	DailyCompleted []DailyStatItem `json:"daily_completed"`
}

// Service provides administrative aggregates over the donations table.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) getDailyCount(ctx context.Context) ([]DailyStatItem, error) {
	var results []DailyStatItem
	q := s.db.WithContext(ctx).Table((models.Donation{}).TableName()).
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') as date, count(*) as value").
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Order("date DESC")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyCompleted(ctx context.Context) ([]DailyStatItem, error) {
	var results []DailyStatItem
	q := s.db.WithContext(ctx).Table((models.Donation{}).TableName()).
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') as date, currency as label, sum(COALESCE(amount_received, amount)) as value").
		Where("status = ?", types.DonationStatusCompleted).
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Group("currency").
		Order("date DESC")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) GetDonationStats(ctx context.Context) (*DonationStats, error) {
	count, err := s.getDailyCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily count: %w", err)
	}
	completed, err := s.getDailyCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily completed: %w", err)
	}
	return &DonationStats{DailyCount: count, DailyCompleted: completed}, nil
}
