package webhook_log

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wemahope/donations/internal/models"
	"github.com/wemahope/donations/pkg/logctx"
	"github.com/wemahope/donations/pkg/tool"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// Save asynchronously persists a webhook event log row. Best-effort: audit
// failures are logged, never propagated. Nil input is ignored.
func (s *Service) Save(ctx context.Context, row *models.WebhookEventLog) {
	go func() {
		if row == nil {
			return
		}
		if row.ID == "" {
			row.ID = tool.GenerateUUIDV7()
		}
		if err := s.db.Save(row).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save webhook event log: %v", err)
		}
	}()
}
