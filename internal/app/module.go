package app

import (
	"time"

	"github.com/wemahope/donations/internal/app/api/server"
	"github.com/wemahope/donations/internal/app/service/donation"
	"github.com/wemahope/donations/internal/app/service/reconciler"
	"github.com/wemahope/donations/internal/app/service/statistics"
	"github.com/wemahope/donations/internal/app/service/webhook_log"
	"github.com/wemahope/donations/internal/platform/db"
	"github.com/wemahope/donations/internal/platform/stripe/stripe_payment"
	"github.com/wemahope/donations/pkg/config"
	"github.com/wemahope/donations/pkg/logger"

	"go.uber.org/fx"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	server.Module,
	stripe_payment.Module,
	donation.Module,
	webhook_log.Module,
	reconciler.Module,
	statistics.Module,
)
