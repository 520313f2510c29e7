package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wemahope/donations/internal/app/service/donation"
	"github.com/wemahope/donations/internal/app/service/reconciler"
	"github.com/wemahope/donations/internal/app/service/statistics"
	"github.com/wemahope/donations/internal/platform/stripe/stripe_payment"
	cfgpkg "github.com/wemahope/donations/pkg/config"
)

// RegisterDonationRoutes mounts the public donation API on r.
func RegisterDonationRoutes(r gin.IRouter, cfg *cfgpkg.Config, intents stripe_payment.IntentClient, donations *donation.Service, rec *reconciler.Service, stats *statistics.Service) {
	intent := r.Group("/intent")
	intent.POST("/create", ApiCreateIntent(cfg, intents, donations))
	intent.POST("/webhook", ApiStripeWebhook(rec))

	order := r.Group("/order")
	order.POST("/create", ApiCreateOrder(cfg, donations))
	order.POST("/confirm", ApiConfirmOrder(donations))

	r.GET("/donations", ApiListDonations(donations))
	r.GET("/donations/stats", ApiDonationStats(stats))
}
