package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wemahope/donations/internal/app/service/reconciler"
	"github.com/wemahope/donations/internal/platform/stripe/stripe_payment"
	"github.com/wemahope/donations/pkg/logctx"
	"github.com/wemahope/donations/pkg/response"
)

// @Summary      Stripe Webhook
// @Description  Handles asynchronous Stripe payment events. The request body is the raw event payload, authenticated by the Stripe-Signature header.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.SuccessBody
// @Failure      400  {object}  response.ErrorBody
// @Router       /intent/webhook [post]
func ApiStripeWebhook(rec *reconciler.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logctx.FromGin(c, rec.Logger)
		log.Infow("webhook_stripe_received")

		payload, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error("invalid payload"))
			return
		}

		err = rec.Process(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
		if err != nil {
			log.Errorw("webhook_stripe_handle_error", "error", err.Error())
			switch {
			case errors.Is(err, reconciler.ErrWebhookNotConfigured):
				c.JSON(http.StatusInternalServerError, response.Error("webhook not configured"))
			case errors.Is(err, stripe_payment.ErrInvalidEvent):
				c.JSON(http.StatusBadRequest, response.Error("invalid signature"))
			default:
				c.JSON(http.StatusInternalServerError, response.Error("an unexpected error occurred"))
			}
			return
		}

		log.Infow("webhook_stripe_handled")
		c.JSON(http.StatusOK, response.OK())
	}
}
