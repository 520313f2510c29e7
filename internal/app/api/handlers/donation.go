package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v81"

	"github.com/wemahope/donations/internal/app/service/donation"
	"github.com/wemahope/donations/internal/platform/stripe/stripe_payment"
	cfgpkg "github.com/wemahope/donations/pkg/config"
	"github.com/wemahope/donations/pkg/response"
	"github.com/wemahope/donations/pkg/types"
)

type donationRequest struct {
	Amount     json.Number `json:"amount"`
	DonorName  *string     `json:"donorName"`
	DonorEmail *string     `json:"donorEmail"`
}

// parseAmount validates the requested amount: a positive integer in minor
// currency units. Fractional or non-numeric input is a client error.
func parseAmount(n json.Number) (int64, error) {
	if n == "" {
		return 0, errors.New("amount is required")
	}
	v, err := n.Int64()
	if err != nil {
		return 0, errors.New("amount must be a valid number")
	}
	if v <= 0 {
		return 0, errors.New("amount must be positive")
	}
	return v, nil
}

type createIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
	DonationID   string `json:"donationId"`
}

type createOrderResponse struct {
	DonationID string `json:"donationId"`
}

// @Summary      Create Stripe payment intent
// @Description  Creates a provider-side payment intent and a local pending donation record.
// @Tags         Donation
// @Accept       json
// @Produce      json
// @Param        request body handlers.donationRequest true "Donation request"
// @Success      201  {object}  handlers.createIntentResponse
// @Failure      400  {object}  response.ErrorBody
// @Failure      500  {object}  response.ErrorBody
// @Router       /intent/create [post]
func ApiCreateIntent(cfg *cfgpkg.Config, intents stripe_payment.IntentClient, donations *donation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req donationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Error("request body is required"))
			return
		}
		amount, err := parseAmount(req.Amount)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(err.Error()))
			return
		}

		intent, err := intents.CreateIntent(c.Request.Context(), amount, cfg.Currency)
		if err != nil {
			if errors.Is(err, stripe_payment.ErrNotConfigured) {
				c.JSON(http.StatusInternalServerError, response.Error("payment service not configured"))
				return
			}
			var sErr *stripe.Error
			if errors.As(err, &sErr) {
				c.JSON(http.StatusBadRequest, response.Error(sErr.Msg))
				return
			}
			c.JSON(http.StatusInternalServerError, response.Error("an unexpected error occurred"))
			return
		}

		// the local record is the last effect: a provider failure above
		// leaves no orphaned state behind
		d, err := donations.Create(c.Request.Context(), donation.CreateParams{
			DonorName:       req.DonorName,
			DonorEmail:      req.DonorEmail,
			Amount:          amount,
			Currency:        cfg.Currency,
			Provider:        types.PaymentProviderStripe,
			PaymentIntentID: &intent.ID,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.Error("an unexpected error occurred"))
			return
		}

		c.JSON(http.StatusCreated, createIntentResponse{ClientSecret: intent.ClientSecret, DonationID: d.ID})
	}
}

// @Summary      Create PayPal order
// @Description  Creates a local pending donation for a client-driven PayPal flow. No provider call happens server-side.
// @Tags         Donation
// @Accept       json
// @Produce      json
// @Param        request body handlers.donationRequest true "Donation request"
// @Success      201  {object}  handlers.createOrderResponse
// @Failure      400  {object}  response.ErrorBody
// @Router       /order/create [post]
func ApiCreateOrder(cfg *cfgpkg.Config, donations *donation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req donationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Error("request body is required"))
			return
		}
		amount, err := parseAmount(req.Amount)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(err.Error()))
			return
		}

		d, err := donations.Create(c.Request.Context(), donation.CreateParams{
			DonorName:  req.DonorName,
			DonorEmail: req.DonorEmail,
			Amount:     amount,
			Currency:   cfg.Currency,
			Provider:   types.PaymentProviderPaypal,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.Error("an unexpected error occurred"))
			return
		}

		c.JSON(http.StatusCreated, createOrderResponse{DonationID: d.ID})
	}
}

type confirmOrderRequest struct {
	DonationID string `json:"donationId"`
}

// @Summary      Confirm PayPal payment
// @Description  Marks a donation completed after the client-side SDK finished the charge. No provider verification happens here; there is no idempotency or prior-status guard either.
// @Tags         Donation
// @Accept       json
// @Produce      json
// @Param        request body handlers.confirmOrderRequest true "Confirmation request"
// @Success      200  {object}  response.SuccessBody
// @Failure      404  {object}  response.ErrorBody
// @Router       /order/confirm [post]
func ApiConfirmOrder(donations *donation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req confirmOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Error("request body is required"))
			return
		}
		if req.DonationID == "" {
			c.JSON(http.StatusBadRequest, response.Error("donation ID is required"))
			return
		}

		d, err := donations.FindByID(c.Request.Context(), req.DonationID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.Error("an unexpected error occurred"))
			return
		}
		if d == nil {
			c.JSON(http.StatusNotFound, response.Error("donation not found"))
			return
		}

		d.Status = types.DonationStatusCompleted
		if err := donations.Update(c.Request.Context(), d); err != nil {
			c.JSON(http.StatusInternalServerError, response.Error("an unexpected error occurred"))
			return
		}

		c.JSON(http.StatusOK, response.OK())
	}
}
