package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/wemahope/donations/internal/app/service/donation"
	"github.com/wemahope/donations/internal/app/service/statistics"
	"github.com/wemahope/donations/internal/models"
	"github.com/wemahope/donations/pkg/response"
)

// @Summary      List donations
// @Description  Returns all donation records, newest first, full field projection.
// @Tags         Admin
// @Produce      json
// @Success      200  {array}  models.Donation
// @Router       /donations [get]
func ApiListDonations(donations *donation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := donations.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.Error("failed to fetch donations"))
			return
		}
		c.JSON(http.StatusOK, lo.Map(rows, func(d *models.Donation, _ int) models.Donation { return *d }))
	}
}

// @Summary      Donation statistics
// @Description  Daily donation counts and completed amount totals by currency.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  statistics.DonationStats
// @Router       /donations/stats [get]
func ApiDonationStats(stats *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := stats.GetDonationStats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.Error("failed to fetch statistics"))
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
