package handlers

import (
	"net/http"

	"travelbooking/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type verifyRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}

// GET /api/admin/dashboard
func (a API) AdminDashboard(c *gin.Context) {
	d, err := a.Reports.AdminDashboard(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// GET /api/admin/payments/statistics?days
func (a API) PaymentStatistics(c *gin.Context) {
	days, ok := queryInt64(c, "days", 30)
	if !ok {
		return
	}
	st, err := a.Reports.PaymentStatistics(c.Request.Context(), middleware.Caller(c), int(days))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// GET /api/admin/reports/revenue?year
func (a API) RevenueReport(c *gin.Context) {
	year, ok := queryInt64(c, "year", 0)
	if !ok {
		return
	}
	rows, err := a.Reports.RevenueByMonth(c.Request.Context(), middleware.Caller(c), int(year))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revenue": rows})
}

// GET /api/admin/reports/top-hotels
func (a API) TopHotelsReport(c *gin.Context) {
	rows, err := a.Reports.TopHotels(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hotels": rows})
}

// GET /api/admin/reports/customers
func (a API) CustomerReport(c *gin.Context) {
	rows, err := a.Reports.CustomerAnalytics(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": rows})
}

// PUT /api/admin/partners/:id/verify
func (a API) VerifyPartner(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req verifyRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	p, err := a.Partners.Verify(c.Request.Context(), middleware.Caller(c), id, *req.Verified)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
