package handlers

import (
	"net/http"
	"strings"

	"travelbooking/internal/domain/models"
	"travelbooking/internal/http/middleware"
	"travelbooking/internal/services"

	"github.com/gin-gonic/gin"
)

type refundRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// POST /api/bookings/:booking_id/payment
//
// A declined charge still answers 200 with success=false so the client
// can offer a retry.
func (a API) SubmitPayment(c *gin.Context) {
	var req services.PaymentInput
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := a.Payments.SubmitPayment(c.Request.Context(), middleware.Caller(c), c.Param("booking_id"), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/payments/:payment_id/process
func (a API) ProcessPayment(c *gin.Context) {
	out, err := a.Payments.ProcessPayment(c.Request.Context(), middleware.Caller(c), c.Param("payment_id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/payments?status&method
func (a API) ListPayments(c *gin.Context) {
	f := models.PaymentFilter{
		Status: strings.TrimSpace(c.Query("status")),
		Method: strings.TrimSpace(c.Query("method")),
	}
	list, err := a.Payments.ListPayments(c.Request.Context(), middleware.Caller(c), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": list, "count": len(list)})
}

// GET /api/payments/:payment_id
func (a API) GetPayment(c *gin.Context) {
	p, err := a.Payments.GetPayment(c.Request.Context(), middleware.Caller(c), c.Param("payment_id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /api/payments/:payment_id/receipt
func (a API) PaymentReceipt(c *gin.Context) {
	pdfBytes, filename, err := a.Receipts.Generate(c.Request.Context(), middleware.Caller(c), c.Param("payment_id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// POST /api/payments/:payment_id/refund
func (a API) RefundPayment(c *gin.Context) {
	var req refundRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	res, err := a.Payments.RefundPayment(c.Request.Context(), middleware.Caller(c), c.Param("payment_id"), req.Reason)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !res.Success {
		c.JSON(http.StatusBadRequest, res)
		return
	}
	c.JSON(http.StatusOK, res)
}
