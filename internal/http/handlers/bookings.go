package handlers

import (
	"net/http"

	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"
	"travelbooking/internal/http/middleware"
	"travelbooking/internal/services"

	"github.com/gin-gonic/gin"
)

// bookingResponse adds the payment flags clients use to decide whether to
// show the pay button.
type bookingResponse struct {
	models.Booking
	HasPayment       bool `json:"has_payment"`
	PaymentCompleted bool `json:"payment_completed"`
}

func toBookingResponse(b models.Booking) bookingResponse {
	out := bookingResponse{Booking: b}
	if b.Payment != nil {
		out.HasPayment = true
		out.PaymentCompleted = b.Payment.Status == domain.PaymentCompleted
	}
	return out
}

// POST /api/bookings/hotel
func (a API) CreateHotelBooking(c *gin.Context) {
	var req services.HotelBookingInput
	if !BindJSONOrError(c, &req) {
		return
	}
	b, err := a.Bookings.CreateHotelBooking(c.Request.Context(), middleware.Caller(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "hotel booking created", "booking": toBookingResponse(b)})
}

// POST /api/bookings/flight
func (a API) CreateFlightBooking(c *gin.Context) {
	var req services.FlightBookingInput
	if !BindJSONOrError(c, &req) {
		return
	}
	b, err := a.Bookings.CreateFlightBooking(c.Request.Context(), middleware.Caller(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "flight booking created", "booking": toBookingResponse(b)})
}

// GET /api/bookings
func (a API) ListBookings(c *gin.Context) {
	list, err := a.Bookings.ListBookings(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	out := make([]bookingResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBookingResponse(b))
	}
	c.JSON(http.StatusOK, gin.H{"bookings": out, "count": len(out)})
}

// GET /api/bookings/:booking_id
func (a API) GetBooking(c *gin.Context) {
	b, err := a.Bookings.GetBooking(c.Request.Context(), middleware.Caller(c), c.Param("booking_id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

// POST /api/bookings/:booking_id/cancel
func (a API) CancelBooking(c *gin.Context) {
	b, err := a.Bookings.CancelBooking(c.Request.Context(), middleware.Caller(c), c.Param("booking_id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled", "booking": toBookingResponse(b)})
}
