package handlers

import (
	"net/http"

	"travelbooking/internal/http/middleware"
	"travelbooking/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/partner/dashboard
func (a API) PartnerDashboard(c *gin.Context) {
	d, err := a.Partners.Dashboard(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// GET /api/partner/profile
func (a API) PartnerProfile(c *gin.Context) {
	p, err := a.Partners.Profile(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// PUT /api/partner/profile
func (a API) UpdatePartnerProfile(c *gin.Context) {
	var req services.PartnerProfileInput
	if !BindJSONOrError(c, &req) {
		return
	}
	p, err := a.Partners.UpdateProfile(c.Request.Context(), middleware.Caller(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// POST /api/partner/hotels
func (a API) CreateHotel(c *gin.Context) {
	var req services.HotelInput
	if !BindJSONOrError(c, &req) {
		return
	}
	h, err := a.Catalog.CreateHotel(c.Request.Context(), middleware.Caller(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h)
}

// PUT /api/partner/hotels/:id
func (a API) UpdateHotel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.HotelInput
	if !BindJSONOrError(c, &req) {
		return
	}
	h, err := a.Catalog.UpdateHotel(c.Request.Context(), middleware.Caller(c), id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, h)
}

// DELETE /api/partner/hotels/:id
func (a API) DeleteHotel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := a.Catalog.DeleteHotel(c.Request.Context(), middleware.Caller(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "hotel deleted"})
}

// GET /api/partner/hotels/:id/statistics
func (a API) HotelStatistics(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	st, err := a.Catalog.HotelStatistics(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// POST /api/partner/hotels/:id/rooms
func (a API) CreateRoomType(c *gin.Context) {
	hotelID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.RoomTypeInput
	if !BindJSONOrError(c, &req) {
		return
	}
	rt, err := a.Catalog.CreateRoomType(c.Request.Context(), middleware.Caller(c), hotelID, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rt)
}

// PUT /api/partner/rooms/:id
func (a API) UpdateRoomType(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.RoomTypeInput
	if !BindJSONOrError(c, &req) {
		return
	}
	rt, err := a.Catalog.UpdateRoomType(c.Request.Context(), middleware.Caller(c), id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rt)
}

// DELETE /api/partner/rooms/:id
func (a API) DeleteRoomType(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := a.Catalog.DeleteRoomType(c.Request.Context(), middleware.Caller(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "room type deleted"})
}

// POST /api/partner/flights
func (a API) CreateFlight(c *gin.Context) {
	var req services.FlightInput
	if !BindJSONOrError(c, &req) {
		return
	}
	f, err := a.Catalog.CreateFlight(c.Request.Context(), middleware.Caller(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

// PUT /api/partner/flights/:id
func (a API) UpdateFlight(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.FlightInput
	if !BindJSONOrError(c, &req) {
		return
	}
	f, err := a.Catalog.UpdateFlight(c.Request.Context(), middleware.Caller(c), id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// DELETE /api/partner/flights/:id
func (a API) DeleteFlight(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := a.Catalog.DeleteFlight(c.Request.Context(), middleware.Caller(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "flight deleted"})
}
