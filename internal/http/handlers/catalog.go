package handlers

import (
	"net/http"
	"strings"

	"travelbooking/internal/repositories"

	"github.com/gin-gonic/gin"
)

// GET /api/hotels?city&min_price&max_price
func (a API) SearchHotels(c *gin.Context) {
	minPrice, ok := queryInt64(c, "min_price", 0)
	if !ok {
		return
	}
	maxPrice, ok := queryInt64(c, "max_price", 0)
	if !ok {
		return
	}
	q := repositories.HotelSearch{
		City:     strings.TrimSpace(c.Query("city")),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}
	hotels, err := a.Catalog.SearchHotels(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hotels": hotels, "count": len(hotels)})
}

// GET /api/hotels/:id
func (a API) GetHotel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	hotel, err := a.Catalog.GetHotel(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, hotel)
}

// GET /api/hotels/:id/availability?check_in&check_out
func (a API) HotelAvailability(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rooms, err := a.Catalog.HotelAvailability(c.Request.Context(), id, c.Query("check_in"), c.Query("check_out"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"hotel_id":   id,
		"check_in":   c.Query("check_in"),
		"check_out":  c.Query("check_out"),
		"room_types": rooms,
	})
}

// GET /api/room-types/:id/availability?check_in&check_out
func (a API) RoomTypeAvailability(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	room, err := a.Catalog.RoomTypeAvailability(c.Request.Context(), id, c.Query("check_in"), c.Query("check_out"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// GET /api/flights?origin&destination&departure_date
func (a API) SearchFlights(c *gin.Context) {
	flights, err := a.Catalog.SearchFlights(c.Request.Context(),
		strings.TrimSpace(c.Query("origin")),
		strings.TrimSpace(c.Query("destination")),
		strings.TrimSpace(c.Query("departure_date")),
	)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flights": flights, "count": len(flights)})
}

// GET /api/flights/:id
func (a API) GetFlight(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	flight, err := a.Catalog.GetFlight(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}
