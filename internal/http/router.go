package api

import (
	stdhttp "net/http"

	intconfig "travelbooking/internal/config"
	"travelbooking/internal/domain"
	h "travelbooking/internal/http/handlers"
	"travelbooking/internal/http/middleware"
	"travelbooking/internal/logger"
	"travelbooking/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(env intconfig.Env, a h.API, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(m), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.L().Warn("failed to set trusted proxies", "error", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	secret := []byte(env.JWTSecret)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/register", a.Register)
		auth.POST("/login", a.Login)

		// Catalog (public)
		hotels := api.Group("/hotels")
		hotels.GET("", a.SearchHotels)
		hotels.GET("/:id", a.GetHotel)
		hotels.GET("/:id/availability", a.HotelAvailability)
		api.GET("/room-types/:id/availability", a.RoomTypeAvailability)
		flights := api.Group("/flights")
		flights.GET("", a.SearchFlights)
		flights.GET("/:id", a.GetFlight)

		// Bookings & payments
		customer := api.Group("", middleware.Auth(secret), middleware.RequireRoles(domain.RoleCustomer, domain.RoleAdmin))
		bookings := customer.Group("/bookings")
		bookings.POST("/hotel", a.CreateHotelBooking)
		bookings.POST("/flight", a.CreateFlightBooking)
		bookings.GET("", a.ListBookings)
		bookings.GET("/:booking_id", a.GetBooking)
		bookings.POST("/:booking_id/cancel", a.CancelBooking)
		bookings.POST("/:booking_id/payment", a.SubmitPayment)

		payments := customer.Group("/payments")
		payments.GET("", a.ListPayments)
		payments.GET("/:payment_id", a.GetPayment)
		payments.POST("/:payment_id/process", a.ProcessPayment)
		payments.GET("/:payment_id/receipt", a.PaymentReceipt)
		payments.POST("/:payment_id/refund", a.RefundPayment)

		// Partner inventory
		partner := api.Group("/partner", middleware.Auth(secret), middleware.RequireRoles(domain.RolePartner, domain.RoleAdmin))
		partner.GET("/dashboard", a.PartnerDashboard)
		partner.GET("/profile", a.PartnerProfile)
		partner.PUT("/profile", a.UpdatePartnerProfile)
		partner.POST("/hotels", a.CreateHotel)
		partner.PUT("/hotels/:id", a.UpdateHotel)
		partner.DELETE("/hotels/:id", a.DeleteHotel)
		partner.GET("/hotels/:id/statistics", a.HotelStatistics)
		partner.POST("/hotels/:id/rooms", a.CreateRoomType)
		partner.PUT("/rooms/:id", a.UpdateRoomType)
		partner.DELETE("/rooms/:id", a.DeleteRoomType)
		partner.POST("/flights", a.CreateFlight)
		partner.PUT("/flights/:id", a.UpdateFlight)
		partner.DELETE("/flights/:id", a.DeleteFlight)

		// Admin
		admin := api.Group("/admin", middleware.Auth(secret), middleware.RequireRoles(domain.RoleAdmin))
		admin.GET("/dashboard", a.AdminDashboard)
		admin.GET("/payments/statistics", a.PaymentStatistics)
		admin.GET("/reports/revenue", a.RevenueReport)
		admin.GET("/reports/top-hotels", a.TopHotelsReport)
		admin.GET("/reports/customers", a.CustomerReport)
		admin.PUT("/partners/:id/verify", a.VerifyPartner)
	}

	h.SetRouter(r)
	return r
}
