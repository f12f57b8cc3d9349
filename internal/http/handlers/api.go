package handlers

import (
	"travelbooking/internal/services"
)

// API binds the HTTP surface to the services behind it.
type API struct {
	Auth     services.AuthService
	Catalog  services.CatalogService
	Bookings services.BookingService
	Payments services.PaymentService
	Receipts services.ReceiptService
	Partners services.PartnerService
	Reports  services.ReportsService
}
