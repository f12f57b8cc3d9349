package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	intconfig "travelbooking/internal/config"
	"travelbooking/internal/domain"
	"travelbooking/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}

// asCustomer stands in for the auth middleware.
func asCustomer(id int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", id)
		c.Set("userRole", domain.RoleCustomer)
		c.Next()
	}
}

func TestRespondDomainErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ValidationError{Field: "x", Msg: "bad"}, http.StatusBadRequest, "validation_error"},
		{domain.NotFoundError{Resource: "booking"}, http.StatusNotFound, "not_found"},
		{domain.ConflictError{Msg: "dup"}, http.StatusConflict, "conflict"},
		{domain.InvalidStateError{Resource: "booking", Status: "cancelled"}, http.StatusConflict, "invalid_state"},
		{domain.AuthorizationError{Action: "x"}, http.StatusForbidden, "forbidden"},
		{services.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		RespondDomainError(c, tc.err)

		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		assert.Contains(t, w.Body.String(), `"code":"`+tc.code+`"`)
	}
}

func TestInternalErrorHidesDetail(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	RespondDomainError(c, domain.InternalError{Err: errors.New("dial tcp 10.0.0.3:3306")})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
}

func TestBindJSONOrErrorEmptyBody(t *testing.T) {
	r := gin.New()
	a := API{}
	r.POST("/login", a.Login)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "empty body")
}

func TestParamIDRejectsGarbage(t *testing.T) {
	r := gin.New()
	a := API{}
	r.GET("/hotels/:id", a.GetHotel)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hotels/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_id")
}

func TestFlightBookingRejectsUnknownTitle(t *testing.T) {
	r := gin.New()
	a := API{}
	r.POST("/bookings/flight", asCustomer(5), a.CreateFlightBooking)

	body := `{"flight_id":1,"number_of_passengers":1,"passengers":[
		{"title":"Sir","first_name":"Ada","last_name":"Lovelace","date_of_birth":"1990-01-01"}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings/flight", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "passenger_title")
}

func TestPaymentRejectsUnknownMethod(t *testing.T) {
	r := gin.New()
	a := API{}
	r.POST("/bookings/:booking_id/payment", asCustomer(5), a.SubmitPayment)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings/bk-1/payment", bytes.NewBufferString(`{"payment_method":"barter"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "payment_method")
}

func TestGetBookingIncludesPaymentFlags(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	in := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`LEFT JOIN payments p ON p.booking_id = b.id\s+WHERE b.booking_id = \?`).WithArgs("bk-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "user_id", "booking_type", "status", "total_amount",
			"notes", "created_at", "updated_at", "payment_id", "payment_status", "transaction_id"}).
			AddRow(int64(11), "bk-1", int64(5), "hotel", "confirmed", int64(400000), "", now, now,
				"pay-1", "completed", "TXN-0A1B2C3D4E5F"))
	mock.ExpectQuery("FROM hotel_booking_details d").WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"hotel_id", "hotel_name", "room_type_id", "room_type_name",
			"check_in_date", "check_out_date", "number_of_rooms", "number_of_guests", "price_per_night", "number_of_nights"}).
			AddRow(int64(3), "Harbour Inn", int64(7), "Deluxe", in, in.AddDate(0, 0, 2), 2, 3, int64(100000), 2))

	r := gin.New()
	a := API{Bookings: services.BookingService{DB: db}}
	r.GET("/bookings/:booking_id", asCustomer(5), a.GetBooking)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings/bk-1", nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"has_payment":true`)
	assert.Contains(t, w.Body.String(), `"payment_completed":true`)
	assert.Contains(t, w.Body.String(), `"hotel_name":"Harbour Inn"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBCheckWithoutDatabase(t *testing.T) {
	prev := intconfig.DB
	intconfig.DB = nil
	t.Cleanup(func() { intconfig.DB = prev })

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/db-check", nil)
	DBCheck(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "database not connected")
}

func TestDBCheckReportsCounts(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	prev := intconfig.DB
	intconfig.DB = db
	t.Cleanup(func() { intconfig.DB = prev })

	mock.ExpectPing()
	mock.ExpectQuery(`FROM hotels WHERE is_active=1`).
		WillReturnRows(sqlmock.NewRows([]string{"users", "hotels", "flights", "bookings"}).AddRow(12, 3, 4, 20))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/db-check", nil)
	DBCheck(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"database":"ok","counts":{"users":12,"active_hotels":3,"active_flights":4,"bookings":20}}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoutesSortedWithArea(t *testing.T) {
	r := gin.New()
	r.GET("/api/bookings", func(*gin.Context) {})
	r.GET("/api/admin/dashboard", func(*gin.Context) {})
	r.OPTIONS("/*path", func(*gin.Context) {})
	SetRouter(r)
	t.Cleanup(func() { SetRouter(nil) })

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/routes", nil)
	Routes(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":2,"routes":[
		{"method":"GET","path":"/api/admin/dashboard","area":"admin"},
		{"method":"GET","path":"/api/bookings","area":"customer"}]}`, w.Body.String())
}

func TestRouteArea(t *testing.T) {
	cases := map[string]string{
		"/api/admin/users":      "admin",
		"/api/partner/hotels":   "partner",
		"/api/bookings/:id":     "customer",
		"/api/payments/:id/pay": "customer",
		"/api/hotels":           "public",
		"/metrics":              "system",
	}
	for path, want := range cases {
		assert.Equal(t, want, routeArea(path), path)
	}
}
