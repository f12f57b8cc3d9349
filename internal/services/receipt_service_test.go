package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func receiptLoader(status string) func(context.Context, string) (receiptData, error) {
	return func(_ context.Context, id string) (receiptData, error) {
		paid := fixedNow
		in := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
		return receiptData{
			Payment: models.Payment{
				ID: 21, PaymentID: id, BookingRowID: 11, BookingID: "bk-1", UserID: 5,
				Amount: 400000, PaymentMethod: models.MethodCreditCard, Status: status,
				TransactionID: "TXN-0A1B2C3D4E5F", CardType: "visa", CardLastFour: "1111",
				PaymentDate: &paid,
			},
			Booking: models.Booking{
				ID: 11, BookingID: "bk-1", UserID: 5, BookingType: domain.BookingTypeHotel,
				Status: domain.BookingConfirmed, TotalAmount: 400000,
				Hotel: &models.HotelBookingDetail{
					HotelName: "Harbour Inn", RoomTypeName: "Deluxe",
					CheckInDate: in, CheckOutDate: in.AddDate(0, 0, 2),
					NumberOfRooms: 2, NumberOfGuests: 3, PricePerNight: 100000, NumberOfNights: 2,
				},
			},
		}, nil
	}
}

func TestReceiptServiceGenerate(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT IGNORE INTO payment_receipts").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE payment_receipts SET downloaded_count").WithArgs(int64(21)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM payment_receipts WHERE payment_id").WithArgs(int64(21)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "receipt_id", "payment_id", "generated_at", "downloaded_count"}).
			AddRow(int64(1), "rcpt-1", int64(21), fixedNow, 3))
	mock.ExpectCommit()

	svc := ReceiptService{DB: db, Loader: receiptLoader(domain.PaymentCompleted)}
	pdf, filename, err := svc.Generate(context.Background(), customer(5), "pay-1")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
	if filename != "RECEIPT_TXN-0A1B2C3D4E5F.pdf" {
		t.Fatalf("filename = %q", filename)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReceiptServiceRejectsUnpaid(t *testing.T) {
	svc := ReceiptService{Loader: receiptLoader(domain.PaymentPending)}
	_, _, err := svc.Generate(context.Background(), customer(5), "pay-1")
	if !domain.IsInvalidState(err) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestReceiptServiceOtherCustomer(t *testing.T) {
	svc := ReceiptService{Loader: receiptLoader(domain.PaymentCompleted)}
	_, _, err := svc.Generate(context.Background(), customer(6), "pay-1")
	if !domain.IsAuthorization(err) {
		t.Fatalf("expected authorization error, got %v", err)
	}
}
