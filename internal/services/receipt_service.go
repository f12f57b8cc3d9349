package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	intdb "travelbooking/internal/db"
	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"
	"travelbooking/internal/repositories"
	"travelbooking/internal/utils"

	"github.com/google/uuid"
	"github.com/phpdave11/gofpdf"
)

// ReceiptService renders the PDF receipt of a completed payment.
type ReceiptService struct {
	DB     *sql.DB
	Loader func(ctx context.Context, paymentID string) (receiptData, error)
}

type receiptData struct {
	Payment models.Payment
	Booking models.Booking
	Receipt models.PaymentReceipt
}

func (s ReceiptService) db() *sql.DB { return pickDB(s.DB) }

// Generate checks access, counts the download and returns the PDF bytes
// with a file name.
func (s ReceiptService) Generate(ctx context.Context, rc domain.RequestContext, paymentID string) ([]byte, string, error) {
	if err := domain.RequireAuthenticated(rc, "download receipts"); err != nil {
		return nil, "", err
	}
	data, err := s.load(ctx, paymentID)
	if err != nil {
		return nil, "", asDomainError(err)
	}
	if err := domain.RequireOwnerOrAdmin(rc, "download this receipt", domain.ID(data.Payment.UserID)); err != nil {
		return nil, "", err
	}
	if data.Payment.Status != domain.PaymentCompleted {
		return nil, "", domain.InvalidStateError{
			Resource: "payment", Status: data.Payment.Status,
			Msg: "receipt is only available for completed payments",
		}
	}

	receipt, err := s.recordDownload(ctx, data.Payment.ID)
	if err != nil {
		return nil, "", asDomainError(err)
	}
	data.Receipt = receipt

	utils.LogEvent(rc.RequestID, "payment", "receipt",
		fmt.Sprintf("payment_id=%s downloads=%d", paymentID, receipt.DownloadedCount))
	return buildReceiptPDF(data)
}

func (s ReceiptService) load(ctx context.Context, paymentID string) (receiptData, error) {
	if s.Loader != nil {
		return s.Loader(ctx, paymentID)
	}
	p, err := repositories.PaymentRepository{DB: s.db()}.GetByPaymentID(ctx, paymentID)
	if err != nil {
		return receiptData{}, notFoundOr(err, "payment")
	}
	b, err := repositories.BookingRepository{DB: s.db()}.GetByBookingID(ctx, p.BookingID)
	if err != nil {
		return receiptData{}, notFoundOr(err, "booking")
	}
	return receiptData{Payment: p, Booking: b}, nil
}

// recordDownload creates the receipt row if the payment predates it and
// bumps its download counter.
func (s ReceiptService) recordDownload(ctx context.Context, paymentRowID int64) (models.PaymentReceipt, error) {
	var out models.PaymentReceipt
	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		payments := repositories.PaymentRepository{DB: tx}
		if err := payments.EnsureReceipt(ctx, paymentRowID, uuid.NewString()); err != nil {
			return fmt.Errorf("ensure receipt: %w", err)
		}
		if err := payments.IncrementReceiptDownload(ctx, paymentRowID); err != nil {
			return fmt.Errorf("count receipt download: %w", err)
		}
		rc, err := payments.GetReceipt(ctx, paymentRowID)
		if err != nil {
			return fmt.Errorf("load receipt: %w", err)
		}
		out = rc
		return nil
	})
	return out, err
}

func buildReceiptPDF(d receiptData) ([]byte, string, error) {
	p, b := d.Payment, d.Booking

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payment Receipt", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "PAYMENT RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	paidAt := "-"
	if p.PaymentDate != nil {
		paidAt = utils.FormatDateTime(*p.PaymentDate) + " UTC"
	}
	lines := []string{
		fmt.Sprintf("Receipt No     : %s", safe(d.Receipt.ReceiptID, "-")),
		fmt.Sprintf("Transaction ID : %s", safe(p.TransactionID, "-")),
		fmt.Sprintf("Payment ID     : %s", safe(p.PaymentID, "-")),
		fmt.Sprintf("Booking ID     : %s", safe(b.BookingID, p.BookingID)),
		fmt.Sprintf("Paid At        : %s", paidAt),
		fmt.Sprintf("Method         : %s", paymentMethodLabel(p)),
		fmt.Sprintf("Status         : %s", safe(p.Status, "-")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Details:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, s := range bookingLines(b) {
		pdf.MultiCell(0, 6, s, "", "", false)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+utils.FormatAmount(p.Amount))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, fmt.Sprintf("Generated %s. Download #%d.",
		utils.FormatDateTime(time.Now()), d.Receipt.DownloadedCount), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("RECEIPT_%s.pdf", safeFilenamePart(p.TransactionID))
	return buf.Bytes(), filename, nil
}

func paymentMethodLabel(p models.Payment) string {
	switch {
	case models.IsCardMethod(p.PaymentMethod) && p.CardLastFour != "":
		return fmt.Sprintf("%s **** %s", p.PaymentMethod, p.CardLastFour)
	case p.PaymentMethod == models.MethodBankTransfer && p.BankName != "":
		return fmt.Sprintf("%s (%s)", p.PaymentMethod, p.BankName)
	case p.PaymentMethod == models.MethodPaypal && p.PaypalEmail != "":
		return fmt.Sprintf("%s (%s)", p.PaymentMethod, p.PaypalEmail)
	}
	return safe(p.PaymentMethod, "-")
}

func bookingLines(b models.Booking) []string {
	switch {
	case b.Hotel != nil:
		h := b.Hotel
		return []string{
			fmt.Sprintf("Hotel %s, %s", safe(h.HotelName, "-"), safe(h.RoomTypeName, "-")),
			fmt.Sprintf("%s to %s (%d nights)", utils.FormatDate(h.CheckInDate), utils.FormatDate(h.CheckOutDate), h.NumberOfNights),
			fmt.Sprintf("%d room(s) x %s per night", h.NumberOfRooms, utils.FormatAmount(h.PricePerNight)),
		}
	case b.Flight != nil:
		f := b.Flight
		out := []string{
			fmt.Sprintf("Flight %s %s -> %s", safe(f.FlightNumber, "-"), safe(f.Origin, "-"), safe(f.Destination, "-")),
			fmt.Sprintf("Departure %s", utils.FormatDateTime(f.DepartureTime)),
			fmt.Sprintf("%d passenger(s) x %s", f.NumberOfPassengers, utils.FormatAmount(f.PricePerSeat)),
		}
		for _, p := range f.Passengers {
			out = append(out, "  - "+p.FullName())
		}
		return out
	}
	return []string{"-"}
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
