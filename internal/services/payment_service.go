package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	intdb "travelbooking/internal/db"
	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"
	"travelbooking/internal/metrics"
	"travelbooking/internal/repositories"
	"travelbooking/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// PaymentService runs the simulated gateway: submit, refund and history.
type PaymentService struct {
	DB      *sql.DB
	Metrics *metrics.Metrics
	Outcome OutcomeStrategy
	Now     func() time.Time
}

type PaymentInput struct {
	PaymentMethod  string `json:"payment_method" binding:"required,payment_method"`
	CardNumber     string `json:"card_number" binding:"omitempty,numeric,min=12,max=19"`
	CVV            string `json:"cvv" binding:"omitempty,numeric,min=3,max=4"`
	CardHolderName string `json:"card_holder_name" binding:"max=100"`
	CardType       string `json:"card_type"`
	BankName       string `json:"bank_name" binding:"max=100"`
	AccountNumber  string `json:"account_number" binding:"max=50"`
	PaypalEmail    string `json:"paypal_email" binding:"omitempty,email"`
	Notes          string `json:"notes" binding:"max=1000"`
}

// PaymentOutcome is returned for both successful and declined charges; a
// decline is a result, not an error.
type PaymentOutcome struct {
	Payment models.Payment `json:"payment"`
	Success bool           `json:"success"`
	Message string         `json:"message"`
}

// RefundResult carries Success=false with a message when the payment is
// not refundable.
type RefundResult struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Payment models.Payment `json:"payment"`
}

func (s PaymentService) db() *sql.DB               { return pickDB(s.DB) }
func (s PaymentService) metrics() *metrics.Metrics { return pickMetrics(s.Metrics) }
func (s PaymentService) now() time.Time            { return pickNow(s.Now) }

func (s PaymentService) outcome() OutcomeStrategy {
	if s.Outcome != nil {
		return s.Outcome
	}
	return DefaultOutcome
}

var fieldValidator = validator.New()

func validatePaymentInput(in PaymentInput) error {
	method := strings.TrimSpace(in.PaymentMethod)
	if !models.IsPaymentMethod(method) {
		return domain.ValidationError{Field: "payment_method", Msg: "unsupported payment method"}
	}
	switch {
	case models.IsCardMethod(method):
		if strings.TrimSpace(in.CardNumber) == "" {
			return domain.ValidationError{Field: "card_number", Msg: "card number is required for card payments"}
		}
		if strings.TrimSpace(in.CVV) == "" {
			return domain.ValidationError{Field: "cvv", Msg: "CVV is required for card payments"}
		}
		if strings.TrimSpace(in.CardHolderName) == "" {
			return domain.ValidationError{Field: "card_holder_name", Msg: "card holder name is required"}
		}
		if in.CardType != "" && !models.IsCardType(in.CardType) {
			return domain.ValidationError{Field: "card_type", Msg: "unsupported card type"}
		}
	case method == models.MethodBankTransfer:
		if strings.TrimSpace(in.BankName) == "" {
			return domain.ValidationError{Field: "bank_name", Msg: "bank name is required for bank transfer"}
		}
		if strings.TrimSpace(in.AccountNumber) == "" {
			return domain.ValidationError{Field: "account_number", Msg: "account number is required for bank transfer"}
		}
	case method == models.MethodPaypal:
		if strings.TrimSpace(in.PaypalEmail) == "" {
			return domain.ValidationError{Field: "paypal_email", Msg: "PayPal email is required for PayPal payments"}
		}
		if err := fieldValidator.Var(in.PaypalEmail, "email"); err != nil {
			return domain.ValidationError{Field: "paypal_email", Msg: "invalid email", Err: err}
		}
	}
	return nil
}

// paymentFromInput copies only what may be stored; the card number is cut
// to its last four digits and the CVV is dropped.
func paymentFromInput(in PaymentInput) models.Payment {
	p := models.Payment{
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		Notes:         strings.TrimSpace(in.Notes),
	}
	switch {
	case models.IsCardMethod(p.PaymentMethod):
		p.CardType = in.CardType
		p.CardLastFour = utils.LastN(strings.ReplaceAll(in.CardNumber, " ", ""), 4)
		p.CardHolderName = strings.TrimSpace(in.CardHolderName)
	case p.PaymentMethod == models.MethodBankTransfer:
		p.BankName = strings.TrimSpace(in.BankName)
		p.AccountNumber = strings.TrimSpace(in.AccountNumber)
	case p.PaymentMethod == models.MethodPaypal:
		p.PaypalEmail = strings.TrimSpace(in.PaypalEmail)
	}
	return p
}

// SubmitPayment records the booking's payment as pending (reusing its
// pending or failed row) and commits it, then charges it once through the
// outcome strategy. If the charge step errors the payment stays pending and
// can be retried with ProcessPayment.
func (s PaymentService) SubmitPayment(ctx context.Context, rc domain.RequestContext, bookingID string, in PaymentInput) (PaymentOutcome, error) {
	if err := domain.RequireAuthenticated(rc, "pay for bookings"); err != nil {
		return PaymentOutcome{}, err
	}
	if err := validatePaymentInput(in); err != nil {
		return PaymentOutcome{}, err
	}

	var p models.Payment
	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		bookings := repositories.BookingRepository{DB: tx}
		payments := repositories.PaymentRepository{DB: tx}

		b, err := bookings.LockByBookingID(ctx, bookingID)
		if err != nil {
			return notFoundOr(err, "booking")
		}
		if err := domain.CanPay(rc, domain.ID(b.UserID)); err != nil {
			return err
		}

		existing, err := payments.LockByBookingRowID(ctx, b.ID)
		hasExisting := err == nil
		if err != nil && !intdb.IsNoRows(err) {
			return fmt.Errorf("lock payment: %w", err)
		}
		if hasExisting && (existing.Status == domain.PaymentCompleted || existing.Status == domain.PaymentRefunded) {
			return domain.ConflictError{Resource: "payment", Msg: "booking is already paid"}
		}
		if b.Status != domain.BookingPending {
			return domain.InvalidStateError{Resource: "booking", Status: b.Status, Msg: "only pending bookings can be paid"}
		}

		p = paymentFromInput(in)
		p.BookingRowID = b.ID
		p.BookingID = b.BookingID
		p.UserID = b.UserID
		p.Amount = b.TotalAmount
		p.Status = domain.PaymentPending
		p.TransactionID = newTransactionID()

		if hasExisting {
			p.ID = existing.ID
			p.PaymentID = existing.PaymentID
			p.CreatedAt = existing.CreatedAt
			if err := payments.ResetForRetry(ctx, p); err != nil {
				return fmt.Errorf("reset payment: %w", err)
			}
			return nil
		}
		p.PaymentID = uuid.NewString()
		id, err := payments.Insert(ctx, p)
		if err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
		p.ID = id
		return nil
	})
	if err != nil {
		return PaymentOutcome{}, asDomainError(err)
	}
	utils.LogEvent(rc.RequestID, "payment", "submit",
		fmt.Sprintf("booking_id=%s payment_id=%s txn=%s", bookingID, p.PaymentID, p.TransactionID))

	return s.process(ctx, rc, p.PaymentID)
}

// ProcessPayment charges a payment that is still pending.
func (s PaymentService) ProcessPayment(ctx context.Context, rc domain.RequestContext, paymentID string) (PaymentOutcome, error) {
	if err := domain.RequireAuthenticated(rc, "process payments"); err != nil {
		return PaymentOutcome{}, err
	}
	return s.process(ctx, rc, paymentID)
}

func (s PaymentService) process(ctx context.Context, rc domain.RequestContext, paymentID string) (PaymentOutcome, error) {
	var out PaymentOutcome
	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		p, err := repositories.PaymentRepository{DB: tx}.LockByPaymentID(ctx, paymentID)
		if err != nil {
			return notFoundOr(err, "payment")
		}
		if err := domain.CanPay(rc, domain.ID(p.UserID)); err != nil {
			return err
		}
		if p.Status != domain.PaymentPending {
			return domain.InvalidStateError{Resource: "payment", Status: p.Status, Msg: "only pending payments can be processed"}
		}
		b, err := repositories.BookingRepository{DB: tx}.LockByID(ctx, p.BookingRowID)
		if err != nil {
			return notFoundOr(err, "booking")
		}
		if b.Status != domain.BookingPending {
			return domain.InvalidStateError{Resource: "booking", Status: b.Status, Msg: "only pending bookings can be paid"}
		}
		out, err = s.charge(ctx, tx, p)
		return err
	})
	if err != nil {
		return PaymentOutcome{}, asDomainError(err)
	}
	s.metrics().Payments.WithLabelValues(out.Payment.Status).Inc()
	utils.LogEvent(rc.RequestID, "payment", "process",
		fmt.Sprintf("payment_id=%s txn=%s status=%s", paymentID, out.Payment.TransactionID, out.Payment.Status))
	return out, nil
}

// charge draws one outcome. On success the booking is confirmed and the
// receipt row is created; on failure the booking stays pending.
func (s PaymentService) charge(ctx context.Context, tx *sql.Tx, p models.Payment) (PaymentOutcome, error) {
	payments := repositories.PaymentRepository{DB: tx}
	if !s.outcome().Decide() {
		if err := payments.MarkFailed(ctx, p.ID, MockFailureReason); err != nil {
			return PaymentOutcome{}, fmt.Errorf("mark payment failed: %w", err)
		}
		p.Status = domain.PaymentFailed
		p.FailureReason = MockFailureReason
		return PaymentOutcome{Payment: p, Success: false, Message: "Payment failed. Please try again."}, nil
	}

	now := s.now()
	if err := payments.MarkCompleted(ctx, p.ID, now); err != nil {
		return PaymentOutcome{}, fmt.Errorf("mark payment completed: %w", err)
	}
	if err := (repositories.BookingRepository{DB: tx}).UpdateStatus(ctx, p.BookingRowID, domain.BookingConfirmed); err != nil {
		return PaymentOutcome{}, fmt.Errorf("confirm booking: %w", err)
	}
	if err := payments.EnsureReceipt(ctx, p.ID, uuid.NewString()); err != nil {
		return PaymentOutcome{}, fmt.Errorf("create receipt: %w", err)
	}
	p.Status = domain.PaymentCompleted
	p.PaymentDate = &now
	p.FailureReason = ""
	return PaymentOutcome{Payment: p, Success: true, Message: "Payment processed successfully"}, nil
}

// RefundPayment refunds a completed payment, cancels its booking and gives
// the inventory back in one transaction. A booking that was already
// cancelled has already released its inventory and is left as is.
func (s PaymentService) RefundPayment(ctx context.Context, rc domain.RequestContext, paymentID, reason string) (RefundResult, error) {
	if err := domain.RequireAuthenticated(rc, "refund payments"); err != nil {
		return RefundResult{}, err
	}
	reason = strings.TrimSpace(reason)

	var (
		out      RefundResult
		restored bool
		bookType string
	)
	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		payments := repositories.PaymentRepository{DB: tx}
		p, err := payments.LockByPaymentID(ctx, paymentID)
		if err != nil {
			return notFoundOr(err, "payment")
		}
		if err := domain.CanRefund(rc, domain.ID(p.UserID)); err != nil {
			return err
		}
		if p.Status != domain.PaymentCompleted {
			out = RefundResult{Success: false, Message: "Cannot refund this payment", Payment: p}
			return nil
		}
		if reason == "" {
			return domain.ValidationError{Field: "reason", Msg: "refund reason is required"}
		}

		bookings := repositories.BookingRepository{DB: tx}
		b, err := bookings.LockByID(ctx, p.BookingRowID)
		if err != nil {
			return notFoundOr(err, "booking")
		}
		bookType = b.BookingType

		notes := "Refund requested: " + reason
		if p.Notes != "" {
			notes += "\n\n" + p.Notes
		}
		if err := payments.MarkRefunded(ctx, p.ID, notes); err != nil {
			return fmt.Errorf("mark payment refunded: %w", err)
		}
		if b.Status != domain.BookingCancelled {
			if err := bookings.UpdateStatus(ctx, b.ID, domain.BookingCancelled); err != nil {
				return fmt.Errorf("cancel booking: %w", err)
			}
			if err := restoreInventory(ctx, tx, b, s.metrics()); err != nil {
				return err
			}
			restored = true
		}

		p.Status = domain.PaymentRefunded
		p.Notes = notes
		out = RefundResult{Success: true, Message: "Payment refunded successfully", Payment: p}
		return nil
	})
	if err != nil {
		return RefundResult{}, asDomainError(err)
	}

	if out.Success {
		s.metrics().Payments.WithLabelValues(domain.PaymentRefunded).Inc()
		if restored {
			s.metrics().BookingsCancelled.WithLabelValues(bookType, "refund").Inc()
		}
	}
	utils.LogEvent(rc.RequestID, "payment", "refund",
		fmt.Sprintf("payment_id=%s success=%t restored=%t", paymentID, out.Success, restored))
	return out, nil
}

func (s PaymentService) GetPayment(ctx context.Context, rc domain.RequestContext, paymentID string) (models.Payment, error) {
	if err := domain.RequireAuthenticated(rc, "view payments"); err != nil {
		return models.Payment{}, err
	}
	p, err := repositories.PaymentRepository{DB: s.db()}.GetByPaymentID(ctx, paymentID)
	if err != nil {
		return models.Payment{}, asDomainError(notFoundOr(err, "payment"))
	}
	if err := domain.RequireOwnerOrAdmin(rc, "view this payment", domain.ID(p.UserID)); err != nil {
		return models.Payment{}, err
	}
	return p, nil
}

// ListPayments returns the caller's payment history.
func (s PaymentService) ListPayments(ctx context.Context, rc domain.RequestContext, f models.PaymentFilter) ([]models.Payment, error) {
	if err := domain.RequireAuthenticated(rc, "view payments"); err != nil {
		return nil, err
	}
	switch f.Status {
	case "", domain.PaymentPending, domain.PaymentCompleted, domain.PaymentFailed, domain.PaymentRefunded:
	default:
		return nil, domain.ValidationError{Field: "status", Msg: "unknown payment status"}
	}
	if f.Method != "" && !models.IsPaymentMethod(f.Method) {
		return nil, domain.ValidationError{Field: "payment_method", Msg: "unsupported payment method"}
	}
	out, err := repositories.PaymentRepository{DB: s.db()}.ListByUser(ctx, int64(rc.UserID), f)
	if err != nil {
		return nil, asDomainError(err)
	}
	return out, nil
}
