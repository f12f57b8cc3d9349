package repositories

import (
	"context"
	"database/sql"
	"strings"
	"time"

	intdb "travelbooking/internal/db"
	"travelbooking/internal/domain/models"
)

type PaymentRepository struct {
	DB intdb.DBTX
}

func (r PaymentRepository) db() intdb.DBTX { return pick(r.DB) }

const paymentSelect = `
	SELECT p.id, p.payment_id, p.booking_id, b.booking_id, p.user_id, p.amount, p.payment_method,
	       p.status, p.transaction_id,
	       COALESCE(p.card_type,''), COALESCE(p.card_last_four,''), COALESCE(p.card_holder_name,''),
	       COALESCE(p.bank_name,''), COALESCE(p.account_number,''), COALESCE(p.paypal_email,''),
	       p.payment_date, COALESCE(p.failure_reason,''), COALESCE(p.notes,''),
	       p.created_at, p.updated_at
	FROM payments p
	JOIN bookings b ON b.id = p.booking_id`

func scanPayment(s rowScanner) (models.Payment, error) {
	var (
		p      models.Payment
		paidAt sql.NullTime
	)
	err := s.Scan(
		&p.ID, &p.PaymentID, &p.BookingRowID, &p.BookingID, &p.UserID, &p.Amount, &p.PaymentMethod,
		&p.Status, &p.TransactionID,
		&p.CardType, &p.CardLastFour, &p.CardHolderName,
		&p.BankName, &p.AccountNumber, &p.PaypalEmail,
		&paidAt, &p.FailureReason, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if paidAt.Valid {
		t := paidAt.Time
		p.PaymentDate = &t
	}
	return p, err
}

func (r PaymentRepository) GetByPaymentID(ctx context.Context, paymentID string) (models.Payment, error) {
	return scanPayment(r.db().QueryRowContext(ctx, paymentSelect+` WHERE p.payment_id = ? LIMIT 1`,
		strings.TrimSpace(paymentID)))
}

// LockByPaymentID row-locks the payment (and its joined booking row).
func (r PaymentRepository) LockByPaymentID(ctx context.Context, paymentID string) (models.Payment, error) {
	return scanPayment(r.db().QueryRowContext(ctx, paymentSelect+` WHERE p.payment_id = ? FOR UPDATE`,
		strings.TrimSpace(paymentID)))
}

// LockByBookingRowID row-locks the payment attached to a booking.
func (r PaymentRepository) LockByBookingRowID(ctx context.Context, bookingRowID int64) (models.Payment, error) {
	return scanPayment(r.db().QueryRowContext(ctx, paymentSelect+` WHERE p.booking_id = ? FOR UPDATE`, bookingRowID))
}

func (r PaymentRepository) Insert(ctx context.Context, p models.Payment) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO payments (payment_id, booking_id, user_id, amount, payment_method, status, transaction_id,
		                      card_type, card_last_four, card_holder_name, bank_name, account_number,
		                      paypal_email, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		p.PaymentID, p.BookingRowID, p.UserID, p.Amount, p.PaymentMethod, p.Status, p.TransactionID,
		intdb.NullIfEmpty(p.CardType), intdb.NullIfEmpty(p.CardLastFour), intdb.NullIfEmpty(p.CardHolderName),
		intdb.NullIfEmpty(p.BankName), intdb.NullIfEmpty(p.AccountNumber),
		intdb.NullIfEmpty(p.PaypalEmail), intdb.NullIfEmpty(p.Notes),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ResetForRetry reuses an existing payment row for a new attempt.
func (r PaymentRepository) ResetForRetry(ctx context.Context, p models.Payment) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE payments
		SET amount=?, payment_method=?, status='pending', transaction_id=?,
		    card_type=?, card_last_four=?, card_holder_name=?, bank_name=?, account_number=?,
		    paypal_email=?, notes=?, failure_reason=NULL, payment_date=NULL, updated_at=NOW()
		WHERE id=?`,
		p.Amount, p.PaymentMethod, p.TransactionID,
		intdb.NullIfEmpty(p.CardType), intdb.NullIfEmpty(p.CardLastFour), intdb.NullIfEmpty(p.CardHolderName),
		intdb.NullIfEmpty(p.BankName), intdb.NullIfEmpty(p.AccountNumber),
		intdb.NullIfEmpty(p.PaypalEmail), intdb.NullIfEmpty(p.Notes), p.ID,
	)
	return err
}

func (r PaymentRepository) MarkCompleted(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE payments SET status='completed', payment_date=?, failure_reason=NULL, updated_at=NOW()
		WHERE id=?`, at, id)
	return err
}

func (r PaymentRepository) MarkFailed(ctx context.Context, id int64, reason string) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE payments SET status='failed', failure_reason=?, updated_at=NOW()
		WHERE id=?`, reason, id)
	return err
}

func (r PaymentRepository) MarkRefunded(ctx context.Context, id int64, notes string) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE payments SET status='refunded', notes=?, updated_at=NOW()
		WHERE id=?`, intdb.NullIfEmpty(notes), id)
	return err
}

// ListByUser returns the user's payments, newest first, with optional
// status and method filters.
func (r PaymentRepository) ListByUser(ctx context.Context, userID int64, f models.PaymentFilter) ([]models.Payment, error) {
	q := paymentSelect + ` WHERE p.user_id = ?`
	args := []any{userID}
	if s := strings.TrimSpace(f.Status); s != "" {
		q += ` AND p.status = ?`
		args = append(args, s)
	}
	if m := strings.TrimSpace(f.Method); m != "" {
		q += ` AND p.payment_method = ?`
		args = append(args, m)
	}
	q += ` ORDER BY p.created_at DESC`
	return r.list(ctx, q, args...)
}

// Recent returns the latest payments across all users.
func (r PaymentRepository) Recent(ctx context.Context, limit int) ([]models.Payment, error) {
	return r.list(ctx, paymentSelect+` ORDER BY p.created_at DESC LIMIT ?`, limit)
}

func (r PaymentRepository) list(ctx context.Context, q string, args ...any) ([]models.Payment, error) {
	rows, err := r.db().QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// EnsureReceipt creates the receipt row for a payment once; later calls
// keep the original receipt id.
func (r PaymentRepository) EnsureReceipt(ctx context.Context, paymentRowID int64, receiptID string) error {
	_, err := r.db().ExecContext(ctx, `
		INSERT IGNORE INTO payment_receipts (receipt_id, payment_id, generated_at, downloaded_count)
		VALUES (?, ?, NOW(), 0)`, receiptID, paymentRowID)
	return err
}

func (r PaymentRepository) IncrementReceiptDownload(ctx context.Context, paymentRowID int64) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE payment_receipts SET downloaded_count = downloaded_count + 1 WHERE payment_id = ?`, paymentRowID)
	return err
}

func (r PaymentRepository) GetReceipt(ctx context.Context, paymentRowID int64) (models.PaymentReceipt, error) {
	var rc models.PaymentReceipt
	err := r.db().QueryRowContext(ctx, `
		SELECT id, receipt_id, payment_id, generated_at, downloaded_count
		FROM payment_receipts WHERE payment_id = ? LIMIT 1`, paymentRowID).Scan(
		&rc.ID, &rc.ReceiptID, &rc.PaymentRowID, &rc.GeneratedAt, &rc.DownloadedCount,
	)
	return rc, err
}
