package models

import "time"

const (
	MethodCreditCard   = "credit_card"
	MethodDebitCard    = "debit_card"
	MethodBankTransfer = "bank_transfer"
	MethodPaypal       = "paypal"
	MethodCash         = "cash"
)

// Payment is owned 1:1 by a booking.
type Payment struct {
	ID             int64      `json:"-"`
	PaymentID      string     `json:"payment_id"`
	BookingRowID   int64      `json:"-"`
	BookingID      string     `json:"booking_id"`
	UserID         int64      `json:"user_id"`
	Amount         int64      `json:"amount"`
	PaymentMethod  string     `json:"payment_method"`
	Status         string     `json:"status"`
	TransactionID  string     `json:"transaction_id"`
	CardType       string     `json:"card_type,omitempty"`
	CardLastFour   string     `json:"card_last_four,omitempty"`
	CardHolderName string     `json:"card_holder_name,omitempty"`
	BankName       string     `json:"bank_name,omitempty"`
	AccountNumber  string     `json:"account_number,omitempty"`
	PaypalEmail    string     `json:"paypal_email,omitempty"`
	PaymentDate    *time.Time `json:"payment_date,omitempty"`
	FailureReason  string     `json:"failure_reason,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func IsCardMethod(method string) bool {
	return method == MethodCreditCard || method == MethodDebitCard
}

type PaymentReceipt struct {
	ID              int64     `json:"-"`
	ReceiptID       string    `json:"receipt_id"`
	PaymentRowID    int64     `json:"-"`
	GeneratedAt     time.Time `json:"generated_at"`
	DownloadedCount int       `json:"downloaded_count"`
}

// PaymentFilter narrows a payment history listing.
type PaymentFilter struct {
	Status string
	Method string
}

func IsPaymentMethod(method string) bool {
	switch method {
	case MethodCreditCard, MethodDebitCard, MethodBankTransfer, MethodPaypal, MethodCash:
		return true
	}
	return false
}

var cardTypes = map[string]bool{"visa": true, "mastercard": true, "amex": true, "discover": true}

func IsCardType(t string) bool { return cardTypes[t] }
