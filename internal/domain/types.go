package domain

// ID is used across domain entities.
type ID int64

const (
	RoleCustomer = "customer"
	RolePartner  = "partner"
	RoleAdmin    = "admin"
)

const (
	BookingTypeHotel  = "hotel"
	BookingTypeFlight = "flight"
)

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// RequestContext is the caller identity passed explicitly into every
// booking, payment and catalog operation.
type RequestContext struct {
	UserID    ID     `json:"userId"`
	Role      string `json:"role"`
	RequestID string `json:"requestId,omitempty"`
}

func (rc RequestContext) IsAdmin() bool    { return rc.Role == RoleAdmin }
func (rc RequestContext) IsCustomer() bool { return rc.Role == RoleCustomer }
func (rc RequestContext) IsPartner() bool  { return rc.Role == RolePartner }

var passengerTitles = map[string]bool{"Mr": true, "Mrs": true, "Ms": true, "Dr": true}

// IsPassengerTitle reports whether t is one of Mr, Mrs, Ms or Dr.
func IsPassengerTitle(t string) bool { return passengerTitles[t] }
