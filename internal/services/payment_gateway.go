package services

import (
	"encoding/hex"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

// MockFailureReason is stored on payments the simulated bank declines.
const MockFailureReason = "Payment declined by bank (Mock)"

// OutcomeStrategy decides whether a simulated charge succeeds.
type OutcomeStrategy interface {
	Decide() bool
}

// RandomOutcome succeeds with probability SuccessRate.
type RandomOutcome struct {
	SuccessRate float64
}

func (o RandomOutcome) Decide() bool {
	return rand.Float64() < o.SuccessRate
}

// FixedOutcome always returns Success.
type FixedOutcome struct {
	Success bool
}

func (o FixedOutcome) Decide() bool { return o.Success }

// DefaultOutcome is the 95% success gateway.
var DefaultOutcome OutcomeStrategy = RandomOutcome{SuccessRate: 0.95}

// newTransactionID returns TXN- followed by 12 uppercase hex characters.
func newTransactionID() string {
	u := uuid.New()
	return "TXN-" + strings.ToUpper(hex.EncodeToString(u[:6]))
}
