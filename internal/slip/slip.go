package slip

import "errors"

// Status of a payment slip. PENDING is the only initial state; APPROVED
// and REJECTED are terminal — there is no way back to PENDING.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// ParseStatus validates a wire status value.
func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(raw), true
	}
	return "", false
}

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

var (
	ErrNotFound = errors.New("slip not found")
	// ErrInvalidTransition means the slip was no longer PENDING when the
	// transition was attempted — typically another admin got there first.
	ErrInvalidTransition = errors.New("slip is not pending")
	// ErrDuplicateSlip enforces the one-non-rejected-slip-per-cart policy:
	// a resubmission is only allowed after a rejection.
	ErrDuplicateSlip = errors.New("a slip for this cart is already pending or approved")
	// ErrNoAddress is the server-side address gate: payment evidence is
	// not accepted for a cart without a bound shipping address.
	ErrNoAddress = errors.New("no shipping address bound to cart")
)

// ValidationError names the field that failed so the client can surface
// a field-specific message.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// Slip is uploaded proof-of-payment evidence tied to a submitted cart
// and a claimed amount.
type Slip struct {
	SlipID      int     `json:"slipId"`
	CartID      string  `json:"cartId"`
	UserID      int     `json:"userId"`
	Amount      float64 `json:"amount"`
	FilePath    string  `json:"filePath"`
	Status      Status  `json:"status"`
	SubmittedAt string  `json:"submittedAt"`
	DecidedAt   *string `json:"decidedAt,omitempty"`
}
