package models

import "github.com/shopspring/decimal"

// Participant is a member of a group tracked for expense sharing.
// A participant may or may not correspond to a registered user.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string

	// GroupID is the group this participant belongs to.
	GroupID string

	// UserID links the participant to a registered account. Empty when
	// the participant has no account.
	UserID string

	// Name is the display name.
	Name string

	// Email is optional; when it matches a registered user the participant
	// is linked to that user.
	Email string

	// TotalPaid is the sum of expense amounts this participant paid plus
	// settlements they sent.
	TotalPaid decimal.Decimal

	// TotalOwed is the sum of this participant's expense splits, adjusted by
	// settlements they received.
	TotalOwed decimal.Decimal

	// CreatedAt is the Unix timestamp when the participant was added.
	CreatedAt int64
}

// Balance returns TotalPaid - TotalOwed. Positive means the participant is
// a net creditor, negative a net debtor.
func (p *Participant) Balance() decimal.Decimal {
	return p.TotalPaid.Sub(p.TotalOwed)
}

// Delta is a change to a participant's running totals.
type Delta struct {
	Paid decimal.Decimal
	Owed decimal.Decimal
}

// IsZero reports whether applying d would change nothing.
func (d Delta) IsZero() bool {
	return d.Paid.IsZero() && d.Owed.IsZero()
}

// Neg returns the delta that undoes d.
func (d Delta) Neg() Delta {
	return Delta{Paid: d.Paid.Neg(), Owed: d.Owed.Neg()}
}
