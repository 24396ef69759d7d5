package models

import "github.com/shopspring/decimal"

// Settlement represents a direct payment between group members to clear debts.
// It carries no splits.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// FromID is the participant who paid (debtor settling up).
	FromID string

	// ToID is the participant who received payment (creditor being paid).
	ToID string

	// Amount is the positive payment amount.
	Amount decimal.Decimal

	Currency string

	// Notes is an optional description for the settlement.
	Notes string

	// SettledAt is the Unix timestamp when the payment happened.
	SettledAt int64

	// CreatedBy is the user ID who recorded this settlement.
	CreatedBy string

	// Convention is the settlement convention in effect when the settlement
	// was recorded. Reversal and recomputation use it rather than the
	// current configuration.
	Convention string
}
