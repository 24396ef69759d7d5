package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SplitType describes how an expense was divided.
type SplitType string

const (
	// SplitEqual divides the amount evenly across the group roster.
	SplitEqual SplitType = "equal"
	// SplitExplicit uses caller-supplied per-participant amounts.
	SplitExplicit SplitType = "explicit"
)

// Valid reports whether t is a known split type.
func (t SplitType) Valid() bool {
	return t == SplitEqual || t == SplitExplicit
}

// Expense represents a payment made by one participant on behalf of the group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// PayerID is the participant who paid.
	PayerID string

	// Amount is the positive amount paid, two fractional digits.
	Amount decimal.Decimal

	// Currency is an ISO 4217 code.
	Currency string

	// Category groups spend in summaries (e.g., "food", "lodging").
	Category string

	Description string

	// Date is the calendar day of the expense (time component is zero, UTC).
	Date time.Time

	// ReceiptURL optionally references an uploaded receipt.
	ReceiptURL string

	SplitType SplitType

	// Splits are the per-participant shares. They are intended to sum to
	// Amount but this is only enforced in strict mode.
	Splits []ExpenseSplit

	CreatedAt int64
	UpdatedAt int64
}

// ExpenseSplit is one participant's allocated share of an expense.
type ExpenseSplit struct {
	ID            string
	ExpenseID     string
	ParticipantID string
	Amount        decimal.Decimal
}

// SplitTotal returns the sum of the expense's split amounts.
func (e *Expense) SplitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range e.Splits {
		total = total.Add(s.Amount)
	}
	return total
}
