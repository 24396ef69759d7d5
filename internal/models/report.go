package models

import "github.com/shopspring/decimal"

// ParticipantBalance is one row of a group's balance report.
type ParticipantBalance struct {
	ParticipantID string
	Name          string
	TotalPaid     decimal.Decimal
	TotalOwed     decimal.Decimal
	// Balance is TotalPaid - TotalOwed.
	Balance decimal.Decimal
}

// CategoryTotal is the spend for one expense category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// ExpenseTotals aggregates a group's expenses. Settlements are not spend and
// are never included.
type ExpenseTotals struct {
	Total      decimal.Decimal
	Count      int
	ByCategory []CategoryTotal
}

// Transfer is a suggested payment that would move balances toward zero.
type Transfer struct {
	FromID string
	ToID   string
	Amount decimal.Decimal
}

// Summary is the expense report for a group.
type Summary struct {
	GroupID     string
	Currency    string
	Totals      ExpenseTotals
	Balances    []ParticipantBalance
	Suggestions []Transfer
}

// Drift reports a participant whose stored totals disagree with the totals
// recomputed from the group's records.
type Drift struct {
	ParticipantID string
	StoredPaid    decimal.Decimal
	StoredOwed    decimal.Decimal
	ExpectedPaid  decimal.Decimal
	ExpectedOwed  decimal.Decimal
}
