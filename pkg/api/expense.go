package api

type CreateExpenseRequest struct {
	GroupID     string  `json:"group_id"`
	PayerID     string  `json:"payer_id"`
	Amount      string  `json:"amount"`
	Currency    string  `json:"currency,omitempty"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date,omitempty"`
	ReceiptURL  string  `json:"receipt_url,omitempty"`
	SplitType   string  `json:"split_type,omitempty"`
	Splits      []Split `json:"splits,omitempty"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

// UpdateExpenseRequest changes only the fields that are set. A non-null
// splits list replaces every split.
type UpdateExpenseRequest struct {
	ExpenseID   string  `json:"expense_id"`
	PayerID     *string `json:"payer_id,omitempty"`
	Amount      *string `json:"amount,omitempty"`
	Currency    *string `json:"currency,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
	Date        *string `json:"date,omitempty"`
	ReceiptURL  *string `json:"receipt_url,omitempty"`
	SplitType   *string `json:"split_type,omitempty"`
	Splits      []Split `json:"splits,omitempty"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type CreateSettlementRequest struct {
	GroupID   string `json:"group_id"`
	FromID    string `json:"from_id"`
	ToID      string `json:"to_id"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency,omitempty"`
	Notes     string `json:"notes,omitempty"`
	// SettledAt is a Unix timestamp; zero means now.
	SettledAt int64  `json:"settled_at,omitempty"`
}

type CreateSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type GetSettlementRequest struct {
	SettlementID string `json:"settlement_id"`
}

type GetSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type DeleteSettlementRequest struct {
	SettlementID string `json:"settlement_id"`
}

type DeleteSettlementResponse struct{}

type ListSettlementsRequest struct {
	GroupID string `json:"group_id"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}
