package api

// User is a registered account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

// Group is a trip with its own roster, expenses and settlements.
type Group struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"owner_id"`
	Currency  string `json:"currency"`
	CreatedAt int64  `json:"created_at"`
}

// Participant is a roster entry with its running totals.
type Participant struct {
	ID        string `json:"id"`
	GroupID   string `json:"group_id"`
	UserID    string `json:"user_id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	TotalPaid string `json:"total_paid"`
	TotalOwed string `json:"total_owed"`
	Balance   string `json:"balance"`
	CreatedAt int64  `json:"created_at"`
}

// Split is one participant's share of an expense.
type Split struct {
	ParticipantID string `json:"participant_id"`
	Amount        string `json:"amount"`
}

// Expense is a payment made by one participant for the group.
type Expense struct {
	ID          string  `json:"id"`
	GroupID     string  `json:"group_id"`
	PayerID     string  `json:"payer_id"`
	Amount      string  `json:"amount"`
	Currency    string  `json:"currency"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date"`
	ReceiptURL  string  `json:"receipt_url,omitempty"`
	SplitType   string  `json:"split_type"`
	Splits      []Split `json:"splits"`
	CreatedAt   int64   `json:"created_at"`
	UpdatedAt   int64   `json:"updated_at"`
}

// Settlement is a direct payment between two participants.
type Settlement struct {
	ID         string `json:"id"`
	GroupID    string `json:"group_id"`
	FromID     string `json:"from_id"`
	ToID       string `json:"to_id"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	Notes      string `json:"notes,omitempty"`
	SettledAt  int64  `json:"settled_at"`
	CreatedBy  string `json:"created_by"`
	Convention string `json:"convention"`
}

// Balance is one row of a balance report.
type Balance struct {
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
	TotalPaid     string `json:"total_paid"`
	TotalOwed     string `json:"total_owed"`
	Balance       string `json:"balance"`
}

// CategoryTotal is the spend in one category.
type CategoryTotal struct {
	Category string `json:"category"`
	Total    string `json:"total"`
}

// Transfer is a suggested settlement.
type Transfer struct {
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
	Amount string `json:"amount"`
}

// Drift is a participant whose stored totals disagree with its records.
type Drift struct {
	ParticipantID string `json:"participant_id"`
	StoredPaid    string `json:"stored_paid"`
	StoredOwed    string `json:"stored_owed"`
	ExpectedPaid  string `json:"expected_paid"`
	ExpectedOwed  string `json:"expected_owed"`
}
