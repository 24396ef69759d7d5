package ledger

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

// ExpenseInput describes a new expense.
type ExpenseInput struct {
	GroupID string
	PayerID string
	Amount  decimal.Decimal
	// Currency defaults to the group currency.
	Currency    string
	Category    string
	Description string
	// Date defaults to today (UTC).
	Date       time.Time
	ReceiptURL string
	SplitType  models.SplitType
	// Splits are required for SplitExplicit and ignored for SplitEqual.
	Splits []calculator.Share
}

// ExpenseUpdate lists the fields to change. Nil fields are left alone.
type ExpenseUpdate struct {
	PayerID     *string
	Amount      *decimal.Decimal
	Currency    *string
	Category    *string
	Description *string
	Date        *time.Time
	ReceiptURL  *string
	SplitType   *models.SplitType
	// Splits, when non-nil, replace every existing split. Setting SplitType
	// to SplitEqual without Splits regenerates equal shares across the
	// current roster.
	Splits []calculator.Share
}

// CreateExpense records an expense, its splits, and the matching deltas:
// the payer's TotalPaid grows by the amount and every split participant's
// TotalOwed by their share.
func (l *Ledger) CreateExpense(ctx context.Context, actor Actor, in ExpenseInput) (*models.Expense, error) {
	var expense *models.Expense
	err := l.mutate(ctx, "create_expense", func(tx storage.Tx) error {
		group, err := memberGroup(ctx, tx, in.GroupID, actor)
		if err != nil {
			return err
		}
		roster, err := tx.ListParticipants(ctx, group.ID)
		if err != nil {
			return err
		}

		e, err := l.newExpense(group, roster, in)
		if err != nil {
			return err
		}
		if err := tx.InsertExpense(ctx, e); err != nil {
			return err
		}
		if err := tx.ReplaceSplits(ctx, e.ID, e.Splits); err != nil {
			return err
		}
		if err := applyDeltas(ctx, tx, calculator.ExpenseDeltas(e)); err != nil {
			return err
		}
		expense = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Expense created",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"payer_id", expense.PayerID,
		"amount", expense.Amount.StringFixed(calculator.MoneyPlaces),
		"splits", len(expense.Splits),
	)
	return expense, nil
}

// GetExpense returns an expense with its splits.
func (l *Ledger) GetExpense(ctx context.Context, actor Actor, expenseID string) (*models.Expense, error) {
	e, err := l.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if _, err := memberGroup(ctx, l.store, e.GroupID, actor); err != nil {
		return nil, err
	}
	return e, nil
}

// ListExpenses returns a group's expenses, newest first.
func (l *Ledger) ListExpenses(ctx context.Context, actor Actor, groupID string) ([]*models.Expense, error) {
	if _, err := memberGroup(ctx, l.store, groupID, actor); err != nil {
		return nil, err
	}
	return l.store.ListExpensesByGroup(ctx, groupID)
}

// UpdateExpense changes an expense in place. Owner only. The expense's
// current contribution is reversed and the updated contribution applied in
// the same transaction: a new payer is charged the new amount while the old
// payer is credited back the old amount.
func (l *Ledger) UpdateExpense(ctx context.Context, actor Actor, expenseID string, upd ExpenseUpdate) (*models.Expense, error) {
	var expense *models.Expense
	err := l.mutate(ctx, "update_expense", func(tx storage.Tx) error {
		old, err := tx.LockExpense(ctx, expenseID)
		if err != nil {
			return err
		}
		group, err := tx.GetGroup(ctx, old.GroupID)
		if err != nil {
			return err
		}
		if err := requireOwner(group, actor); err != nil {
			return err
		}
		roster, err := tx.ListParticipants(ctx, group.ID)
		if err != nil {
			return err
		}

		e, splitsChanged, err := l.updatedExpense(old, roster, upd)
		if err != nil {
			return err
		}
		if err := tx.UpdateExpense(ctx, e); err != nil {
			return err
		}
		if splitsChanged {
			if err := tx.ReplaceSplits(ctx, e.ID, e.Splits); err != nil {
				return err
			}
		}
		if err := applyDeltas(ctx, tx, calculator.UpdateDeltas(old, e)); err != nil {
			return err
		}
		expense = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Expense updated",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"payer_id", expense.PayerID,
		"amount", expense.Amount.StringFixed(calculator.MoneyPlaces),
	)
	return expense, nil
}

// DeleteExpense removes an expense and reverses exactly the contribution it
// currently holds. Owner only.
func (l *Ledger) DeleteExpense(ctx context.Context, actor Actor, expenseID string) error {
	var groupID string
	err := l.mutate(ctx, "delete_expense", func(tx storage.Tx) error {
		e, err := tx.LockExpense(ctx, expenseID)
		if err != nil {
			return err
		}
		group, err := tx.GetGroup(ctx, e.GroupID)
		if err != nil {
			return err
		}
		if err := requireOwner(group, actor); err != nil {
			return err
		}
		groupID = group.ID

		if err := tx.DeleteExpense(ctx, expenseID); err != nil {
			return err
		}
		return applyDeltas(ctx, tx, calculator.ExpenseDeltas(e).Neg())
	})
	if err != nil {
		return err
	}

	slog.Info("Expense deleted", "expense_id", expenseID, "group_id", groupID)
	return nil
}

// newExpense validates in against the group roster and builds the expense
// with its allocated splits.
func (l *Ledger) newExpense(group *models.Group, roster []*models.Participant, in ExpenseInput) (*models.Expense, error) {
	if findParticipant(roster, in.PayerID) == nil {
		return nil, apperr.NotFound("payer %s is not a participant of group %s", in.PayerID, group.ID)
	}
	amount, err := positiveAmount(in.Amount)
	if err != nil {
		return nil, err
	}
	currency, err := normalizeCurrency(in.Currency, group.Currency)
	if err != nil {
		return nil, err
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return nil, apperr.BadRequest("category is required")
	}
	splitType := in.SplitType
	if splitType == "" {
		splitType = models.SplitEqual
	}

	e := &models.Expense{
		GroupID:     group.ID,
		PayerID:     in.PayerID,
		Amount:      amount,
		Currency:    currency,
		Category:    category,
		Description: strings.TrimSpace(in.Description),
		Date:        calendarDay(in.Date),
		ReceiptURL:  strings.TrimSpace(in.ReceiptURL),
		SplitType:   splitType,
	}
	e.Splits, err = l.allocate(e.Amount, splitType, in.Splits, roster)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// updatedExpense applies upd to a copy of old. It reports whether the
// splits were replaced.
func (l *Ledger) updatedExpense(old *models.Expense, roster []*models.Participant, upd ExpenseUpdate) (*models.Expense, bool, error) {
	e := *old

	if upd.PayerID != nil {
		if findParticipant(roster, *upd.PayerID) == nil {
			return nil, false, apperr.NotFound("payer %s is not a participant of group %s", *upd.PayerID, old.GroupID)
		}
		e.PayerID = *upd.PayerID
	}
	if upd.Amount != nil {
		amount, err := positiveAmount(*upd.Amount)
		if err != nil {
			return nil, false, err
		}
		e.Amount = amount
	}
	if upd.Currency != nil {
		currency, err := normalizeCurrency(*upd.Currency, old.Currency)
		if err != nil {
			return nil, false, err
		}
		e.Currency = currency
	}
	if upd.Category != nil {
		category := strings.TrimSpace(*upd.Category)
		if category == "" {
			return nil, false, apperr.BadRequest("category is required")
		}
		e.Category = category
	}
	if upd.Description != nil {
		e.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Date != nil {
		e.Date = calendarDay(*upd.Date)
	}
	if upd.ReceiptURL != nil {
		e.ReceiptURL = strings.TrimSpace(*upd.ReceiptURL)
	}
	if upd.SplitType != nil {
		if !upd.SplitType.Valid() {
			return nil, false, apperr.BadRequest("unknown split type %q", *upd.SplitType)
		}
		e.SplitType = *upd.SplitType
	}

	splitsChanged := upd.Splits != nil || (upd.SplitType != nil && *upd.SplitType == models.SplitEqual)
	if upd.SplitType != nil && *upd.SplitType == models.SplitExplicit && upd.Splits == nil {
		return nil, false, apperr.BadRequest("explicit split type requires splits")
	}
	if splitsChanged {
		splitType := e.SplitType
		if upd.Splits != nil && upd.SplitType == nil {
			splitType = models.SplitExplicit
		}
		splits, err := l.allocate(e.Amount, splitType, upd.Splits, roster)
		if err != nil {
			return nil, false, err
		}
		e.SplitType = splitType
		e.Splits = splits
	} else if l.cfg.StrictSplits && e.SplitType == models.SplitExplicit {
		if err := calculator.CheckSum(e.Amount, sharesOf(e.Splits)); err != nil {
			return nil, false, err
		}
	}
	return &e, splitsChanged, nil
}

// allocate produces the splits for amount.
func (l *Ledger) allocate(amount decimal.Decimal, splitType models.SplitType, shares []calculator.Share, roster []*models.Participant) ([]models.ExpenseSplit, error) {
	var (
		allocated []calculator.Share
		err       error
	)
	switch splitType {
	case models.SplitEqual:
		allocated, err = calculator.EqualShares(amount, rosterIDs(roster))
	case models.SplitExplicit:
		allocated, err = calculator.ExplicitShares(shares, rosterIDs(roster))
		if err == nil && l.cfg.StrictSplits {
			err = calculator.CheckSum(amount, allocated)
		}
	default:
		err = apperr.BadRequest("unknown split type %q", splitType)
	}
	if err != nil {
		return nil, err
	}

	splits := make([]models.ExpenseSplit, len(allocated))
	for i, s := range allocated {
		splits[i] = models.ExpenseSplit{ParticipantID: s.ParticipantID, Amount: s.Amount}
	}
	return splits, nil
}

func sharesOf(splits []models.ExpenseSplit) []calculator.Share {
	shares := make([]calculator.Share, len(splits))
	for i, s := range splits {
		shares[i] = calculator.Share{ParticipantID: s.ParticipantID, Amount: s.Amount}
	}
	return shares
}

// positiveAmount rounds d to cents and rejects anything not above zero or
// above calculator.MaxAmount.
func positiveAmount(d decimal.Decimal) (decimal.Decimal, error) {
	return calculator.CheckAmount("amount", d)
}

// calendarDay truncates t to its date in UTC. The zero time means today.
func calendarDay(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
