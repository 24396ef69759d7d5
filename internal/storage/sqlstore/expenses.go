package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/models"
)

// dateLayout is how expense dates are stored.
const dateLayout = "2006-01-02"

const expenseColumns = `id, group_id, payer_id, amount, currency, category, description,
	expense_date, receipt_url, split_type, created_at, updated_at`

func scanExpense(row rowScanner) (*models.Expense, error) {
	e := &models.Expense{}
	var amount int64
	var date, splitType string
	err := row.Scan(&e.ID, &e.GroupID, &e.PayerID, &amount, &e.Currency, &e.Category, &e.Description,
		&date, &e.ReceiptURL, &splitType, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Amount = fromMinor(amount)
	e.SplitType = models.SplitType(splitType)
	e.Date, err = time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("invalid stored date %q for expense %s: %w", date, e.ID, err)
	}
	return e, nil
}

// InsertExpense persists the expense record. Splits are written separately
// with ReplaceSplits.
func (c *conn) InsertExpense(ctx context.Context, e *models.Expense) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if e.CreatedAt == 0 {
		e.CreatedAt = now
	}
	if e.UpdatedAt == 0 {
		e.UpdatedAt = e.CreatedAt
	}

	amount, err := toMinor(e.Amount)
	if err != nil {
		return err
	}
	_, err = c.q.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.GroupID, e.PayerID, amount, e.Currency, e.Category, e.Description,
		e.Date.Format(dateLayout), e.ReceiptURL, string(e.SplitType), e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return classify(err, "insert expense")
	}
	return nil
}

// UpdateExpense overwrites the expense's scalar fields and bumps UpdatedAt.
func (c *conn) UpdateExpense(ctx context.Context, e *models.Expense) error {
	amount, err := toMinor(e.Amount)
	if err != nil {
		return err
	}
	e.UpdatedAt = time.Now().Unix()

	res, err := c.q.ExecContext(ctx,
		`UPDATE expenses SET payer_id = ?, amount = ?, currency = ?, category = ?, description = ?,
		   expense_date = ?, receipt_url = ?, split_type = ?, updated_at = ?
		 WHERE id = ?`,
		e.PayerID, amount, e.Currency, e.Category, e.Description,
		e.Date.Format(dateLayout), e.ReceiptURL, string(e.SplitType), e.UpdatedAt, e.ID,
	)
	if err != nil {
		return classify(err, "update expense")
	}
	return expectOne(res, "expense", e.ID)
}

// DeleteExpense removes the expense and its splits.
func (c *conn) DeleteExpense(ctx context.Context, expenseID string) error {
	if _, err := c.q.ExecContext(ctx, "DELETE FROM expense_splits WHERE expense_id = ?", expenseID); err != nil {
		return classify(err, "delete expense splits")
	}
	res, err := c.q.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return classify(err, "delete expense")
	}
	return expectOne(res, "expense", expenseID)
}

// ReplaceSplits swaps the expense's splits for splits, keeping their order.
func (c *conn) ReplaceSplits(ctx context.Context, expenseID string, splits []models.ExpenseSplit) error {
	if _, err := c.q.ExecContext(ctx, "DELETE FROM expense_splits WHERE expense_id = ?", expenseID); err != nil {
		return classify(err, "delete expense splits")
	}

	for i := range splits {
		s := &splits[i]
		if s.ID == "" {
			s.ID = uuid.New().String()
		}
		s.ExpenseID = expenseID
		amount, err := toMinor(s.Amount)
		if err != nil {
			return err
		}
		_, err = c.q.ExecContext(ctx,
			"INSERT INTO expense_splits (id, expense_id, participant_id, amount, position) VALUES (?, ?, ?, ?, ?)",
			s.ID, expenseID, s.ParticipantID, amount, i,
		)
		if err != nil {
			return classify(err, "insert expense split")
		}
	}
	return nil
}

// LockExpense takes the expense's row lock and then reads it with its splits.
// The no-op UPDATE locks the row on every backend, so the read that follows
// sees the latest committed amount and splits.
func (c *conn) LockExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	res, err := c.q.ExecContext(ctx, "UPDATE expenses SET updated_at = updated_at WHERE id = ?", expenseID)
	if err != nil {
		return nil, classify(err, "lock expense")
	}
	if err := expectOne(res, "expense", expenseID); err != nil {
		return nil, err
	}
	return c.GetExpense(ctx, expenseID)
}

// GetExpense retrieves an expense with its splits.
func (c *conn) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := c.q.QueryRowContext(ctx, "SELECT "+expenseColumns+" FROM expenses WHERE id = ?", expenseID)
	e, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("expense not found: %s", expenseID)
	}
	if err != nil {
		return nil, classify(err, "get expense")
	}

	splits, err := c.loadSplits(ctx, "WHERE expense_id = ?", expenseID)
	if err != nil {
		return nil, err
	}
	e.Splits = splits[expenseID]
	return e, nil
}

// ListExpensesByGroup returns a group's expenses with their splits, newest
// expense date first.
func (c *conn) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	expenses, err := c.listExpenses(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return expenses, nil
	}

	splits, err := c.loadSplits(ctx,
		"WHERE expense_id IN (SELECT id FROM expenses WHERE group_id = ?)", groupID)
	if err != nil {
		return nil, err
	}
	for _, e := range expenses {
		e.Splits = splits[e.ID]
	}
	return expenses, nil
}

func (c *conn) listExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := c.q.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE group_id = ? ORDER BY expense_date DESC, created_at DESC, id",
		groupID,
	)
	if err != nil {
		return nil, classify(err, "list expenses")
	}
	defer rows.Close()

	expenses := []*models.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, classify(err, "scan expense")
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate expenses")
	}
	return expenses, nil
}

// loadSplits returns splits matching where, keyed by expense ID.
func (c *conn) loadSplits(ctx context.Context, where string, args ...any) (map[string][]models.ExpenseSplit, error) {
	query := strings.Join([]string{
		"SELECT id, expense_id, participant_id, amount FROM expense_splits",
		where,
		"ORDER BY expense_id, position",
	}, " ")
	rows, err := c.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "list expense splits")
	}
	defer rows.Close()

	splits := make(map[string][]models.ExpenseSplit)
	for rows.Next() {
		var s models.ExpenseSplit
		var amount int64
		if err := rows.Scan(&s.ID, &s.ExpenseID, &s.ParticipantID, &amount); err != nil {
			return nil, classify(err, "scan expense split")
		}
		s.Amount = fromMinor(amount)
		splits[s.ExpenseID] = append(splits[s.ExpenseID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate expense splits")
	}
	return splits, nil
}

// ExpenseTotals aggregates a group's expenses by category.
func (c *conn) ExpenseTotals(ctx context.Context, groupID string) (*models.ExpenseTotals, error) {
	rows, err := c.q.QueryContext(ctx,
		`SELECT category, COUNT(*), SUM(amount) FROM expenses
		 WHERE group_id = ? GROUP BY category ORDER BY category`,
		groupID,
	)
	if err != nil {
		return nil, classify(err, "aggregate expenses")
	}
	defer rows.Close()

	totals := &models.ExpenseTotals{ByCategory: []models.CategoryTotal{}}
	var total int64
	for rows.Next() {
		var category string
		var count int
		var sum int64
		if err := rows.Scan(&category, &count, &sum); err != nil {
			return nil, classify(err, "scan expense totals")
		}
		total += sum
		totals.Count += count
		totals.ByCategory = append(totals.ByCategory, models.CategoryTotal{
			Category: category,
			Total:    fromMinor(sum),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate expense totals")
	}
	totals.Total = fromMinor(total)
	return totals, nil
}
