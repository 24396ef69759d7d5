package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/models"
)

// CreateGroup persists a new group.
func (c *conn) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	_, err := c.q.ExecContext(ctx,
		"INSERT INTO trip_groups (id, name, owner_id, currency, created_at) VALUES (?, ?, ?, ?, ?)",
		group.ID, group.Name, group.OwnerID, group.Currency, group.CreatedAt,
	)
	if err != nil {
		return classify(err, "insert group")
	}
	return nil
}

// GetGroup retrieves a group by ID.
func (c *conn) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := c.q.QueryRowContext(ctx,
		"SELECT id, name, owner_id, currency, created_at FROM trip_groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.OwnerID, &group.Currency, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("group not found: %s", groupID)
	}
	if err != nil {
		return nil, classify(err, "get group")
	}
	return group, nil
}

// IsMember reports whether userID is linked to a participant of the group.
func (c *conn) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var n int
	err := c.q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM participants WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	).Scan(&n)
	if err != nil {
		return false, classify(err, "check group membership")
	}
	return n > 0, nil
}

// DeleteGroup removes a group with its splits, expenses, settlements and
// participants. Children go first so no foreign key is ever left dangling.
func (c *conn) DeleteGroup(ctx context.Context, groupID string) error {
	if _, err := c.GetGroup(ctx, groupID); err != nil {
		return err
	}

	stmts := []struct {
		query  string
		action string
	}{
		{"DELETE FROM expense_splits WHERE expense_id IN (SELECT id FROM expenses WHERE group_id = ?)", "delete group splits"},
		{"DELETE FROM expenses WHERE group_id = ?", "delete group expenses"},
		{"DELETE FROM settlements WHERE group_id = ?", "delete group settlements"},
		{"DELETE FROM participants WHERE group_id = ?", "delete group participants"},
		{"DELETE FROM trip_groups WHERE id = ?", "delete group"},
	}
	for _, stmt := range stmts {
		if _, err := c.q.ExecContext(ctx, stmt.query, groupID); err != nil {
			return classify(err, "%s", stmt.action)
		}
	}
	return nil
}
