package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/models"
)

const settlementColumns = "id, group_id, from_id, to_id, amount, currency, notes, settled_at, created_by, convention"

func scanSettlement(row rowScanner) (*models.Settlement, error) {
	s := &models.Settlement{}
	var amount int64
	var notes sql.NullString
	if err := row.Scan(&s.ID, &s.GroupID, &s.FromID, &s.ToID, &amount, &s.Currency, &notes, &s.SettledAt, &s.CreatedBy, &s.Convention); err != nil {
		return nil, err
	}
	s.Amount = fromMinor(amount)
	s.Notes = notes.String
	return s, nil
}

// InsertSettlement persists a new settlement.
func (c *conn) InsertSettlement(ctx context.Context, s *models.Settlement) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.SettledAt == 0 {
		s.SettledAt = time.Now().Unix()
	}

	amount, err := toMinor(s.Amount)
	if err != nil {
		return err
	}
	_, err = c.q.ExecContext(ctx,
		"INSERT INTO settlements ("+settlementColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		s.ID, s.GroupID, s.FromID, s.ToID, amount, s.Currency, nullable(s.Notes), s.SettledAt, s.CreatedBy, s.Convention,
	)
	if err != nil {
		return classify(err, "insert settlement")
	}
	return nil
}

// GetSettlement retrieves a settlement by ID.
func (c *conn) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	row := c.q.QueryRowContext(ctx, "SELECT "+settlementColumns+" FROM settlements WHERE id = ?", settlementID)
	s, err := scanSettlement(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("settlement not found: %s", settlementID)
	}
	if err != nil {
		return nil, classify(err, "get settlement")
	}
	return s, nil
}

// ListSettlementsByGroup returns a group's settlements, most recent first.
func (c *conn) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	rows, err := c.q.QueryContext(ctx,
		"SELECT "+settlementColumns+" FROM settlements WHERE group_id = ? ORDER BY settled_at DESC, id",
		groupID,
	)
	if err != nil {
		return nil, classify(err, "list settlements")
	}
	defer rows.Close()

	settlements := []*models.Settlement{}
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, classify(err, "scan settlement")
		}
		settlements = append(settlements, s)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate settlements")
	}
	return settlements, nil
}

// DeleteSettlement removes a settlement.
func (c *conn) DeleteSettlement(ctx context.Context, settlementID string) error {
	res, err := c.q.ExecContext(ctx, "DELETE FROM settlements WHERE id = ?", settlementID)
	if err != nil {
		return classify(err, "delete settlement")
	}
	return expectOne(res, "settlement", settlementID)
}
