package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/models"
)

const participantColumns = "id, group_id, user_id, name, email, total_paid, total_owed, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParticipant(row rowScanner) (*models.Participant, error) {
	p := &models.Participant{}
	var userID, email sql.NullString
	var paid, owed int64
	if err := row.Scan(&p.ID, &p.GroupID, &userID, &p.Name, &email, &paid, &owed, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.UserID = userID.String
	p.Email = email.String
	p.TotalPaid = fromMinor(paid)
	p.TotalOwed = fromMinor(owed)
	return p, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// AddParticipant persists a participant with zero running totals.
func (c *conn) AddParticipant(ctx context.Context, p *models.Participant) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}

	_, err := c.q.ExecContext(ctx,
		`INSERT INTO participants (id, group_id, user_id, name, email, total_paid, total_owed, join_seq, created_at)
		 SELECT ?, ?, ?, ?, ?, 0, 0, COALESCE(MAX(join_seq), 0) + 1, ?
		 FROM participants WHERE group_id = ?`,
		p.ID, p.GroupID, nullable(p.UserID), p.Name, nullable(p.Email), p.CreatedAt, p.GroupID,
	)
	if err != nil {
		return classify(err, "insert participant")
	}
	return nil
}

// GetParticipant retrieves a participant with its running totals.
func (c *conn) GetParticipant(ctx context.Context, participantID string) (*models.Participant, error) {
	row := c.q.QueryRowContext(ctx,
		"SELECT "+participantColumns+" FROM participants WHERE id = ?",
		participantID,
	)
	p, err := scanParticipant(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("participant not found: %s", participantID)
	}
	if err != nil {
		return nil, classify(err, "get participant")
	}
	return p, nil
}

// ListParticipants returns the group roster in the order participants joined.
func (c *conn) ListParticipants(ctx context.Context, groupID string) ([]*models.Participant, error) {
	rows, err := c.q.QueryContext(ctx,
		"SELECT "+participantColumns+" FROM participants WHERE group_id = ? ORDER BY join_seq, id",
		groupID,
	)
	if err != nil {
		return nil, classify(err, "list participants")
	}
	defer rows.Close()

	var participants []*models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, classify(err, "scan participant")
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate participants")
	}
	return participants, nil
}

// UpdateParticipant overwrites the participant's name, email and user link.
// Running totals are left alone.
func (c *conn) UpdateParticipant(ctx context.Context, p *models.Participant) error {
	res, err := c.q.ExecContext(ctx,
		"UPDATE participants SET name = ?, email = ?, user_id = ? WHERE id = ?",
		p.Name, nullable(p.Email), nullable(p.UserID), p.ID,
	)
	if err != nil {
		return classify(err, "update participant")
	}
	return expectOne(res, "participant", p.ID)
}

// IsParticipantReferenced reports whether any expense, split or settlement
// points at the participant.
func (c *conn) IsParticipantReferenced(ctx context.Context, participantID string) (bool, error) {
	var n int
	err := c.q.QueryRowContext(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM expenses WHERE payer_id = ?) +
		   (SELECT COUNT(*) FROM expense_splits WHERE participant_id = ?) +
		   (SELECT COUNT(*) FROM settlements WHERE from_id = ? OR to_id = ?)`,
		participantID, participantID, participantID, participantID,
	).Scan(&n)
	if err != nil {
		return false, classify(err, "check participant references")
	}
	return n > 0, nil
}

// RemoveParticipant deletes a participant row. Referenced participants are
// rejected by the foreign keys.
func (c *conn) RemoveParticipant(ctx context.Context, participantID string) error {
	res, err := c.q.ExecContext(ctx, "DELETE FROM participants WHERE id = ?", participantID)
	if err != nil {
		return classify(err, "delete participant")
	}
	return expectOne(res, "participant", participantID)
}

// ApplyDelta adds d to the participant's running totals with a single
// in-row increment, so concurrent deltas never overwrite each other.
func (c *conn) ApplyDelta(ctx context.Context, participantID string, d models.Delta) error {
	paid, err := toMinor(d.Paid)
	if err != nil {
		return err
	}
	owed, err := toMinor(d.Owed)
	if err != nil {
		return err
	}
	res, err := c.q.ExecContext(ctx,
		"UPDATE participants SET total_paid = total_paid + ?, total_owed = total_owed + ? WHERE id = ?",
		paid, owed, participantID,
	)
	if err != nil {
		return classify(err, "update participant %s totals", participantID)
	}
	return expectOne(res, "participant", participantID)
}
