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

// SettlementInput describes a direct payment between two participants.
type SettlementInput struct {
	GroupID string
	FromID  string
	ToID    string
	Amount  decimal.Decimal
	// Currency defaults to the group currency.
	Currency string
	Notes    string
	// SettledAt defaults to now.
	SettledAt time.Time
}

// CreateSettlement records a payment from one participant to another. The
// sender's TotalPaid grows by the amount; the receiver's TotalOwed moves by
// the amount in the direction the configured convention prescribes. The
// convention is stored with the settlement.
func (l *Ledger) CreateSettlement(ctx context.Context, actor Actor, in SettlementInput) (*models.Settlement, error) {
	if in.FromID == in.ToID {
		return nil, apperr.BadRequest("a settlement needs two different participants")
	}
	amount, err := positiveAmount(in.Amount)
	if err != nil {
		return nil, err
	}

	var settlement *models.Settlement
	err = l.mutate(ctx, "create_settlement", func(tx storage.Tx) error {
		group, err := memberGroup(ctx, tx, in.GroupID, actor)
		if err != nil {
			return err
		}
		roster, err := tx.ListParticipants(ctx, group.ID)
		if err != nil {
			return err
		}
		for _, id := range []string{in.FromID, in.ToID} {
			if findParticipant(roster, id) == nil {
				return apperr.BadRequest("participant %s is not a member of group %s", id, group.ID)
			}
		}
		currency, err := normalizeCurrency(in.Currency, group.Currency)
		if err != nil {
			return err
		}

		s := &models.Settlement{
			GroupID:    group.ID,
			FromID:     in.FromID,
			ToID:       in.ToID,
			Amount:     amount,
			Currency:   currency,
			Notes:      strings.TrimSpace(in.Notes),
			CreatedBy:  actor.UserID,
			Convention: string(l.cfg.Convention),
		}
		if !in.SettledAt.IsZero() {
			s.SettledAt = in.SettledAt.Unix()
		}
		if err := tx.InsertSettlement(ctx, s); err != nil {
			return err
		}
		if err := applyDeltas(ctx, tx, calculator.SettlementDeltas(s)); err != nil {
			return err
		}
		settlement = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Settlement created",
		"settlement_id", settlement.ID,
		"group_id", settlement.GroupID,
		"from_id", settlement.FromID,
		"to_id", settlement.ToID,
		"amount", settlement.Amount.StringFixed(calculator.MoneyPlaces),
		"convention", settlement.Convention,
	)
	return settlement, nil
}

// GetSettlement returns a settlement.
func (l *Ledger) GetSettlement(ctx context.Context, actor Actor, settlementID string) (*models.Settlement, error) {
	s, err := l.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if _, err := memberGroup(ctx, l.store, s.GroupID, actor); err != nil {
		return nil, err
	}
	return s, nil
}

// ListSettlements returns a group's settlements, most recent first.
func (l *Ledger) ListSettlements(ctx context.Context, actor Actor, groupID string) ([]*models.Settlement, error) {
	if _, err := memberGroup(ctx, l.store, groupID, actor); err != nil {
		return nil, err
	}
	return l.store.ListSettlementsByGroup(ctx, groupID)
}

// DeleteSettlement removes a settlement and reverses exactly the deltas it
// was created with, under its recorded convention. Owner only.
func (l *Ledger) DeleteSettlement(ctx context.Context, actor Actor, settlementID string) error {
	var groupID string
	err := l.mutate(ctx, "delete_settlement", func(tx storage.Tx) error {
		s, err := tx.GetSettlement(ctx, settlementID)
		if err != nil {
			return err
		}
		group, err := tx.GetGroup(ctx, s.GroupID)
		if err != nil {
			return err
		}
		if err := requireOwner(group, actor); err != nil {
			return err
		}
		groupID = group.ID

		if err := tx.DeleteSettlement(ctx, settlementID); err != nil {
			return err
		}
		return applyDeltas(ctx, tx, calculator.SettlementDeltas(s).Neg())
	})
	if err != nil {
		return err
	}

	slog.Info("Settlement deleted", "settlement_id", settlementID, "group_id", groupID)
	return nil
}
