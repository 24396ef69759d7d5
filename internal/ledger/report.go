package ledger

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

// Balances returns every participant's running totals and balance.
func (l *Ledger) Balances(ctx context.Context, actor Actor, groupID string) ([]models.ParticipantBalance, error) {
	if _, err := memberGroup(ctx, l.store, groupID, actor); err != nil {
		return nil, err
	}
	participants, err := l.store.ListParticipants(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return calculator.Balances(participants), nil
}

// Summary reports total spend, per-category spend, balances and suggested
// settlements. Settlements are transfers and never count as spend.
func (l *Ledger) Summary(ctx context.Context, actor Actor, groupID string) (*models.Summary, error) {
	group, err := memberGroup(ctx, l.store, groupID, actor)
	if err != nil {
		return nil, err
	}

	var (
		totals       *models.ExpenseTotals
		participants []*models.Participant
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = l.store.ExpenseTotals(gctx, groupID)
		return err
	})
	g.Go(func() error {
		var err error
		participants, err = l.store.ListParticipants(gctx, groupID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	balances := calculator.Balances(participants)
	return &models.Summary{
		GroupID:     group.ID,
		Currency:    group.Currency,
		Totals:      *totals,
		Balances:    balances,
		Suggestions: calculator.SimplifyDebts(balances),
	}, nil
}

// Audit recomputes the running totals from the group's records and returns
// every participant whose stored totals differ. It never repairs anything.
func (l *Ledger) Audit(ctx context.Context, actor Actor, groupID string) ([]models.Drift, error) {
	var drift []models.Drift
	err := l.store.RunInTx(ctx, func(tx storage.Tx) error {
		if _, err := memberGroup(ctx, tx, groupID, actor); err != nil {
			return err
		}
		participants, err := tx.ListParticipants(ctx, groupID)
		if err != nil {
			return err
		}
		expenses, err := tx.ListExpensesByGroup(ctx, groupID)
		if err != nil {
			return err
		}
		settlements, err := tx.ListSettlementsByGroup(ctx, groupID)
		if err != nil {
			return err
		}
		expected := calculator.Recompute(participants, expenses, settlements)
		drift = calculator.FindDrift(participants, expected)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return drift, nil
}
