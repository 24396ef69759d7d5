// Package ledger is the balance-consistency engine. Every operation that
// creates, changes or removes an expense or settlement applies the matching
// deltas to the participants' running totals inside the same transaction as
// the record change.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/cenkalti/backoff/v4"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/metrics"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

// Actor is the authenticated user an operation runs on behalf of.
type Actor struct {
	UserID string
}

// Config tunes ledger behavior.
type Config struct {
	// Convention decides how new settlements change the receiver's
	// TotalOwed. Each settlement keeps the convention it was created under.
	Convention calculator.Convention
	// DefaultCurrency is used for groups created without a currency.
	DefaultCurrency string
	// StrictSplits rejects explicit splits that do not sum to the amount.
	StrictSplits bool
	// MaxRetries bounds how often a transaction is retried after a conflict.
	MaxRetries int
	// RetryBaseDelay is the base of the exponential backoff between retries.
	RetryBaseDelay time.Duration
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		Convention:      calculator.Discharge,
		DefaultCurrency: "USD",
		MaxRetries:      3,
		RetryBaseDelay:  10 * time.Millisecond,
	}
}

// Ledger runs ledger operations against a store.
type Ledger struct {
	store   storage.Store
	cfg     Config
	metrics *metrics.Ledger
}

// New creates a Ledger. m may be nil.
func New(store storage.Store, cfg Config, m *metrics.Ledger) *Ledger {
	if cfg.Convention == "" {
		cfg.Convention = calculator.Discharge
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "USD"
	}
	return &Ledger{store: store, cfg: cfg, metrics: m}
}

// Convention returns the convention new settlements are recorded under.
func (l *Ledger) Convention() calculator.Convention {
	return l.cfg.Convention
}

// mutate runs fn in a transaction, retrying the whole transaction when the
// store reports a conflict. fn must not keep state across attempts.
func (l *Ledger) mutate(ctx context.Context, op string, fn func(tx storage.Tx) error) (err error) {
	started := time.Now()
	defer func() { l.metrics.Observe(op, started, err) }()

	attempt := 0
	run := func() error {
		txErr := l.store.RunInTx(ctx, fn)
		if txErr != nil && !errors.Is(txErr, apperr.ErrConflict) {
			return backoff.Permanent(txErr)
		}
		return txErr
	}
	notify := func(err error, delay time.Duration) {
		attempt++
		l.metrics.Retry(op)
		slog.Warn("Ledger transaction conflict, retrying",
			"op", op,
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)
	}
	return backoff.RetryNotify(run, retryPolicy(ctx, l.cfg.RetryBaseDelay, l.cfg.MaxRetries), notify)
}

// applyDeltas writes ds to the running totals in participant ID order.
func applyDeltas(ctx context.Context, tx storage.Tx, ds calculator.Deltas) error {
	for _, id := range ds.IDs() {
		if err := tx.ApplyDelta(ctx, id, ds[id]); err != nil {
			return err
		}
	}
	return nil
}

// requireMember fails with Forbidden unless the actor owns the group or is
// linked to one of its participants.
func requireMember(ctx context.Context, r storage.Reader, group *models.Group, actor Actor) error {
	if actor.UserID == "" {
		return apperr.Forbidden("authentication required")
	}
	if group.OwnerID == actor.UserID {
		return nil
	}
	ok, err := r.IsMember(ctx, group.ID, actor.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Forbidden("user %s is not a member of group %s", actor.UserID, group.ID)
	}
	return nil
}

// requireOwner fails with Forbidden unless the actor owns the group.
func requireOwner(group *models.Group, actor Actor) error {
	if actor.UserID == "" || group.OwnerID != actor.UserID {
		return apperr.Forbidden("only the group owner may do this")
	}
	return nil
}

// memberGroup loads a group and checks the actor may read it.
func memberGroup(ctx context.Context, r storage.Reader, groupID string, actor Actor) (*models.Group, error) {
	group, err := r.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(ctx, r, group, actor); err != nil {
		return nil, err
	}
	return group, nil
}

// normalizeCurrency upper-cases code, substitutes fallback when empty, and
// rejects codes go-money does not know.
func normalizeCurrency(code, fallback string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = fallback
	}
	if money.GetCurrency(code) == nil {
		return "", apperr.BadRequest("unknown currency %q", code)
	}
	return code, nil
}

func rosterIDs(participants []*models.Participant) []string {
	ids := make([]string, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}
	return ids
}

func findParticipant(participants []*models.Participant, id string) *models.Participant {
	for _, p := range participants {
		if p.ID == id {
			return p
		}
	}
	return nil
}
