// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/tripledger/internal/models"
)

// Reader holds the read operations shared by Store and Tx.
// Missing records are reported with an error wrapping apperr.ErrNotFound.
type Reader interface {
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// IsMember reports whether userID is linked to a participant of groupID.
	IsMember(ctx context.Context, groupID, userID string) (bool, error)

	GetParticipant(ctx context.Context, participantID string) (*models.Participant, error)

	// ListParticipants returns the roster ordered by creation time.
	ListParticipants(ctx context.Context, groupID string) ([]*models.Participant, error)

	// IsParticipantReferenced reports whether any expense, split or
	// settlement points at the participant.
	IsParticipantReferenced(ctx context.Context, participantID string) (bool, error)

	// GetExpense returns the expense with its splits.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup returns expenses with splits, newest date first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// ExpenseTotals aggregates expense amounts for a group.
	ExpenseTotals(ctx context.Context, groupID string) (*models.ExpenseTotals, error)

	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByGroup returns settlements, most recent first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)
}

// Writer holds the mutations. They are only reachable through a Tx so that
// a record change and its running-total deltas always commit together.
type Writer interface {
	// CreateGroup persists a new group; ID and CreatedAt are filled in when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes the group and everything it owns.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddParticipant persists a participant with zero running totals.
	AddParticipant(ctx context.Context, participant *models.Participant) error

	// UpdateParticipant overwrites name, email and user link; running
	// totals are not touched.
	UpdateParticipant(ctx context.Context, participant *models.Participant) error

	RemoveParticipant(ctx context.Context, participantID string) error

	// ApplyDelta adds d to the participant's running totals in place.
	// The update is a single in-row increment, never a read-modify-write.
	ApplyDelta(ctx context.Context, participantID string, d models.Delta) error

	// InsertExpense persists the expense record only; splits are written
	// with ReplaceSplits.
	InsertExpense(ctx context.Context, expense *models.Expense) error

	// LockExpense locks the expense row for the rest of the transaction and
	// returns the expense with its splits. Splits only change while their
	// expense is locked.
	LockExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// UpdateExpense overwrites the expense's scalar fields.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes the expense and its splits.
	DeleteExpense(ctx context.Context, expenseID string) error

	// ReplaceSplits deletes the expense's splits and inserts splits,
	// filling in their IDs.
	ReplaceSplits(ctx context.Context, expenseID string, splits []models.ExpenseSplit) error

	InsertSettlement(ctx context.Context, settlement *models.Settlement) error
	DeleteSettlement(ctx context.Context, settlementID string) error
}

// Tx is a unit of work. Everything done through it commits or rolls back
// together.
type Tx interface {
	Reader
	Writer
}

// UserStore holds user account persistence used by authentication.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns (nil, nil) when no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns (nil, nil) when the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Store defines the interface for ledger storage.
// This abstraction allows swapping storage backends (SQLite, MySQL)
// without changing the ledger layer.
type Store interface {
	Reader
	UserStore

	// RunInTx runs fn in a transaction. The transaction commits when fn
	// returns nil and rolls back otherwise. A lock conflict detected by the
	// database is returned wrapping apperr.ErrConflict.
	RunInTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any resources held by the store.
	Close() error
}
