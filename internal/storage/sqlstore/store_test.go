package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seedGroup creates a group with the named participants and returns their IDs
// in order.
func seedGroup(t *testing.T, store *SQLStore, names ...string) (*models.Group, []string) {
	t.Helper()
	ctx := context.Background()
	group := &models.Group{Name: "Lisbon", OwnerID: "user-1", Currency: "EUR"}
	var ids []string
	err := store.RunInTx(ctx, func(tx storage.Tx) error {
		if err := tx.CreateGroup(ctx, group); err != nil {
			return err
		}
		for i, name := range names {
			p := &models.Participant{GroupID: group.ID, Name: name, CreatedAt: int64(i + 1)}
			if i == 0 {
				p.UserID = group.OwnerID
			}
			if err := tx.AddParticipant(ctx, p); err != nil {
				return err
			}
			ids = append(ids, p.ID)
		}
		return nil
	})
	require.NoError(t, err)
	return group, ids
}

func TestSQLStore_Groups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateGroup generates ID and timestamp", func(t *testing.T) {
		group, _ := seedGroup(t, store, "Alice")
		assert.NotEmpty(t, group.ID)
		assert.NotZero(t, group.CreatedAt)

		got, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, group, got)
	})

	t.Run("GetGroup reports missing groups as not found", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "missing")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("IsMember matches linked users only", func(t *testing.T) {
		group, _ := seedGroup(t, store, "Alice", "Bob")

		ok, err := store.IsMember(ctx, group.ID, "user-1")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.IsMember(ctx, group.ID, "user-2")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("DeleteGroup removes everything the group owns", func(t *testing.T) {
		group, ids := seedGroup(t, store, "Alice", "Bob")
		err := store.RunInTx(ctx, func(tx storage.Tx) error {
			e := &models.Expense{
				GroupID: group.ID, PayerID: ids[0], Amount: dec("10.00"), Currency: "EUR",
				Category: "food", Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), SplitType: models.SplitEqual,
			}
			if err := tx.InsertExpense(ctx, e); err != nil {
				return err
			}
			if err := tx.ReplaceSplits(ctx, e.ID, []models.ExpenseSplit{
				{ParticipantID: ids[0], Amount: dec("5.00")},
				{ParticipantID: ids[1], Amount: dec("5.00")},
			}); err != nil {
				return err
			}
			return tx.InsertSettlement(ctx, &models.Settlement{
				GroupID: group.ID, FromID: ids[1], ToID: ids[0], Amount: dec("5.00"), Currency: "EUR", CreatedBy: "user-1",
			})
		})
		require.NoError(t, err)

		err = store.RunInTx(ctx, func(tx storage.Tx) error {
			return tx.DeleteGroup(ctx, group.ID)
		})
		require.NoError(t, err)

		_, err = store.GetGroup(ctx, group.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		participants, err := store.ListParticipants(ctx, group.ID)
		require.NoError(t, err)
		assert.Empty(t, participants)
		expenses, err := store.ListExpensesByGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Empty(t, expenses)
	})

	t.Run("DeleteGroup on a missing group is not found", func(t *testing.T) {
		err := store.RunInTx(ctx, func(tx storage.Tx) error {
			return tx.DeleteGroup(ctx, "missing")
		})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestSQLStore_Participants(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("ApplyDelta increments totals exactly", func(t *testing.T) {
		_, ids := seedGroup(t, store, "Alice")
		err := store.RunInTx(ctx, func(tx storage.Tx) error {
			if err := tx.ApplyDelta(ctx, ids[0], models.Delta{Paid: dec("0.10"), Owed: dec("0.20")}); err != nil {
				return err
			}
			return tx.ApplyDelta(ctx, ids[0], models.Delta{Paid: dec("0.20"), Owed: dec("-0.05")})
		})
		require.NoError(t, err)

		p, err := store.GetParticipant(ctx, ids[0])
		require.NoError(t, err)
		assert.True(t, p.TotalPaid.Equal(dec("0.30")), "paid = %s", p.TotalPaid)
		assert.True(t, p.TotalOwed.Equal(dec("0.15")), "owed = %s", p.TotalOwed)
		assert.True(t, p.Balance().Equal(dec("0.15")))
	})

	t.Run("ApplyDelta on a missing participant is not found", func(t *testing.T) {
		err := store.RunInTx(ctx, func(tx storage.Tx) error {
			return tx.ApplyDelta(ctx, "missing", models.Delta{Paid: dec("1")})
		})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("ListParticipants keeps join order", func(t *testing.T) {
		group, ids := seedGroup(t, store, "Alice", "Bob", "Carol")
		participants, err := store.ListParticipants(ctx, group.ID)
		require.NoError(t, err)
		require.Len(t, participants, 3)
		for i, p := range participants {
			assert.Equal(t, ids[i], p.ID)
			assert.True(t, p.TotalPaid.IsZero())
		}
		assert.Equal(t, "user-1", participants[0].UserID)
		assert.Empty(t, participants[1].UserID)
	})

	t.Run("UpdateParticipant keeps totals", func(t *testing.T) {
		_, ids := seedGroup(t, store, "Alice", "Bob")
		err := store.RunInTx(ctx, func(tx storage.Tx) error {
			if err := tx.ApplyDelta(ctx, ids[1], models.Delta{Paid: dec("4.00")}); err != nil {
				return err
			}
			p, err := tx.GetParticipant(ctx, ids[1])
			if err != nil {
				return err
			}
			p.Name = "Robert"
			p.Email = "rob@example.com"
			return tx.UpdateParticipant(ctx, p)
		})
		require.NoError(t, err)

		p, err := store.GetParticipant(ctx, ids[1])
		require.NoError(t, err)
		assert.Equal(t, "Robert", p.Name)
		assert.Equal(t, "rob@example.com", p.Email)
		assert.True(t, p.TotalPaid.Equal(dec("4.00")))

		err = store.RunInTx(ctx, func(tx storage.Tx) error {
			return tx.UpdateParticipant(ctx, &models.Participant{ID: "missing", Name: "x"})
		})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("referenced participants cannot be removed", func(t *testing.T) {
		group, ids := seedGroup(t, store, "Alice", "Bob")
		err := store.RunInTx(ctx, func(tx storage.Tx) error {
			return tx.InsertSettlement(ctx, &models.Settlement{
				GroupID: group.ID, FromID: ids[1], ToID: ids[0], Amount: dec("1.00"), Currency: "EUR", CreatedBy: "user-1",
			})
		})
		require.NoError(t, err)

		referenced, err := store.IsParticipantReferenced(ctx, ids[1])
		require.NoError(t, err)
		assert.True(t, referenced)

		err = store.RunInTx(ctx, func(tx storage.Tx) error {
			return tx.RemoveParticipant(ctx, ids[1])
		})
		assert.ErrorIs(t, err, apperr.ErrBadRequest)
	})

	t.Run("unreferenced participants can be removed", func(t *testing.T) {
		_, ids := seedGroup(t, store, "Alice", "Bob")
		referenced, err := store.IsParticipantReferenced(ctx, ids[1])
		require.NoError(t, err)
		assert.False(t, referenced)

		err = store.RunInTx(ctx, func(tx storage.Tx) error {
			return tx.RemoveParticipant(ctx, ids[1])
		})
		require.NoError(t, err)
		_, err = store.GetParticipant(ctx, ids[1])
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestSQLStore_Expenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group, ids := seedGroup(t, store, "Alice", "Bob", "Carol")

	insert := func(t *testing.T, e *models.Expense, splits []models.ExpenseSplit) {
		t.Helper()
		err := store.RunInTx(ctx, func(tx storage.Tx) error {
			if err := tx.InsertExpense(ctx, e); err != nil {
				return err
			}
			return tx.ReplaceSplits(ctx, e.ID, splits)
		})
		require.NoError(t, err)
	}

	dinner := &models.Expense{
		GroupID: group.ID, PayerID: ids[0], Amount: dec("90.00"), Currency: "EUR", Category: "food",
		Description: "Dinner", Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), SplitType: models.SplitEqual,
	}
	insert(t, dinner, []models.ExpenseSplit{
		{ParticipantID: ids[0], Amount: dec("30.00")},
		{ParticipantID: ids[1], Amount: dec("30.00")},
		{ParticipantID: ids[2], Amount: dec("30.00")},
	})
	hotel := &models.Expense{
		GroupID: group.ID, PayerID: ids[1], Amount: dec("100.01"), Currency: "EUR", Category: "lodging",
		Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), SplitType: models.SplitExplicit,
	}
	insert(t, hotel, []models.ExpenseSplit{
		{ParticipantID: ids[2], Amount: dec("60.01")},
		{ParticipantID: ids[0], Amount: dec("40.00")},
	})

	t.Run("GetExpense returns splits in insertion order", func(t *testing.T) {
		got, err := store.GetExpense(ctx, hotel.ID)
		require.NoError(t, err)
		assert.True(t, got.Amount.Equal(dec("100.01")))
		assert.Equal(t, models.SplitExplicit, got.SplitType)
		assert.Equal(t, hotel.Date, got.Date)
		require.Len(t, got.Splits, 2)
		assert.Equal(t, ids[2], got.Splits[0].ParticipantID)
		assert.Equal(t, ids[0], got.Splits[1].ParticipantID)
		assert.True(t, got.SplitTotal().Equal(dec("100.01")))
	})

	t.Run("ListExpensesByGroup is newest first", func(t *testing.T) {
		expenses, err := store.ListExpensesByGroup(ctx, group.ID)
		require.NoError(t, err)
		require.Len(t, expenses, 2)
		assert.Equal(t, hotel.ID, expenses[0].ID)
		assert.Equal(t, dinner.ID, expenses[1].ID)
		assert.Len(t, expenses[1].Splits, 3)
	})

	t.Run("ExpenseTotals groups by category", func(t *testing.T) {
		totals, err := store.ExpenseTotals(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, totals.Count)
		assert.True(t, totals.Total.Equal(dec("190.01")))
		require.Len(t, totals.ByCategory, 2)
		assert.Equal(t, "food", totals.ByCategory[0].Category)
		assert.True(t, totals.ByCategory[1].Total.Equal(dec("100.01")))
	})

	t.Run("UpdateExpense and ReplaceSplits overwrite", func(t *testing.T) {
		updated := *dinner
		updated.PayerID = ids[2]
		updated.Amount = dec("60.00")
		updated.Category = "drinks"
		err := store.RunInTx(ctx, func(tx storage.Tx) error {
			if err := tx.UpdateExpense(ctx, &updated); err != nil {
				return err
			}
			return tx.ReplaceSplits(ctx, updated.ID, []models.ExpenseSplit{
				{ParticipantID: ids[1], Amount: dec("60.00")},
			})
		})
		require.NoError(t, err)

		got, err := store.GetExpense(ctx, dinner.ID)
		require.NoError(t, err)
		assert.Equal(t, ids[2], got.PayerID)
		assert.Equal(t, "drinks", got.Category)
		require.Len(t, got.Splits, 1)
		assert.True(t, got.Splits[0].Amount.Equal(dec("60.00")))
	})

	t.Run("LockExpense returns the current row", func(t *testing.T) {
		var got *models.Expense
		err := store.RunInTx(ctx, func(tx storage.Tx) error {
			var err error
			got, err = tx.LockExpense(ctx, dinner.ID)
			return err
		})
		require.NoError(t, err)
		assert.True(t, got.Amount.Equal(dec("60.00")))
		require.Len(t, got.Splits, 1)

		before, err := store.GetExpense(ctx, dinner.ID)
		require.NoError(t, err)
		assert.Equal(t, before.UpdatedAt, got.UpdatedAt, "locking does not touch the row")

		err = store.RunInTx(ctx, func(tx storage.Tx) error {
			_, err := tx.LockExpense(ctx, "missing")
			return err
		})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("amounts beyond int64 cents are rejected", func(t *testing.T) {
		e := &models.Expense{
			GroupID: group.ID, PayerID: ids[0], Amount: dec("100000000000000000"), Currency: "EUR", Category: "misc",
			Date: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), SplitType: models.SplitEqual,
		}
		err := store.RunInTx(ctx, func(tx storage.Tx) error {
			return tx.InsertExpense(ctx, e)
		})
		assert.ErrorIs(t, err, apperr.ErrBadRequest)

		err = store.RunInTx(ctx, func(tx storage.Tx) error {
			return tx.ApplyDelta(ctx, ids[0], models.Delta{Owed: dec("-92233720368547758.09")})
		})
		assert.ErrorIs(t, err, apperr.ErrBadRequest)
	})

	t.Run("failed transaction leaves no trace", func(t *testing.T) {
		boom := errors.New("boom")
		e := &models.Expense{
			GroupID: group.ID, PayerID: ids[0], Amount: dec("5.00"), Currency: "EUR", Category: "misc",
			Date: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), SplitType: models.SplitEqual,
		}
		err := store.RunInTx(ctx, func(tx storage.Tx) error {
			if err := tx.InsertExpense(ctx, e); err != nil {
				return err
			}
			if err := tx.ApplyDelta(ctx, ids[0], models.Delta{Paid: dec("5.00")}); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = store.GetExpense(ctx, e.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		p, err := store.GetParticipant(ctx, ids[0])
		require.NoError(t, err)
		assert.True(t, p.TotalPaid.IsZero())
	})

	t.Run("DeleteExpense removes splits", func(t *testing.T) {
		err := store.RunInTx(ctx, func(tx storage.Tx) error {
			return tx.DeleteExpense(ctx, hotel.ID)
		})
		require.NoError(t, err)
		_, err = store.GetExpense(ctx, hotel.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)

		err = store.RunInTx(ctx, func(tx storage.Tx) error {
			return tx.DeleteExpense(ctx, hotel.ID)
		})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestSQLStore_Settlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group, ids := seedGroup(t, store, "Alice", "Bob")

	first := &models.Settlement{
		GroupID: group.ID, FromID: ids[1], ToID: ids[0], Amount: dec("12.50"), Currency: "EUR",
		Notes: "cash", SettledAt: 100, CreatedBy: "user-1", Convention: "offset",
	}
	second := &models.Settlement{
		GroupID: group.ID, FromID: ids[0], ToID: ids[1], Amount: dec("2.00"), Currency: "EUR",
		SettledAt: 200, CreatedBy: "user-1",
	}
	err := store.RunInTx(ctx, func(tx storage.Tx) error {
		if err := tx.InsertSettlement(ctx, first); err != nil {
			return err
		}
		return tx.InsertSettlement(ctx, second)
	})
	require.NoError(t, err)

	t.Run("GetSettlement round trips", func(t *testing.T) {
		got, err := store.GetSettlement(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "cash", got.Notes)
		assert.True(t, got.Amount.Equal(dec("12.50")))
		assert.Equal(t, ids[1], got.FromID)
		assert.Equal(t, "offset", got.Convention)
	})

	t.Run("ListSettlementsByGroup is most recent first", func(t *testing.T) {
		settlements, err := store.ListSettlementsByGroup(ctx, group.ID)
		require.NoError(t, err)
		require.Len(t, settlements, 2)
		assert.Equal(t, second.ID, settlements[0].ID)
		assert.Empty(t, settlements[0].Notes)
	})

	t.Run("DeleteSettlement", func(t *testing.T) {
		err := store.RunInTx(ctx, func(tx storage.Tx) error {
			return tx.DeleteSettlement(ctx, first.ID)
		})
		require.NoError(t, err)
		_, err = store.GetSettlement(ctx, first.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestSQLStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "Alice", "hash")
	require.NoError(t, store.CreateUser(ctx, user))

	got, err := store.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)

	got, err = store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.DisplayName)

	got, err = store.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)

	err = store.CreateUser(ctx, models.NewUser("alice@example.com", "Other", "hash"))
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
}

func TestMySQLConfig_DSN(t *testing.T) {
	dsn := MySQLConfig{Host: "db", Port: "3306", User: "trip", Password: "secret", Name: "ledger"}.DSN()
	assert.Contains(t, dsn, "trip:secret@tcp(db:3306)/ledger")
	assert.Contains(t, dsn, "clientFoundRows=true")
	assert.Contains(t, dsn, "parseTime=true")
}
