package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripledger/internal/models"
)

func expense(payer, amount string, splits ...string) *models.Expense {
	e := &models.Expense{PayerID: payer, Amount: dec(amount)}
	for i := 0; i+1 < len(splits); i += 2 {
		e.Splits = append(e.Splits, models.ExpenseSplit{ParticipantID: splits[i], Amount: dec(splits[i+1])})
	}
	return e
}

func assertDelta(t *testing.T, ds Deltas, id, paid, owed string) {
	t.Helper()
	d := ds[id]
	assert.True(t, d.Paid.Equal(dec(paid)), "%s paid = %s, want %s", id, d.Paid, paid)
	assert.True(t, d.Owed.Equal(dec(owed)), "%s owed = %s, want %s", id, d.Owed, owed)
}

func TestExpenseDeltas(t *testing.T) {
	ds := ExpenseDeltas(expense("p1", "100", "p1", "50", "p2", "50"))
	assertDelta(t, ds, "p1", "100", "50")
	assertDelta(t, ds, "p2", "0", "50")
	assert.Equal(t, []string{"p1", "p2"}, ds.IDs())
}

func TestUpdateDeltas(t *testing.T) {
	t.Run("amount only", func(t *testing.T) {
		old := expense("p1", "100", "p1", "50", "p2", "50")
		updated := expense("p1", "120", "p1", "50", "p2", "50")
		ds := UpdateDeltas(old, updated)
		assertDelta(t, ds, "p1", "20", "0")
		assert.Equal(t, []string{"p1"}, ds.IDs())
	})

	t.Run("payer and amount change", func(t *testing.T) {
		old := expense("p1", "100", "p1", "50", "p2", "50")
		updated := expense("p2", "80", "p1", "50", "p2", "50")
		ds := UpdateDeltas(old, updated)
		assertDelta(t, ds, "p1", "-100", "0")
		assertDelta(t, ds, "p2", "80", "0")
	})

	t.Run("splits replaced", func(t *testing.T) {
		old := expense("p1", "90", "p1", "30", "p2", "30", "p3", "30")
		updated := expense("p1", "90", "p2", "90")
		ds := UpdateDeltas(old, updated)
		assertDelta(t, ds, "p1", "0", "-30")
		assertDelta(t, ds, "p2", "0", "60")
		assertDelta(t, ds, "p3", "0", "-30")
	})

	t.Run("no change is empty", func(t *testing.T) {
		e := expense("p1", "10", "p1", "10")
		assert.Empty(t, UpdateDeltas(e, e).IDs())
	})
}

func TestSettlementDeltas(t *testing.T) {
	s := &models.Settlement{FromID: "p2", ToID: "p1", Amount: dec("50"), Convention: string(Discharge)}

	ds := SettlementDeltas(s)
	assertDelta(t, ds, "p2", "50", "0")
	assertDelta(t, ds, "p1", "0", "-50")

	s.Convention = string(Offset)
	ds = SettlementDeltas(s)
	assertDelta(t, ds, "p2", "50", "0")
	assertDelta(t, ds, "p1", "0", "50")

	s.Convention = ""
	ds = SettlementDeltas(s)
	assertDelta(t, ds, "p1", "0", "-50")
}

func TestParseConvention(t *testing.T) {
	c, err := ParseConvention("")
	require.NoError(t, err)
	assert.Equal(t, Discharge, c)

	c, err = ParseConvention("offset")
	require.NoError(t, err)
	assert.Equal(t, Offset, c)

	_, err = ParseConvention("sideways")
	assert.Error(t, err)
}

func TestRecomputeAndDrift(t *testing.T) {
	participants := []*models.Participant{
		{ID: "p1", TotalPaid: dec("100"), TotalOwed: dec("0")},
		{ID: "p2", TotalPaid: dec("50"), TotalOwed: dec("50")},
		{ID: "p3", TotalPaid: dec("0"), TotalOwed: dec("0")},
	}
	expenses := []*models.Expense{expense("p1", "100", "p1", "50", "p2", "50")}
	settlements := []*models.Settlement{{FromID: "p2", ToID: "p1", Amount: dec("50")}}

	expected := Recompute(participants, expenses, settlements)
	assertDelta(t, expected, "p1", "100", "0")
	assertDelta(t, expected, "p2", "50", "50")
	assertDelta(t, expected, "p3", "0", "0")
	assert.Empty(t, FindDrift(participants, expected))

	participants[1].TotalOwed = dec("49.99")
	drift := FindDrift(participants, expected)
	require.Len(t, drift, 1)
	assert.Equal(t, "p2", drift[0].ParticipantID)
	assert.True(t, drift[0].ExpectedOwed.Equal(dec("50")))
}

func TestRecompute_MixedConventions(t *testing.T) {
	participants := []*models.Participant{{ID: "p1"}, {ID: "p2"}}
	settlements := []*models.Settlement{
		{FromID: "p2", ToID: "p1", Amount: dec("30"), Convention: string(Offset)},
		{FromID: "p2", ToID: "p1", Amount: dec("20"), Convention: string(Discharge)},
	}

	expected := Recompute(participants, nil, settlements)
	assertDelta(t, expected, "p2", "50", "0")
	assertDelta(t, expected, "p1", "0", "10")
}
