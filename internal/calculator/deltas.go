package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/internal/models"
)

// Convention selects how a settlement changes the receiving participant's
// TotalOwed.
type Convention string

const (
	// Discharge treats a settlement as paying down the receiver's debt:
	// to.TotalOwed -= amount.
	Discharge Convention = "discharge"
	// Offset records the receiver as owing the amount back to the pool:
	// to.TotalOwed += amount. This keeps sum(TotalPaid) == sum(TotalOwed).
	Offset Convention = "offset"
)

// ParseConvention validates a convention name.
func ParseConvention(s string) (Convention, error) {
	switch Convention(s) {
	case Discharge, Offset:
		return Convention(s), nil
	case "":
		return Discharge, nil
	}
	return "", fmt.Errorf("unknown settlement convention %q", s)
}

// Deltas maps participant IDs to the change in their running totals.
type Deltas map[string]models.Delta

// Add accumulates d onto participant id.
func (ds Deltas) Add(id string, d models.Delta) {
	cur := ds[id]
	ds[id] = models.Delta{Paid: cur.Paid.Add(d.Paid), Owed: cur.Owed.Add(d.Owed)}
}

// Merge accumulates every entry of other into ds.
func (ds Deltas) Merge(other Deltas) {
	for id, d := range other {
		ds.Add(id, d)
	}
}

// Neg returns the deltas that undo ds.
func (ds Deltas) Neg() Deltas {
	out := make(Deltas, len(ds))
	for id, d := range ds {
		out[id] = d.Neg()
	}
	return out
}

// IDs returns the participant IDs with a non-zero delta in ascending order.
// Applying updates in a fixed order keeps row locks acquired consistently.
func (ds Deltas) IDs() []string {
	ids := make([]string, 0, len(ds))
	for id, d := range ds {
		if !d.IsZero() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// ExpenseDeltas returns the contribution of e to the running totals: the
// payer's TotalPaid grows by the amount, each split's participant's
// TotalOwed by the split amount.
func ExpenseDeltas(e *models.Expense) Deltas {
	ds := Deltas{}
	ds.Add(e.PayerID, models.Delta{Paid: e.Amount})
	for _, s := range e.Splits {
		ds.Add(s.ParticipantID, models.Delta{Owed: s.Amount})
	}
	return ds
}

// UpdateDeltas returns the net change of replacing old with updated: old's
// contribution reversed plus updated's contribution applied. The old payer
// is only ever credited back the old amount.
func UpdateDeltas(old, updated *models.Expense) Deltas {
	ds := ExpenseDeltas(old).Neg()
	ds.Merge(ExpenseDeltas(updated))
	return ds
}

// SettlementDeltas returns the contribution of s under the convention
// recorded on it. Settlements without one are treated as Discharge.
func SettlementDeltas(s *models.Settlement) Deltas {
	to := models.Delta{Owed: s.Amount.Neg()}
	if Convention(s.Convention) == Offset {
		to = models.Delta{Owed: s.Amount}
	}
	ds := Deltas{}
	ds.Add(s.FromID, models.Delta{Paid: s.Amount})
	ds.Add(s.ToID, to)
	return ds
}

// Recompute rebuilds every participant's running totals from the records.
// Each settlement is replayed under its own recorded convention.
// Participants with no records get a zero entry.
func Recompute(participants []*models.Participant, expenses []*models.Expense, settlements []*models.Settlement) Deltas {
	totals := make(Deltas, len(participants))
	for _, p := range participants {
		totals[p.ID] = models.Delta{Paid: decimal.Zero, Owed: decimal.Zero}
	}
	for _, e := range expenses {
		totals.Merge(ExpenseDeltas(e))
	}
	for _, s := range settlements {
		totals.Merge(SettlementDeltas(s))
	}
	return totals
}

// FindDrift compares stored totals against expected and returns one entry
// per participant that differs, ordered by participant ID.
func FindDrift(participants []*models.Participant, expected Deltas) []models.Drift {
	var drift []models.Drift
	for _, p := range participants {
		want := expected[p.ID]
		if p.TotalPaid.Equal(want.Paid) && p.TotalOwed.Equal(want.Owed) {
			continue
		}
		drift = append(drift, models.Drift{
			ParticipantID: p.ID,
			StoredPaid:    p.TotalPaid,
			StoredOwed:    p.TotalOwed,
			ExpectedPaid:  want.Paid,
			ExpectedOwed:  want.Owed,
		})
	}
	sort.Slice(drift, func(i, j int) bool { return drift[i].ParticipantID < drift[j].ParticipantID })
	return drift
}
