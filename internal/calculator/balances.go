package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/internal/models"
)

// Balances converts participants into report rows, preserving order.
func Balances(participants []*models.Participant) []models.ParticipantBalance {
	rows := make([]models.ParticipantBalance, len(participants))
	for i, p := range participants {
		rows[i] = models.ParticipantBalance{
			ParticipantID: p.ID,
			Name:          p.Name,
			TotalPaid:     p.TotalPaid,
			TotalOwed:     p.TotalOwed,
			Balance:       p.Balance(),
		}
	}
	return rows
}

type position struct {
	id     string
	amount decimal.Decimal
}

// SimplifyDebts suggests transfers that bring every balance to zero.
//
// Algorithm:
//   - creditors have a positive balance, debtors a negative one
//   - both lists are ordered largest first (ties by participant ID)
//   - greedily match the current debtor with the current creditor for the
//     smaller of the two outstanding amounts
//
// Balances that do not sum to zero (e.g. rounding slack from equal splits)
// leave the excess unmatched.
func SimplifyDebts(balances []models.ParticipantBalance) []models.Transfer {
	var creditors, debtors []position
	for _, b := range balances {
		switch b.Balance.Sign() {
		case 1:
			creditors = append(creditors, position{b.ParticipantID, b.Balance})
		case -1:
			debtors = append(debtors, position{b.ParticipantID, b.Balance.Neg()})
		}
	}
	byAmount := func(ps []position) {
		sort.Slice(ps, func(i, j int) bool {
			if c := ps[i].amount.Cmp(ps[j].amount); c != 0 {
				return c > 0
			}
			return ps[i].id < ps[j].id
		})
	}
	byAmount(creditors)
	byAmount(debtors)

	var transfers []models.Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(debtors[i].amount, creditors[j].amount)
		if amount.IsPositive() {
			transfers = append(transfers, models.Transfer{
				FromID: debtors[i].id,
				ToID:   creditors[j].id,
				Amount: amount,
			})
		}

		debtors[i].amount = debtors[i].amount.Sub(amount)
		creditors[j].amount = creditors[j].amount.Sub(amount)

		if !debtors[i].amount.IsPositive() {
			i++
		}
		if !creditors[j].amount.IsPositive() {
			j++
		}
	}
	return transfers
}
