// Package calculator holds the pure arithmetic of the ledger: how an expense
// is allocated across participants, which deltas each record contributes to
// the running totals, and how balances can be settled.
package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/internal/apperr"
)

// MoneyPlaces is the number of fractional digits kept for every amount.
const MoneyPlaces = 2

// MaxAmount is the largest amount a single expense, split or settlement may
// carry. Amounts are stored as int64 minor units; at this ceiling a running
// total needs tens of millions of maximal records before it could overflow.
var MaxAmount = decimal.New(1, 9)

// Share is one participant's allocated portion of an expense.
type Share struct {
	ParticipantID string
	Amount        decimal.Decimal
}

// RoundMoney rounds d to MoneyPlaces, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// CheckAmount rounds d to MoneyPlaces and rejects amounts that are not
// positive or exceed MaxAmount. what names the amount in the error.
func CheckAmount(what string, d decimal.Decimal) (decimal.Decimal, error) {
	amount := RoundMoney(d)
	if !amount.IsPositive() {
		return decimal.Zero, apperr.BadRequest("%s must be positive, got %s", what, d)
	}
	if amount.GreaterThan(MaxAmount) {
		return decimal.Zero, apperr.BadRequest("%s %s exceeds the maximum of %s", what, d, MaxAmount)
	}
	return amount, nil
}

// EqualShares divides amount across every participant in roster, each share
// rounded to two places half-up. The remainder is not reconciled: the shares
// may sum to amount ± len(roster)*0.005.
func EqualShares(amount decimal.Decimal, roster []string) ([]Share, error) {
	amount, err := CheckAmount("amount", amount)
	if err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return nil, apperr.BadRequest("cannot split equally across an empty roster")
	}

	each := amount.DivRound(decimal.NewFromInt(int64(len(roster))), MoneyPlaces)
	shares := make([]Share, len(roster))
	for i, id := range roster {
		shares[i] = Share{ParticipantID: id, Amount: each}
	}
	return shares, nil
}

// ExplicitShares validates caller-supplied shares against roster and returns
// them with amounts rounded to two places. Every participant must be in the
// roster and appear once, with a positive amount no larger than MaxAmount.
// The sum is not checked; see CheckSum.
func ExplicitShares(shares []Share, roster []string) ([]Share, error) {
	if len(shares) == 0 {
		return nil, apperr.BadRequest("explicit split requires at least one share")
	}

	members := make(map[string]bool, len(roster))
	for _, id := range roster {
		members[id] = true
	}

	seen := make(map[string]bool, len(shares))
	out := make([]Share, len(shares))
	for i, s := range shares {
		if !members[s.ParticipantID] {
			return nil, apperr.BadRequest("participant %q is not a member of the group", s.ParticipantID)
		}
		if seen[s.ParticipantID] {
			return nil, apperr.BadRequest("participant %q appears more than once in splits", s.ParticipantID)
		}
		seen[s.ParticipantID] = true

		amount, err := CheckAmount(fmt.Sprintf("split amount for %q", s.ParticipantID), s.Amount)
		if err != nil {
			return nil, err
		}
		out[i] = Share{ParticipantID: s.ParticipantID, Amount: amount}
	}
	return out, nil
}

// CheckSum rejects shares that do not add up to amount exactly.
func CheckSum(amount decimal.Decimal, shares []Share) error {
	total := decimal.Zero
	for _, s := range shares {
		total = total.Add(s.Amount)
	}
	if !total.Equal(amount) {
		return apperr.BadRequest("splits sum to %s but expense amount is %s", total.StringFixed(MoneyPlaces), amount.StringFixed(MoneyPlaces))
	}
	return nil
}
