package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/pkg/api"
)

const dateLayout = "2006-01-02"

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(calculator.MoneyPlaces)
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, apperr.BadRequest("%s: invalid amount %q", field, s)
	}
	return d, nil
}

// parseDate accepts YYYY-MM-DD. Empty means unset.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, apperr.BadRequest("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

func parseSplits(splits []api.Split) ([]calculator.Share, error) {
	if splits == nil {
		return nil, nil
	}
	shares := make([]calculator.Share, len(splits))
	for i, s := range splits {
		amount, err := parseAmount("split amount", s.Amount)
		if err != nil {
			return nil, err
		}
		shares[i] = calculator.Share{ParticipantID: s.ParticipantID, Amount: amount}
	}
	return shares, nil
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPIGroup(g *models.Group) *api.Group {
	return &api.Group{
		ID:        g.ID,
		Name:      g.Name,
		OwnerID:   g.OwnerID,
		Currency:  g.Currency,
		CreatedAt: g.CreatedAt,
	}
}

func toAPIParticipants(ps []*models.Participant) []*api.Participant {
	out := make([]*api.Participant, len(ps))
	for i, p := range ps {
		out[i] = toAPIParticipant(p)
	}
	return out
}

func toAPIParticipant(p *models.Participant) *api.Participant {
	return &api.Participant{
		ID:        p.ID,
		GroupID:   p.GroupID,
		UserID:    p.UserID,
		Name:      p.Name,
		Email:     p.Email,
		TotalPaid: formatAmount(p.TotalPaid),
		TotalOwed: formatAmount(p.TotalOwed),
		Balance:   formatAmount(p.Balance()),
		CreatedAt: p.CreatedAt,
	}
}

func toAPIExpenses(es []*models.Expense) []*api.Expense {
	out := make([]*api.Expense, len(es))
	for i, e := range es {
		out[i] = toAPIExpense(e)
	}
	return out
}

func toAPIExpense(e *models.Expense) *api.Expense {
	splits := make([]api.Split, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = api.Split{ParticipantID: s.ParticipantID, Amount: formatAmount(s.Amount)}
	}
	return &api.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PayerID:     e.PayerID,
		Amount:      formatAmount(e.Amount),
		Currency:    e.Currency,
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date.Format(dateLayout),
		ReceiptURL:  e.ReceiptURL,
		SplitType:   string(e.SplitType),
		Splits:      splits,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toAPISettlements(ss []*models.Settlement) []*api.Settlement {
	out := make([]*api.Settlement, len(ss))
	for i, s := range ss {
		out[i] = toAPISettlement(s)
	}
	return out
}

func toAPISettlement(s *models.Settlement) *api.Settlement {
	return &api.Settlement{
		ID:         s.ID,
		GroupID:    s.GroupID,
		FromID:     s.FromID,
		ToID:       s.ToID,
		Amount:     formatAmount(s.Amount),
		Currency:   s.Currency,
		Notes:      s.Notes,
		SettledAt:  s.SettledAt,
		CreatedBy:  s.CreatedBy,
		Convention: s.Convention,
	}
}

func toAPIBalances(bs []models.ParticipantBalance) []*api.Balance {
	out := make([]*api.Balance, len(bs))
	for i, b := range bs {
		out[i] = &api.Balance{
			ParticipantID: b.ParticipantID,
			Name:          b.Name,
			TotalPaid:     formatAmount(b.TotalPaid),
			TotalOwed:     formatAmount(b.TotalOwed),
			Balance:       formatAmount(b.Balance),
		}
	}
	return out
}

func toAPISummary(s *models.Summary) *api.GetSummaryResponse {
	categories := make([]*api.CategoryTotal, len(s.Totals.ByCategory))
	for i, c := range s.Totals.ByCategory {
		categories[i] = &api.CategoryTotal{Category: c.Category, Total: formatAmount(c.Total)}
	}
	transfers := make([]*api.Transfer, len(s.Suggestions))
	for i, t := range s.Suggestions {
		transfers[i] = &api.Transfer{FromID: t.FromID, ToID: t.ToID, Amount: formatAmount(t.Amount)}
	}
	return &api.GetSummaryResponse{
		GroupID:      s.GroupID,
		Currency:     s.Currency,
		Total:        formatAmount(s.Totals.Total),
		ExpenseCount: s.Totals.Count,
		ByCategory:   categories,
		Balances:     toAPIBalances(s.Balances),
		Suggestions:  transfers,
	}
}

func toAPIDrift(ds []models.Drift) []*api.Drift {
	out := make([]*api.Drift, len(ds))
	for i, d := range ds {
		out[i] = &api.Drift{
			ParticipantID: d.ParticipantID,
			StoredPaid:    formatAmount(d.StoredPaid),
			StoredOwed:    formatAmount(d.StoredOwed),
			ExpectedPaid:  formatAmount(d.ExpectedPaid),
			ExpectedOwed:  formatAmount(d.ExpectedOwed),
		}
	}
	return out
}
