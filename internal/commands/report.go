package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/ledger"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

func newReportCommand(a *app) *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:   "report <group-id>",
		Short: "Print a group's spend, balances and suggested settlements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			l := ledger.New(store, a.cfg.LedgerConfig(), nil)
			return runReport(cmd.Context(), cmd.OutOrStdout(), store, l, as, args[0])
		},
	}

	cmd.Flags().StringVar(&as, "as", "", "email of the group member to read as (required)")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}

func runReport(ctx context.Context, w io.Writer, users storage.UserStore, l *ledger.Ledger, email, groupID string) error {
	actor, err := actorByEmail(ctx, users, email)
	if err != nil {
		return err
	}
	summary, err := l.Summary(ctx, actor, groupID)
	if err != nil {
		return err
	}

	format := func(d decimal.Decimal) string { return formatMoney(d, summary.Currency) }
	names := make(map[string]string, len(summary.Balances))
	for _, b := range summary.Balances {
		names[b.ParticipantID] = b.Name
	}

	fmt.Fprintf(w, "Total spend: %s across %d expenses\n\n", format(summary.Totals.Total), summary.Totals.Count)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tTOTAL")
	for _, c := range summary.Totals.ByCategory {
		fmt.Fprintf(tw, "%s\t%s\n", c.Category, format(c.Total))
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "PARTICIPANT\tPAID\tOWED\tBALANCE")
	for _, b := range summary.Balances {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.Name, format(b.TotalPaid), format(b.TotalOwed), format(b.Balance))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(summary.Suggestions) == 0 {
		fmt.Fprintln(w, "\nEveryone is settled up.")
		return nil
	}
	fmt.Fprintln(w, "\nSuggested settlements:")
	for _, t := range summary.Suggestions {
		fmt.Fprintf(w, "  %s pays %s %s\n", names[t.FromID], names[t.ToID], format(t.Amount))
	}
	return nil
}

// actorByEmail resolves a registered user to the actor the ledger expects.
func actorByEmail(ctx context.Context, users storage.UserStore, email string) (ledger.Actor, error) {
	user, err := users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return ledger.Actor{}, err
	}
	if user == nil {
		return ledger.Actor{}, apperr.NotFound("no user with email %s", email)
	}
	return ledger.Actor{UserID: user.ID}, nil
}

// formatMoney renders d in the currency's own notation, e.g. "$1,234.50".
func formatMoney(d decimal.Decimal, code string) string {
	currency := money.GetCurrency(code)
	if currency == nil {
		return d.StringFixed(2) + " " + code
	}
	minor := d.Shift(int32(currency.Fraction)).Round(0).IntPart()
	return money.New(minor, currency.Code).Display()
}

// driftRows formats drift for display, resolving participant names.
func driftRows(drift []models.Drift, names map[string]string, code string) [][]string {
	rows := make([][]string, len(drift))
	for i, d := range drift {
		name := names[d.ParticipantID]
		if name == "" {
			name = d.ParticipantID
		}
		rows[i] = []string{
			name,
			formatMoney(d.StoredPaid, code) + " / " + formatMoney(d.ExpectedPaid, code),
			formatMoney(d.StoredOwed, code) + " / " + formatMoney(d.ExpectedOwed, code),
		}
	}
	return rows
}
