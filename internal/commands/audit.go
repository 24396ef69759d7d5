package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/tripledger/internal/ledger"
	"github.com/mmynk/tripledger/internal/storage"
)

// errDrift makes the audit command exit non-zero.
var errDrift = errors.New("stored totals drifted from the group's records")

func newAuditCommand(a *app) *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:   "audit <group-id>",
		Short: "Recompute a group's totals and report drift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			l := ledger.New(store, a.cfg.LedgerConfig(), nil)
			return runAudit(cmd.Context(), cmd.OutOrStdout(), store, l, as, args[0])
		},
	}

	cmd.Flags().StringVar(&as, "as", "", "email of the group member to audit as (required)")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}

func runAudit(ctx context.Context, w io.Writer, users storage.UserStore, l *ledger.Ledger, email, groupID string) error {
	actor, err := actorByEmail(ctx, users, email)
	if err != nil {
		return err
	}
	group, err := l.GetGroup(ctx, actor, groupID)
	if err != nil {
		return err
	}
	drift, err := l.Audit(ctx, actor, groupID)
	if err != nil {
		return err
	}
	if len(drift) == 0 {
		fmt.Fprintf(w, "%s: totals match records\n", group.Name)
		return nil
	}

	participants, err := l.ListParticipants(ctx, actor, groupID)
	if err != nil {
		return err
	}
	names := make(map[string]string, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PARTICIPANT\tPAID (stored / expected)\tOWED (stored / expected)")
	for _, row := range driftRows(drift, names, group.Currency) {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return fmt.Errorf("%s: %w", group.Name, errDrift)
}
