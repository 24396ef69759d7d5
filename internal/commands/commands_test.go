package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/config"
	"github.com/mmynk/tripledger/internal/ledger"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
	"github.com/mmynk/tripledger/internal/storage/sqlstore"
	"github.com/mmynk/tripledger/pkg/api"
	"github.com/mmynk/tripledger/pkg/api/apiconnect"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "test.db")
	cfg.Auth.JWTSecret = "test-secret"
	return cfg
}

func TestMigrateCommand(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "nested", "ledger.db")
	cfgPath := filepath.Join(dir, "tripledger.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf("database:\n  path: %q\n", dbPath)), 0o644))

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"migrate", "--config", cfgPath})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "sqlite schema is up to date")
	_, err := os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestRootRejectsInvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "tripledger.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("ledger:\n  settlement_convention: forgive\n"), 0o644))

	root := NewRootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"migrate", "--config", cfgPath})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown settlement convention")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"version", "--config", "/nonexistent/tripledger.yaml"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "tripledger dev (commit: none")
}

func TestServeRequiresSecret(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.JWTSecret = ""
	err := runServe(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestHandler(t *testing.T) {
	cfg := testConfig(t)
	store, err := sqlstore.OpenSQLite(cfg.Database.Path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	server := httptest.NewServer(newHandler(cfg, store, prometheus.NewRegistry()))
	t.Cleanup(server.Close)

	t.Run("healthz", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("CORS preflight", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodOptions, server.URL+apiconnect.GroupServiceCreateGroupProcedure, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Authorization")
	})

	t.Run("ledger mutations are exported as metrics", func(t *testing.T) {
		ctx := context.Background()
		authClient := apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL)
		registered, err := authClient.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email: "alice@example.com", DisplayName: "Alice", Password: "password123",
		}))
		require.NoError(t, err)

		groupClient := apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL)
		req := connect.NewRequest(&api.CreateGroupRequest{Name: "Porto"})
		req.Header().Set("Authorization", "Bearer "+registered.Msg.Token)
		_, err = groupClient.CreateGroup(ctx, req)
		require.NoError(t, err)

		_, err = groupClient.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Anon"}))
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

		resp, err := http.Get(server.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `tripledger_ledger_mutations_total{op="create_group",result="ok"} 1`)
	})
}

func TestReportAndAudit(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	store, err := sqlstore.OpenSQLite(cfg.Database.Path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	user := models.NewUser("alice@example.com", "Alice", "hash")
	require.NoError(t, store.CreateUser(ctx, user))
	actor := ledger.Actor{UserID: user.ID}

	l := ledger.New(store, cfg.LedgerConfig(), nil)
	group, err := l.CreateGroup(ctx, actor, ledger.GroupInput{Name: "Porto", Currency: "EUR", OwnerName: "Alice"})
	require.NoError(t, err)
	roster, err := l.ListParticipants(ctx, actor, group.ID)
	require.NoError(t, err)
	bob, err := l.AddParticipant(ctx, actor, group.ID, ledger.ParticipantInput{Name: "Bob"})
	require.NoError(t, err)

	_, err = l.CreateExpense(ctx, actor, ledger.ExpenseInput{
		GroupID:   group.ID,
		PayerID:   roster[0].ID,
		Amount:    decimal.RequireFromString("1200.00"),
		Category:  "lodging",
		SplitType: models.SplitEqual,
	})
	require.NoError(t, err)

	t.Run("report", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runReport(ctx, &out, store, l, "Alice@Example.com", group.ID))

		report := out.String()
		assert.Contains(t, report, "across 1 expenses")
		assert.Contains(t, report, "lodging")
		assert.Contains(t, report, "Bob pays Alice")
		assert.Contains(t, report, formatMoney(decimal.RequireFromString("600"), "EUR"))
	})

	t.Run("report for unknown user", func(t *testing.T) {
		err := runReport(ctx, io.Discard, store, l, "mallory@example.com", group.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("audit clean", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runAudit(ctx, &out, store, l, "alice@example.com", group.ID))
		assert.Contains(t, out.String(), "totals match records")
	})

	t.Run("audit drift", func(t *testing.T) {
		err := store.RunInTx(ctx, func(tx storage.Tx) error {
			return tx.ApplyDelta(ctx, bob.ID, models.Delta{Paid: decimal.RequireFromString("1")})
		})
		require.NoError(t, err)

		var out bytes.Buffer
		err = runAudit(ctx, &out, store, l, "alice@example.com", group.ID)
		assert.ErrorIs(t, err, errDrift)
		assert.Contains(t, out.String(), "Bob")
	})
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$1,234.50", formatMoney(decimal.RequireFromString("1234.5"), "USD"))
	assert.Equal(t, "-$3.00", formatMoney(decimal.RequireFromString("-3"), "USD"))
	assert.Equal(t, "12.30 ZZZ", formatMoney(decimal.RequireFromString("12.3"), "ZZZ"))
}
