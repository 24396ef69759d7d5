package service

import (
	"context"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/ledger"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/pkg/api"
	"github.com/mmynk/tripledger/pkg/api/apiconnect"
)

var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	ledger *ledger.Ledger
}

// NewExpenseService creates an ExpenseService over the ledger.
func NewExpenseService(l *ledger.Ledger) *ExpenseService {
	return &ExpenseService{ledger: l}
}

// CreateExpense records an expense and its splits.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	in, err := expenseInput(req.Msg)
	if err != nil {
		return nil, toConnectError("CreateExpense", err)
	}
	expense, err := s.ledger.CreateExpense(ctx, actor, in)
	if err != nil {
		return nil, toConnectError("CreateExpense", err)
	}
	return connect.NewResponse(&api.CreateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// GetExpense returns an expense with its splits.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	expense, err := s.ledger.GetExpense(ctx, actor, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError("GetExpense", err)
	}
	return connect.NewResponse(&api.GetExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// UpdateExpense changes the fields set in the request.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	upd, err := expenseUpdate(req.Msg)
	if err != nil {
		return nil, toConnectError("UpdateExpense", err)
	}
	expense, err := s.ledger.UpdateExpense(ctx, actor, req.Msg.ExpenseID, upd)
	if err != nil {
		return nil, toConnectError("UpdateExpense", err)
	}
	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// DeleteExpense removes an expense.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.DeleteExpense(ctx, actor, req.Msg.ExpenseID); err != nil {
		return nil, toConnectError("DeleteExpense", err)
	}
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// ListExpenses returns a group's expenses, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.ledger.ListExpenses(ctx, actor, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError("ListExpenses", err)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: toAPIExpenses(expenses)}), nil
}

// CreateSettlement records a payment between two participants.
func (s *ExpenseService) CreateSettlement(ctx context.Context, req *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount("amount", req.Msg.Amount)
	if err != nil {
		return nil, toConnectError("CreateSettlement", err)
	}
	in := ledger.SettlementInput{
		GroupID:  req.Msg.GroupID,
		FromID:   req.Msg.FromID,
		ToID:     req.Msg.ToID,
		Amount:   amount,
		Currency: req.Msg.Currency,
		Notes:    req.Msg.Notes,
	}
	if req.Msg.SettledAt != 0 {
		in.SettledAt = time.Unix(req.Msg.SettledAt, 0)
	}
	settlement, err := s.ledger.CreateSettlement(ctx, actor, in)
	if err != nil {
		return nil, toConnectError("CreateSettlement", err)
	}
	return connect.NewResponse(&api.CreateSettlementResponse{Settlement: toAPISettlement(settlement)}), nil
}

// GetSettlement returns a settlement.
func (s *ExpenseService) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	settlement, err := s.ledger.GetSettlement(ctx, actor, req.Msg.SettlementID)
	if err != nil {
		return nil, toConnectError("GetSettlement", err)
	}
	return connect.NewResponse(&api.GetSettlementResponse{Settlement: toAPISettlement(settlement)}), nil
}

// DeleteSettlement removes a settlement.
func (s *ExpenseService) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.DeleteSettlement(ctx, actor, req.Msg.SettlementID); err != nil {
		return nil, toConnectError("DeleteSettlement", err)
	}
	return connect.NewResponse(&api.DeleteSettlementResponse{}), nil
}

// ListSettlements returns a group's settlements, most recent first.
func (s *ExpenseService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	settlements, err := s.ledger.ListSettlements(ctx, actor, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError("ListSettlements", err)
	}
	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: toAPISettlements(settlements)}), nil
}

func expenseInput(msg *api.CreateExpenseRequest) (ledger.ExpenseInput, error) {
	amount, err := parseAmount("amount", msg.Amount)
	if err != nil {
		return ledger.ExpenseInput{}, err
	}
	date, err := parseDate(msg.Date)
	if err != nil {
		return ledger.ExpenseInput{}, err
	}
	splits, err := parseSplits(msg.Splits)
	if err != nil {
		return ledger.ExpenseInput{}, err
	}
	splitType := models.SplitType(strings.ToLower(msg.SplitType))
	if splitType == "" && len(splits) > 0 {
		splitType = models.SplitExplicit
	}
	return ledger.ExpenseInput{
		GroupID:     msg.GroupID,
		PayerID:     msg.PayerID,
		Amount:      amount,
		Currency:    msg.Currency,
		Category:    msg.Category,
		Description: msg.Description,
		Date:        date,
		ReceiptURL:  msg.ReceiptURL,
		SplitType:   splitType,
		Splits:      splits,
	}, nil
}

func expenseUpdate(msg *api.UpdateExpenseRequest) (ledger.ExpenseUpdate, error) {
	upd := ledger.ExpenseUpdate{
		PayerID:     msg.PayerID,
		Currency:    msg.Currency,
		Category:    msg.Category,
		Description: msg.Description,
		ReceiptURL:  msg.ReceiptURL,
	}
	if msg.Amount != nil {
		amount, err := parseAmount("amount", *msg.Amount)
		if err != nil {
			return upd, err
		}
		upd.Amount = &amount
	}
	if msg.Date != nil {
		date, err := parseDate(*msg.Date)
		if err != nil {
			return upd, err
		}
		if !date.IsZero() {
			upd.Date = &date
		}
	}
	if msg.SplitType != nil {
		splitType := models.SplitType(strings.ToLower(*msg.SplitType))
		upd.SplitType = &splitType
	}
	splits, err := parseSplits(msg.Splits)
	if err != nil {
		return upd, err
	}
	upd.Splits = splits
	return upd, nil
}
