package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/ledger"
	"github.com/mmynk/tripledger/internal/storage"
	"github.com/mmynk/tripledger/pkg/api"
	"github.com/mmynk/tripledger/pkg/api/apiconnect"
)

var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

// GroupService implements the Connect GroupService.
type GroupService struct {
	ledger *ledger.Ledger
	users  storage.UserStore
}

// NewGroupService creates a GroupService over the ledger. users resolves the
// caller's display name for new groups.
func NewGroupService(l *ledger.Ledger, users storage.UserStore) *GroupService {
	return &GroupService{ledger: l, users: users}
}

// CreateGroup creates a group owned by the caller.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateGroup request received", "name", req.Msg.Name, "user_id", actor.UserID)

	in := ledger.GroupInput{
		Name:      req.Msg.Name,
		Currency:  req.Msg.Currency,
		OwnerName: req.Msg.OwnerName,
	}
	user, err := s.users.GetUserByID(ctx, actor.UserID)
	if err != nil {
		return nil, toConnectError("CreateGroup", err)
	}
	if user != nil {
		in.OwnerEmail = user.Email
		if in.OwnerName == "" {
			in.OwnerName = user.DisplayName
		}
	}

	group, err := s.ledger.CreateGroup(ctx, actor, in)
	if err != nil {
		return nil, toConnectError("CreateGroup", err)
	}
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup returns a group and its roster.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	group, err := s.ledger.GetGroup(ctx, actor, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError("GetGroup", err)
	}
	participants, err := s.ledger.ListParticipants(ctx, actor, group.ID)
	if err != nil {
		return nil, toConnectError("GetGroup", err)
	}
	return connect.NewResponse(&api.GetGroupResponse{
		Group:        toAPIGroup(group),
		Participants: toAPIParticipants(participants),
	}), nil
}

// DeleteGroup removes a group and everything in it.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.DeleteGroup(ctx, actor, req.Msg.GroupID); err != nil {
		return nil, toConnectError("DeleteGroup", err)
	}
	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// AddParticipant adds someone to a group's roster.
func (s *GroupService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.ledger.AddParticipant(ctx, actor, req.Msg.GroupID, ledger.ParticipantInput{
		Name:  req.Msg.Name,
		Email: req.Msg.Email,
	})
	if err != nil {
		return nil, toConnectError("AddParticipant", err)
	}
	return connect.NewResponse(&api.AddParticipantResponse{Participant: toAPIParticipant(p)}), nil
}

// ListParticipants returns a group's roster with running totals.
func (s *GroupService) ListParticipants(ctx context.Context, req *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	participants, err := s.ledger.ListParticipants(ctx, actor, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError("ListParticipants", err)
	}
	return connect.NewResponse(&api.ListParticipantsResponse{Participants: toAPIParticipants(participants)}), nil
}

// GetParticipant returns one roster entry with its running totals.
func (s *GroupService) GetParticipant(ctx context.Context, req *connect.Request[api.GetParticipantRequest]) (*connect.Response[api.GetParticipantResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.ledger.GetParticipant(ctx, actor, req.Msg.ParticipantID)
	if err != nil {
		return nil, toConnectError("GetParticipant", err)
	}
	return connect.NewResponse(&api.GetParticipantResponse{Participant: toAPIParticipant(p)}), nil
}

// UpdateParticipant renames a participant or changes its email.
func (s *GroupService) UpdateParticipant(ctx context.Context, req *connect.Request[api.UpdateParticipantRequest]) (*connect.Response[api.UpdateParticipantResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.ledger.UpdateParticipant(ctx, actor, req.Msg.ParticipantID, ledger.ParticipantUpdate{
		Name:  req.Msg.Name,
		Email: req.Msg.Email,
	})
	if err != nil {
		return nil, toConnectError("UpdateParticipant", err)
	}
	return connect.NewResponse(&api.UpdateParticipantResponse{Participant: toAPIParticipant(p)}), nil
}

// RemoveParticipant removes an unreferenced participant.
func (s *GroupService) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.RemoveParticipant(ctx, actor, req.Msg.ParticipantID); err != nil {
		return nil, toConnectError("RemoveParticipant", err)
	}
	return connect.NewResponse(&api.RemoveParticipantResponse{}), nil
}

// GetBalances returns every participant's balance.
func (s *GroupService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	balances, err := s.ledger.Balances(ctx, actor, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError("GetBalances", err)
	}
	return connect.NewResponse(&api.GetBalancesResponse{Balances: toAPIBalances(balances)}), nil
}

// GetSummary returns spend totals, balances and suggested settlements.
func (s *GroupService) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := s.ledger.Summary(ctx, actor, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError("GetSummary", err)
	}
	return connect.NewResponse(toAPISummary(summary)), nil
}

// AuditGroup reports participants whose stored totals drifted from their
// records.
func (s *GroupService) AuditGroup(ctx context.Context, req *connect.Request[api.AuditGroupRequest]) (*connect.Response[api.AuditGroupResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	drift, err := s.ledger.Audit(ctx, actor, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError("AuditGroup", err)
	}
	if len(drift) > 0 {
		slog.Warn("Ledger drift detected", "group_id", req.Msg.GroupID, "participants", len(drift))
	}
	return connect.NewResponse(&api.AuditGroupResponse{
		Convention: string(s.ledger.Convention()),
		Drift:      toAPIDrift(drift),
	}), nil
}
