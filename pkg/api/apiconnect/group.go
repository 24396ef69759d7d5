package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/pkg/api"
)

// GroupServiceHandler serves group rosters and reports.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
	ListParticipants(context.Context, *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error)
	GetParticipant(context.Context, *connect.Request[api.GetParticipantRequest]) (*connect.Response[api.GetParticipantResponse], error)
	UpdateParticipant(context.Context, *connect.Request[api.UpdateParticipantRequest]) (*connect.Response[api.UpdateParticipantResponse], error)
	RemoveParticipant(context.Context, *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
	AuditGroup(context.Context, *connect.Request[api.AuditGroupRequest]) (*connect.Response[api.AuditGroupResponse], error)
}

// NewGroupServiceHandler returns the mount path and handler for svc.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	rs := routes{}
	rs.add(unary(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts))
	rs.add(unary(GroupServiceGetGroupProcedure, svc.GetGroup, opts))
	rs.add(unary(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts))
	rs.add(unary(GroupServiceAddParticipantProcedure, svc.AddParticipant, opts))
	rs.add(unary(GroupServiceListParticipantsProcedure, svc.ListParticipants, opts))
	rs.add(unary(GroupServiceGetParticipantProcedure, svc.GetParticipant, opts))
	rs.add(unary(GroupServiceUpdateParticipantProcedure, svc.UpdateParticipant, opts))
	rs.add(unary(GroupServiceRemoveParticipantProcedure, svc.RemoveParticipant, opts))
	rs.add(unary(GroupServiceGetBalancesProcedure, svc.GetBalances, opts))
	rs.add(unary(GroupServiceGetSummaryProcedure, svc.GetSummary, opts))
	rs.add(unary(GroupServiceAuditGroupProcedure, svc.AuditGroup, opts))
	return "/" + GroupServiceName + "/", rs
}

// GroupServiceClient calls the GroupService.
type GroupServiceClient struct {
	createGroup       *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	getGroup          *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	deleteGroup       *connect.Client[api.DeleteGroupRequest, api.DeleteGroupResponse]
	addParticipant    *connect.Client[api.AddParticipantRequest, api.AddParticipantResponse]
	listParticipants  *connect.Client[api.ListParticipantsRequest, api.ListParticipantsResponse]
	getParticipant    *connect.Client[api.GetParticipantRequest, api.GetParticipantResponse]
	updateParticipant *connect.Client[api.UpdateParticipantRequest, api.UpdateParticipantResponse]
	removeParticipant *connect.Client[api.RemoveParticipantRequest, api.RemoveParticipantResponse]
	getBalances       *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	getSummary        *connect.Client[api.GetSummaryRequest, api.GetSummaryResponse]
	auditGroup        *connect.Client[api.AuditGroupRequest, api.AuditGroupResponse]
}

// NewGroupServiceClient creates a client for the GroupService at baseURL.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &GroupServiceClient{
		createGroup:       call[api.CreateGroupRequest, api.CreateGroupResponse](httpClient, baseURL, GroupServiceCreateGroupProcedure, opts),
		getGroup:          call[api.GetGroupRequest, api.GetGroupResponse](httpClient, baseURL, GroupServiceGetGroupProcedure, opts),
		deleteGroup:       call[api.DeleteGroupRequest, api.DeleteGroupResponse](httpClient, baseURL, GroupServiceDeleteGroupProcedure, opts),
		addParticipant:    call[api.AddParticipantRequest, api.AddParticipantResponse](httpClient, baseURL, GroupServiceAddParticipantProcedure, opts),
		listParticipants:  call[api.ListParticipantsRequest, api.ListParticipantsResponse](httpClient, baseURL, GroupServiceListParticipantsProcedure, opts),
		getParticipant:    call[api.GetParticipantRequest, api.GetParticipantResponse](httpClient, baseURL, GroupServiceGetParticipantProcedure, opts),
		updateParticipant: call[api.UpdateParticipantRequest, api.UpdateParticipantResponse](httpClient, baseURL, GroupServiceUpdateParticipantProcedure, opts),
		removeParticipant: call[api.RemoveParticipantRequest, api.RemoveParticipantResponse](httpClient, baseURL, GroupServiceRemoveParticipantProcedure, opts),
		getBalances:       call[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL, GroupServiceGetBalancesProcedure, opts),
		getSummary:        call[api.GetSummaryRequest, api.GetSummaryResponse](httpClient, baseURL, GroupServiceGetSummaryProcedure, opts),
		auditGroup:        call[api.AuditGroupRequest, api.AuditGroupResponse](httpClient, baseURL, GroupServiceAuditGroupProcedure, opts),
	}
}

func (c *GroupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

func (c *GroupServiceClient) ListParticipants(ctx context.Context, req *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error) {
	return c.listParticipants.CallUnary(ctx, req)
}

func (c *GroupServiceClient) GetParticipant(ctx context.Context, req *connect.Request[api.GetParticipantRequest]) (*connect.Response[api.GetParticipantResponse], error) {
	return c.getParticipant.CallUnary(ctx, req)
}

func (c *GroupServiceClient) UpdateParticipant(ctx context.Context, req *connect.Request[api.UpdateParticipantRequest]) (*connect.Response[api.UpdateParticipantResponse], error) {
	return c.updateParticipant.CallUnary(ctx, req)
}

func (c *GroupServiceClient) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	return c.removeParticipant.CallUnary(ctx, req)
}

func (c *GroupServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *GroupServiceClient) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}

func (c *GroupServiceClient) AuditGroup(ctx context.Context, req *connect.Request[api.AuditGroupRequest]) (*connect.Response[api.AuditGroupResponse], error) {
	return c.auditGroup.CallUnary(ctx, req)
}
