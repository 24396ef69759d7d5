package api

type CreateGroupRequest struct {
	Name      string `json:"name"`
	// Currency defaults to the server's default currency.
	Currency  string `json:"currency,omitempty"`
	// OwnerName defaults to the caller's display name.
	OwnerName string `json:"owner_name,omitempty"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group        *Group         `json:"group"`
	Participants []*Participant `json:"participants"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeleteGroupResponse struct{}

type AddParticipantRequest struct {
	GroupID string `json:"group_id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
}

type AddParticipantResponse struct {
	Participant *Participant `json:"participant"`
}

type ListParticipantsRequest struct {
	GroupID string `json:"group_id"`
}

type ListParticipantsResponse struct {
	Participants []*Participant `json:"participants"`
}

type GetParticipantRequest struct {
	ParticipantID string `json:"participant_id"`
}

type GetParticipantResponse struct {
	Participant *Participant `json:"participant"`
}

// UpdateParticipantRequest changes only the fields that are set.
type UpdateParticipantRequest struct {
	ParticipantID string  `json:"participant_id"`
	Name          *string `json:"name,omitempty"`
	Email         *string `json:"email,omitempty"`
}

type UpdateParticipantResponse struct {
	Participant *Participant `json:"participant"`
}

type RemoveParticipantRequest struct {
	ParticipantID string `json:"participant_id"`
}

type RemoveParticipantResponse struct{}

type GetBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type GetBalancesResponse struct {
	Balances []*Balance `json:"balances"`
}

type GetSummaryRequest struct {
	GroupID string `json:"group_id"`
}

type GetSummaryResponse struct {
	GroupID      string           `json:"group_id"`
	Currency     string           `json:"currency"`
	Total        string           `json:"total"`
	ExpenseCount int              `json:"expense_count"`
	ByCategory   []*CategoryTotal `json:"by_category"`
	Balances     []*Balance       `json:"balances"`
	Suggestions  []*Transfer      `json:"suggestions"`
}

type AuditGroupRequest struct {
	GroupID string `json:"group_id"`
}

type AuditGroupResponse struct {
	// Convention is the convention new settlements are recorded under.
	// Each settlement is checked under its own recorded convention.
	Convention string   `json:"convention"`
	Drift      []*Drift `json:"drift"`
}
