package apiconnect

// Fully-qualified service names.
const (
	AuthServiceName    = "tripledger.v1.AuthService"
	GroupServiceName   = "tripledger.v1.GroupService"
	ExpenseServiceName = "tripledger.v1.ExpenseService"
)

// ProcedurePrefix starts every procedure path.
const ProcedurePrefix = "/tripledger.v1."

const (
	AuthServiceRegisterProcedure       = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure          = "/" + AuthServiceName + "/Login"
	AuthServiceGetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"
)

const (
	GroupServiceCreateGroupProcedure       = "/" + GroupServiceName + "/CreateGroup"
	GroupServiceGetGroupProcedure          = "/" + GroupServiceName + "/GetGroup"
	GroupServiceDeleteGroupProcedure       = "/" + GroupServiceName + "/DeleteGroup"
	GroupServiceAddParticipantProcedure    = "/" + GroupServiceName + "/AddParticipant"
	GroupServiceListParticipantsProcedure  = "/" + GroupServiceName + "/ListParticipants"
	GroupServiceGetParticipantProcedure    = "/" + GroupServiceName + "/GetParticipant"
	GroupServiceUpdateParticipantProcedure = "/" + GroupServiceName + "/UpdateParticipant"
	GroupServiceRemoveParticipantProcedure = "/" + GroupServiceName + "/RemoveParticipant"
	GroupServiceGetBalancesProcedure       = "/" + GroupServiceName + "/GetBalances"
	GroupServiceGetSummaryProcedure        = "/" + GroupServiceName + "/GetSummary"
	GroupServiceAuditGroupProcedure        = "/" + GroupServiceName + "/AuditGroup"
)

const (
	ExpenseServiceCreateExpenseProcedure    = "/" + ExpenseServiceName + "/CreateExpense"
	ExpenseServiceGetExpenseProcedure       = "/" + ExpenseServiceName + "/GetExpense"
	ExpenseServiceUpdateExpenseProcedure    = "/" + ExpenseServiceName + "/UpdateExpense"
	ExpenseServiceDeleteExpenseProcedure    = "/" + ExpenseServiceName + "/DeleteExpense"
	ExpenseServiceListExpensesProcedure     = "/" + ExpenseServiceName + "/ListExpenses"
	ExpenseServiceCreateSettlementProcedure = "/" + ExpenseServiceName + "/CreateSettlement"
	ExpenseServiceGetSettlementProcedure    = "/" + ExpenseServiceName + "/GetSettlement"
	ExpenseServiceDeleteSettlementProcedure = "/" + ExpenseServiceName + "/DeleteSettlement"
	ExpenseServiceListSettlementsProcedure  = "/" + ExpenseServiceName + "/ListSettlements"
)
