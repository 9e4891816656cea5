package fundapi

// Amounts travel as decimal strings so no precision is lost in JSON.

type Fund struct {
	Id               string   `json:"id"`
	Address          string   `json:"address"`
	Owner            string   `json:"owner"`
	Members          []string `json:"members"`
	Threshold        int      `json:"threshold"`
	MemberSubmission bool     `json:"member_submission,omitempty"`
	Asset            string   `json:"asset"`
	CreatedAt        int64    `json:"created_at"`
}

type Transaction struct {
	Id            uint64 `json:"id"`
	FundId        string `json:"fund_id"`
	Submitter     string `json:"submitter"`
	Target        string `json:"target"`
	Amount        string `json:"amount"`
	Payload       []byte `json:"payload,omitempty"`
	Executed      bool   `json:"executed"`
	Approvals     []bool `json:"approvals"`
	ApprovalCount int    `json:"approval_count"`
	CreatedAt     int64  `json:"created_at"`
	ExecutedAt    int64  `json:"executed_at,omitempty"`
}

type MemberApproval struct {
	Member   string `json:"member"`
	Approved bool   `json:"approved"`
}

// CreateFundRequest deploys a fund owned by the caller. A zero Threshold
// means every member must approve.
type CreateFundRequest struct {
	Members          []string `json:"members"`
	Asset            string   `json:"asset"`
	Threshold        int      `json:"threshold,omitempty"`
	MemberSubmission bool     `json:"member_submission,omitempty"`
}

type CreateFundResponse struct {
	Fund *Fund `json:"fund"`
}

type ListFundsRequest struct{}

type ListFundsResponse struct {
	Funds []*Fund `json:"funds"`
}

type GetFundRequest struct {
	FundId string `json:"fund_id"`
}

type GetFundResponse struct {
	Fund             *Fund  `json:"fund"`
	TransactionCount uint64 `json:"transaction_count"`
	Balance          string `json:"balance"`
}

type DepositFundsRequest struct {
	FundId string `json:"fund_id"`
	Amount string `json:"amount"`
}

type DepositFundsResponse struct {
	Balance string `json:"balance"`
}

type AddTransactionRequest struct {
	FundId  string `json:"fund_id"`
	Target  string `json:"target"`
	Amount  string `json:"amount"`
	Payload []byte `json:"payload,omitempty"`
}

type AddTransactionResponse struct {
	TransactionId uint64 `json:"transaction_id"`
}

type ApproveTransactionRequest struct {
	FundId        string `json:"fund_id"`
	TransactionId uint64 `json:"transaction_id"`
}

type ApproveTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type RetractApprovalRequest struct {
	FundId        string `json:"fund_id"`
	TransactionId uint64 `json:"transaction_id"`
}

type RetractApprovalResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type RunTransactionRequest struct {
	FundId        string `json:"fund_id"`
	TransactionId uint64 `json:"transaction_id"`
}

type RunTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type FetchTransactionRequest struct {
	FundId        string `json:"fund_id"`
	TransactionId uint64 `json:"transaction_id"`
}

type FetchTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type ListTransactionsRequest struct {
	FundId string `json:"fund_id"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

type GetApprovalStatusRequest struct {
	FundId        string `json:"fund_id"`
	TransactionId uint64 `json:"transaction_id"`
}

type GetApprovalStatusResponse struct {
	Approvals     []*MemberApproval `json:"approvals"`
	ApprovalCount int               `json:"approval_count"`
	Threshold     int               `json:"threshold"`
}

type GetBalanceRequest struct {
	FundId string `json:"fund_id"`
}

type GetBalanceResponse struct {
	Balance string `json:"balance"`
}

// ApproveRequest sets how much Spender may pull from the caller.
type ApproveRequest struct {
	Asset   string `json:"asset"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

type ApproveResponse struct{}

type BalanceOfRequest struct {
	Asset   string `json:"asset"`
	Account string `json:"account"`
}

type BalanceOfResponse struct {
	Balance string `json:"balance"`
}
