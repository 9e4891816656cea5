// Package fundapi defines the boardfund.v1 Connect services: message types,
// procedure names, handler constructors and typed clients.
package fundapi

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	// FundServiceName is the fully-qualified name of the FundService service.
	FundServiceName = "boardfund.v1.FundService"
	// LedgerServiceName is the fully-qualified name of the LedgerService service.
	LedgerServiceName = "boardfund.v1.LedgerService"
)

// Procedure names, as they appear in URL paths.
const (
	FundServiceCreateFundProcedure         = "/boardfund.v1.FundService/CreateFund"
	FundServiceListFundsProcedure          = "/boardfund.v1.FundService/ListFunds"
	FundServiceGetFundProcedure            = "/boardfund.v1.FundService/GetFund"
	FundServiceDepositFundsProcedure       = "/boardfund.v1.FundService/DepositFunds"
	FundServiceAddTransactionProcedure     = "/boardfund.v1.FundService/AddTransaction"
	FundServiceApproveTransactionProcedure = "/boardfund.v1.FundService/ApproveTransaction"
	FundServiceRetractApprovalProcedure    = "/boardfund.v1.FundService/RetractApproval"
	FundServiceRunTransactionProcedure     = "/boardfund.v1.FundService/RunTransaction"
	FundServiceFetchTransactionProcedure   = "/boardfund.v1.FundService/FetchTransaction"
	FundServiceListTransactionsProcedure   = "/boardfund.v1.FundService/ListTransactions"
	FundServiceGetApprovalStatusProcedure  = "/boardfund.v1.FundService/GetApprovalStatus"
	FundServiceGetBalanceProcedure         = "/boardfund.v1.FundService/GetBalance"

	LedgerServiceApproveProcedure   = "/boardfund.v1.LedgerService/Approve"
	LedgerServiceBalanceOfProcedure = "/boardfund.v1.LedgerService/BalanceOf"
)

// PublicProcedures accept callers without a bearer token.
var PublicProcedures = []string{
	FundServiceListFundsProcedure,
	FundServiceGetFundProcedure,
	FundServiceFetchTransactionProcedure,
	FundServiceListTransactionsProcedure,
	FundServiceGetApprovalStatusProcedure,
	FundServiceGetBalanceProcedure,
	LedgerServiceBalanceOfProcedure,
}

// FundServiceHandler is implemented by the server side of FundService.
type FundServiceHandler interface {
	CreateFund(context.Context, *connect.Request[CreateFundRequest]) (*connect.Response[CreateFundResponse], error)
	ListFunds(context.Context, *connect.Request[ListFundsRequest]) (*connect.Response[ListFundsResponse], error)
	GetFund(context.Context, *connect.Request[GetFundRequest]) (*connect.Response[GetFundResponse], error)
	DepositFunds(context.Context, *connect.Request[DepositFundsRequest]) (*connect.Response[DepositFundsResponse], error)
	AddTransaction(context.Context, *connect.Request[AddTransactionRequest]) (*connect.Response[AddTransactionResponse], error)
	ApproveTransaction(context.Context, *connect.Request[ApproveTransactionRequest]) (*connect.Response[ApproveTransactionResponse], error)
	RetractApproval(context.Context, *connect.Request[RetractApprovalRequest]) (*connect.Response[RetractApprovalResponse], error)
	RunTransaction(context.Context, *connect.Request[RunTransactionRequest]) (*connect.Response[RunTransactionResponse], error)
	FetchTransaction(context.Context, *connect.Request[FetchTransactionRequest]) (*connect.Response[FetchTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error)
	GetApprovalStatus(context.Context, *connect.Request[GetApprovalStatusRequest]) (*connect.Response[GetApprovalStatusResponse], error)
	GetBalance(context.Context, *connect.Request[GetBalanceRequest]) (*connect.Response[GetBalanceResponse], error)
}

// NewFundServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewFundServiceHandler(svc FundServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	createFundHandler := connect.NewUnaryHandler(FundServiceCreateFundProcedure, svc.CreateFund, opts...)
	listFundsHandler := connect.NewUnaryHandler(FundServiceListFundsProcedure, svc.ListFunds, opts...)
	getFundHandler := connect.NewUnaryHandler(FundServiceGetFundProcedure, svc.GetFund, opts...)
	depositFundsHandler := connect.NewUnaryHandler(FundServiceDepositFundsProcedure, svc.DepositFunds, opts...)
	addTransactionHandler := connect.NewUnaryHandler(FundServiceAddTransactionProcedure, svc.AddTransaction, opts...)
	approveTransactionHandler := connect.NewUnaryHandler(FundServiceApproveTransactionProcedure, svc.ApproveTransaction, opts...)
	retractApprovalHandler := connect.NewUnaryHandler(FundServiceRetractApprovalProcedure, svc.RetractApproval, opts...)
	runTransactionHandler := connect.NewUnaryHandler(FundServiceRunTransactionProcedure, svc.RunTransaction, opts...)
	fetchTransactionHandler := connect.NewUnaryHandler(FundServiceFetchTransactionProcedure, svc.FetchTransaction, opts...)
	listTransactionsHandler := connect.NewUnaryHandler(FundServiceListTransactionsProcedure, svc.ListTransactions, opts...)
	getApprovalStatusHandler := connect.NewUnaryHandler(FundServiceGetApprovalStatusProcedure, svc.GetApprovalStatus, opts...)
	getBalanceHandler := connect.NewUnaryHandler(FundServiceGetBalanceProcedure, svc.GetBalance, opts...)
	return "/" + FundServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case FundServiceCreateFundProcedure:
			createFundHandler.ServeHTTP(w, r)
		case FundServiceListFundsProcedure:
			listFundsHandler.ServeHTTP(w, r)
		case FundServiceGetFundProcedure:
			getFundHandler.ServeHTTP(w, r)
		case FundServiceDepositFundsProcedure:
			depositFundsHandler.ServeHTTP(w, r)
		case FundServiceAddTransactionProcedure:
			addTransactionHandler.ServeHTTP(w, r)
		case FundServiceApproveTransactionProcedure:
			approveTransactionHandler.ServeHTTP(w, r)
		case FundServiceRetractApprovalProcedure:
			retractApprovalHandler.ServeHTTP(w, r)
		case FundServiceRunTransactionProcedure:
			runTransactionHandler.ServeHTTP(w, r)
		case FundServiceFetchTransactionProcedure:
			fetchTransactionHandler.ServeHTTP(w, r)
		case FundServiceListTransactionsProcedure:
			listTransactionsHandler.ServeHTTP(w, r)
		case FundServiceGetApprovalStatusProcedure:
			getApprovalStatusHandler.ServeHTTP(w, r)
		case FundServiceGetBalanceProcedure:
			getBalanceHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// FundServiceClient is a client for FundService.
type FundServiceClient interface {
	CreateFund(context.Context, *connect.Request[CreateFundRequest]) (*connect.Response[CreateFundResponse], error)
	ListFunds(context.Context, *connect.Request[ListFundsRequest]) (*connect.Response[ListFundsResponse], error)
	GetFund(context.Context, *connect.Request[GetFundRequest]) (*connect.Response[GetFundResponse], error)
	DepositFunds(context.Context, *connect.Request[DepositFundsRequest]) (*connect.Response[DepositFundsResponse], error)
	AddTransaction(context.Context, *connect.Request[AddTransactionRequest]) (*connect.Response[AddTransactionResponse], error)
	ApproveTransaction(context.Context, *connect.Request[ApproveTransactionRequest]) (*connect.Response[ApproveTransactionResponse], error)
	RetractApproval(context.Context, *connect.Request[RetractApprovalRequest]) (*connect.Response[RetractApprovalResponse], error)
	RunTransaction(context.Context, *connect.Request[RunTransactionRequest]) (*connect.Response[RunTransactionResponse], error)
	FetchTransaction(context.Context, *connect.Request[FetchTransactionRequest]) (*connect.Response[FetchTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error)
	GetApprovalStatus(context.Context, *connect.Request[GetApprovalStatusRequest]) (*connect.Response[GetApprovalStatusResponse], error)
	GetBalance(context.Context, *connect.Request[GetBalanceRequest]) (*connect.Response[GetBalanceResponse], error)
}

// NewFundServiceClient constructs a client for FundService. baseURL is the
// server root, for example http://localhost:8080.
func NewFundServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) FundServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &fundServiceClient{
		createFund:         connect.NewClient[CreateFundRequest, CreateFundResponse](httpClient, baseURL+FundServiceCreateFundProcedure, opts...),
		listFunds:          connect.NewClient[ListFundsRequest, ListFundsResponse](httpClient, baseURL+FundServiceListFundsProcedure, opts...),
		getFund:            connect.NewClient[GetFundRequest, GetFundResponse](httpClient, baseURL+FundServiceGetFundProcedure, opts...),
		depositFunds:       connect.NewClient[DepositFundsRequest, DepositFundsResponse](httpClient, baseURL+FundServiceDepositFundsProcedure, opts...),
		addTransaction:     connect.NewClient[AddTransactionRequest, AddTransactionResponse](httpClient, baseURL+FundServiceAddTransactionProcedure, opts...),
		approveTransaction: connect.NewClient[ApproveTransactionRequest, ApproveTransactionResponse](httpClient, baseURL+FundServiceApproveTransactionProcedure, opts...),
		retractApproval:    connect.NewClient[RetractApprovalRequest, RetractApprovalResponse](httpClient, baseURL+FundServiceRetractApprovalProcedure, opts...),
		runTransaction:     connect.NewClient[RunTransactionRequest, RunTransactionResponse](httpClient, baseURL+FundServiceRunTransactionProcedure, opts...),
		fetchTransaction:   connect.NewClient[FetchTransactionRequest, FetchTransactionResponse](httpClient, baseURL+FundServiceFetchTransactionProcedure, opts...),
		listTransactions:   connect.NewClient[ListTransactionsRequest, ListTransactionsResponse](httpClient, baseURL+FundServiceListTransactionsProcedure, opts...),
		getApprovalStatus:  connect.NewClient[GetApprovalStatusRequest, GetApprovalStatusResponse](httpClient, baseURL+FundServiceGetApprovalStatusProcedure, opts...),
		getBalance:         connect.NewClient[GetBalanceRequest, GetBalanceResponse](httpClient, baseURL+FundServiceGetBalanceProcedure, opts...),
	}
}

type fundServiceClient struct {
	createFund         *connect.Client[CreateFundRequest, CreateFundResponse]
	listFunds          *connect.Client[ListFundsRequest, ListFundsResponse]
	getFund            *connect.Client[GetFundRequest, GetFundResponse]
	depositFunds       *connect.Client[DepositFundsRequest, DepositFundsResponse]
	addTransaction     *connect.Client[AddTransactionRequest, AddTransactionResponse]
	approveTransaction *connect.Client[ApproveTransactionRequest, ApproveTransactionResponse]
	retractApproval    *connect.Client[RetractApprovalRequest, RetractApprovalResponse]
	runTransaction     *connect.Client[RunTransactionRequest, RunTransactionResponse]
	fetchTransaction   *connect.Client[FetchTransactionRequest, FetchTransactionResponse]
	listTransactions   *connect.Client[ListTransactionsRequest, ListTransactionsResponse]
	getApprovalStatus  *connect.Client[GetApprovalStatusRequest, GetApprovalStatusResponse]
	getBalance         *connect.Client[GetBalanceRequest, GetBalanceResponse]
}

func (c *fundServiceClient) CreateFund(ctx context.Context, req *connect.Request[CreateFundRequest]) (*connect.Response[CreateFundResponse], error) {
	return c.createFund.CallUnary(ctx, req)
}

func (c *fundServiceClient) ListFunds(ctx context.Context, req *connect.Request[ListFundsRequest]) (*connect.Response[ListFundsResponse], error) {
	return c.listFunds.CallUnary(ctx, req)
}

func (c *fundServiceClient) GetFund(ctx context.Context, req *connect.Request[GetFundRequest]) (*connect.Response[GetFundResponse], error) {
	return c.getFund.CallUnary(ctx, req)
}

func (c *fundServiceClient) DepositFunds(ctx context.Context, req *connect.Request[DepositFundsRequest]) (*connect.Response[DepositFundsResponse], error) {
	return c.depositFunds.CallUnary(ctx, req)
}

func (c *fundServiceClient) AddTransaction(ctx context.Context, req *connect.Request[AddTransactionRequest]) (*connect.Response[AddTransactionResponse], error) {
	return c.addTransaction.CallUnary(ctx, req)
}

func (c *fundServiceClient) ApproveTransaction(ctx context.Context, req *connect.Request[ApproveTransactionRequest]) (*connect.Response[ApproveTransactionResponse], error) {
	return c.approveTransaction.CallUnary(ctx, req)
}

func (c *fundServiceClient) RetractApproval(ctx context.Context, req *connect.Request[RetractApprovalRequest]) (*connect.Response[RetractApprovalResponse], error) {
	return c.retractApproval.CallUnary(ctx, req)
}

func (c *fundServiceClient) RunTransaction(ctx context.Context, req *connect.Request[RunTransactionRequest]) (*connect.Response[RunTransactionResponse], error) {
	return c.runTransaction.CallUnary(ctx, req)
}

func (c *fundServiceClient) FetchTransaction(ctx context.Context, req *connect.Request[FetchTransactionRequest]) (*connect.Response[FetchTransactionResponse], error) {
	return c.fetchTransaction.CallUnary(ctx, req)
}

func (c *fundServiceClient) ListTransactions(ctx context.Context, req *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *fundServiceClient) GetApprovalStatus(ctx context.Context, req *connect.Request[GetApprovalStatusRequest]) (*connect.Response[GetApprovalStatusResponse], error) {
	return c.getApprovalStatus.CallUnary(ctx, req)
}

func (c *fundServiceClient) GetBalance(ctx context.Context, req *connect.Request[GetBalanceRequest]) (*connect.Response[GetBalanceResponse], error) {
	return c.getBalance.CallUnary(ctx, req)
}

// LedgerServiceHandler is implemented by the server side of LedgerService.
type LedgerServiceHandler interface {
	Approve(context.Context, *connect.Request[ApproveRequest]) (*connect.Response[ApproveResponse], error)
	BalanceOf(context.Context, *connect.Request[BalanceOfRequest]) (*connect.Response[BalanceOfResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	approveHandler := connect.NewUnaryHandler(LedgerServiceApproveProcedure, svc.Approve, opts...)
	balanceOfHandler := connect.NewUnaryHandler(LedgerServiceBalanceOfProcedure, svc.BalanceOf, opts...)
	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceApproveProcedure:
			approveHandler.ServeHTTP(w, r)
		case LedgerServiceBalanceOfProcedure:
			balanceOfHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// LedgerServiceClient is a client for LedgerService.
type LedgerServiceClient interface {
	Approve(context.Context, *connect.Request[ApproveRequest]) (*connect.Response[ApproveResponse], error)
	BalanceOf(context.Context, *connect.Request[BalanceOfRequest]) (*connect.Response[BalanceOfResponse], error)
}

// NewLedgerServiceClient constructs a client for LedgerService. baseURL is the
// server root, for example http://localhost:8080.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &ledgerServiceClient{
		approve:   connect.NewClient[ApproveRequest, ApproveResponse](httpClient, baseURL+LedgerServiceApproveProcedure, opts...),
		balanceOf: connect.NewClient[BalanceOfRequest, BalanceOfResponse](httpClient, baseURL+LedgerServiceBalanceOfProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	approve   *connect.Client[ApproveRequest, ApproveResponse]
	balanceOf *connect.Client[BalanceOfRequest, BalanceOfResponse]
}

func (c *ledgerServiceClient) Approve(ctx context.Context, req *connect.Request[ApproveRequest]) (*connect.Response[ApproveResponse], error) {
	return c.approve.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) BalanceOf(ctx context.Context, req *connect.Request[BalanceOfRequest]) (*connect.Response[BalanceOfResponse], error) {
	return c.balanceOf.CallUnary(ctx, req)
}
