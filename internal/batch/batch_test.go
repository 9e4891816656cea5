package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/mmynk/boardfund/internal/ledger"
	"github.com/mmynk/boardfund/internal/models"
	"github.com/mmynk/boardfund/internal/treasury"
	"github.com/mmynk/boardfund/pkg/fundapi"
)

func board(n int) []models.Address {
	members := make([]models.Address, n)
	for i := range members {
		members[i] = models.Address(fmt.Sprintf("member-%02d", i))
	}
	return members
}

func newAccount(t *testing.T, members []models.Address) *treasury.Account {
	t.Helper()
	acct, err := treasury.New(models.Fund{ID: "fund", Owner: "owner", Members: members}, ledger.NewMemory())
	require.NoError(t, err)
	return acct
}

func TestApproveContinuesPastFailures(t *testing.T) {
	ctx := context.Background()
	members := board(19)
	acct := newAccount(t, members)

	id, err := acct.AddTransaction(ctx, "owner", "target", decimal.NewFromInt(50), nil)
	require.NoError(t, err)
	require.NoError(t, acct.ApproveTransaction(ctx, members[3], id))
	require.NoError(t, acct.ApproveTransaction(ctx, members[11], id))

	callers := append([]models.Address{"outsider"}, members...)
	results, err := Approve(ctx, acct, id, callers, WithConcurrency(4))
	require.Error(t, err)
	require.Len(t, results, len(callers))

	failures := multierr.Errors(err)
	assert.Len(t, failures, 3)

	for i, r := range results {
		assert.Equal(t, callers[i], r.Member, "results keep input order")
		assert.Equal(t, 1, r.Attempts)
		switch r.Member {
		case "outsider":
			assert.ErrorIs(t, r.Err, treasury.ErrUnauthorized)
		case members[3], members[11]:
			assert.ErrorIs(t, r.Err, treasury.ErrAlreadyApproved)
		default:
			assert.NoError(t, r.Err)
		}
	}

	tx, err := acct.FetchTransaction(id)
	require.NoError(t, err)
	assert.Equal(t, len(members), tx.ApprovalCount)
}

func TestApproveAllSucceed(t *testing.T) {
	ctx := context.Background()
	members := board(5)
	acct := newAccount(t, members)

	id, err := acct.AddTransaction(ctx, "owner", "target", decimal.Zero, nil)
	require.NoError(t, err)

	results, err := Approve(ctx, acct, id, members)
	require.NoError(t, err)
	for _, r := range results {
		assert.NoError(t, r.Err)
	}
	require.NoError(t, acct.RunTransaction(ctx, "anyone", id))
}

type flaky struct {
	mu       sync.Mutex
	failures map[models.Address]int
	err      error
	calls    map[models.Address]int
}

func (f *flaky) ApproveTransaction(_ context.Context, caller models.Address, _ uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[caller]++
	if f.failures[caller] > 0 {
		f.failures[caller]--
		return f.err
	}
	return nil
}

func TestApproveRetriesTransientErrors(t *testing.T) {
	unavailable := connect.NewError(connect.CodeUnavailable, errors.New("connection refused"))
	f := &flaky{
		failures: map[models.Address]int{"alice": 2, "bob": 5},
		err:      unavailable,
		calls:    map[models.Address]int{},
	}

	results, err := Approve(context.Background(), f, 0, []models.Address{"alice", "bob", "carol"}, WithRetry(3, 0))
	require.Error(t, err)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, 3, results[0].Attempts)

	assert.Equal(t, 3, results[1].Attempts)
	assert.Equal(t, connect.CodeUnavailable, connect.CodeOf(results[1].Err))

	assert.NoError(t, results[2].Err)
	assert.Equal(t, 1, results[2].Attempts)
}

func TestApproveDoesNotRetryCoreErrors(t *testing.T) {
	f := &flaky{
		failures: map[models.Address]int{"alice": 1},
		err:      treasury.ErrAlreadyApproved,
		calls:    map[models.Address]int{},
	}

	results, err := Approve(context.Background(), f, 0, []models.Address{"alice"}, WithRetry(5, 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, treasury.ErrAlreadyApproved)
	assert.Equal(t, 1, results[0].Attempts)
	assert.Equal(t, 1, f.calls["alice"])
}

func TestApproveCustomRetryPredicate(t *testing.T) {
	boom := errors.New("boom")
	f := &flaky{
		failures: map[models.Address]int{"alice": 1},
		err:      boom,
		calls:    map[models.Address]int{},
	}

	results, err := Approve(context.Background(), f, 0, []models.Address{"alice"},
		WithRetry(2, 0),
		WithRetryIf(func(err error) bool { return errors.Is(err, boom) }),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, results[0].Attempts)
}

func TestApproveCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &flaky{failures: map[models.Address]int{}, calls: map[models.Address]int{}}
	results, err := Approve(ctx, f, 0, []models.Address{"alice"})
	require.Error(t, err)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
	assert.Zero(t, f.calls["alice"])
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(connect.NewError(connect.CodeUnavailable, errors.New("x"))))
	assert.True(t, IsTransient(connect.NewError(connect.CodeDeadlineExceeded, errors.New("x"))))
	assert.False(t, IsTransient(connect.NewError(connect.CodeFailedPrecondition, errors.New("x"))))
	assert.False(t, IsTransient(treasury.ErrUnauthorized))
}

type fakeClient struct {
	fundapi.FundServiceClient

	mu   sync.Mutex
	seen map[string]*fundapi.ApproveTransactionRequest
}

func (c *fakeClient) ApproveTransaction(_ context.Context, req *connect.Request[fundapi.ApproveTransactionRequest]) (*connect.Response[fundapi.ApproveTransactionResponse], error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	auth := req.Header().Get("Authorization")
	if auth == "Bearer token-mallory" {
		return nil, connect.NewError(connect.CodePermissionDenied, errors.New("unauthorized"))
	}
	c.seen[auth] = req.Msg
	return connect.NewResponse(&fundapi.ApproveTransactionResponse{}), nil
}

func TestRemoteApprover(t *testing.T) {
	client := &fakeClient{seen: map[string]*fundapi.ApproveTransactionRequest{}}
	remote := &RemoteApprover{
		Client: client,
		FundID: "fund-1",
		Token: func(addr models.Address) (string, error) {
			if addr == "" {
				return "", errors.New("no address")
			}
			return "token-" + addr.String(), nil
		},
	}

	results, err := Approve(context.Background(), remote, 7, []models.Address{"alice", "mallory", ""})
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(results[1].Err))
	assert.Error(t, results[2].Err)

	req := client.seen["Bearer token-alice"]
	require.NotNil(t, req)
	assert.Equal(t, "fund-1", req.FundId)
	assert.Equal(t, uint64(7), req.TransactionId)
}
