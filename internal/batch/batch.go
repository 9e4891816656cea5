// Package batch submits many board members' approvals of one transaction.
//
// Each member's approval is independent: a failure for one member never
// stops or undoes the others. The treasury itself never retries, so any
// retrying happens here, per member.
package batch

import (
	"context"
	"fmt"
	"time"

	"connectrpc.com/connect"
	"github.com/avast/retry-go"
	"github.com/sourcegraph/conc/iter"
	"go.uber.org/multierr"

	"github.com/mmynk/boardfund/internal/models"
	"github.com/mmynk/boardfund/internal/treasury"
	"github.com/mmynk/boardfund/pkg/fundapi"
)

// Approver records one member's approval of a transaction.
type Approver interface {
	ApproveTransaction(ctx context.Context, caller models.Address, id uint64) error
}

var (
	_ Approver = (*treasury.Account)(nil)
	_ Approver = (*RemoteApprover)(nil)
)

// Result is the outcome for one member.
type Result struct {
	Member   models.Address
	Err      error
	Attempts int
}

type options struct {
	concurrency int
	attempts    uint
	delay       time.Duration
	retryIf     func(error) bool
}

// Option configures Approve.
type Option func(*options)

// WithConcurrency bounds how many approvals are in flight.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithRetry makes up to attempts tries per member, waiting delay between
// tries. Only errors accepted by the retry predicate are retried.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(o *options) {
		o.attempts = attempts
		o.delay = delay
	}
}

// WithRetryIf replaces IsTransient as the retry predicate.
func WithRetryIf(fn func(error) bool) Option {
	return func(o *options) {
		o.retryIf = fn
	}
}

// IsTransient reports whether err is a transport failure worth retrying.
// Errors returned by the treasury itself are never transient.
func IsTransient(err error) bool {
	switch connect.CodeOf(err) {
	case connect.CodeUnavailable, connect.CodeDeadlineExceeded, connect.CodeResourceExhausted:
		return true
	default:
		return false
	}
}

// Approve submits the approval of transaction id by every member and
// returns one Result per member, in the order of members. The error
// combines every failed member's error.
func Approve(ctx context.Context, a Approver, id uint64, members []models.Address, opts ...Option) ([]Result, error) {
	o := options{concurrency: 8, attempts: 1, retryIf: IsTransient}
	for _, opt := range opts {
		opt(&o)
	}
	if o.attempts == 0 {
		o.attempts = 1
	}

	mapper := iter.Mapper[models.Address, Result]{MaxGoroutines: o.concurrency}
	results := mapper.Map(members, func(member *models.Address) Result {
		return approveOne(ctx, a, id, *member, o)
	})

	var err error
	for _, r := range results {
		if r.Err != nil {
			err = multierr.Append(err, fmt.Errorf("member %s: %w", r.Member, r.Err))
		}
	}
	return results, err
}

func approveOne(ctx context.Context, a Approver, id uint64, member models.Address, o options) Result {
	res := Result{Member: member}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	res.Err = retry.Do(func() error {
		res.Attempts++
		return a.ApproveTransaction(ctx, member, id)
	},
		retry.Context(ctx),
		retry.Attempts(o.attempts),
		retry.Delay(o.delay),
		retry.DelayType(retry.FixedDelay),
		retry.RetryIf(o.retryIf),
		retry.LastErrorOnly(true),
	)
	return res
}

// RemoteApprover approves through a FundService client, authenticating
// each member with the token Token returns for it.
type RemoteApprover struct {
	Client fundapi.FundServiceClient
	FundID string
	Token  func(models.Address) (string, error)
}

func (r *RemoteApprover) ApproveTransaction(ctx context.Context, caller models.Address, id uint64) error {
	token, err := r.Token(caller)
	if err != nil {
		return fmt.Errorf("failed to get token: %w", err)
	}

	req := connect.NewRequest(&fundapi.ApproveTransactionRequest{
		FundId:        r.FundID,
		TransactionId: id,
	})
	req.Header().Set("Authorization", "Bearer "+token)

	_, err = r.Client.ApproveTransaction(ctx, req)
	return err
}
