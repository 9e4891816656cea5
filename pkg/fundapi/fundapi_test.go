package fundapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"
)

type ledgerStub struct{}

func (ledgerStub) Approve(_ context.Context, req *connect.Request[ApproveRequest]) (*connect.Response[ApproveResponse], error) {
	if req.Msg.Amount == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("amount required"))
	}
	return connect.NewResponse(&ApproveResponse{}), nil
}

func (ledgerStub) BalanceOf(_ context.Context, req *connect.Request[BalanceOfRequest]) (*connect.Response[BalanceOfResponse], error) {
	return connect.NewResponse(&BalanceOfResponse{Balance: req.Msg.Asset + ":" + req.Msg.Account}), nil
}

func TestCodec(t *testing.T) {
	c := Codec{}
	if c.Name() != "json" {
		t.Errorf("name: expected 'json', got '%s'", c.Name())
	}

	data, err := c.Marshal(&Transaction{Id: 3, Amount: "1.5", Payload: []byte("hi")})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"amount":"1.5"`) {
		t.Errorf("amount not encoded as string: %s", data)
	}

	var tx Transaction
	if err := c.Unmarshal(data, &tx); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if tx.Id != 3 || string(tx.Payload) != "hi" {
		t.Errorf("unexpected transaction: %+v", tx)
	}

	if err := c.Unmarshal(nil, &tx); err != nil {
		t.Errorf("empty body should decode as empty message: %v", err)
	}
}

func TestLedgerServiceRoundTrip(t *testing.T) {
	path, handler := NewLedgerServiceHandler(ledgerStub{})
	if path != "/boardfund.v1.LedgerService/" {
		t.Errorf("path: unexpected %s", path)
	}

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewLedgerServiceClient(http.DefaultClient, server.URL+"/")
	ctx := context.Background()

	resp, err := client.BalanceOf(ctx, connect.NewRequest(&BalanceOfRequest{Asset: "BTK", Account: "alice"}))
	if err != nil {
		t.Fatalf("BalanceOf failed: %v", err)
	}
	if resp.Msg.Balance != "BTK:alice" {
		t.Errorf("balance: unexpected %s", resp.Msg.Balance)
	}

	_, err = client.Approve(ctx, connect.NewRequest(&ApproveRequest{Asset: "BTK"}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected CodeInvalidArgument, got %v", connect.CodeOf(err))
	}

	res, err := http.Post(server.URL+"/boardfund.v1.LedgerService/Mint", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("unknown procedure: expected 404, got %d", res.StatusCode)
	}
}
