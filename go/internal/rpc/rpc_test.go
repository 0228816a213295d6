package rpc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/GonzaloH5/league-bot/go/internal/leagueerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToConnectError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code connect.Code
		meta string
	}{
		{"validation", leagueerr.ErrInvalidAmount, connect.CodeInvalidArgument, "invalid_amount"},
		{"authorization", leagueerr.ErrUnauthorized, connect.CodePermissionDenied, "unauthorized"},
		{"state", leagueerr.ErrInvalidState, connect.CodeFailedPrecondition, "invalid_state"},
		{"conflict", leagueerr.ErrSlotUnavailable, connect.CodeAlreadyExists, "slot_unavailable"},
		{"funds", leagueerr.ErrInsufficientFunds, connect.CodeFailedPrecondition, "insufficient_funds"},
		{"not found", fmt.Errorf("lookup: %w", leagueerr.ErrOfferNotFound), connect.CodeNotFound, "offer_not_found"},
		{"market", leagueerr.ErrMarketClosed, connect.CodeUnavailable, "market_closed"},
		{"persistence", leagueerr.Persistence(errors.New("disk I/O error")), connect.CodeInternal, "persistence"},
		{"unknown", errors.New("boom"), connect.CodeInternal, "persistence"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cerr := ToConnectError(tt.err)
			assert.Equal(t, tt.code, cerr.Code())
			assert.Equal(t, tt.meta, cerr.Meta().Get(ErrorCodeHeader))
		})
	}

	t.Run("persistence details are not leaked", func(t *testing.T) {
		cerr := ToConnectError(leagueerr.Persistence(errors.New("disk I/O error")))
		assert.NotContains(t, cerr.Message(), "disk")
	})
}

func TestJSONCodec(t *testing.T) {
	codec := jsonCodec{name: "json"}

	type payload struct {
		Caller Caller `json:"caller"`
		Amount int64  `json:"amount"`
	}

	data, err := codec.Marshal(&payload{Caller: Caller{TenantID: "guild", ActorID: "m1"}, Amount: 500})
	require.NoError(t, err)
	assert.JSONEq(t, `{"caller":{"tenant_id":"guild","actor_id":"m1"},"amount":500}`, string(data))

	var decoded payload
	require.NoError(t, codec.Unmarshal(data, &decoded))
	assert.Equal(t, int64(500), decoded.Amount)
	assert.Equal(t, "m1", string(decoded.Caller.Actor().ID))

	require.NoError(t, codec.Unmarshal(nil, &decoded))
}

type echoRequest struct {
	Caller Caller `json:"caller"`
	Text   string `json:"text"`
}

type echoResponse struct {
	Text string `json:"text"`
}

func TestHandleRoundTrip(t *testing.T) {
	mux := http.NewServeMux()
	procedure := Procedure("EchoService", "Echo")
	Handle(mux, procedure, func(_ context.Context, req *echoRequest) (*echoResponse, error) {
		if req.Text == "" {
			return nil, leagueerr.ErrInvalidInput
		}
		return &echoResponse{Text: string(req.Caller.TenantID) + ":" + req.Text}, nil
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient[echoRequest, echoResponse](server.Client(), server.URL, procedure)
	ctx := context.Background()

	res, err := Call(ctx, client, &echoRequest{Caller: Caller{TenantID: "guild"}, Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "guild:hi", res.Text)

	_, err = Call(ctx, client, &echoRequest{Caller: Caller{TenantID: "guild"}})
	require.Error(t, err)
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	assert.Equal(t, "invalid_input", ErrorCode(err))
	assert.Equal(t, "/league.v1.EchoService/Echo", procedure)
}
