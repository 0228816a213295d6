package rpc

import (
	"context"
	"fmt"
	"net/http"

	"connectrpc.com/connect"
	"github.com/GonzaloH5/league-bot/go/internal/models"
)

// Caller identifies the tenant and acting identity of every call
type Caller struct {
	TenantID models.TenantID `json:"tenant_id"`
	ActorID  models.ActorID  `json:"actor_id"`
	Admin    bool            `json:"admin,omitempty"`
}

// Actor returns the acting identity carried by the caller
func (c Caller) Actor() models.Actor {
	return models.Actor{ID: c.ActorID, Admin: c.Admin}
}

// Empty is the response of operations that return nothing
type Empty struct{}

// Procedure builds the procedure path of method on service
func Procedure(service, method string) string {
	return fmt.Sprintf("/league.v1.%s/%s", service, method)
}

// Handle mounts a unary JSON handler for procedure on mux
func Handle[Req, Res any](mux *http.ServeMux, procedure string, fn func(context.Context, *Req) (*Res, error), opts ...connect.HandlerOption) {
	handler := connect.NewUnaryHandler(
		procedure,
		func(ctx context.Context, req *connect.Request[Req]) (*connect.Response[Res], error) {
			res, err := fn(ctx, req.Msg)
			if err != nil {
				return nil, ToConnectError(err)
			}
			return connect.NewResponse(res), nil
		},
		append([]connect.HandlerOption{WithJSON()}, opts...)...,
	)
	mux.Handle(procedure, handler)
}

// NewClient creates a JSON client for procedure at baseURL
func NewClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts ...connect.ClientOption) *connect.Client[Req, Res] {
	return connect.NewClient[Req, Res](
		httpClient,
		baseURL+procedure,
		append([]connect.ClientOption{connect.WithCodec(jsonCodec{name: "json"})}, opts...)...,
	)
}

// Call performs a unary call and unwraps the response message
func Call[Req, Res any](ctx context.Context, client *connect.Client[Req, Res], req *Req) (*Res, error) {
	res, err := client.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}
