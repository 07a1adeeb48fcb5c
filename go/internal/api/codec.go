package api

import (
	"context"
	"encoding/json"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mcdev12/auctionpro/go/internal/apperr"
)

// Codec marshals connect messages as plain JSON structs.
type Codec struct{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (Codec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Unary builds a connect handler for procedure. Domain errors are mapped
// onto connect codes.
func Unary[Req, Res any](procedure string, fn func(context.Context, *Req) (*Res, error)) (string, http.Handler) {
	return procedure, connect.NewUnaryHandler(
		procedure,
		func(ctx context.Context, req *connect.Request[Req]) (*connect.Response[Res], error) {
			res, err := fn(ctx, req.Msg)
			if err != nil {
				return nil, apperr.ToConnect(err)
			}
			return connect.NewResponse(res), nil
		},
		connect.WithCodec(Codec{}),
	)
}
