package api

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// Client calls every auction RPC over the JSON codec.
type Client struct {
	httpClient connect.HTTPClient
	baseURL    string
	opts       []connect.ClientOption
}

// NewClient creates a client for the server at baseURL.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		opts:       append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...),
	}
}

func call[Req, Res any](ctx context.Context, c *Client, procedure string, req *Req) (*Res, error) {
	client := connect.NewClient[Req, Res](c.httpClient, c.baseURL+procedure, c.opts...)
	resp, err := client.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func (c *Client) CreateAccount(ctx context.Context, req *CreateAccountRequest) (*CreateAccountResponse, error) {
	return call[CreateAccountRequest, CreateAccountResponse](ctx, c, CreateAccountProcedure, req)
}

func (c *Client) Authenticate(ctx context.Context, req *AuthenticateRequest) (*AuthenticateResponse, error) {
	return call[AuthenticateRequest, AuthenticateResponse](ctx, c, AuthenticateProcedure, req)
}

func (c *Client) GetUser(ctx context.Context, req *GetUserRequest) (*GetUserResponse, error) {
	return call[GetUserRequest, GetUserResponse](ctx, c, GetUserProcedure, req)
}

func (c *Client) UpsertProfile(ctx context.Context, req *UpsertProfileRequest) (*ProfileResponse, error) {
	return call[UpsertProfileRequest, ProfileResponse](ctx, c, UpsertProfileProcedure, req)
}

func (c *Client) GetProfile(ctx context.Context, req *GetProfileRequest) (*ProfileResponse, error) {
	return call[GetProfileRequest, ProfileResponse](ctx, c, GetProfileProcedure, req)
}

func (c *Client) CreateItem(ctx context.Context, req *CreateItemRequest) (*CreateItemResponse, error) {
	return call[CreateItemRequest, CreateItemResponse](ctx, c, CreateItemProcedure, req)
}

func (c *Client) GetItem(ctx context.Context, req *GetItemRequest) (*GetItemResponse, error) {
	return call[GetItemRequest, GetItemResponse](ctx, c, GetItemProcedure, req)
}

func (c *Client) ListItems(ctx context.Context, req *ListItemsRequest) (*ListItemsResponse, error) {
	return call[ListItemsRequest, ListItemsResponse](ctx, c, ListItemsProcedure, req)
}

func (c *Client) CreateRoom(ctx context.Context, req *CreateRoomRequest) (*CreateRoomResponse, error) {
	return call[CreateRoomRequest, CreateRoomResponse](ctx, c, CreateRoomProcedure, req)
}

func (c *Client) AddItem(ctx context.Context, req *AddItemRequest) (*AddItemResponse, error) {
	return call[AddItemRequest, AddItemResponse](ctx, c, AddItemProcedure, req)
}

func (c *Client) JoinRoom(ctx context.Context, req *JoinRoomRequest) (*JoinRoomResponse, error) {
	return call[JoinRoomRequest, JoinRoomResponse](ctx, c, JoinRoomProcedure, req)
}

func (c *Client) GetRoom(ctx context.Context, req *GetRoomRequest) (*GetRoomResponse, error) {
	return call[GetRoomRequest, GetRoomResponse](ctx, c, GetRoomProcedure, req)
}

func (c *Client) ListRooms(ctx context.Context, req *ListRoomsRequest) (*ListRoomsResponse, error) {
	return call[ListRoomsRequest, ListRoomsResponse](ctx, c, ListRoomsProcedure, req)
}

func (c *Client) StartAuction(ctx context.Context, req *StartAuctionRequest) (*StartAuctionResponse, error) {
	return call[StartAuctionRequest, StartAuctionResponse](ctx, c, StartAuctionProcedure, req)
}

func (c *Client) PlaceBid(ctx context.Context, req *PlaceBidRequest) (*PlaceBidResponse, error) {
	return call[PlaceBidRequest, PlaceBidResponse](ctx, c, PlaceBidProcedure, req)
}

func (c *Client) GetLedger(ctx context.Context, req *GetLedgerRequest) (*GetLedgerResponse, error) {
	return call[GetLedgerRequest, GetLedgerResponse](ctx, c, GetLedgerProcedure, req)
}

func (c *Client) GetRecommendations(ctx context.Context, req *GetRecommendationsRequest) (*GetRecommendationsResponse, error) {
	return call[GetRecommendationsRequest, GetRecommendationsResponse](ctx, c, GetRecommendationsProcedure, req)
}

func (c *Client) ListBids(ctx context.Context, req *ListBidsRequest) (*ListBidsResponse, error) {
	return call[ListBidsRequest, ListBidsResponse](ctx, c, ListBidsProcedure, req)
}

func (c *Client) ListSettlements(ctx context.Context, req *ListSettlementsRequest) (*ListSettlementsResponse, error) {
	return call[ListSettlementsRequest, ListSettlementsResponse](ctx, c, ListSettlementsProcedure, req)
}
