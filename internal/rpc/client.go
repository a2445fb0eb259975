package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls arena.v1.Arena.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) call(ctx context.Context, method string, fields map[string]any) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, username string) (*structpb.Struct, error) {
	return c.call(ctx, "Register", map[string]any{"username": username})
}

func (c *Client) DrawGacha(ctx context.Context, playerID string, n int) (*structpb.Struct, error) {
	return c.call(ctx, "DrawGacha", map[string]any{"player_id": playerID, "n": n})
}

func (c *Client) BeginEncounter(ctx context.Context, playerID, memberID string) (*structpb.Struct, error) {
	return c.call(ctx, "BeginEncounter", map[string]any{"player_id": playerID, "member_id": memberID})
}

func (c *Client) AdvanceEncounter(ctx context.Context, playerID string) (*structpb.Struct, error) {
	return c.call(ctx, "AdvanceEncounter", map[string]any{"player_id": playerID})
}

func (c *Client) SettleEncounter(ctx context.Context, playerID string) (*structpb.Struct, error) {
	return c.call(ctx, "SettleEncounter", map[string]any{"player_id": playerID})
}
