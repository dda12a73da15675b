package grpc

import (
	"context"

	"github.com/dmitrijs2005/campjournal/internal/common"
	"github.com/dmitrijs2005/campjournal/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Client calls the CampJournal service over an established connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// WithAccessToken attaches an access token to outgoing calls made with ctx.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, token)
}

// Call invokes method with JSON encoded messages.
func (c *Client) Call(ctx context.Context, method string, in, out any, opts ...grpc.CallOption) error {
	opts = append(opts, grpc.CallContentSubtype(CodecName), grpc.MaxCallSendMsgSize(maxMessageSize))
	return c.cc.Invoke(ctx, fullMethod(method), in, out, opts...)
}

func (c *Client) Ping(ctx context.Context) (*PingResponse, error) {
	out := &PingResponse{}
	if err := c.Call(ctx, "Ping", &Empty{}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*models.TokenPair, error) {
	out := &models.TokenPair{}
	if err := c.Call(ctx, "SignIn", &SignInRequest{Email: email, Password: password}, out); err != nil {
		return nil, err
	}
	return out, nil
}
