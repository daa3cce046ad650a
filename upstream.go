package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

const (
	// DefaultUpstreamAddr is the service-router that fronts the platform API gateway.
	DefaultUpstreamAddr = "service-router:10000"
	DefaultDialTimeout  = 5 * time.Second

	AuthorizationHeader = "authorization"
	RequestIDHeader     = "x-request-id"
)

type ConnectorOptions struct {
	Address     string
	DialTimeout time.Duration
	Credentials CredentialProvider

	// TransportCredentials defaults to insecure; see NewUpstreamTransport.
	TransportCredentials credentials.TransportCredentials
	DialOptions          []grpc.DialOption

	Logger Logger
}

// Connector opens per-call channels to the upstream gateway. It holds no
// connection state; every OpenChannel dials afresh.
type Connector struct {
	address     string
	dialTimeout time.Duration
	creds       CredentialProvider
	transport   credentials.TransportCredentials
	dialOpts    []grpc.DialOption
	logger      Logger
}

func NewConnector(opts ConnectorOptions) *Connector {
	c := &Connector{
		address:     opts.Address,
		dialTimeout: opts.DialTimeout,
		creds:       opts.Credentials,
		transport:   opts.TransportCredentials,
		dialOpts:    opts.DialOptions,
		logger:      opts.Logger,
	}
	if c.address == "" {
		c.address = DefaultUpstreamAddr
	}
	if c.dialTimeout <= 0 {
		c.dialTimeout = DefaultDialTimeout
	}
	if c.creds == nil {
		c.creds = NewEnvCredentials(DefaultTokenKey)
	}
	if c.transport == nil {
		c.transport = insecure.NewCredentials()
	}
	if c.logger == nil {
		c.logger = NewNopLogger()
	}
	return c
}

func (c *Connector) Address() string { return c.address }

// Channel is a live connection to the upstream gateway. The caller that opened
// it must Close it before returning.
type Channel struct {
	cc     *grpc.ClientConn
	target string
}

func (ch *Channel) Valid() bool {
	return ch != nil && ch.cc != nil && ch.cc.GetState() != connectivity.Shutdown
}

func (ch *Channel) Conn() grpc.ClientConnInterface { return ch.cc }

func (ch *Channel) Target() string { return ch.target }

func (ch *Channel) Close() error {
	if ch == nil || ch.cc == nil {
		return nil
	}
	return ch.cc.Close()
}

// OpenChannel dials the upstream address and waits until the channel is READY
// or the dial timeout (or ctx) expires. A failed dial is logged once and
// returned as *UpstreamConnectionError.
func (c *Connector) OpenChannel(ctx context.Context) (*Channel, error) {
	opts := append([]grpc.DialOption{grpc.WithTransportCredentials(c.transport)}, c.dialOpts...)
	cc, err := grpc.NewClient(c.address, opts...)
	if err != nil {
		return nil, c.dialFailed(err)
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.dialTimeout)
	defer cancel()
	if err := waitReady(dialCtx, cc); err != nil {
		_ = cc.Close()
		return nil, c.dialFailed(err)
	}
	return &Channel{cc: cc, target: c.address}, nil
}

func (c *Connector) dialFailed(err error) error {
	c.logger.Error("could not connect to the service-router", "address", c.address, "error", err)
	return &UpstreamConnectionError{Address: c.address, Err: err}
}

func waitReady(ctx context.Context, cc *grpc.ClientConn) error {
	cc.Connect()
	for {
		state := cc.GetState()
		switch state {
		case connectivity.Ready:
			return nil
		case connectivity.Shutdown:
			return errors.New("channel shut down")
		}
		if !cc.WaitForStateChange(ctx, state) {
			return fmt.Errorf("channel %s: %w", state, ctx.Err())
		}
	}
}

// AttachAuthContext returns ctx with the current bearer token set as the
// authorization header of the outgoing metadata. The token is resolved on
// every call.
func (c *Connector) AttachAuthContext(ctx context.Context) context.Context {
	token := c.creds.Resolve()
	if token == "" {
		c.logger.Warn("upstream credential is empty")
	}
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	md.Set(AuthorizationHeader, token)
	return metadata.NewOutgoingContext(ctx, md)
}

// WithChannel opens a channel, runs fn with an authenticated context and
// releases the channel before returning.
func (c *Connector) WithChannel(ctx context.Context, fn func(ctx context.Context, conn grpc.ClientConnInterface) error) error {
	ch, err := c.OpenChannel(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := ch.Close(); err != nil {
			c.logger.Warn("closing upstream channel", "error", err)
		}
	}()

	ctx = c.AttachAuthContext(ctx)
	ctx = metadata.AppendToOutgoingContext(ctx, RequestIDHeader, uuid.NewString())
	return fn(ctx, ch.Conn())
}

// Invoke performs a single unary call against the upstream gateway.
func (c *Connector) Invoke(ctx context.Context, method string, in, out any, opts ...grpc.CallOption) error {
	return c.WithChannel(ctx, func(ctx context.Context, conn grpc.ClientConnInterface) error {
		return conn.Invoke(ctx, method, in, out, opts...)
	})
}
