package driver

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// NewGatewayHeartbeat returns a Poller that checks, over an authenticated
// per-call channel, that the upstream gateway reports SERVING. Nothing is
// cached between beats.
func NewGatewayHeartbeat(c *Connector, interval time.Duration, logger Logger) *Poller {
	check := func(ctx context.Context) error {
		return c.WithChannel(ctx, func(ctx context.Context, conn grpc.ClientConnInterface) error {
			resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
			if err != nil {
				return fmt.Errorf("gateway health check: %w", err)
			}
			if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
				return fmt.Errorf("gateway reports %s", resp.GetStatus())
			}
			return nil
		})
	}
	return NewPoller(interval, check, PollerOptions{
		Logger:                 logger,
		Name:                   "gateway-heartbeat",
		MaxConsecutiveFailures: 3,
		OnUnhealthy: func(failures int) {
			if logger != nil {
				logger.Error("upstream gateway unhealthy", "address", c.Address(), "consecutive_failures", failures)
			}
		},
	})
}
