package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	driver "github.com/NotrixInc/nx-equipment-driver"
	"github.com/NotrixInc/nx-equipment-driver/driverrpc"
)

// Version information (set via ldflags during build)
var version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to driver config file (optional)")
	versionFlag := flag.Bool("version", false, "Print version information and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("equipment-driver %s\n", version)
		return
	}

	logger := driver.NewStdLogger()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, logger); err != nil {
		logger.Error("driver exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, logger driver.Logger) error {
	cfg, err := driver.LoadConfig(configPath, os.Getenv)
	if err != nil {
		return err
	}
	deps := driver.Dependencies{Logger: logger, Clock: driver.NewSystemClock()}

	resolver := driver.NewDefaultResolver(deps.Clock)
	if cfg.ManifestPath != "" {
		manifest, err := driver.LoadManifest(cfg.ManifestPath)
		if err != nil {
			return err
		}
		if err := manifest.Apply(resolver); err != nil {
			return err
		}
		logger.Info("manifest loaded", "path", cfg.ManifestPath, "parameters", len(manifest.Parameters))
	}

	prober, err := driver.NewProber(cfg.Probe)
	if err != nil {
		return err
	}

	svc := driver.NewService(driver.ServiceOptions{
		Deps:         deps,
		Prober:       prober,
		ProbeTimeout: cfg.Probe.Timeout,
		Resolver:     resolver,
	})

	var heartbeat *driver.Poller
	if cfg.Upstream.HeartbeatInterval > 0 {
		transport, closer, err := driver.NewUpstreamTransport(ctx, cfg.Upstream)
		if err != nil {
			return err
		}
		defer closer.Close()

		connector := driver.NewConnector(driver.ConnectorOptions{
			Address:              cfg.Upstream.Address,
			DialTimeout:          cfg.Upstream.DialTimeout,
			Credentials:          driver.NewEnvCredentials(cfg.Upstream.TokenKey),
			TransportCredentials: transport,
			Logger:               logger,
		})
		heartbeat = driver.NewGatewayHeartbeat(connector, cfg.Upstream.HeartbeatInterval, logger)
		heartbeat.Start(ctx)
		defer heartbeat.Stop()
	}

	lis, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.ListenAddr, err)
	}

	grpcServer := grpc.NewServer()
	driverrpc.RegisterDriverServer(grpcServer, svc)
	healthServer := health.NewServer()
	healthServer.SetServingStatus(driverrpc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	errCh := make(chan error, 2)
	go func() {
		logger.Info("driver listening", "addr", lis.Addr().String(), "version", version)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc serve: %w", err)
		}
	}()

	var adminServer *http.Server
	if cfg.AdminAddr != "" {
		adminServer = &http.Server{
			Addr:              cfg.AdminAddr,
			Handler:           driver.NewAdminRouter(svc, resolver, heartbeat, logger),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("admin listening", "addr", cfg.AdminAddr)
			if err := adminServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("admin serve: %w", err)
			}
		}()
	}

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
	}

	healthServer.Shutdown()
	if adminServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := adminServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("admin shutdown", "error", err)
		}
	}
	grpcServer.GracefulStop()
	return serveErr
}
