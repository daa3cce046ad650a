package driver

import (
	"context"
	"fmt"
	"io"

	"github.com/spiffe/go-spiffe/v2/spiffeid"
	"github.com/spiffe/go-spiffe/v2/spiffetls/tlsconfig"
	"github.com/spiffe/go-spiffe/v2/workloadapi"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// NewUpstreamTransport builds the transport credentials for the upstream
// channel. The returned closer releases the SPIFFE X.509 source and must be
// closed on shutdown.
func NewUpstreamTransport(ctx context.Context, cfg UpstreamConfig) (credentials.TransportCredentials, io.Closer, error) {
	switch cfg.Transport {
	case "", TransportInsecure:
		return insecure.NewCredentials(), nopCloser{}, nil
	case TransportSPIFFE:
		authorizer, err := serverAuthorizer(cfg.ServerID)
		if err != nil {
			return nil, nil, err
		}
		source, err := workloadapi.NewX509Source(ctx,
			workloadapi.WithClientOptions(workloadapi.WithAddr(cfg.SPIFFESocket)))
		if err != nil {
			return nil, nil, fmt.Errorf("create x509 source: %w", err)
		}
		tlsConfig := tlsconfig.MTLSClientConfig(source, source, authorizer)
		return credentials.NewTLS(tlsConfig), source, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown upstream transport %q", ErrInvalidConfig, cfg.Transport)
	}
}

func serverAuthorizer(serverID string) (tlsconfig.Authorizer, error) {
	if serverID == "" {
		return tlsconfig.AuthorizeAny(), nil
	}
	id, err := spiffeid.FromString(serverID)
	if err != nil {
		return nil, fmt.Errorf("%w: upstream.server_spiffe_id: %v", ErrInvalidConfig, err)
	}
	return tlsconfig.AuthorizeID(id), nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
