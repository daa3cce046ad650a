package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Upstream transports accepted by NewUpstreamTransport.
const (
	TransportInsecure = "insecure"
	TransportSPIFFE   = "spiffe"
)

const (
	DefaultListenAddr = ":50051"
	DefaultAdminAddr  = ":8081"
)

type Config struct {
	ListenAddr   string `yaml:"listen_addr"`
	AdminAddr    string `yaml:"admin_addr"` // empty disables the admin endpoint
	ManifestPath string `yaml:"manifest_path"`

	Upstream UpstreamConfig `yaml:"upstream"`
	Probe    ProbeConfig    `yaml:"probe"`
}

type UpstreamConfig struct {
	Address     string        `yaml:"address"`
	TokenKey    string        `yaml:"token_key"` // environment entry holding the bearer token
	DialTimeout time.Duration `yaml:"dial_timeout"`

	Transport    string `yaml:"transport"`
	SPIFFESocket string `yaml:"spiffe_socket"`
	// ServerID pins the gateway's SPIFFE ID; empty accepts any ID the
	// workload bundle trusts.
	ServerID string `yaml:"server_spiffe_id"`

	// HeartbeatInterval of 0 disables the gateway heartbeat.
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
}

type ProbeConfig struct {
	Mode      string        `yaml:"mode"`
	Timeout   time.Duration `yaml:"timeout"`
	Port      int           `yaml:"port"`
	Community string        `yaml:"community"`
	Retries   int           `yaml:"retries"`
}

func DefaultConfig() Config {
	return Config{
		ListenAddr: DefaultListenAddr,
		AdminAddr:  DefaultAdminAddr,
		Upstream: UpstreamConfig{
			Address:     DefaultUpstreamAddr,
			TokenKey:    DefaultTokenKey,
			DialTimeout: DefaultDialTimeout,
			Transport:   TransportInsecure,
		},
		Probe: ProbeConfig{
			Mode:    ProbeStatic,
			Timeout: DefaultProbeTimeout,
		},
	}
}

// LoadConfig starts from DefaultConfig, overlays the YAML file at path (when
// path is not empty), applies environment overrides read through getenv and
// validates the result.
func LoadConfig(path string, getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	if getenv == nil {
		getenv = os.Getenv
	}
	if err := applyEnvOverrides(&cfg, getenv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config, getenv func(string) string) error {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	setDuration := func(dst *time.Duration, key string) error {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, v, err)
		}
		*dst = d
		return nil
	}
	setInt := func(dst *int, key string) error {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, v, err)
		}
		*dst = n
		return nil
	}

	setString(&cfg.ListenAddr, "DRIVER_LISTEN_ADDR")
	setString(&cfg.AdminAddr, "DRIVER_ADMIN_ADDR")
	setString(&cfg.ManifestPath, "DRIVER_MANIFEST")

	setString(&cfg.Upstream.Address, "UPSTREAM_ADDR")
	setString(&cfg.Upstream.TokenKey, "UPSTREAM_TOKEN_KEY")
	setString(&cfg.Upstream.Transport, "UPSTREAM_TRANSPORT")
	setString(&cfg.Upstream.SPIFFESocket, "SPIFFE_ENDPOINT_SOCKET")
	setString(&cfg.Upstream.ServerID, "UPSTREAM_SERVER_SPIFFE_ID")

	setString(&cfg.Probe.Mode, "PROBE_MODE")
	setString(&cfg.Probe.Community, "PROBE_SNMP_COMMUNITY")

	return errors.Join(
		setDuration(&cfg.Upstream.DialTimeout, "UPSTREAM_DIAL_TIMEOUT"),
		setDuration(&cfg.Upstream.HeartbeatInterval, "UPSTREAM_HEARTBEAT_INTERVAL"),
		setDuration(&cfg.Probe.Timeout, "PROBE_TIMEOUT"),
		setInt(&cfg.Probe.Port, "PROBE_PORT"),
		setInt(&cfg.Probe.Retries, "PROBE_RETRIES"),
	)
}

func (c Config) Validate() error {
	var errs []error
	if c.ListenAddr == "" {
		errs = append(errs, errors.New("listen_addr is required"))
	}
	if c.Upstream.Address == "" {
		errs = append(errs, errors.New("upstream.address is required"))
	}
	if c.Upstream.TokenKey == "" {
		errs = append(errs, errors.New("upstream.token_key is required"))
	}
	if c.Upstream.DialTimeout <= 0 {
		errs = append(errs, fmt.Errorf("upstream.dial_timeout must be positive, got %s", c.Upstream.DialTimeout))
	}
	if c.Upstream.HeartbeatInterval < 0 {
		errs = append(errs, fmt.Errorf("upstream.heartbeat_interval must not be negative, got %s", c.Upstream.HeartbeatInterval))
	}
	switch c.Upstream.Transport {
	case TransportInsecure:
	case TransportSPIFFE:
		if c.Upstream.SPIFFESocket == "" {
			errs = append(errs, errors.New("upstream.spiffe_socket is required for the spiffe transport"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown upstream.transport %q", c.Upstream.Transport))
	}
	if c.Probe.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("probe.timeout must be positive, got %s", c.Probe.Timeout))
	}
	switch c.Probe.Mode {
	case ProbeStatic, ProbeSNMP:
	case ProbeTCP:
		if c.Probe.Port <= 0 {
			errs = append(errs, errors.New("probe.port is required for tcp probes"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown probe.mode %q", c.Probe.Mode))
	}
	if c.Probe.Port < 0 || c.Probe.Port > 65535 {
		errs = append(errs, fmt.Errorf("probe.port out of range: %d", c.Probe.Port))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
