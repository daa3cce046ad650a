package driver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gosnmp/gosnmp"
)

// Probe modes accepted by NewProber.
const (
	ProbeStatic = "static"
	ProbeTCP    = "tcp"
	ProbeSNMP   = "snmp"
)

const (
	DefaultProbeTimeout = 2 * time.Second
	DefaultSNMPPort     = 161

	// sysUpTime.0; every SNMP agent answers it.
	sysUpTimeOID = ".1.3.6.1.2.1.1.3.0"
)

var errNoAddress = errors.New("equipment has no ip address")

// StaticProber reports a fixed answer. It is the default for drivers that
// have no way to reach their hardware yet.
type StaticProber struct {
	Up bool
}

func (p StaticProber) Reachable(context.Context, Equipment) (bool, error) {
	return p.Up, nil
}

// TCPProber treats an accepted TCP connection on Port as reachable.
type TCPProber struct {
	Port    int
	Timeout time.Duration
}

func (p TCPProber) Reachable(ctx context.Context, eq Equipment) (bool, error) {
	if eq.IpAddress == "" {
		return false, errNoAddress
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(eq.IpAddress, strconv.Itoa(p.Port)))
	if err != nil {
		return false, err
	}
	_ = conn.Close()
	return true, nil
}

// SNMPProber asks the equipment's SNMP agent for sysUpTime. Any answer,
// including noSuchObject, counts as reachable.
type SNMPProber struct {
	Port      uint16
	Community string
	Timeout   time.Duration
	Retries   int
}

func (p SNMPProber) Reachable(ctx context.Context, eq Equipment) (bool, error) {
	if eq.IpAddress == "" {
		return false, errNoAddress
	}

	client := &gosnmp.GoSNMP{
		Target:    eq.IpAddress,
		Port:      p.Port,
		Community: p.Community,
		Version:   gosnmp.Version2c,
		Timeout:   p.Timeout,
		Retries:   p.Retries,
		Context:   ctx,
	}
	if client.Port == 0 {
		client.Port = DefaultSNMPPort
	}
	if client.Community == "" {
		client.Community = "public"
	}
	if client.Timeout <= 0 {
		client.Timeout = DefaultProbeTimeout
	}

	if err := client.Connect(); err != nil {
		return false, fmt.Errorf("snmp connect: %w", err)
	}
	defer client.Conn.Close()

	packet, err := client.Get([]string{sysUpTimeOID})
	if err != nil {
		return false, fmt.Errorf("snmp get: %w", err)
	}
	if len(packet.Variables) == 0 {
		return false, errors.New("snmp get: empty response")
	}
	return true, nil
}

// NewProber builds the prober selected by cfg.Mode.
func NewProber(cfg ProbeConfig) (Prober, error) {
	switch cfg.Mode {
	case "", ProbeStatic:
		return StaticProber{Up: true}, nil
	case ProbeTCP:
		if cfg.Port <= 0 {
			return nil, fmt.Errorf("%w: probe.port is required for tcp probes", ErrInvalidConfig)
		}
		return TCPProber{Port: cfg.Port, Timeout: cfg.Timeout}, nil
	case ProbeSNMP:
		return SNMPProber{
			Port:      uint16(cfg.Port),
			Community: cfg.Community,
			Timeout:   cfg.Timeout,
			Retries:   cfg.Retries,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown probe mode %q", ErrInvalidConfig, cfg.Mode)
	}
}
