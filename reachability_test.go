package driver

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTCPProber_Reachable(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()
	go func() {
		for {
			conn, err := lis.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	port := lis.Addr().(*net.TCPAddr).Port
	ok, err := TCPProber{Port: port, Timeout: time.Second}.Reachable(context.Background(), Equipment{Id: 1, IpAddress: "127.0.0.1"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTCPProber_ClosedPort(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := lis.Addr().(*net.TCPAddr).Port
	lis.Close()

	ok, err := TCPProber{Port: port, Timeout: time.Second}.Reachable(context.Background(), Equipment{Id: 1, IpAddress: "127.0.0.1"})
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestTCPProber_NoAddress(t *testing.T) {
	ok, err := TCPProber{Port: 80}.Reachable(context.Background(), Equipment{Id: 1})
	assert.True(t, errors.Is(err, errNoAddress))
	assert.False(t, ok)
}

func TestSNMPProber_SilentAgentTimesOut(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	p := SNMPProber{
		Port:    uint16(pc.LocalAddr().(*net.UDPAddr).Port),
		Timeout: 100 * time.Millisecond,
	}
	ok, err := p.Reachable(context.Background(), Equipment{Id: 1, IpAddress: "127.0.0.1"})
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewProber(t *testing.T) {
	p, err := NewProber(ProbeConfig{})
	require.NoError(t, err)
	assert.Equal(t, StaticProber{Up: true}, p)

	p, err = NewProber(ProbeConfig{Mode: ProbeTCP, Port: 502, Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, TCPProber{Port: 502, Timeout: time.Second}, p)

	p, err = NewProber(ProbeConfig{Mode: ProbeSNMP, Community: "private"})
	require.NoError(t, err)
	assert.IsType(t, SNMPProber{}, p)

	_, err = NewProber(ProbeConfig{Mode: ProbeTCP})
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = NewProber(ProbeConfig{Mode: "icmp"})
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}
