package netutil

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTCPPortIsAvailable(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()

	port := uint16(lis.Addr().(*net.TCPAddr).Port)
	assert.False(t, TCPPortIsAvailable(port))
}

func TestTCPGetAvailablePort(t *testing.T) {
	port, ok := TCPGetAvailablePort(20000, 20100)
	require.True(t, ok)
	assert.GreaterOrEqual(t, port, uint16(20000))
	assert.Less(t, port, uint16(20100))
	assert.True(t, TCPPortIsAvailable(port))
}

func TestTcping(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()

	go func() {
		conn, err := lis.Accept()
		if err == nil {
			conn.Close()
		}
	}()

	duration, err := Tcping(context.Background(), lis.Addr().String(), 3*time.Second)
	require.NoError(t, err)
	assert.Greater(t, duration, time.Duration(0))
}

func TestTcpingRefused(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	lis.Close()

	_, err = Tcping(context.Background(), addr, time.Second)
	require.Error(t, err)
}
