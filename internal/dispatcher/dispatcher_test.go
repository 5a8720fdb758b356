package dispatcher

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func listenOnRandomPort(t *testing.T) (net.Listener, string, int) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().(*net.TCPAddr)
	return ln, "127.0.0.1", addr.Port
}

func TestDispatcher_ConnectsAndAppliesCommand(t *testing.T) {
	ln, host, port := listenOnRandomPort(t)
	defer ln.Close()

	connCh := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			connCh <- c
		}
	}()

	d := New(zap.NewNop().Sugar(), host, port, 3, 50*time.Millisecond)
	go d.connectLoop()

	var conn net.Conn
	select {
	case conn = <-connCh:
	case <-time.After(2 * time.Second):
		t.Fatal("server never accepted a connection")
	}
	defer conn.Close()

	// Apply drops writes until connectLoop has stored the connection.
	require.Eventually(t, func() bool {
		d.mu.Lock()
		defer d.mu.Unlock()
		return d.conn != nil
	}, 2*time.Second, 5*time.Millisecond, "dispatcher never stored its connection")

	err := d.Apply([][]byte{{0x01, 0x02}, {0x03}})
	require.NoError(t, err)

	reader := bufio.NewReader(conn)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	line = strings.TrimRight(line, "\r\n")

	parts := strings.Fields(line)
	assert.Equal(t, "APPLY", parts[0])
	assert.Equal(t, "3", parts[1])
	assert.Equal(t, "OP47", parts[2])
	assert.Len(t, parts, 5) // APPLY, layer, OP47, packet1, packet2
}

func TestDispatcher_WriteWithNoConnection_DropsSilently(t *testing.T) {
	d := New(zap.NewNop().Sugar(), "127.0.0.1", 1, 1, time.Millisecond)
	err := d.Apply([][]byte{{0xFF}})
	assert.NoError(t, err)
}

func TestDispatcher_ReconnectsAfterClose(t *testing.T) {
	ln, host, port := listenOnRandomPort(t)
	defer ln.Close()

	accepted := make(chan net.Conn, 4)
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			accepted <- c
		}
	}()

	d := New(zap.NewNop().Sugar(), host, port, 1, 50*time.Millisecond)
	go d.connectLoop()
	defer func() {
		d.mu.Lock()
		d.stopped = true
		d.mu.Unlock()
		close(d.stopCh)
	}()

	first := <-accepted
	first.Close()

	select {
	case <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher never reconnected after close")
	}
}

func TestDispatcher_AddrFormatting(t *testing.T) {
	d := New(zap.NewNop().Sugar(), "example.com", 9000, 1, time.Second)
	assert.Equal(t, "example.com:9000", d.addr)
}
