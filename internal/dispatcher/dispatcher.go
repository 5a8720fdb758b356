// Package dispatcher maintains the persistent TCP connection to the
// downstream video-mixer server and encodes APPLY commands carrying
// base64 OP-47 packets, per spec.md §4.6.
package dispatcher

import (
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Dispatcher owns the single TCP socket to the downstream server.
// Only Dispatcher mutates conn; reconnection runs on its own
// goroutine with a fixed back-off.
type Dispatcher struct {
	log            *zap.SugaredLogger
	addr           string
	channelLayer   int
	reconnectDelay time.Duration

	mu      sync.Mutex
	conn    net.Conn
	stopCh  chan struct{}
	stopped bool
}

func New(log *zap.SugaredLogger, host string, port, channelLayer int, reconnectDelay time.Duration) *Dispatcher {
	return &Dispatcher{
		log:            log,
		addr:           fmt.Sprintf("%s:%d", host, port),
		channelLayer:   channelLayer,
		reconnectDelay: reconnectDelay,
		stopCh:         make(chan struct{}),
	}
}

// Register wires Dispatcher's connect loop into the fx application
// lifecycle, dialing on start and closing the socket on stop.
func (d *Dispatcher) Register(lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go d.connectLoop()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.mu.Lock()
			d.stopped = true
			if d.conn != nil {
				d.conn.Close()
			}
			d.mu.Unlock()
			close(d.stopCh)
			return nil
		},
	})
}

func (d *Dispatcher) connectLoop() {
	for {
		select {
		case <-d.stopCh:
			return
		default:
		}

		conn, err := net.Dial("tcp", d.addr)
		if err != nil {
			d.log.Errorw("failed to dial downstream server", "addr", d.addr, "error", err)
			time.Sleep(d.reconnectDelay)
			continue
		}

		d.log.Infow("connected to downstream server", "addr", d.addr)
		d.mu.Lock()
		d.conn = conn
		d.mu.Unlock()

		d.waitForClose(conn)

		d.mu.Lock()
		if d.conn == conn {
			d.conn = nil
		}
		stopped := d.stopped
		d.mu.Unlock()
		if stopped {
			return
		}
		time.Sleep(d.reconnectDelay)
	}
}

// waitForClose blocks until the connection is no longer readable,
// which for a command-only socket means the peer closed it.
func (d *Dispatcher) waitForClose(conn net.Conn) {
	buf := make([]byte, 1)
	for {
		if _, err := conn.Read(buf); err != nil {
			return
		}
	}
}

// Apply builds and writes the APPLY command for the given packets.
// A zero-row call (packets containing only the header) is the clear
// operation per spec.md §4.6.
func (d *Dispatcher) Apply(packets [][]byte) error {
	encoded := make([]string, len(packets))
	for i, p := range packets {
		encoded[i] = base64.StdEncoding.EncodeToString(p)
	}
	line := fmt.Sprintf("APPLY %d OP47 %s\r\n", d.channelLayer, strings.Join(encoded, " "))
	return d.write(line)
}

// write drops the line silently when the socket is not currently
// writable; the scheduler retries on the next state change.
func (d *Dispatcher) write(line string) error {
	d.mu.Lock()
	conn := d.conn
	d.mu.Unlock()

	if conn == nil {
		d.log.Debugw("dropping write, downstream socket not connected")
		return nil
	}

	if _, err := conn.Write([]byte(line)); err != nil {
		d.log.Errorw("failed to write to downstream server", "error", err)
		d.mu.Lock()
		if d.conn == conn {
			d.conn = nil
		}
		d.mu.Unlock()
		return nil
	}
	return nil
}
