package bus

import (
	"context"
	"errors"
	"log"
	"net"
	"strconv"
)

// Handler processes one received datagram. Implementations must not block
// the receive loop for long; hand off to a worker if processing is slow.
type Handler func(data []byte)

// Receiver binds one UDP socket and dispatches every datagram it receives
// to a Handler. One Receiver per logical ingress port (spec §4.2, §5:
// "each ingress port is a dedicated reader task").
type Receiver struct {
	conn *net.UDPConn
	port int
}

// NewReceiver binds to 127.0.0.1:port.
func NewReceiver(port int) (*Receiver, error) {
	addr, err := net.ResolveUDPAddr("udp", Addr(port))
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, &BindError{Port: port, Err: err}
	}
	return &Receiver{conn: conn, port: port}, nil
}

// BindError wraps a socket bind failure (spec §4.2 "Fails with: BindFailed").
type BindError struct {
	Port int
	Err  error
}

func (e *BindError) Error() string {
	return "bus: bind failed on port " + strconv.Itoa(e.Port) + ": " + e.Err.Error()
}

func (e *BindError) Unwrap() error { return e.Err }

// Run reads datagrams until ctx is cancelled, dispatching each to handler.
// Malformed/truncated reads are logged and dropped, never fatal.
func (r *Receiver) Run(ctx context.Context, handler Handler) {
	go func() {
		<-ctx.Done()
		_ = r.conn.Close()
	}()

	buf := make([]byte, 2048)
	for {
		n, _, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("bus: read on port %d failed: %v", r.port, err)
			continue
		}
		payload := make([]byte, n)
		copy(payload, buf[:n])
		handler(payload)
	}
}

func (r *Receiver) Close() error {
	return r.conn.Close()
}
