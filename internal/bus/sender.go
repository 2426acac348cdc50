package bus

import (
	"log"
	"math/rand"
	"net"
	"sync/atomic"
	"time"
)

// Sender is a fire-and-forget UDP datagram sender bound to an ephemeral
// local port and targeting one fixed destination. A failed send is logged
// and counted but never retried in the hot path (spec §4.2), matching
// brain/src/udp_bus/sender.rs's DecisionBusSender.
type Sender struct {
	conn      *net.UDPConn
	target    *net.UDPAddr
	sentCount atomic.Uint64
	errCount  atomic.Uint64
}

// NewSender binds an ephemeral local socket and targets the given port.
func NewSender(targetPort int) (*Sender, error) {
	target, err := net.ResolveUDPAddr("udp", Addr(targetPort))
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	if err != nil {
		return nil, err
	}
	return &Sender{conn: conn, target: target}, nil
}

// Send transmits a pre-encoded datagram, nonblocking. Errors are logged and
// counted, never surfaced to the caller's hot path.
func (s *Sender) Send(payload []byte) {
	if _, err := s.conn.WriteToUDP(payload, s.target); err != nil {
		s.errCount.Add(1)
		log.Printf("bus: send to %s failed: %v", s.target, err)
		return
	}
	s.sentCount.Add(1)
}

// SendWithRetry retries with exponential backoff (base 10ms) up to maxAttempts.
func (s *Sender) SendWithRetry(payload []byte, maxAttempts int) {
	backoff := 10 * time.Millisecond
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if _, err := s.conn.WriteToUDP(payload, s.target); err == nil {
			s.sentCount.Add(1)
			return
		}
		time.Sleep(backoff)
		backoff *= 2
	}
	s.errCount.Add(1)
	log.Printf("bus: send to %s failed after %d attempts", s.target, maxAttempts)
}

// SendBurst sends multiple datagrams to the same destination with 1-3ms
// jitter between them, to avoid coalesced-burst packet drops (spec §4.2).
func (s *Sender) SendBurst(payloads [][]byte) {
	for i, p := range payloads {
		s.Send(p)
		if i < len(payloads)-1 {
			time.Sleep(time.Duration(1+rand.Intn(3)) * time.Millisecond)
		}
	}
}

func (s *Sender) Stats() (sent, errs uint64) {
	return s.sentCount.Load(), s.errCount.Load()
}

func (s *Sender) Close() error {
	return s.conn.Close()
}
