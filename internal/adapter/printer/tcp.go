package printer

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/polkiloo/pos80/internal/domain/model"
)

// ESC/POS initialise, then feed and partial cut after the body.
var (
	escInit = []byte{0x1b, 0x40}
	escCut  = []byte("\n\n\n\n\x1dV\x01")
)

// TCPSink writes raw text to a network printer, usually on port 9100.
type TCPSink struct {
	name    string
	address string
	timeout time.Duration
}

// NewTCPSink creates a raw socket sink. A missing port defaults to 9100.
func NewTCPSink(name, address string, timeout time.Duration) *TCPSink {
	if _, _, err := net.SplitHostPort(address); err != nil {
		address = net.JoinHostPort(address, "9100")
	}
	return &TCPSink{name: name, address: address, timeout: timeout}
}

func (s *TCPSink) Send(ctx context.Context, title, body string) (model.PrintAck, error) {
	dialer := net.Dialer{Timeout: s.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", s.address)
	if err != nil {
		return model.PrintAck{}, fmt.Errorf("dial %s: %w", s.address, err)
	}
	defer conn.Close()

	if s.timeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(s.timeout))
	}
	payload := make([]byte, 0, len(escInit)+len(body)+len(escCut))
	payload = append(payload, escInit...)
	payload = append(payload, body...)
	payload = append(payload, escCut...)
	if _, err := conn.Write(payload); err != nil {
		return model.PrintAck{}, fmt.Errorf("write %s: %w", s.address, err)
	}
	return model.PrintAck{Printer: s.name, Reference: title, SentAt: time.Now()}, nil
}
