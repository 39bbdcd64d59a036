package wire

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/debug"
)

const (
	DefaultPort      = 3333
	dialTimeout      = 5 * time.Second
	keepAlivePeriod  = 60 * time.Second
	writeTimeout     = 2 * time.Second
	fullRefreshEvery = 300
)

// TCPSink streams frames to a controller as set commands, sending only the
// pixels that changed since the previous frame. Every fullRefreshEvery
// frames the whole frame is resent.
type TCPSink struct {
	mu     sync.Mutex
	conn   net.Conn
	w      *bufio.Writer
	prev   anim.Frame
	frames int
	buf    []byte
}

// Dial connects to a controller at addr. A missing port uses DefaultPort.
func Dial(ctx context.Context, addr string) (*TCPSink, error) {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, fmt.Sprint(DefaultPort))
	}
	d := net.Dialer{Timeout: dialTimeout, KeepAlive: keepAlivePeriod}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial controller %s: %w", addr, err)
	}
	debug.Log("wire", "connected to %s", addr)
	return NewSink(conn), nil
}

// NewSink wraps an established connection.
func NewSink(conn net.Conn) *TCPSink {
	return &TCPSink{conn: conn, w: bufio.NewWriter(conn)}
}

func (s *TCPSink) WriteFrame(f anim.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.prev
	if s.frames%fullRefreshEvery == 0 {
		prev = nil
	}
	s.frames++

	cmds := EncodeFrame(prev, f)
	if len(cmds) == 0 {
		return nil
	}
	if err := s.send(cmds...); err != nil {
		s.prev = nil
		return err
	}
	s.prev = append(s.prev[:0], f...)
	return nil
}

// Send writes raw commands, such as a start or stop.
func (s *TCPSink) Send(cmds ...Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.send(cmds...)
}

func (s *TCPSink) send(cmds ...Command) error {
	var err error
	s.buf = s.buf[:0]
	for _, c := range cmds {
		if s.buf, err = c.AppendBinary(s.buf); err != nil {
			return err
		}
	}
	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := s.w.Write(s.buf); err != nil {
		return fmt.Errorf("write to controller: %w", err)
	}
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("write to controller: %w", err)
	}
	return nil
}

func (s *TCPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}
