package wire

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"sync"

	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/debug"
)

// Starter runs animations on behalf of start commands.
type Starter interface {
	StartID(id uint16, params []byte) error
}

// Controller emulates the panel side of the protocol: set commands paint a
// local frame and start commands are handed to a Starter.
type Controller struct {
	mu       sync.Mutex
	frame    anim.Frame
	starter  Starter
	refresh  func(anim.Frame)
	lastErr  error
	commands int
	painted  int
}

// NewController keeps a frame of n pixels. onRefresh, if set, receives a
// copy of the frame whenever a set command asks for a refresh.
func NewController(n int, starter Starter, onRefresh func(anim.Frame)) *Controller {
	return &Controller{frame: anim.NewFrame(n), starter: starter, refresh: onRefresh}
}

func (c *Controller) Handle(cmd Command) error {
	c.mu.Lock()
	c.commands++
	switch cmd.Op {
	case OpSet:
		Apply(c.frame, cmd)
		var snap anim.Frame
		if cmd.Refresh && c.refresh != nil {
			snap = c.frame.Clone()
		}
		c.mu.Unlock()
		if snap != nil {
			c.refresh(snap)
		}
		return nil
	case OpStart:
		c.mu.Unlock()
		if c.starter == nil {
			return nil
		}
		err := c.starter.StartID(cmd.ID, cmd.Params)
		if err != nil {
			c.mu.Lock()
			c.lastErr = err
			c.mu.Unlock()
		}
		return err
	}
	c.mu.Unlock()
	return ErrUnknownOp
}

// Paint applies a locally rendered frame as the set commands that would
// carry it, without counting them as received commands. A frame that
// changes nothing is dropped.
func (c *Controller) Paint(f anim.Frame) {
	c.mu.Lock()
	cmds := EncodeFrame(c.frame, f)
	for _, cmd := range cmds {
		Apply(c.frame, cmd)
	}
	var snap anim.Frame
	if len(cmds) > 0 {
		c.painted++
		if c.refresh != nil {
			snap = c.frame.Clone()
		}
	}
	c.mu.Unlock()
	if snap != nil {
		c.refresh(snap)
	}
}

// Frame returns a copy of the frame painted by set commands.
func (c *Controller) Frame() anim.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame.Clone()
}

// LastError is the most recent rejected start command.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Commands counts handled commands.
func (c *Controller) Commands() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commands
}

// Painted counts frames applied through Paint.
func (c *Controller) Painted() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.painted
}

// ServeConn handles commands from one stream until it ends. A rejected start
// command is logged and does not end the stream.
func (c *Controller) ServeConn(r io.Reader) error {
	br := bufio.NewReader(r)
	for {
		cmd, err := ReadCommand(br)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := c.Handle(cmd); err != nil {
			debug.Log("wire", "command %d rejected: %v", cmd.Op, err)
		}
	}
}

// Serve accepts connections on ln until ctx is done.
func (c *Controller) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()
	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		debug.Log("wire", "client %s connected", conn.RemoteAddr())
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer conn.Close()
			stop := context.AfterFunc(ctx, func() { conn.Close() })
			defer stop()
			if err := c.ServeConn(conn); err != nil && ctx.Err() == nil {
				debug.Log("wire", "client %s: %v", conn.RemoteAddr(), err)
			}
		}()
	}
}
