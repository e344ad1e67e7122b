package sqlclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tuannm99/minisql/internal/sql/executor"
	"github.com/tuannm99/minisql/server/minisqlwire"
)

// Client is a simple synchronous wire client. Send/recv are serialized
// under a mutex, so concurrent Exec calls are safe but take turns.
type Client struct {
	conn net.Conn
	mu   sync.Mutex
	id   atomic.Uint64

	// Optional per-request timeout (0 = no timeout).
	rwTimeout time.Duration
}

func Dial(addr string, timeout time.Duration) (*Client, error) {
	d := net.Dialer{Timeout: timeout}
	c, err := d.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Client{conn: c}, nil
}

func DialContext(ctx context.Context, addr string, timeout time.Duration) (*Client, error) {
	d := net.Dialer{Timeout: timeout}
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Client{conn: c}, nil
}

// SetRWTimeout sets a per-Exec read/write deadline so a dead server does
// not hang the caller forever.
func (c *Client) SetRWTimeout(d time.Duration) {
	if c == nil {
		return
	}
	c.rwTimeout = d
}

func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Exec sends one statement and returns its result envelope. A returned
// error is a transport failure; statement failures come back inside the
// envelope with Success=false.
func (c *Client) Exec(sql string) (*executor.Result, error) {
	return c.ExecContext(context.Background(), sql)
}

func (c *Client) ExecContext(ctx context.Context, sql string) (*executor.Result, error) {
	if c == nil || c.conn == nil {
		return nil, fmt.Errorf("sqlclient: nil client")
	}

	reqID := c.id.Add(1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.applyDeadline(ctx); err != nil {
		return nil, err
	}
	defer func() {
		// Clear deadline after the request so an idle connection doesn't expire.
		_ = c.conn.SetDeadline(time.Time{})
	}()

	req := minisqlwire.ExecuteRequest{ID: reqID, SQL: sql}
	if err := minisqlwire.WriteFrame(c.conn, req); err != nil {
		return nil, err
	}

	var resp minisqlwire.ExecuteResponse
	if err := minisqlwire.ReadFrame(c.conn, &resp); err != nil {
		return nil, err
	}
	if resp.ID != reqID {
		return nil, fmt.Errorf("sqlclient: response id mismatch: got=%d want=%d", resp.ID, reqID)
	}
	if resp.Error != "" {
		return nil, errors.New(resp.Error)
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("sqlclient: empty response")
	}
	return resp.Result, nil
}

func (c *Client) applyDeadline(ctx context.Context) error {
	deadline := time.Time{}
	if c.rwTimeout > 0 {
		deadline = time.Now().Add(c.rwTimeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	if deadline.IsZero() {
		return nil
	}
	return c.conn.SetDeadline(deadline)
}
