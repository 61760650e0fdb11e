// Package lspclient implements a JSON-RPC 2.0 client over a language
// server's stdio, the pattern the teacher uses the other way around in
// cmd/dang/main.go (a jrpc2 server wrapping os.Stdin/os.Stdout). Here the
// editor is the client and the language server is the remote peer: one
// writer actor, one reader actor, supervised by an errgroup.Group so
// either one exiting tears down the pair, and an id->Promise table
// bridging the two (§4.G).
package lspclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/creachadair/jrpc2/channel"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultInitializeTimeout bounds how long Initialize waits for the server's
// initialize response before giving up (§4.G).
const DefaultInitializeTimeout = 2 * time.Second

// Client owns one language server subprocess and the JSON-RPC channel
// framing its stdio (§4.G).
type Client struct {
	cmd *exec.Cmd
	ch  channel.Channel

	writeCh chan []byte

	nextID atomic.Int64

	mu       sync.Mutex
	promises map[int64]*Promise
	broken   bool

	notifications chan Notification

	group    *errgroup.Group
	groupCtx context.Context

	logger *slog.Logger
}

// Start launches command (e.g. {"gopls"}) in dir, wires up LSP framing over
// its stdio, and begins the reader/writer actors under a shared errgroup so
// either actor exiting (connection closed, malformed frame, write failure)
// cancels the group and surfaces through Shutdown's final Wait. It does not
// perform the initialize handshake; call Initialize for that.
func Start(ctx context.Context, command []string, dir string, logger *slog.Logger) (*Client, error) {
	if len(command) == 0 {
		return nil, errors.New("empty language server command")
	}
	if logger == nil {
		logger = slog.Default()
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = dir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %v: %w", command, err)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	c := &Client{
		cmd:           cmd,
		ch:            channel.LSP(stdout, stdin),
		writeCh:       make(chan []byte, 16),
		promises:      make(map[int64]*Promise),
		notifications: make(chan Notification, 64),
		group:         group,
		groupCtx:      groupCtx,
		logger:        logger,
	}
	group.Go(c.readLoop)
	group.Go(c.writerLoop)
	return c, nil
}

// Notifications returns the channel server->client notifications and
// requests are broadcast on.
func (c *Client) Notifications() <-chan Notification { return c.notifications }

// readLoop is the single reader actor: it owns the channel's receive side
// and never blocks on anything but the next frame.
func (c *Client) readLoop() error {
	for {
		data, err := c.ch.Recv()
		if err != nil {
			wrapped := fmt.Errorf("lsp connection closed: %w", err)
			c.breakAll(wrapped)
			return wrapped
		}
		var resp Response
		if err := json.Unmarshal(data, &resp); err != nil {
			c.logger.Warn("malformed lsp frame, dropping connection", "error", err)
			wrapped := fmt.Errorf("malformed frame: %w", err)
			c.breakAll(wrapped)
			return wrapped
		}
		c.dispatch(&resp)
	}
}

// writerLoop is the single writer actor: it owns the channel's send side,
// draining writeCh so Call/Notify callers never block on the subprocess's
// stdin pipe filling up.
func (c *Client) writerLoop() error {
	for data := range c.writeCh {
		if err := c.ch.Send(data); err != nil {
			wrapped := fmt.Errorf("lsp write failed: %w", err)
			c.breakAll(wrapped)
			return wrapped
		}
	}
	return nil
}

func (c *Client) dispatch(resp *Response) {
	if resp.ID != nil && resp.Method == "" {
		// A response to one of our requests.
		c.mu.Lock()
		p, ok := c.promises[*resp.ID]
		if ok {
			delete(c.promises, *resp.ID)
		}
		c.mu.Unlock()
		if ok {
			p.update(resp)
		}
		return
	}
	// Either a notification (no ID) or a server->client request (has ID and
	// Method): both carry payload the app layer needs to see. Server->client
	// requests that expect a reply are out of scope for the reference
	// handlers this editor talks to (gopls, rust-analyzer issue none that
	// require a client-side answer for our subset), so we only broadcast.
	select {
	case c.notifications <- Notification{Method: resp.Method, Params: resp.Params}:
	default:
		c.logger.Warn("dropping notification, broadcast channel full", "method", resp.Method)
	}
}

func (c *Client) breakAll(err error) {
	c.mu.Lock()
	if c.broken {
		c.mu.Unlock()
		return
	}
	c.broken = true
	pending := c.promises
	c.promises = nil
	c.mu.Unlock()

	for _, p := range pending {
		p.breakWith(err)
	}
	close(c.notifications)
}

// Call sends a request and returns a Promise for its response. Requests go
// through send to the writer actor, so concurrent Call/Notify from multiple
// goroutines serialize cleanly onto the single underlying channel (§4.G).
func (c *Client) Call(method string, params any) (*Promise, error) {
	c.mu.Lock()
	if c.broken {
		c.mu.Unlock()
		return nil, errors.New("lsp connection is broken")
	}
	id := c.nextID.Add(1)
	p := newPromise()
	c.promises[id] = p
	c.mu.Unlock()

	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal params for %s: %w", method, err)
	}
	req := Request{JSONRPC: "2.0", ID: &id, Method: method, Params: raw}
	if err := c.send(req); err != nil {
		c.mu.Lock()
		delete(c.promises, id)
		c.mu.Unlock()
		return nil, err
	}
	return p, nil
}

// Notify sends a fire-and-forget notification (no response expected).
func (c *Client) Notify(method string, params any) error {
	c.mu.Lock()
	broken := c.broken
	c.mu.Unlock()
	if broken {
		return errors.New("lsp connection is broken")
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal params for %s: %w", method, err)
	}
	return c.send(Request{JSONRPC: "2.0", Method: method, Params: raw})
}

// send hands req to the writer actor over writeCh; the channel itself
// serialises concurrent Call/Notify callers onto the single underlying
// connection, so no separate write mutex is needed.
//
// Once writerLoop has exited (broken, set under mu by breakAll) nothing
// drains writeCh again, so send must not enqueue into it even though the
// channel itself stays open until Shutdown: checking broken under mu before
// the select keeps a dead writer from racing a live groupCtx.Done() on
// roughly even footing and silently swallowing the message.
func (c *Client) send(req Request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	c.mu.Lock()
	broken := c.broken
	c.mu.Unlock()
	if broken {
		return fmt.Errorf("lsp connection is broken: %w", c.groupCtx.Err())
	}
	select {
	case c.writeCh <- data:
		return nil
	case <-c.groupCtx.Done():
		return fmt.Errorf("lsp connection is broken: %w", c.groupCtx.Err())
	}
}

// Shutdown performs the LSP shutdown/exit sequence, stops the reader/writer
// actors, and waits for both (via the errgroup) before reaping the
// subprocess.
func (c *Client) Shutdown(ctx context.Context) error {
	p, err := c.Call("shutdown", nil)
	if err == nil {
		_, _ = p.Wait(ctx)
	}
	_ = c.Notify("exit", nil)
	close(c.writeCh)
	_ = c.ch.Close()
	_ = c.group.Wait()
	return c.cmd.Wait()
}
