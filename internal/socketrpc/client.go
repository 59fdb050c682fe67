package socketrpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/tinytelemetry/marsestate/internal/model"
)

// callTimeout bounds a single call when ctx carries no earlier deadline.
const callTimeout = 30 * time.Second

// Client implements model.ListingsFetcher over a Unix domain socket using JSON-RPC 2.0.
// A call interrupted by its context drops the connection; the next call redials.
type Client struct {
	socketPath string

	mu      sync.Mutex
	conn    net.Conn
	nextID  int
	scanner *bufio.Scanner
	encoder *json.Encoder
}

var _ model.ListingsFetcher = (*Client)(nil)

// Dial connects to the socket RPC server at the given path.
func Dial(socketPath string) (*Client, error) {
	c := &Client{socketPath: socketPath}
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) connect() error {
	conn, err := net.DialTimeout("unix", c.socketPath, 5*time.Second)
	if err != nil {
		return fmt.Errorf("socketrpc: dial: %w", err)
	}
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, scannerInitBufSize), scannerMaxTokenSize)
	c.conn = conn
	c.scanner = scanner
	c.encoder = json.NewEncoder(conn)
	return nil
}

// drop closes a connection whose stream state is no longer trustworthy.
func (c *Client) drop() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// call performs a JSON-RPC call and unmarshals the result into dest.
func (c *Client) call(ctx context.Context, method string, params interface{}, dest interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		if err := c.connect(); err != nil {
			return err
		}
	}

	c.nextID++
	id := c.nextID

	paramsData, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("socketrpc: marshal params: %w", err)
	}

	req := Request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  paramsData,
	}

	deadline := time.Now().Add(callTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	conn := c.conn
	conn.SetDeadline(deadline)
	defer conn.SetDeadline(time.Time{})

	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(time.Now())
	})
	defer stop()

	fail := func(op string, err error) error {
		c.drop()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("socketrpc: %s: %w", method, ctxErr)
		}
		return fmt.Errorf("socketrpc: %s: %w", op, err)
	}

	if err := c.encoder.Encode(req); err != nil {
		return fail("send", err)
	}

	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return fail("read", err)
		}
		return fail("read", fmt.Errorf("connection closed"))
	}

	var resp Response
	if err := json.Unmarshal(c.scanner.Bytes(), &resp); err != nil {
		c.drop()
		return fmt.Errorf("socketrpc: unmarshal response: %w", err)
	}
	if resp.ID != id {
		c.drop()
		return fmt.Errorf("socketrpc: response id %d, want %d", resp.ID, id)
	}

	if resp.Error != nil {
		return resp.Error
	}

	if dest != nil {
		if err := json.Unmarshal(resp.Result, dest); err != nil {
			return fmt.Errorf("socketrpc: unmarshal result: %w", err)
		}
	}
	return nil
}

// Fetch returns the listings matching filter.
func (c *Client) Fetch(ctx context.Context, filter model.Filter) ([]model.Listing, error) {
	var result []model.Listing
	err := c.call(ctx, "Listings", ListingsParams{Filter: filter.Value()}, &result)
	return result, err
}

// Get returns a single listing by id.
func (c *Client) Get(ctx context.Context, id string) (model.Listing, error) {
	var result model.Listing
	err := c.call(ctx, "Listing", ListingParams{ID: id}, &result)
	return result, err
}

// Health returns the server's listing count.
func (c *Client) Health(ctx context.Context) (HealthResult, error) {
	var result HealthResult
	err := c.call(ctx, "Health", nil, &result)
	return result, err
}
