package mcpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"kontor/internal/logger"
	"kontor/internal/rpc"
	"kontor/internal/rpc/transport"
)

// Client speaks the line-framed request/response protocol to a tool
// host. Requests carry a monotonically increasing correlation id; the
// client keeps exactly one request in flight at a time (no pipelining),
// so a response is matched by simple id equality.
type Client struct {
	transport transport.Transport
	codec     *rpc.LineCodec
	nextID    atomic.Int64
	mu        sync.Mutex
	log       *logger.Logger

	serverInfo rpc.Implementation
	tools      []rpc.ToolDescriptor
}

// New wraps a transport in a client. Call Connect before issuing
// requests.
func New(t transport.Transport, log *logger.Logger) *Client {
	return &Client{
		transport: t,
		log:       log,
	}
}

// NewStdio builds a client around a freshly spawned tool host process
func NewStdio(ctx context.Context, command string, args []string, env map[string]string, log *logger.Logger) (*Client, error) {
	t, err := transport.NewStdioTransport(ctx, command, args, env)
	if err != nil {
		return nil, fmt.Errorf("failed to create stdio transport: %w", err)
	}
	return New(t, log), nil
}

// Connect starts the transport, performs the initialize handshake and
// caches the host's tool catalog.
func (c *Client) Connect(ctx context.Context) error {
	if err := c.transport.Start(); err != nil {
		return fmt.Errorf("failed to start transport: %w", err)
	}
	c.codec = rpc.NewLineCodec(c.transport.Reader(), c.transport.Writer())

	result, err := c.Initialize(ctx)
	if err != nil {
		c.transport.Close()
		return fmt.Errorf("initialize failed: %w", err)
	}
	c.serverInfo = result.ServerInfo
	c.log.Debug("connected to %s %s (protocol %s)", result.ServerInfo.Name, result.ServerInfo.Version, result.ProtocolVersion)

	tools, err := c.ListTools(ctx)
	if err != nil {
		c.transport.Close()
		return fmt.Errorf("failed to list tools: %w", err)
	}
	c.tools = tools

	return nil
}

// Initialize performs capability negotiation with the host
func (c *Client) Initialize(ctx context.Context) (*rpc.InitializeResult, error) {
	params := rpc.InitializeParams{
		ProtocolVersion: rpc.ProtocolVersion,
		Capabilities:    map[string]any{},
		ClientInfo: rpc.Implementation{
			Name:    "kontor",
			Version: "1.0.0",
		},
	}

	var result rpc.InitializeResult
	if err := c.call(ctx, rpc.MethodInitialize, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListTools fetches the host's tool catalog
func (c *Client) ListTools(ctx context.Context) ([]rpc.ToolDescriptor, error) {
	var result rpc.ListToolsResult
	if err := c.call(ctx, rpc.MethodListTools, struct{}{}, &result); err != nil {
		return nil, err
	}
	return result.Tools, nil
}

// Tools returns the catalog cached at Connect time
func (c *Client) Tools() []rpc.ToolDescriptor {
	return c.tools
}

// ServerInfo returns the host identity from the initialize handshake
func (c *Client) ServerInfo() rpc.Implementation {
	return c.serverInfo
}

// CallTool invokes one named tool. A handler-level fault comes back as
// a result with IsError set; only transport and protocol failures
// return a non-nil error.
func (c *Client) CallTool(ctx context.Context, name string, arguments map[string]any) (*rpc.CallToolResult, error) {
	if arguments == nil {
		arguments = map[string]any{}
	}
	params := rpc.CallToolParams{Name: name, Arguments: arguments}

	var result rpc.CallToolResult
	if err := c.call(ctx, rpc.MethodCallTool, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListResources fetches the host's resource catalog
func (c *Client) ListResources(ctx context.Context) ([]rpc.Resource, error) {
	var result rpc.ListResourcesResult
	if err := c.call(ctx, rpc.MethodListResources, struct{}{}, &result); err != nil {
		return nil, err
	}
	return result.Resources, nil
}

// ReadResource reads one resource by URI
func (c *Client) ReadResource(ctx context.Context, uri string) (*rpc.ReadResourceResult, error) {
	var result rpc.ReadResourceResult
	if err := c.call(ctx, rpc.MethodReadResource, rpc.ReadResourceParams{URI: uri}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListPrompts fetches the host's prompt templates
func (c *Client) ListPrompts(ctx context.Context) ([]rpc.Prompt, error) {
	var result rpc.ListPromptsResult
	if err := c.call(ctx, rpc.MethodListPrompts, struct{}{}, &result); err != nil {
		return nil, err
	}
	return result.Prompts, nil
}

// GetPrompt renders one prompt template
func (c *Client) GetPrompt(ctx context.Context, name string, args map[string]string) (*rpc.GetPromptResult, error) {
	var result rpc.GetPromptResult
	if err := c.call(ctx, rpc.MethodGetPrompt, rpc.GetPromptParams{Name: name, Arguments: args}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Close shuts the transport down. Any blocked receive fails with
// rpc.ErrClosed.
func (c *Client) Close() error {
	return c.transport.Close()
}

// call sends one request and blocks for its matching response. The
// mutex enforces the one-outstanding-request invariant. A cancelled
// context abandons the session; the caller is expected to Close.
func (c *Client) call(ctx context.Context, method string, params any, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	id := c.nextID.Add(1)
	req, err := rpc.NewRequest(id, method, params)
	if err != nil {
		return err
	}

	c.log.Debug("-> %s (id %d)", method, id)
	if err := c.codec.WriteRequest(req); err != nil {
		return err
	}

	resp, err := c.receive(ctx, id)
	if err != nil {
		return err
	}

	if resp.Error != nil {
		return fmt.Errorf("%s: %w", method, resp.Error)
	}
	if out != nil && len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, out); err != nil {
			return fmt.Errorf("%w: bad %s result: %v", rpc.ErrParse, method, err)
		}
	}
	return nil
}

// receive reads envelopes until one carries the expected id. Null-id
// error envelopes (the host could not attribute a parse failure) are
// logged and skipped; a mismatched non-null id means the transport
// correlation is broken.
func (c *Client) receive(ctx context.Context, id int64) (*rpc.Response, error) {
	type outcome struct {
		resp *rpc.Response
		err  error
	}
	ch := make(chan outcome, 1)

	go func() {
		for {
			resp, err := c.codec.ReadResponse()
			if err != nil {
				ch <- outcome{err: err}
				return
			}
			if resp.ID == nil {
				if resp.Error != nil {
					c.log.Error("host reported: %v", resp.Error)
				}
				continue
			}
			if *resp.ID != id {
				ch <- outcome{err: fmt.Errorf("%w: response id %d does not match request id %d", rpc.ErrParse, *resp.ID, id)}
				return
			}
			ch <- outcome{resp: resp}
			return
		}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case o := <-ch:
		return o.resp, o.err
	}
}
