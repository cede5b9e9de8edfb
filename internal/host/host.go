package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"kontor/internal/logger"
	"kontor/internal/rpc"
	"kontor/internal/tool"
)

// ResourceProvider serves readable company data by URI
type ResourceProvider interface {
	List() []rpc.Resource
	Read(uri string) (string, error)
}

// PromptProvider serves reusable prompt templates
type PromptProvider interface {
	List() []rpc.Prompt
	Get(name string, args map[string]string) (*rpc.GetPromptResult, error)
}

// Host serves the tool catalog over a line-framed request/response
// stream. One request is handled at a time, in arrival order. A failing
// tool call becomes an isError result, never a host crash.
type Host struct {
	registry  *tool.Registry
	resources ResourceProvider
	prompts   PromptProvider
	info      rpc.Implementation
	log       *logger.Logger
}

// Option configures optional host surfaces
type Option func(*Host)

// WithResources enables the resources/list and resources/read methods
func WithResources(p ResourceProvider) Option {
	return func(h *Host) { h.resources = p }
}

// WithPrompts enables the prompts/list and prompts/get methods
func WithPrompts(p PromptProvider) Option {
	return func(h *Host) { h.prompts = p }
}

// New creates a host around the given registry. The logger must write
// somewhere other than the wire stream (stderr in the stdio setup).
func New(registry *tool.Registry, log *logger.Logger, opts ...Option) *Host {
	h := &Host{
		registry: registry,
		info: rpc.Implementation{
			Name:    "kontor-tool-host",
			Version: "1.0.0",
		},
		log: log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run serves requests from r and writes responses to w until the peer
// closes the stream or ctx is cancelled. A malformed frame gets an
// error envelope with a null id; it does not end the session.
func (h *Host) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	codec := rpc.NewLineCodec(r, w)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		req, err := codec.ReadRequest()
		if err != nil {
			if errors.Is(err, rpc.ErrClosed) {
				h.log.Debug("peer closed the stream, shutting down")
				return nil
			}
			if errors.Is(err, rpc.ErrParse) {
				h.log.Error("dropping malformed frame: %v", err)
				if werr := codec.WriteResponse(rpc.NewError(nil, rpc.CodeParseError, fmt.Sprintf("parse error: %v", err))); werr != nil {
					return werr
				}
				continue
			}
			return err
		}

		resp := h.dispatch(ctx, req)
		if err := codec.WriteResponse(resp); err != nil {
			return err
		}
	}
}

// dispatch routes one request envelope to its method handler
func (h *Host) dispatch(ctx context.Context, req *rpc.Request) *rpc.Response {
	h.log.Debug("request %s", req.Method)

	var (
		result any
		err    error
	)

	switch req.Method {
	case rpc.MethodInitialize:
		result = h.handleInitialize()
	case rpc.MethodListTools:
		result = rpc.ListToolsResult{Tools: h.registry.Descriptors()}
	case rpc.MethodCallTool:
		result, err = h.handleCallTool(ctx, req.Params)
	case rpc.MethodListResources:
		result, err = h.handleListResources()
	case rpc.MethodReadResource:
		result, err = h.handleReadResource(req.Params)
	case rpc.MethodListPrompts:
		result, err = h.handleListPrompts()
	case rpc.MethodGetPrompt:
		result, err = h.handleGetPrompt(req.Params)
	default:
		return rpc.NewError(req.ID, rpc.CodeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}

	if err != nil {
		var rpcErr *rpc.Error
		if errors.As(err, &rpcErr) {
			return rpc.NewError(req.ID, rpcErr.Code, rpcErr.Message)
		}
		return rpc.NewError(req.ID, rpc.CodeInternalError, fmt.Sprintf("Internal error: %v", err))
	}

	resp, err := rpc.NewResult(req.ID, result)
	if err != nil {
		return rpc.NewError(req.ID, rpc.CodeInternalError, fmt.Sprintf("Internal error: %v", err))
	}
	return resp
}

func (h *Host) handleInitialize() rpc.InitializeResult {
	caps := rpc.ServerCapabilities{
		Tools: map[string]bool{"listChanged": true},
	}
	if h.resources != nil {
		caps.Resources = map[string]bool{"subscribe": true, "listChanged": true}
	}
	if h.prompts != nil {
		caps.Prompts = map[string]bool{"listChanged": true}
	}

	return rpc.InitializeResult{
		ProtocolVersion: rpc.ProtocolVersion,
		Capabilities:    caps,
		ServerInfo:      h.info,
	}
}

func (h *Host) handleCallTool(ctx context.Context, params json.RawMessage) (any, error) {
	var callParams rpc.CallToolParams
	if err := json.Unmarshal(params, &callParams); err != nil {
		return nil, &rpc.Error{Code: rpc.CodeInvalidParams, Message: fmt.Sprintf("invalid tools/call params: %v", err)}
	}
	if callParams.Arguments == nil {
		callParams.Arguments = map[string]any{}
	}

	h.log.ToolCall(callParams.Name, callParams.Arguments)

	t, err := h.registry.Get(callParams.Name)
	if err != nil {
		// Unknown tool is a per-call fault the model can recover from,
		// not a session-ending condition.
		return errorResult(err.Error()), nil
	}

	result := h.executeGuarded(ctx, t, callParams.Arguments)
	h.log.ToolResult(callParams.Name, !result.IsError)
	return result, nil
}

// executeGuarded runs one handler and converts every failure mode,
// including a panic, into an isError result
func (h *Host) executeGuarded(ctx context.Context, t tool.Tool, args map[string]any) (result rpc.CallToolResult) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("tool %s panicked: %v", t.Name(), r)
			result = errorResult(fmt.Sprintf("tool %s panicked: %v", t.Name(), r))
		}
	}()

	res, err := t.Execute(ctx, args)
	if err != nil {
		return errorResult(fmt.Sprintf("tool %s failed: %v", t.Name(), err))
	}
	if !res.Success {
		return errorResult(res.Error)
	}

	return rpc.CallToolResult{
		Content: []rpc.TextContent{rpc.NewTextContent(res.Output)},
	}
}

func (h *Host) handleListResources() (any, error) {
	if h.resources == nil {
		return rpc.ListResourcesResult{Resources: []rpc.Resource{}}, nil
	}
	return rpc.ListResourcesResult{Resources: h.resources.List()}, nil
}

func (h *Host) handleReadResource(params json.RawMessage) (any, error) {
	if h.resources == nil {
		return nil, &rpc.Error{Code: rpc.CodeMethodNotFound, Message: "resources are not served"}
	}

	var readParams rpc.ReadResourceParams
	if err := json.Unmarshal(params, &readParams); err != nil {
		return nil, &rpc.Error{Code: rpc.CodeInvalidParams, Message: fmt.Sprintf("invalid resources/read params: %v", err)}
	}

	text, err := h.resources.Read(readParams.URI)
	if err != nil {
		return nil, err
	}

	return rpc.ReadResourceResult{
		Contents: []rpc.ResourceContents{
			{URI: readParams.URI, MimeType: "application/json", Text: text},
		},
	}, nil
}

func (h *Host) handleListPrompts() (any, error) {
	if h.prompts == nil {
		return rpc.ListPromptsResult{Prompts: []rpc.Prompt{}}, nil
	}
	return rpc.ListPromptsResult{Prompts: h.prompts.List()}, nil
}

func (h *Host) handleGetPrompt(params json.RawMessage) (any, error) {
	if h.prompts == nil {
		return nil, &rpc.Error{Code: rpc.CodeMethodNotFound, Message: "prompts are not served"}
	}

	var getParams rpc.GetPromptParams
	if err := json.Unmarshal(params, &getParams); err != nil {
		return nil, &rpc.Error{Code: rpc.CodeInvalidParams, Message: fmt.Sprintf("invalid prompts/get params: %v", err)}
	}

	result, err := h.prompts.Get(getParams.Name, getParams.Arguments)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func errorResult(message string) rpc.CallToolResult {
	return rpc.CallToolResult{
		Content: []rpc.TextContent{rpc.NewTextContent(message)},
		IsError: true,
	}
}
