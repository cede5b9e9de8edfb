package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"kontor/internal/llm"
	"kontor/internal/logger"
	"kontor/internal/rpc"
)

// Mode selects how the model requests tool invocations
type Mode string

const (
	// ModeStructured uses the provider-native tool_calls field
	ModeStructured Mode = "structured"
	// ModeInline extracts [TOOL_CALL:...] markers from free text
	ModeInline Mode = "inline"
)

// ErrModelEndpoint marks a failure calling the model provider. The
// conversation history survives it, so the user can retry the turn.
var ErrModelEndpoint = errors.New("model endpoint failure")

// ToolCaller is the host surface the orchestrator needs: the catalog
// and one-at-a-time tool invocation
type ToolCaller interface {
	Tools() []rpc.ToolDescriptor
	CallTool(ctx context.Context, name string, arguments map[string]any) (*rpc.CallToolResult, error)
}

// Config tunes one orchestrator instance
type Config struct {
	Mode          Mode
	ContextWindow int // history entries included per model call
	Temperature   float32
	MaxTokens     int
}

// defaultContextWindow matches the reference client: the last 6
// history entries go into each model call
const defaultContextWindow = 6

// Orchestrator runs the tool-call loop: send context to the model,
// interpret the response for tool-call requests, execute them through
// the host, fold results back in and produce a final answer. One turn
// runs start to finish before the next user input is accepted.
type Orchestrator struct {
	llmClient llm.Client
	host      ToolCaller
	history   *History
	cfg       Config
	log       *logger.Logger
	toolCalls int
}

func NewOrchestrator(client llm.Client, host ToolCaller, log *logger.Logger, cfg Config) *Orchestrator {
	if cfg.Mode == "" {
		cfg.Mode = ModeStructured
	}
	if cfg.ContextWindow <= 0 {
		cfg.ContextWindow = defaultContextWindow
	}

	return &Orchestrator{
		llmClient: client,
		host:      host,
		history:   NewHistory(),
		cfg:       cfg,
		log:       log,
	}
}

// History exposes the session log (for the /history and /clear
// commands)
func (o *Orchestrator) History() *History {
	return o.history
}

// ToolCallCount returns how many tool invocations ran this session
func (o *Orchestrator) ToolCallCount() int {
	return o.toolCalls
}

// Ask runs one orchestration turn for a user question and returns the
// final textual answer. Tool-level faults are folded into the
// conversation; only transport and model endpoint failures are
// returned as errors, with the history left intact for a retry.
func (o *Orchestrator) Ask(ctx context.Context, question string) (string, error) {
	o.history.Append(llm.RoleUser, question)

	started := time.Now()
	resp, err := o.callModel(ctx, o.buildContext())
	if err != nil {
		return "", err
	}

	var answer string
	switch o.cfg.Mode {
	case ModeInline:
		answer, err = o.runInline(ctx, resp.Message.Content)
	default:
		answer, err = o.runStructured(ctx, resp)
	}
	if err != nil {
		return "", err
	}

	o.history.Append(llm.RoleAssistant, answer)
	o.log.Debug("turn finished in %s", time.Since(started).Round(time.Millisecond))
	return answer, nil
}

// runStructured handles the provider-native tool_calls convention: one
// batch of tool executions, one follow-up model call for the final
// answer. If the follow-up requests yet more tools, its text content is
// surfaced verbatim instead of looping again.
func (o *Orchestrator) runStructured(ctx context.Context, resp *llm.ChatResponse) (string, error) {
	if len(resp.Message.ToolCalls) == 0 {
		return resp.Message.Content, nil
	}

	o.log.Info("model requested %d tool call(s)", len(resp.Message.ToolCalls))

	// Working messages for this turn only; the session history gets the
	// user question and the final answer.
	messages := append(o.buildContext(), resp.Message)

	// Execute in the order the model returned, no reordering, no
	// deduplication. A failing call becomes a synthetic error message
	// and the batch continues.
	for _, tc := range resp.Message.ToolCalls {
		text := o.executeToolCall(ctx, tc.Function.Name, decodeArguments(tc.Function.Arguments))
		messages = append(messages, llm.Message{
			Role:       llm.RoleTool,
			ToolCallID: tc.ID,
			Name:       tc.Function.Name,
			Content:    text,
			Timestamp:  time.Now(),
		})
	}

	// Exactly one more round-trip for the final answer
	final, err := o.callModel(ctx, messages)
	if err != nil {
		return "", err
	}
	if len(final.Message.ToolCalls) > 0 {
		o.log.Debug("follow-up response requested more tools; surfacing its text as-is")
	}
	return final.Message.Content, nil
}

// runInline handles the text-marker convention: every marker in the
// response is executed and replaced in place by its result text (or an
// error string). The substituted text is the final answer.
func (o *Orchestrator) runInline(ctx context.Context, content string) (string, error) {
	calls := ExtractMarkers(content)
	if len(calls) == 0 {
		return content, nil
	}

	o.log.Info("model embedded %d tool marker(s)", len(calls))

	answer := content
	for _, call := range calls {
		text := o.executeToolCall(ctx, call.Name, call.Arguments)
		answer = strings.Replace(answer, call.Raw, text, 1)
	}
	return answer, nil
}

// executeToolCall invokes one tool through the host and flattens the
// outcome to text. Transport failures, unknown tools and isError
// results all degrade to an error string so the loop keeps going.
func (o *Orchestrator) executeToolCall(ctx context.Context, name string, args map[string]any) string {
	callID := uuid.NewString()
	o.toolCalls++
	o.log.ToolCall(name, args)

	result, err := o.host.CallTool(ctx, name, args)
	if err != nil {
		o.log.ToolResult(name, false)
		return fmt.Sprintf("tool %s failed: %v (call %s)", name, err, callID)
	}

	text := flattenContent(result.Content)
	if result.IsError {
		o.log.ToolResult(name, false)
		if text == "" {
			text = fmt.Sprintf("tool %s reported an error", name)
		}
		return text
	}

	o.log.ToolResult(name, true)
	if text == "" {
		// Some providers reject empty message content
		text = "(tool executed successfully with no output)"
	}
	return text
}

// callModel performs one model round-trip. In structured mode the tool
// catalog rides along in the provider shape.
func (o *Orchestrator) callModel(ctx context.Context, messages []llm.Message) (*llm.ChatResponse, error) {
	req := &llm.ChatRequest{
		Messages:    messages,
		Temperature: o.cfg.Temperature,
		MaxTokens:   o.cfg.MaxTokens,
	}
	if o.cfg.Mode == ModeStructured {
		req.Tools = o.toolDefinitions()
	}

	resp, err := o.llmClient.Chat(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelEndpoint, err)
	}
	return resp, nil
}

// buildContext assembles the outbound message list: system instruction
// first, then the truncated history (which already ends with the new
// user message)
func (o *Orchestrator) buildContext() []llm.Message {
	messages := []llm.Message{
		{
			Role:    llm.RoleSystem,
			Content: BuildSystemPrompt(o.host.Tools(), o.cfg.Mode),
		},
	}
	return append(messages, o.history.Recent(o.cfg.ContextWindow)...)
}

// toolDefinitions converts the host catalog into the provider tool
// shape, preserving catalog order
func (o *Orchestrator) toolDefinitions() []*llm.ToolDefinition {
	tools := o.host.Tools()
	defs := make([]*llm.ToolDefinition, len(tools))
	for i, t := range tools {
		defs[i] = &llm.ToolDefinition{
			Type: "function",
			Function: &llm.FunctionDef{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.InputSchema,
			},
		}
	}
	return defs
}

func flattenContent(content []rpc.TextContent) string {
	parts := make([]string, 0, len(content))
	for _, c := range content {
		if c.Text != "" {
			parts = append(parts, c.Text)
		}
	}
	return strings.Join(parts, "\n")
}
