package openai

import (
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"kontor/internal/llm"
)

func TestConvertMessages(t *testing.T) {
	c := NewClient("test-key", "test-model", "")

	msgs := []llm.Message{
		{Role: llm.RoleSystem, Content: "be helpful"},
		{Role: llm.RoleUser, Content: "book a meeting"},
		{
			Role: llm.RoleAssistant,
			ToolCalls: []*llm.ToolCall{{
				ID:       "call_1",
				Type:     "function",
				Function: &llm.FunctionCall{Name: "schedule_meeting", Arguments: `{"date":"2024-01-15"}`},
			}},
		},
		{Role: llm.RoleTool, ToolCallID: "call_1", Name: "schedule_meeting", Content: "booked"},
	}

	converted := c.convertMessages(msgs)
	if len(converted) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(converted))
	}
	if converted[0].Role != "system" || converted[1].Role != "user" {
		t.Errorf("roles lost: %+v", converted[:2])
	}

	assistant := converted[2]
	if len(assistant.ToolCalls) != 1 {
		t.Fatalf("tool calls lost: %+v", assistant)
	}
	if assistant.ToolCalls[0].ID != "call_1" || assistant.ToolCalls[0].Function.Name != "schedule_meeting" {
		t.Errorf("tool call mangled: %+v", assistant.ToolCalls[0])
	}

	toolMsg := converted[3]
	if toolMsg.Role != "tool" || toolMsg.ToolCallID != "call_1" || toolMsg.Name != "schedule_meeting" {
		t.Errorf("tool message not correlated: %+v", toolMsg)
	}
}

func TestConvertTools(t *testing.T) {
	c := NewClient("test-key", "test-model", "")

	if got := c.convertTools(nil); got != nil {
		t.Errorf("expected nil for an empty catalog, got %v", got)
	}

	tools := []*llm.ToolDefinition{{
		Type: "function",
		Function: &llm.FunctionDef{
			Name:        "echo",
			Description: "echo text back",
			Parameters:  map[string]any{"type": "object"},
		},
	}}
	converted := c.convertTools(tools)
	if len(converted) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(converted))
	}
	if converted[0].Type != openai.ToolTypeFunction || converted[0].Function.Name != "echo" {
		t.Errorf("tool definition mangled: %+v", converted[0])
	}
}

func TestConvertResponseToolCalls(t *testing.T) {
	c := NewClient("test-key", "test-model", "")

	resp := c.convertResponse(openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{
				Role: "assistant",
				ToolCalls: []openai.ToolCall{{
					ID:       "call_9",
					Type:     openai.ToolTypeFunction,
					Function: openai.FunctionCall{Name: "echo", Arguments: `{}`},
				}},
			},
			FinishReason: openai.FinishReasonToolCalls,
		}},
	})

	if resp.StopReason != llm.StopReasonToolCalls {
		t.Errorf("expected tool_calls stop reason, got %q", resp.StopReason)
	}
	if len(resp.Message.ToolCalls) != 1 || resp.Message.ToolCalls[0].ID != "call_9" {
		t.Errorf("tool calls lost: %+v", resp.Message.ToolCalls)
	}
}

func TestConvertResponsePlainText(t *testing.T) {
	c := NewClient("test-key", "test-model", "")

	resp := c.convertResponse(openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message:      openai.ChatCompletionMessage{Role: "assistant", Content: "hello"},
			FinishReason: openai.FinishReasonStop,
		}},
		Usage: openai.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	})

	if resp.Message.Content != "hello" {
		t.Errorf("content lost: %+v", resp.Message)
	}
	if resp.StopReason != llm.StopReasonStop {
		t.Errorf("unexpected stop reason %q", resp.StopReason)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("usage lost: %+v", resp.Usage)
	}
}
