package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func newTestLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	log := NewLogger(&buf, level)
	log.SetColorMode(false)
	log.SetShowTime(false)
	return log, &buf
}

func TestLevelGating(t *testing.T) {
	log, buf := newTestLogger(LevelInfo)

	log.Debug("hidden %d", 1)
	log.Info("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line leaked at info level: %q", out)
	}
	if !strings.Contains(out, "[INFO] visible") {
		t.Errorf("info line missing: %q", out)
	}

	log.SetLevel(LevelDebug)
	log.Debug("now shown")
	if !strings.Contains(buf.String(), "[DEBUG] now shown") {
		t.Errorf("debug line missing after SetLevel: %q", buf.String())
	}
}

func TestShowTimeToggle(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, LevelInfo)
	log.SetColorMode(false)

	log.Info("stamped")
	first := buf.String()
	// HH:MM:SS prefix before the level tag
	if strings.HasPrefix(first, "[INFO]") {
		t.Errorf("expected timestamp prefix, got %q", first)
	}

	buf.Reset()
	log.SetShowTime(false)
	log.Info("bare")
	if got := buf.String(); !strings.HasPrefix(got, "[INFO] bare") {
		t.Errorf("expected no timestamp, got %q", got)
	}
}

func TestAssistantResponse(t *testing.T) {
	log, buf := newTestLogger(LevelInfo)

	log.AssistantResponse("the answer is 42")

	out := buf.String()
	if !strings.Contains(out, "Assistant") {
		t.Errorf("missing section header: %q", out)
	}
	if !strings.Contains(out, "the answer is 42") {
		t.Errorf("missing content: %q", out)
	}
}

func TestAssistantResponseSuppressedAboveAgentLevel(t *testing.T) {
	log, buf := newTestLogger(LevelError)

	log.AssistantResponse("should not appear")

	if buf.Len() != 0 {
		t.Errorf("expected no output at error level, got %q", buf.String())
	}
}

func TestSessionBanners(t *testing.T) {
	log, buf := newTestLogger(LevelInfo)

	log.SessionStart("model: test-model | tool-call mode: structured")
	log.SessionEnd(1500*time.Millisecond, 3)

	out := buf.String()
	if !strings.Contains(out, "Session Started") {
		t.Errorf("missing start banner: %q", out)
	}
	if !strings.Contains(out, "model: test-model | tool-call mode: structured") {
		t.Errorf("missing start subtitle: %q", out)
	}
	if !strings.Contains(out, "Session Completed") {
		t.Errorf("missing end banner: %q", out)
	}
	if !strings.Contains(out, "Duration: 1.5s | Tool Calls: 3") {
		t.Errorf("missing end summary: %q", out)
	}
}

func TestToolCallAndResult(t *testing.T) {
	log, buf := newTestLogger(LevelTool)

	log.ToolCall("schedule_meeting", map[string]any{"date": "2025-01-10"})
	log.ToolResult("schedule_meeting", true)
	log.ToolResult("schedule_meeting", false)

	out := buf.String()
	if !strings.Contains(out, "Tool Call: schedule_meeting") {
		t.Errorf("missing tool call section: %q", out)
	}
	if !strings.Contains(out, `{"date":"2025-01-10"}`) {
		t.Errorf("missing compact args: %q", out)
	}
	if !strings.Contains(out, "schedule_meeting -> ok") {
		t.Errorf("missing success result: %q", out)
	}
	if !strings.Contains(out, "schedule_meeting -> failed") {
		t.Errorf("missing failure result: %q", out)
	}
}

func TestFormatJSONPrettyPrintsLongPayloads(t *testing.T) {
	log, _ := newTestLogger(LevelDebug)

	args := map[string]any{
		"title":        "a meeting title long enough to push the payload past the compact cutoff",
		"date":         "2025-01-10",
		"time":         "10:00",
		"duration_min": 30,
	}
	got := log.formatJSON(args)
	if !strings.Contains(got, "\n") {
		t.Errorf("expected pretty-printed output, got %q", got)
	}
}
