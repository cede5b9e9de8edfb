package chat

import (
	"fmt"
	"strings"

	"kontor/internal/rpc"
)

// BuildSystemPrompt produces the system instruction for one model call.
// It enumerates every tool in catalog order; in inline mode it also
// spells out the exact marker syntax the model must emit.
func BuildSystemPrompt(tools []rpc.ToolDescriptor, mode Mode) string {
	var b strings.Builder

	b.WriteString("You are a helpful corporate assistant. You have access to tools that answer questions about the employee's calendar, development plan and company regulations.\n\n")
	b.WriteString("AVAILABLE TOOLS:\n")
	for _, t := range tools {
		fmt.Fprintf(&b, "- %s: %s\n", t.Name, t.Description)
	}

	b.WriteString("\nWhen a tool can provide the data needed to answer, you MUST use it. Never invent information that a tool can supply.\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Questions about time slots or the schedule: use get_available_slots\n")
	b.WriteString("- Requests to schedule a meeting: use schedule_meeting\n")
	b.WriteString("- Questions about regulations or policies: use search_regulations\n")
	b.WriteString("- Questions about development plans: use get_development_plan\n")

	if mode == ModeInline {
		b.WriteString("\nTo invoke a tool, emit a marker anywhere in your answer, exactly in this form:\n")
		b.WriteString("[TOOL_CALL:tool_name:{\"argument\":\"value\"}]\n")
		b.WriteString("Use {} when the tool takes no arguments. Each marker is replaced by the tool's result.\n")
		b.WriteString("Example: [TOOL_CALL:get_available_slots:{}]\n")
	}

	return b.String()
}
