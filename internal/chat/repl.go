package chat

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"kontor/internal/logger"
	"kontor/internal/mcpclient"
)

// REPL is the interactive chat surface: free-form questions go through
// the orchestrator, slash commands hit the tool host directly.
type REPL struct {
	orch     *Orchestrator
	client   *mcpclient.Client
	log      *logger.Logger
	in       io.Reader
	out      io.Writer
	renderer *glamour.TermRenderer
	verbose  bool
}

// NewREPL builds the chat loop. renderer may fail on odd terminals; in
// that case answers print as plain text.
func NewREPL(orch *Orchestrator, client *mcpclient.Client, log *logger.Logger, in io.Reader, out io.Writer) *REPL {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		renderer = nil
	}

	return &REPL{
		orch:     orch,
		client:   client,
		log:      log,
		in:       in,
		out:      out,
		renderer: renderer,
	}
}

// Run reads user input until EOF or /exit. One turn completes before
// the next input is accepted.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, "Corporate assistant ready. Type /help for commands.")
	r.printHelp()

	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, "you> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			fmt.Fprintln(r.out)
			return nil
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			done, err := r.handleCommand(ctx, input)
			if err != nil {
				fmt.Fprintf(r.out, "error: %v\n", err)
			}
			if done {
				return nil
			}
			continue
		}

		r.handleQuestion(ctx, input)
	}
}

func (r *REPL) handleQuestion(ctx context.Context, question string) {
	answer, err := r.orch.Ask(ctx, question)
	if err != nil {
		// Endpoint and transport failures end the turn, not the
		// session; the history keeps the question for a retry.
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	r.printAnswer(answer)
}

// handleCommand dispatches one slash command. The bool result reports
// whether the session should end.
func (r *REPL) handleCommand(ctx context.Context, input string) (bool, error) {
	parts := strings.Fields(input[1:])
	if len(parts) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "exit", "quit":
		fmt.Fprintln(r.out, "bye")
		return true, nil

	case "help":
		r.printHelp()

	case "tools":
		for i, t := range r.client.Tools() {
			fmt.Fprintf(r.out, "%d. %s\n   %s\n", i+1, t.Name, t.Description)
		}

	case "slots":
		return false, r.printToolJSON(ctx, "get_available_slots", nil)

	case "plan":
		return false, r.printToolJSON(ctx, "get_development_plan", nil)

	case "meet":
		if len(args) < 3 {
			fmt.Fprintln(r.out, "usage: /meet <date> <time> <title>")
			fmt.Fprintln(r.out, "example: /meet 2024-01-19 14:00 Team sync")
			return false, nil
		}
		return false, r.printToolJSON(ctx, "schedule_meeting", map[string]any{
			"date":  args[0],
			"time":  args[1],
			"title": strings.Join(args[2:], " "),
		})

	case "search":
		if len(args) == 0 {
			fmt.Fprintln(r.out, "usage: /search <query>")
			return false, nil
		}
		return false, r.printToolJSON(ctx, "search_regulations", map[string]any{
			"query": strings.Join(args, " "),
		})

	case "history":
		entries := r.orch.History().Recent(10)
		if len(entries) == 0 {
			fmt.Fprintln(r.out, "history is empty")
			return false, nil
		}
		for i, msg := range entries {
			fmt.Fprintf(r.out, "%d. %s: %s\n", i+1, msg.Role, previewText(msg.Content, 100))
		}

	case "clear":
		r.orch.History().Clear()
		fmt.Fprintln(r.out, "history cleared")

	case "debug":
		r.verbose = !r.verbose
		if r.verbose {
			r.log.SetLevel(logger.LevelDebug)
			fmt.Fprintln(r.out, "debug mode on")
		} else {
			r.log.SetLevel(logger.LevelInfo)
			fmt.Fprintln(r.out, "debug mode off")
		}

	default:
		fmt.Fprintf(r.out, "unknown command: /%s (try /help)\n", cmd)
	}

	return false, nil
}

// printToolJSON calls one tool directly and pretty-prints its payload
func (r *REPL) printToolJSON(ctx context.Context, name string, args map[string]any) error {
	result, err := r.client.CallTool(ctx, name, args)
	if err != nil {
		return err
	}

	text := flattenContent(result.Content)
	if result.IsError {
		fmt.Fprintf(r.out, "tool error: %s\n", text)
		return nil
	}

	// Re-indent if the payload is JSON, otherwise print as-is
	var v any
	if err := json.Unmarshal([]byte(text), &v); err == nil {
		if pretty, err := json.MarshalIndent(v, "", "  "); err == nil {
			text = string(pretty)
		}
	}
	fmt.Fprintln(r.out, text)
	return nil
}

func (r *REPL) printAnswer(answer string) {
	if r.renderer != nil {
		if rendered, err := r.renderer.Render(answer); err == nil {
			fmt.Fprint(r.out, rendered)
			return
		}
	}
	r.log.AssistantResponse(answer)
}

// previewText truncates on a rune boundary so multibyte characters
// never get split
func previewText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, `commands:
  /help                      show this help
  /tools                     list available tools
  /slots                     show available time slots
  /plan                      show the development plan
  /meet <date> <time> <t..>  schedule a meeting
  /search <query>            search the regulations
  /history                   show recent conversation
  /clear                     clear the conversation
  /debug                     toggle debug output
  /exit                      quit`)
}
