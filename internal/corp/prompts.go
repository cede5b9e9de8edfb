package corp

import (
	"errors"
	"fmt"

	"kontor/internal/rpc"
)

// ErrUnknownPrompt marks a prompts/get for a template the host does not
// serve
var ErrUnknownPrompt = errors.New("unknown prompt")

// PromptCatalog renders the host's reusable prompt templates
type PromptCatalog struct{}

func NewPromptCatalog() *PromptCatalog {
	return &PromptCatalog{}
}

// List returns every prompt template the host serves
func (c *PromptCatalog) List() []rpc.Prompt {
	return []rpc.Prompt{
		{
			Name:        "career_advice",
			Description: "Get advice on career development",
			Arguments: []rpc.PromptArgument{
				{Name: "current_role", Description: "Current position", Required: true},
				{Name: "goal", Description: "Career goal", Required: true},
			},
		},
		{
			Name:        "meeting_agenda",
			Description: "Create an agenda for a meeting",
			Arguments: []rpc.PromptArgument{
				{Name: "meeting_type", Description: "Type of meeting", Required: true},
				{Name: "participants", Description: "Participants", Required: false},
			},
		},
	}
}

// Get renders one template with the given arguments
func (c *PromptCatalog) Get(name string, args map[string]string) (*rpc.GetPromptResult, error) {
	switch name {
	case "career_advice":
		currentRole := args["current_role"]
		goal := args["goal"]
		return &rpc.GetPromptResult{
			Description: "Prompt for career_advice",
			Messages: []rpc.PromptMessage{
				{
					Role:    "system",
					Content: fmt.Sprintf("You are a career advisor. Help an employee working as %q reach the goal %q.", currentRole, goal),
				},
				{
					Role:    "user",
					Content: fmt.Sprintf("I work as %s and I want to %s. What steps should I take?", currentRole, goal),
				},
			},
		}, nil

	case "meeting_agenda":
		meetingType := args["meeting_type"]
		participants := args["participants"]
		if participants == "" {
			participants = "the team"
		}
		return &rpc.GetPromptResult{
			Description: "Prompt for meeting_agenda",
			Messages: []rpc.PromptMessage{
				{
					Role:    "system",
					Content: "You are an assistant for drafting meeting agendas.",
				},
				{
					Role:    "user",
					Content: fmt.Sprintf("Draft an agenda for a %q meeting with: %s", meetingType, participants),
				},
			},
		}, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPrompt, name)
	}
}
