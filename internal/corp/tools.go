package corp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"

	"kontor/internal/tool"
)

// decodeArgs maps loosely-typed wire arguments onto a typed params
// struct. WeaklyTypedInput tolerates models sending numbers as strings.
func decodeArgs(args map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(args)
}

func marshalOutput(v any) (*tool.Result, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool output: %w", err)
	}
	return tool.Ok(string(data)), nil
}

// SlotsTool reports the free calendar ranges for the demo week
type SlotsTool struct {
	store *CalendarStore
}

func NewSlotsTool(store *CalendarStore) *SlotsTool {
	return &SlotsTool{store: store}
}

func (t *SlotsTool) Name() string {
	return "get_available_slots"
}

func (t *SlotsTool) Description() string {
	return "Get the available meeting time slots for the current week"
}

func (t *SlotsTool) InputSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
		"required":   []string{},
	}
}

func (t *SlotsTool) Execute(ctx context.Context, args map[string]any) (*tool.Result, error) {
	return marshalOutput(map[string]any{
		"available_slots":     t.store.AvailableSlots(),
		"note":                "All times are in the company's local time zone",
		"booking_instruction": "Use the 'schedule_meeting' tool to book a slot",
	})
}

// ScheduleMeetingTool books a meeting into the calendar store
type ScheduleMeetingTool struct {
	store *CalendarStore
}

func NewScheduleMeetingTool(store *CalendarStore) *ScheduleMeetingTool {
	return &ScheduleMeetingTool{store: store}
}

func (t *ScheduleMeetingTool) Name() string {
	return "schedule_meeting"
}

func (t *ScheduleMeetingTool) Description() string {
	return "Schedule a meeting for a specific date and time"
}

func (t *ScheduleMeetingTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"date": map[string]any{
				"type":        "string",
				"description": "Meeting date in YYYY-MM-DD format",
			},
			"time": map[string]any{
				"type":        "string",
				"description": "Meeting time in HH:MM format",
			},
			"title": map[string]any{
				"type":        "string",
				"description": "Meeting title",
			},
			"duration": map[string]any{
				"type":        "integer",
				"description": "Duration in minutes (default 60)",
				"default":     60,
			},
		},
		"required": []string{"date", "time", "title"},
	}
}

type scheduleMeetingParams struct {
	Date     string `mapstructure:"date"`
	Time     string `mapstructure:"time"`
	Title    string `mapstructure:"title"`
	Duration int    `mapstructure:"duration"`
}

func (t *ScheduleMeetingTool) Execute(ctx context.Context, args map[string]any) (*tool.Result, error) {
	var params scheduleMeetingParams
	if err := decodeArgs(args, &params); err != nil {
		return tool.Fail(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if params.Date == "" || params.Time == "" || params.Title == "" {
		return tool.Fail("date, time and title are required"), nil
	}
	if params.Duration == 0 {
		params.Duration = 60
	}

	// A failed booking is still a successful tool call: the structured
	// failure goes back to the model as content so it can suggest an
	// alternative slot.
	result := t.store.Book(params.Date, params.Time, params.Title, params.Duration)
	return marshalOutput(result)
}

// DevelopmentPlanTool returns the employee's individual growth plan
type DevelopmentPlanTool struct{}

func NewDevelopmentPlanTool() *DevelopmentPlanTool {
	return &DevelopmentPlanTool{}
}

func (t *DevelopmentPlanTool) Name() string {
	return "get_development_plan"
}

func (t *DevelopmentPlanTool) Description() string {
	return "Get the individual development plan for the employee"
}

func (t *DevelopmentPlanTool) InputSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
		"required":   []string{},
	}
}

func (t *DevelopmentPlanTool) Execute(ctx context.Context, args map[string]any) (*tool.Result, error) {
	return marshalOutput(GetDevelopmentPlan())
}

// SearchRegulationsTool searches the corporate policy catalog
type SearchRegulationsTool struct{}

func NewSearchRegulationsTool() *SearchRegulationsTool {
	return &SearchRegulationsTool{}
}

func (t *SearchRegulationsTool) Name() string {
	return "search_regulations"
}

func (t *SearchRegulationsTool) Description() string {
	return "Search the corporate regulations for policy information"
}

func (t *SearchRegulationsTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Search query over the regulations",
			},
		},
		"required": []string{"query"},
	}
}

type searchRegulationsParams struct {
	Query string `mapstructure:"query"`
}

func (t *SearchRegulationsTool) Execute(ctx context.Context, args map[string]any) (*tool.Result, error) {
	var params searchRegulationsParams
	if err := decodeArgs(args, &params); err != nil {
		return tool.Fail(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if params.Query == "" {
		return tool.Fail("a search query is required"), nil
	}

	results := SearchRegulations(params.Query)
	if len(results) == 0 {
		return marshalOutput(map[string]any{
			"message":    "Nothing found for this query",
			"suggestion": "Try keywords like: vacation, sick leave, dress code, remote, learning, equipment",
		})
	}

	return marshalOutput(map[string]any{
		"search_query": params.Query,
		"results":      results,
		"found_count":  len(results),
	})
}

// ListToolsTool describes every registered tool. It exists so a model
// can ask what it is able to do without a protocol-level tools/list.
type ListToolsTool struct {
	registry *tool.Registry
}

func NewListToolsTool(registry *tool.Registry) *ListToolsTool {
	return &ListToolsTool{registry: registry}
}

func (t *ListToolsTool) Name() string {
	return "list_tools"
}

func (t *ListToolsTool) Description() string {
	return "List every available tool with its description"
}

func (t *ListToolsTool) InputSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
		"required":   []string{},
	}
}

func (t *ListToolsTool) Execute(ctx context.Context, args map[string]any) (*tool.Result, error) {
	type toolInfo struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Parameters  []string `json:"parameters"`
	}

	tools := t.registry.List()
	infos := make([]toolInfo, 0, len(tools))
	for _, entry := range tools {
		var paramNames []string
		if props, ok := entry.InputSchema()["properties"].(map[string]any); ok {
			for name := range props {
				paramNames = append(paramNames, name)
			}
			sort.Strings(paramNames)
		}
		infos = append(infos, toolInfo{
			Name:        entry.Name(),
			Description: entry.Description(),
			Parameters:  paramNames,
		})
	}

	return marshalOutput(map[string]any{
		"available_tools": infos,
		"total_count":     len(infos),
		"description":     "Full catalog of the corporate tool host",
	})
}

// RegisterAll wires the complete corporate tool set, in the order the
// catalog is shown to the model, into the given registry.
func RegisterAll(registry *tool.Registry, store *CalendarStore) error {
	tools := []tool.Tool{
		NewListToolsTool(registry),
		NewSlotsTool(store),
		NewScheduleMeetingTool(store),
		NewDevelopmentPlanTool(),
		NewSearchRegulationsTool(),
	}
	for _, t := range tools {
		if err := registry.Register(t); err != nil {
			return fmt.Errorf("failed to register tool %s: %w", t.Name(), err)
		}
	}
	return nil
}
