package corp

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestResourceCatalogList(t *testing.T) {
	catalog := NewResourceCatalog(NewCalendarStore())

	resources := catalog.List()
	if len(resources) != 3 {
		t.Fatalf("expected 3 resources, got %d", len(resources))
	}
	for _, r := range resources {
		if r.URI == "" || r.Name == "" || r.MimeType != "application/json" {
			t.Errorf("incomplete resource entry: %+v", r)
		}
	}
}

func TestResourceCatalogRead(t *testing.T) {
	catalog := NewResourceCatalog(NewCalendarStore())

	for _, uri := range []string{
		ResourceCalendarSlots,
		ResourceDevelopmentPlan,
		ResourceRegulations,
	} {
		body, err := catalog.Read(uri)
		if err != nil {
			t.Errorf("Read(%s) failed: %v", uri, err)
			continue
		}
		if !json.Valid([]byte(body)) {
			t.Errorf("Read(%s) returned invalid JSON", uri)
		}
	}
}

func TestResourceCatalogReadUnknown(t *testing.T) {
	catalog := NewResourceCatalog(NewCalendarStore())

	_, err := catalog.Read("company://nope")
	if !errors.Is(err, ErrUnknownResource) {
		t.Errorf("expected ErrUnknownResource, got %v", err)
	}
}

func TestPromptCatalogList(t *testing.T) {
	catalog := NewPromptCatalog()

	prompts := catalog.List()
	if len(prompts) != 2 {
		t.Fatalf("expected 2 prompts, got %d", len(prompts))
	}
	if prompts[0].Name != "career_advice" || prompts[1].Name != "meeting_agenda" {
		t.Errorf("unexpected prompt names: %+v", prompts)
	}
}

func TestPromptCatalogGet(t *testing.T) {
	catalog := NewPromptCatalog()

	result, err := catalog.Get("career_advice", map[string]string{
		"current_role": "junior developer",
		"goal":         "become a middle developer",
	})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(result.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(result.Messages))
	}
	if result.Messages[0].Role != "system" || result.Messages[1].Role != "user" {
		t.Errorf("unexpected roles: %+v", result.Messages)
	}
}

func TestPromptCatalogGetDefaultParticipants(t *testing.T) {
	catalog := NewPromptCatalog()

	result, err := catalog.Get("meeting_agenda", map[string]string{
		"meeting_type": "retrospective",
	})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	last := result.Messages[len(result.Messages)-1]
	if last.Content == "" {
		t.Error("expected rendered user message")
	}
}

func TestPromptCatalogGetUnknown(t *testing.T) {
	catalog := NewPromptCatalog()

	_, err := catalog.Get("nope", nil)
	if !errors.Is(err, ErrUnknownPrompt) {
		t.Errorf("expected ErrUnknownPrompt, got %v", err)
	}
}
