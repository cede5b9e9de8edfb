package corp

import (
	"encoding/json"
	"errors"
	"fmt"

	"kontor/internal/rpc"
)

// Resource URIs served by the tool host
const (
	ResourceCalendarSlots   = "company://calendar/slots"
	ResourceDevelopmentPlan = "company://development/plan"
	ResourceRegulations     = "company://regulations/all"
)

// ErrUnknownResource marks a resources/read for a URI the host does not
// serve
var ErrUnknownResource = errors.New("unknown resource URI")

// ResourceCatalog reads company data by URI
type ResourceCatalog struct {
	store *CalendarStore
}

func NewResourceCatalog(store *CalendarStore) *ResourceCatalog {
	return &ResourceCatalog{store: store}
}

// List returns every resource the host serves
func (c *ResourceCatalog) List() []rpc.Resource {
	return []rpc.Resource{
		{
			URI:         ResourceCalendarSlots,
			Name:        "Available Time Slots",
			Description: "Free meeting slots for the current week",
			MimeType:    "application/json",
		},
		{
			URI:         ResourceDevelopmentPlan,
			Name:        "Development Plan",
			Description: "Individual employee development plan",
			MimeType:    "application/json",
		},
		{
			URI:         ResourceRegulations,
			Name:        "Corporate Regulations",
			Description: "Corporate policies and regulations",
			MimeType:    "application/json",
		},
	}
}

// Read returns the JSON body of one resource
func (c *ResourceCatalog) Read(uri string) (string, error) {
	var v any
	switch uri {
	case ResourceCalendarSlots:
		v = c.store.AvailableSlots()
	case ResourceDevelopmentPlan:
		v = GetDevelopmentPlan()
	case ResourceRegulations:
		v = map[string]any{"regulations": AllRegulations()}
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownResource, uri)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal resource %s: %w", uri, err)
	}
	return string(data), nil
}
