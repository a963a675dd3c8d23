package directory

import (
	"strings"

	"github.com/dalil-edge/dalil-edge/internal/hours"
)

// Category is the payload returned by the categories-by-slug endpoint.
type Category struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

func (c Category) validate() error {
	if strings.TrimSpace(c.Slug) == "" {
		return errMissingField("category", "slug")
	}
	return nil
}

// Business is the payload returned by the businesses-by-slug endpoint. The
// weekly schedule feeds the open-now evaluator; an absent schedule simply
// evaluates to closed.
type Business struct {
	ID           string               `json:"id"`
	Slug         string               `json:"slug"`
	Name         string               `json:"name"`
	LocationSlug string               `json:"location_slug"`
	WorkingHours hours.WeeklySchedule `json:"working_hours"`
}

func (b Business) validate() error {
	if strings.TrimSpace(b.Slug) == "" {
		return errMissingField("business", "slug")
	}
	return nil
}
