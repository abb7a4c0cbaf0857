package catalog

import (
	"strings"

	"propertyhub/server/internal/models"
)

// Filter is the listing query of the root page.
type Filter struct {
	// Categories match when a property carries any of them
	Categories []string
	// Search is a case-insensitive substring of the name or the description
	Search string
}

// ParseFilter builds a filter from the raw "categories" and "search" query values.
func ParseFilter(categories, search string) Filter {
	var f Filter
	for _, c := range strings.Split(categories, ",") {
		if c = strings.TrimSpace(c); c != "" {
			f.Categories = append(f.Categories, c)
		}
	}
	f.Search = strings.TrimSpace(search)
	return f
}

func (f Filter) IsZero() bool {
	return len(f.Categories) == 0 && f.Search == ""
}

// Matches applies both conditions; an empty condition always holds.
func (f Filter) Matches(p *models.Property) bool {
	if len(f.Categories) > 0 {
		allowed := false
		for _, c := range f.Categories {
			if p.HasCategory(c) {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}

	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}

	return true
}

// Apply returns the matching properties in their original order.
func (f Filter) Apply(properties []models.Property) []models.Property {
	if f.IsZero() {
		return properties
	}
	matched := make([]models.Property, 0, len(properties))
	for i := range properties {
		if f.Matches(&properties[i]) {
			matched = append(matched, properties[i])
		}
	}
	return matched
}

// SearchByName returns the properties whose name contains query, ignoring case.
func SearchByName(properties []models.Property, query string) []models.Property {
	needle := strings.ToLower(strings.TrimSpace(query))
	matched := make([]models.Property, 0)
	if needle == "" {
		return matched
	}
	for _, p := range properties {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			matched = append(matched, p)
		}
	}
	return matched
}
