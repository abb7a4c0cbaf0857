// Package catalog groups and filters property listings for display.
package catalog

import "propertyhub/server/internal/models"

// Buckets holds the five listing sections. A property can sit in several of them or in none.
type Buckets struct {
	Trending   []models.Property `json:"trending"`
	Ultra      []models.Property `json:"ultra"`
	Luxury     []models.Property `json:"luxury"`
	Premium    []models.Property `json:"premium"`
	Affordable []models.Property `json:"affordable"`
}

// Bucket places every property into each bucket whose tag it carries, keeping input order.
// Unknown tags are ignored.
func Bucket(properties []models.Property) Buckets {
	b := Buckets{
		Trending:   []models.Property{},
		Ultra:      []models.Property{},
		Luxury:     []models.Property{},
		Premium:    []models.Property{},
		Affordable: []models.Property{},
	}

	for _, p := range properties {
		if p.HasCategory(models.TagTrending) {
			b.Trending = append(b.Trending, p)
		}
		if p.HasCategory(models.TagUltraLuxury) {
			b.Ultra = append(b.Ultra, p)
		}
		if p.HasCategory(models.TagLuxury) {
			b.Luxury = append(b.Luxury, p)
		}
		if p.HasCategory(models.TagPremium) {
			b.Premium = append(b.Premium, p)
		}
		if p.HasCategory(models.TagAffordable) {
			b.Affordable = append(b.Affordable, p)
		}
	}
	return b
}

// Len returns the number of bucket placements, counting a property once per bucket.
func (b Buckets) Len() int {
	return len(b.Trending) + len(b.Ultra) + len(b.Luxury) + len(b.Premium) + len(b.Affordable)
}

// ByKey returns the bucket named by key ("trending", "ultra", "luxury", "premium",
// "affordable"), or nil for any other key.
func (b Buckets) ByKey(key string) []models.Property {
	switch key {
	case "trending":
		return b.Trending
	case "ultra":
		return b.Ultra
	case "luxury":
		return b.Luxury
	case "premium":
		return b.Premium
	case "affordable":
		return b.Affordable
	}
	return nil
}
