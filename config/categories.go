package config

import "propertyhub/server/internal/models"

// Category describes one listing bucket as shown on the listing page.
type Category struct {
	Key   string `json:"key"`
	Tag   string `json:"tag"`
	Title string `json:"title"`
}

// ListingCategories is the fixed, ordered set of buckets a property can be shown under.
var ListingCategories = []Category{
	{Key: "trending", Tag: models.TagTrending, Title: "Trending Projects"},
	{Key: "ultra", Tag: models.TagUltraLuxury, Title: "Ultra Luxury"},
	{Key: "luxury", Tag: models.TagLuxury, Title: "Luxury Projects"},
	{Key: "premium", Tag: models.TagPremium, Title: "Premium Projects"},
	{Key: "affordable", Tag: models.TagAffordable, Title: "Affordable Projects"},
}

// GetCategoryTags returns the tag strings of all listing categories
func GetCategoryTags() []string {
	tags := make([]string, len(ListingCategories))
	for i, category := range ListingCategories {
		tags[i] = category.Tag
	}
	return tags
}

// GetCategoryByKey returns a category by its bucket key
func GetCategoryByKey(key string) *Category {
	for _, category := range ListingCategories {
		if category.Key == key {
			return &category
		}
	}
	return nil
}
