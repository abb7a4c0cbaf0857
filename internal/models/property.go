package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Listing bucket tags. A property carries any number of them in Categories.
const (
	TagTrending    = "Trending"
	TagUltraLuxury = "Ultra luxury"
	TagLuxury      = "Luxury Project"
	TagPremium     = "Premium Project"
	TagAffordable  = "Affordable Project"
)

// Bounds for the ordered asset sequences of a property.
const (
	MaxPoints        = 10
	MaxLogos         = 10
	MaxFloorPlans    = 10
	MaxPDFs          = 4
	MaxVirtualImages = 8
	MaxVirtualVideos = 3
)

// Asset is an uploaded file with an optional caption.
type Asset struct {
	Path    string `bson:"path" json:"path"`
	Caption string `bson:"caption" json:"caption"`
}

type Property struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Name string `bson:"name" json:"name"`
	// By holds the developer id. Existence is only checked when the property is created.
	By            string     `bson:"by" json:"by"`
	Location      string     `bson:"location" json:"location"`
	Price         string     `bson:"price" json:"price"`
	Status        string     `bson:"status" json:"status"`
	Configuration string     `bson:"configuration" json:"configuration"`
	Possession    *time.Time `bson:"possession,omitempty" json:"possession,omitempty"`
	Units         string     `bson:"units" json:"units"`
	Land          string     `bson:"land" json:"land"`
	Residence     string     `bson:"residence" json:"residence"`
	Builtup       string     `bson:"builtup" json:"builtup"`
	Blocks        string     `bson:"blocks" json:"blocks"`
	Floor         string     `bson:"floor" json:"floor"`
	NoOfUnits     string     `bson:"noofunits" json:"noofunits"`
	Description   string     `bson:"description" json:"description"`
	UnitType      string     `bson:"unitytype" json:"unitytype"`
	Size          string     `bson:"size" json:"size"`
	Range         string     `bson:"range" json:"range"`
	Booking       string     `bson:"booking" json:"booking"`
	Token         string     `bson:"token" json:"token"`
	Plans         string     `bson:"plans" json:"plans"`
	Amenities     string     `bson:"amenities" json:"amenities"`
	Virtual       string     `bson:"virtual" json:"virtual"`
	Payment       string     `bson:"payment" json:"payment"`

	Points        []string `bson:"points" json:"points"`
	Logos         []Asset  `bson:"logos" json:"logos"`
	FloorPlans    []string `bson:"floorImgs" json:"floor_plans"`
	PDFs          []string `bson:"pdfs" json:"pdfs"`
	VirtualImages []string `bson:"virtualImgs" json:"virtual_images"`
	VirtualVideos []string `bson:"virtualVids" json:"virtual_videos"`

	ImageURL string `bson:"imageUrl" json:"image_url"`
	Icon     string `bson:"icon" json:"icon"`
	Rera     string `bson:"rera" json:"rera"`

	Categories []string `bson:"categories" json:"categories"`

	CreatedAt time.Time `bson:"createdat" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedat" json:"updated_at"`
}

// HasCategory reports whether the property carries exactly the given tag.
func (p *Property) HasCategory(tag string) bool {
	for _, c := range p.Categories {
		if c == tag {
			return true
		}
	}
	return false
}

// Validate checks the bounded sequences. Presence of other fields is not enforced.
func (p *Property) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}

	bounds := []struct {
		field string
		n     int
		max   int
	}{
		{"points", len(p.Points), MaxPoints},
		{"logos", len(p.Logos), MaxLogos},
		{"floor plans", len(p.FloorPlans), MaxFloorPlans},
		{"pdfs", len(p.PDFs), MaxPDFs},
		{"virtual images", len(p.VirtualImages), MaxVirtualImages},
		{"virtual videos", len(p.VirtualVideos), MaxVirtualVideos},
	}
	for _, b := range bounds {
		if b.n > b.max {
			return fmt.Errorf("%w: %d %s, at most %d allowed", ErrTooManyItems, b.n, b.field, b.max)
		}
	}
	return nil
}
