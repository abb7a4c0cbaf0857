package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Developer struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Logo             string             `bson:"logo" json:"logo"`
	Established      string             `bson:"established" json:"established"`
	Project          int                `bson:"project" json:"project"`
	ShortDescription string             `bson:"shortDescription" json:"short_description"`
	LongDescription  string             `bson:"longDescription" json:"long_description"`
	OngoingProjects  []string           `bson:"ongoingProjects" json:"ongoing_projects"`
	CityPresent      []string           `bson:"cityPresent" json:"city_present"`
	CreatedAt        time.Time          `bson:"createdat" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updatedat" json:"updated_at"`
}

func (d *Developer) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrNameRequired
	}
	return nil
}
