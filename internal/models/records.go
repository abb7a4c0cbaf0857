package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task is a piece of developer detail shown on the developer page.
type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DeveloperID string             `bson:"developerId" json:"developer_id"`
	Title       string             `bson:"title" json:"title"`
	Details     string             `bson:"details" json:"details"`
	CreatedAt   time.Time          `bson:"createdat" json:"created_at"`
}

// User is a visitor who left contact details.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Number    string             `bson:"number" json:"number"`
	CreatedAt time.Time          `bson:"createdat" json:"created_at"`
}

func (u *User) Validate() error {
	if u.Name == "" || u.Email == "" || u.Number == "" {
		return ErrMissingFields
	}
	return nil
}

// Test is a free-form showcase record managed from the dashboard.
type Test struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Logo            string             `bson:"logo" json:"logo"`
	Name            string             `bson:"name" json:"name"`
	LongDescription string             `bson:"longDescription" json:"long_description"`
	CityPresent     string             `bson:"cityPresent" json:"city_present"`
	CreatedAt       time.Time          `bson:"createdat" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updatedat" json:"updated_at"`
}
