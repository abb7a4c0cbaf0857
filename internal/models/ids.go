package models

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidID     = errors.New("invalid id")
	ErrNameRequired  = errors.New("name is required")
	ErrMissingFields = errors.New("all fields are required")
	ErrTooManyItems  = errors.New("too many items")
)

// ParseID converts a 24 character hex id as used in URLs.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

func ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}
