// Package database holds the record store: properties, developers, tasks, users and tests.
package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"propertyhub/server/internal/catalog"
	"propertyhub/server/internal/models"
)

var ErrNotFound = errors.New("record not found")

// Kind names a collection for typed deletes.
type Kind string

const (
	KindProperty  Kind = "property"
	KindDeveloper Kind = "developer"
	KindTest      Kind = "test"
)

// DeletableKinds are the collections an untyped delete is attempted against.
var DeletableKinds = []Kind{KindProperty, KindDeveloper, KindTest}

func ParseKind(s string) (Kind, error) {
	for _, k := range DeletableKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown record kind %q", s)
}

// Store is implemented by the Mongo and SQLite backends. Get and Update return
// ErrNotFound for ids that do not resolve; Delete reports whether a record was removed.
type Store interface {
	ListProperties(ctx context.Context, filter catalog.Filter) ([]models.Property, error)
	GetProperty(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	CreateProperty(ctx context.Context, p *models.Property) error
	UpdateProperty(ctx context.Context, p *models.Property) error

	ListDevelopers(ctx context.Context) ([]models.Developer, error)
	GetDeveloper(ctx context.Context, id primitive.ObjectID) (*models.Developer, error)
	CreateDeveloper(ctx context.Context, d *models.Developer) error
	UpdateDeveloper(ctx context.Context, d *models.Developer) error

	ListTests(ctx context.Context) ([]models.Test, error)
	GetTest(ctx context.Context, id primitive.ObjectID) (*models.Test, error)
	CreateTest(ctx context.Context, t *models.Test) error
	UpdateTest(ctx context.Context, t *models.Test) error

	ListTasks(ctx context.Context) ([]models.Task, error)
	ListTasksByDeveloper(ctx context.Context, developerID string) ([]models.Task, error)
	CreateTask(ctx context.Context, t *models.Task) error

	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, u *models.User) error

	Delete(ctx context.Context, kind Kind, id primitive.ObjectID) (bool, error)

	Migrate(ctx context.Context) error
	Close(ctx context.Context) error
}
