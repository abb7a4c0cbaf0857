package api

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"propertyhub/server/internal/catalog"
	"propertyhub/server/internal/database"
	"propertyhub/server/internal/models"
)

type MockStore struct {
	mock.Mock
}

var _ database.Store = (*MockStore)(nil)

func (m *MockStore) ListProperties(ctx context.Context, filter catalog.Filter) ([]models.Property, error) {
	args := m.Called(ctx, filter)
	properties, _ := args.Get(0).([]models.Property)
	return properties, args.Error(1)
}

func (m *MockStore) GetProperty(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Property)
	return p, args.Error(1)
}

func (m *MockStore) CreateProperty(ctx context.Context, p *models.Property) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockStore) UpdateProperty(ctx context.Context, p *models.Property) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockStore) ListDevelopers(ctx context.Context) ([]models.Developer, error) {
	args := m.Called(ctx)
	developers, _ := args.Get(0).([]models.Developer)
	return developers, args.Error(1)
}

func (m *MockStore) GetDeveloper(ctx context.Context, id primitive.ObjectID) (*models.Developer, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*models.Developer)
	return d, args.Error(1)
}

func (m *MockStore) CreateDeveloper(ctx context.Context, d *models.Developer) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockStore) UpdateDeveloper(ctx context.Context, d *models.Developer) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockStore) ListTests(ctx context.Context) ([]models.Test, error) {
	args := m.Called(ctx)
	tests, _ := args.Get(0).([]models.Test)
	return tests, args.Error(1)
}

func (m *MockStore) GetTest(ctx context.Context, id primitive.ObjectID) (*models.Test, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*models.Test)
	return t, args.Error(1)
}

func (m *MockStore) CreateTest(ctx context.Context, t *models.Test) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockStore) UpdateTest(ctx context.Context, t *models.Test) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockStore) ListTasks(ctx context.Context) ([]models.Task, error) {
	args := m.Called(ctx)
	tasks, _ := args.Get(0).([]models.Task)
	return tasks, args.Error(1)
}

func (m *MockStore) ListTasksByDeveloper(ctx context.Context, developerID string) ([]models.Task, error) {
	args := m.Called(ctx, developerID)
	tasks, _ := args.Get(0).([]models.Task)
	return tasks, args.Error(1)
}

func (m *MockStore) CreateTask(ctx context.Context, t *models.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockStore) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *MockStore) CreateUser(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockStore) Delete(ctx context.Context, kind database.Kind, id primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, kind, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) Migrate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockStore) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
