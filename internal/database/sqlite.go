package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"propertyhub/server/internal/catalog"
	"propertyhub/server/internal/models"
)

// document is one record stored as JSON. Ref carries the single foreign reference a
// collection is queried by (the developer id of a task).
type document[T any] struct {
	ID        string `gorm:"primaryKey;size:24"`
	Ref       string `gorm:"size:24"`
	Body      datatypes.JSONType[T]
	CreatedAt time.Time
	UpdatedAt time.Time
}

type table[T any] struct {
	db   *gorm.DB
	name string
}

func (t table[T]) scope(ctx context.Context) *gorm.DB {
	return t.db.WithContext(ctx).Table(t.name)
}

func (t table[T]) migrate() error {
	if err := t.db.Table(t.name).AutoMigrate(&document[T]{}); err != nil {
		return err
	}
	return t.db.Exec(fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_ref ON %s(ref)", t.name, t.name)).Error
}

func (t table[T]) list(ctx context.Context, where ...any) ([]T, error) {
	var docs []document[T]
	query := t.scope(ctx).Order("created_at, id")
	if len(where) > 0 {
		query = query.Where(where[0], where[1:]...)
	}
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Body.Data())
	}
	return out, nil
}

func (t table[T]) get(ctx context.Context, id primitive.ObjectID) (*T, error) {
	var doc document[T]
	err := t.scope(ctx).Where("id = ?", id.Hex()).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	v := doc.Body.Data()
	return &v, nil
}

func (t table[T]) insert(ctx context.Context, id primitive.ObjectID, ref string, created time.Time, v T) error {
	doc := document[T]{
		ID:        id.Hex(),
		Ref:       ref,
		Body:      datatypes.NewJSONType(v),
		CreatedAt: created,
		UpdatedAt: created,
	}
	return t.scope(ctx).Create(&doc).Error
}

func (t table[T]) replace(ctx context.Context, id primitive.ObjectID, updated time.Time, v T) error {
	res := t.scope(ctx).Where("id = ?", id.Hex()).Updates(map[string]any{
		"body":       datatypes.NewJSONType(v),
		"updated_at": updated,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (t table[T]) delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res := t.scope(ctx).Where("id = ?", id.Hex()).Delete(&document[T]{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SQLiteStore keeps each collection as a table of JSON documents.
type SQLiteStore struct {
	db         *gorm.DB
	logger     *logrus.Logger
	properties table[models.Property]
	developers table[models.Developer]
	tasks      table[models.Task]
	users      table[models.User]
	tests      table[models.Test]
}

func NewSQLiteStore(dbPath string, log *logrus.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite allows a single writer; concurrent deletes would otherwise fail with SQLITE_BUSY
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	log.Infof("Using database at: %s", dbPath)
	return &SQLiteStore{
		db:         db,
		logger:     log,
		properties: table[models.Property]{db: db, name: propertiesCollection},
		developers: table[models.Developer]{db: db, name: developersCollection},
		tasks:      table[models.Task]{db: db, name: tasksCollection},
		users:      table[models.User]{db: db, name: usersCollection},
		tests:      table[models.Test]{db: db, name: testsCollection},
	}, nil
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	steps := []struct {
		name    string
		migrate func() error
	}{
		{propertiesCollection, s.properties.migrate},
		{developersCollection, s.developers.migrate},
		{tasksCollection, s.tasks.migrate},
		{usersCollection, s.users.migrate},
		{testsCollection, s.tests.migrate},
	}
	for _, step := range steps {
		if err := step.migrate(); err != nil {
			return fmt.Errorf("failed to migrate %s table: %w", step.name, err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ListProperties filters in memory: categories and descriptions live inside the JSON body.
func (s *SQLiteStore) ListProperties(ctx context.Context, filter catalog.Filter) ([]models.Property, error) {
	properties, err := s.properties.list(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return filter.Apply(properties), nil
}

func (s *SQLiteStore) GetProperty(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	return s.properties.get(ctx, id)
}

func (s *SQLiteStore) CreateProperty(ctx context.Context, p *models.Property) error {
	stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err := s.properties.insert(ctx, p.ID, p.By, p.CreatedAt, *p); err != nil {
		return fmt.Errorf("failed to insert property: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateProperty(ctx context.Context, p *models.Property) error {
	p.UpdatedAt = time.Now().UTC()
	return s.properties.replace(ctx, p.ID, p.UpdatedAt, *p)
}

func (s *SQLiteStore) ListDevelopers(ctx context.Context) ([]models.Developer, error) {
	developers, err := s.developers.list(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list developers: %w", err)
	}
	return developers, nil
}

func (s *SQLiteStore) GetDeveloper(ctx context.Context, id primitive.ObjectID) (*models.Developer, error) {
	return s.developers.get(ctx, id)
}

func (s *SQLiteStore) CreateDeveloper(ctx context.Context, d *models.Developer) error {
	stamp(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err := s.developers.insert(ctx, d.ID, "", d.CreatedAt, *d); err != nil {
		return fmt.Errorf("failed to insert developer: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateDeveloper(ctx context.Context, d *models.Developer) error {
	d.UpdatedAt = time.Now().UTC()
	return s.developers.replace(ctx, d.ID, d.UpdatedAt, *d)
}

func (s *SQLiteStore) ListTests(ctx context.Context) ([]models.Test, error) {
	tests, err := s.tests.list(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tests: %w", err)
	}
	return tests, nil
}

func (s *SQLiteStore) GetTest(ctx context.Context, id primitive.ObjectID) (*models.Test, error) {
	return s.tests.get(ctx, id)
}

func (s *SQLiteStore) CreateTest(ctx context.Context, t *models.Test) error {
	stamp(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err := s.tests.insert(ctx, t.ID, "", t.CreatedAt, *t); err != nil {
		return fmt.Errorf("failed to insert test: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateTest(ctx context.Context, t *models.Test) error {
	t.UpdatedAt = time.Now().UTC()
	return s.tests.replace(ctx, t.ID, t.UpdatedAt, *t)
}

func (s *SQLiteStore) ListTasks(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.tasks.list(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *SQLiteStore) ListTasksByDeveloper(ctx context.Context, developerID string) ([]models.Task, error) {
	tasks, err := s.tasks.list(ctx, "ref = ?", developerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for developer %s: %w", developerID, err)
	}
	return tasks, nil
}

func (s *SQLiteStore) CreateTask(ctx context.Context, t *models.Task) error {
	var updated time.Time
	stamp(&t.ID, &t.CreatedAt, &updated)
	if err := s.tasks.insert(ctx, t.ID, t.DeveloperID, t.CreatedAt, *t); err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.list(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *SQLiteStore) CreateUser(ctx context.Context, u *models.User) error {
	var updated time.Time
	stamp(&u.ID, &u.CreatedAt, &updated)
	if err := s.users.insert(ctx, u.ID, "", u.CreatedAt, *u); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, kind Kind, id primitive.ObjectID) (bool, error) {
	switch kind {
	case KindProperty:
		return s.properties.delete(ctx, id)
	case KindDeveloper:
		return s.developers.delete(ctx, id)
	case KindTest:
		return s.tests.delete(ctx, id)
	default:
		return false, fmt.Errorf("unknown record kind %q", kind)
	}
}
