package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"propertyhub/server/internal/catalog"
	"propertyhub/server/internal/models"
)

const (
	propertiesCollection = "properties"
	developersCollection = "developers"
	tasksCollection      = "tasks"
	usersCollection      = "users"
	testsCollection      = "tests"
)

var kindCollections = map[Kind]string{
	KindProperty:  propertiesCollection,
	KindDeveloper: developersCollection,
	KindTest:      testsCollection,
}

type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	logger *logrus.Logger
}

func NewMongoStore(ctx context.Context, uri, dbName string, logger *logrus.Logger) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.WithField("database", dbName).Info("MongoDB connected successfully")
	return &MongoStore{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
	}, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Migrate creates the secondary indexes used by listing and lookup queries.
func (s *MongoStore) Migrate(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		propertiesCollection: {
			{Keys: bson.D{{Key: "categories", Value: 1}}},
			{Keys: bson.D{{Key: "by", Value: 1}}},
		},
		tasksCollection: {
			{Keys: bson.D{{Key: "developerId", Value: 1}}},
		},
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
	}

	for collection, idx := range indexes {
		if _, err := s.db.Collection(collection).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}

// propertyFilter translates a listing filter into a query. Search text is matched
// literally, not as a pattern.
func propertyFilter(f catalog.Filter) bson.M {
	filter := bson.M{}
	if len(f.Categories) > 0 {
		filter["categories"] = bson.M{"$in": f.Categories}
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}
	}
	return filter
}

func findAll[T any](ctx context.Context, c *mongo.Collection, filter any) ([]T, error) {
	cursor, err := c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func findOne[T any](ctx context.Context, c *mongo.Collection, id primitive.ObjectID) (*T, error) {
	var out T
	err := c.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func replaceOne(ctx context.Context, c *mongo.Collection, id primitive.ObjectID, doc any) error {
	res, err := c.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) ListProperties(ctx context.Context, filter catalog.Filter) ([]models.Property, error) {
	properties, err := findAll[models.Property](ctx, s.db.Collection(propertiesCollection), propertyFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

func (s *MongoStore) GetProperty(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	return findOne[models.Property](ctx, s.db.Collection(propertiesCollection), id)
}

func (s *MongoStore) CreateProperty(ctx context.Context, p *models.Property) error {
	stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if _, err := s.db.Collection(propertiesCollection).InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to insert property: %w", err)
	}
	return nil
}

func (s *MongoStore) UpdateProperty(ctx context.Context, p *models.Property) error {
	p.UpdatedAt = time.Now().UTC()
	return replaceOne(ctx, s.db.Collection(propertiesCollection), p.ID, p)
}

func (s *MongoStore) ListDevelopers(ctx context.Context) ([]models.Developer, error) {
	developers, err := findAll[models.Developer](ctx, s.db.Collection(developersCollection), bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list developers: %w", err)
	}
	return developers, nil
}

func (s *MongoStore) GetDeveloper(ctx context.Context, id primitive.ObjectID) (*models.Developer, error) {
	return findOne[models.Developer](ctx, s.db.Collection(developersCollection), id)
}

func (s *MongoStore) CreateDeveloper(ctx context.Context, d *models.Developer) error {
	stamp(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if _, err := s.db.Collection(developersCollection).InsertOne(ctx, d); err != nil {
		return fmt.Errorf("failed to insert developer: %w", err)
	}
	return nil
}

func (s *MongoStore) UpdateDeveloper(ctx context.Context, d *models.Developer) error {
	d.UpdatedAt = time.Now().UTC()
	return replaceOne(ctx, s.db.Collection(developersCollection), d.ID, d)
}

func (s *MongoStore) ListTests(ctx context.Context) ([]models.Test, error) {
	tests, err := findAll[models.Test](ctx, s.db.Collection(testsCollection), bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tests: %w", err)
	}
	return tests, nil
}

func (s *MongoStore) GetTest(ctx context.Context, id primitive.ObjectID) (*models.Test, error) {
	return findOne[models.Test](ctx, s.db.Collection(testsCollection), id)
}

func (s *MongoStore) CreateTest(ctx context.Context, t *models.Test) error {
	stamp(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if _, err := s.db.Collection(testsCollection).InsertOne(ctx, t); err != nil {
		return fmt.Errorf("failed to insert test: %w", err)
	}
	return nil
}

func (s *MongoStore) UpdateTest(ctx context.Context, t *models.Test) error {
	t.UpdatedAt = time.Now().UTC()
	return replaceOne(ctx, s.db.Collection(testsCollection), t.ID, t)
}

func (s *MongoStore) ListTasks(ctx context.Context) ([]models.Task, error) {
	tasks, err := findAll[models.Task](ctx, s.db.Collection(tasksCollection), bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *MongoStore) ListTasksByDeveloper(ctx context.Context, developerID string) ([]models.Task, error) {
	tasks, err := findAll[models.Task](ctx, s.db.Collection(tasksCollection), bson.M{"developerId": developerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for developer %s: %w", developerID, err)
	}
	return tasks, nil
}

func (s *MongoStore) CreateTask(ctx context.Context, t *models.Task) error {
	var updated time.Time
	stamp(&t.ID, &t.CreatedAt, &updated)
	if _, err := s.db.Collection(tasksCollection).InsertOne(ctx, t); err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := findAll[models.User](ctx, s.db.Collection(usersCollection), bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *MongoStore) CreateUser(ctx context.Context, u *models.User) error {
	var updated time.Time
	stamp(&u.ID, &u.CreatedAt, &updated)
	if _, err := s.db.Collection(usersCollection).InsertOne(ctx, u); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, kind Kind, id primitive.ObjectID) (bool, error) {
	collection, ok := kindCollections[kind]
	if !ok {
		return false, fmt.Errorf("unknown record kind %q", kind)
	}
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// stamp assigns a fresh id when none is set and initializes both timestamps.
func stamp(id *primitive.ObjectID, created, updated *time.Time) {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}
