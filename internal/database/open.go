package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"propertyhub/server/config"
)

// Open connects the backend selected by DB_DRIVER.
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (Store, error) {
	switch cfg.Database.Driver {
	case "mongo":
		return NewMongoStore(ctx, cfg.Database.MongoURI, cfg.Database.MongoDatabase, logger)
	case "sqlite":
		return NewSQLiteStore(cfg.Database.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}
