package database

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/yukikurage/todo-api/internal/config"
	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Store bundles the repositories of one backend
type Store struct {
	Users repository.UserRepository
	Tasks repository.TaskRepository

	close func(ctx context.Context) error
}

// Open connects the backend selected by cfg.StoreDriver and prepares its
// schema or indexes
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Store, error) {
	if cfg.StoreDriver == constants.StoreDriverMongo {
		client, err := ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}

		db := client.Database(cfg.MongoDatabase)
		if err := EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}

		logger.Info("Document store connection established", "database", cfg.MongoDatabase)
		return NewMongoStore(client, db), nil
	}

	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := Connect(dialector, LogLevel(cfg.GinMode))
	if err != nil {
		return nil, err
	}
	logger.Info("Database connection established", "driver", cfg.StoreDriver)

	logger.Info("Running database migrations...")
	store, err := migrateStore(db)
	if err != nil {
		return nil, err
	}
	logger.Info("Database migrations completed")

	return store, nil
}

// migrateStore runs the migrations and wraps db, closing the connection
// when the schema cannot be prepared
func migrateStore(db *gorm.DB) (*Store, error) {
	if err := Migrate(db); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	return NewGormStore(db)
}

// NewGormStore wraps an open gorm connection
func NewGormStore(db *gorm.DB) (*Store, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}

	return &Store{
		Users: repository.NewUserRepository(db),
		Tasks: repository.NewTaskRepository(db),
		close: func(context.Context) error {
			return sqlDB.Close()
		},
	}, nil
}

// NewMongoStore wraps a connected MongoDB client
func NewMongoStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		Users: repository.NewMongoUserRepository(db),
		Tasks: repository.NewMongoTaskRepository(db),
		close: client.Disconnect,
	}
}

// Close releases the underlying connection pool
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
