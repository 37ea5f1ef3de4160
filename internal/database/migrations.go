package database

import (
	"context"
	"fmt"

	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

// mysqlTableOptions makes usernames compare case-sensitively on MySQL
const mysqlTableOptions = " DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin"

// Migrate creates or updates the relational schema, including the indexes
// declared on the models
func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "mysql" {
		db = db.Set("gorm:table_options", mysqlTableOptions)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Task{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// mongoIndexes mirrors the indexes the gorm models declare
var mongoIndexes = []struct {
	collection string
	models     []mongo.IndexModel
}{
	{
		collection: repository.UsersCollection,
		models: []mongo.IndexModel{{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName("idx_users_username").SetUnique(true),
		}},
	},
	{
		collection: repository.TasksCollection,
		models: []mongo.IndexModel{{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_tasks_user_created"),
		}},
	},
}

// EnsureMongoIndexes creates the document store indexes. Creating an index
// that already exists with the same definition is a no-op.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	for _, idx := range mongoIndexes {
		if _, err := db.Collection(idx.collection).Indexes().CreateMany(ctx, idx.models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", idx.collection, err)
		}
	}
	return nil
}
