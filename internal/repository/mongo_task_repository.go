package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/todo-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names in the document store
const (
	UsersCollection = "users"
	TasksCollection = "tasks"
)

// MongoTaskRepository is a MongoDB implementation of TaskRepository
type MongoTaskRepository struct {
	coll *mongo.Collection
}

// NewMongoTaskRepository creates a new TaskRepository backed by MongoDB
func NewMongoTaskRepository(db *mongo.Database) TaskRepository {
	return &MongoTaskRepository{coll: db.Collection(TasksCollection)}
}

func ownedTaskFilter(userID, taskID string) bson.M {
	return bson.M{"_id": taskID, "userId": userID}
}

// Create creates a new task
func (r *MongoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	_, err := r.coll.InsertOne(ctx, task)
	return translateMongoError(err)
}

// List retrieves the owner's tasks with optional filters, newest first
func (r *MongoTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query := bson.M{"userId": filter.UserID}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	if filter.Priority != nil {
		query["priority"] = *filter.Priority
	}
	if filter.Category != nil {
		query["category"] = *filter.Category
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindOwned finds a task by ID among the owner's tasks
func (r *MongoTaskRepository) FindOwned(ctx context.Context, userID, taskID string) (*models.Task, error) {
	var task models.Task
	if err := r.coll.FindOne(ctx, ownedTaskFilter(userID, taskID)).Decode(&task); err != nil {
		return nil, translateMongoError(err)
	}
	return &task, nil
}

// UpdateOwned applies the changes with a single findOneAndUpdate guarded by
// the ownership filter
func (r *MongoTaskRepository) UpdateOwned(ctx context.Context, userID, taskID string, changes TaskChanges) (*models.Task, error) {
	set := bson.M{}
	for key, value := range changes.fields() {
		set[key] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var task models.Task
	err := r.coll.FindOneAndUpdate(ctx, ownedTaskFilter(userID, taskID), bson.M{"$set": set}, opts).Decode(&task)
	if err != nil {
		return nil, translateMongoError(err)
	}
	return &task, nil
}

// DeleteOwned deletes the task under the ownership filter
func (r *MongoTaskRepository) DeleteOwned(ctx context.Context, userID, taskID string) error {
	result, err := r.coll.DeleteOne(ctx, ownedTaskFilter(userID, taskID))
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus counts the owner's tasks per status
func (r *MongoTaskRepository) CountByStatus(ctx context.Context, userID string) (map[models.TaskStatus]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "userId", Value: userID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status models.TaskStatus `bson:"_id"`
		Count  int64             `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[models.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// translateMongoError maps driver errors onto the repository sentinels
func translateMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}
