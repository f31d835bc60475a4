package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskhub/task-tracker/internal/core/domain"
	"github.com/taskhub/task-tracker/internal/core/ports"
)

const collectionTasks = "tasks"

// TaskRepository implements ports.TaskRepository using MongoDB.
type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection(collectionTasks)}
}

type taskDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	Priority    string             `bson:"priority"`
	DueDate     *time.Time         `bson:"due_date,omitempty"`
	CreatedBy   string             `bson:"created_by"`
	AssignedTo  string             `bson:"assigned_to"`
	Tags        []string           `bson:"tags"`
	Archived    bool               `bson:"archived"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func toTaskDoc(t *domain.Task) taskDoc {
	return taskDoc{
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		CreatedBy:   t.CreatedBy,
		AssignedTo:  t.AssignedTo,
		Tags:        t.Tags,
		Archived:    t.Archived,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toDomainTask(doc taskDoc) *domain.Task {
	return &domain.Task{
		ID:          doc.ID.Hex(),
		Title:       doc.Title,
		Description: doc.Description,
		Status:      domain.TaskStatus(doc.Status),
		Priority:    domain.TaskPriority(doc.Priority),
		DueDate:     doc.DueDate,
		CreatedBy:   doc.CreatedBy,
		AssignedTo:  doc.AssignedTo,
		Tags:        doc.Tags,
		Archived:    doc.Archived,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toTaskDoc(task))
	if err != nil {
		return nil, err
	}

	created := *task
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc taskDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return toDomainTask(doc), nil
}

// buildListQuery translates the filter into a Mongo query. Visibility and
// search both need an $or clause, so they are combined under $and when both
// are present.
func buildListQuery(filter ports.ListTasksFilter) bson.M {
	query := bson.M{"archived": false}
	var clauses bson.A

	if filter.VisibleTo != "" {
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"assigned_to": filter.VisibleTo},
			bson.M{"created_by": filter.VisibleTo},
		}})
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: filter.Search, Options: "i"}
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
			bson.M{"tags": pattern},
		}})
	}
	if len(clauses) == 1 {
		for k, v := range clauses[0].(bson.M) {
			query[k] = v
		}
	} else if len(clauses) > 1 {
		query["$and"] = clauses
	}

	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if filter.AssignedTo != "" {
		query["assigned_to"] = filter.AssignedTo
	}
	return query
}

func (r *TaskRepository) List(ctx context.Context, filter ports.ListTasksFilter) ([]*domain.Task, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := buildListQuery(filter)

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	sortField := filter.SortBy
	if sortField == "" {
		sortField = "created_at"
	}
	order := -1
	if filter.SortOrder == "asc" {
		order = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: order}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var tasks []*domain.Task
	for cursor.Next(ctx) {
		var doc taskDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, toDomainTask(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(task.ID)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	// created_by and created_at are immutable and deliberately absent here.
	update := bson.M{"$set": bson.M{
		"title":       task.Title,
		"description": task.Description,
		"status":      string(task.Status),
		"priority":    string(task.Priority),
		"due_date":    task.DueDate,
		"assigned_to": task.AssignedTo,
		"tags":        task.Tags,
		"archived":    task.Archived,
		"updated_at":  task.UpdatedAt,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc taskDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return toDomainTask(doc), nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// Stats aggregates task counts, optionally scoped to tasks the given subject
// created or is assigned to. Archived tasks are excluded.
func (r *TaskRepository) Stats(ctx context.Context, visibleTo string) (*ports.TaskStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{"archived": false}
	if visibleTo != "" {
		match["$or"] = bson.A{
			bson.M{"assigned_to": visibleTo},
			bson.M{"created_by": visibleTo},
		}
	}

	now := time.Now().UTC()
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"total":         bson.M{"$sum": 1},
			"pending":       bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", string(domain.StatusPending)}}, 1, 0}}},
			"in_progress":   bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", string(domain.StatusInProgress)}}, 1, 0}}},
			"completed":     bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", string(domain.StatusCompleted)}}, 1, 0}}},
			"high_priority": bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$priority", string(domain.PriorityHigh)}}, 1, 0}}},
			"overdue": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$ne": bson.A{"$due_date", nil}},
					bson.M{"$lt": bson.A{"$due_date", now}},
					bson.M{"$ne": bson.A{"$status", string(domain.StatusCompleted)}},
				}},
				1, 0,
			}}},
		}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total        int64 `bson:"total"`
		Pending      int64 `bson:"pending"`
		InProgress   int64 `bson:"in_progress"`
		Completed    int64 `bson:"completed"`
		HighPriority int64 `bson:"high_priority"`
		Overdue      int64 `bson:"overdue"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &ports.TaskStats{}, nil
	}
	row := rows[0]
	return &ports.TaskStats{
		Total:        row.Total,
		Pending:      row.Pending,
		InProgress:   row.InProgress,
		Completed:    row.Completed,
		HighPriority: row.HighPriority,
		Overdue:      row.Overdue,
	}, nil
}

// EnsureIndexes creates the indexes the task queries rely on.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_by", Value: 1}}},
		{Keys: bson.D{{Key: "assigned_to", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "archived", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
