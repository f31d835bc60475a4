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

const collectionUsers = "users"

// UserRepository implements ports.UserRepository using MongoDB.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type profileDoc struct {
	Avatar      string `bson:"avatar,omitempty"`
	Department  string `bson:"department,omitempty"`
	PhoneNumber string `bson:"phone_number,omitempty"`
}

type userDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	SubjectID   string             `bson:"subject_id"`
	Email       string             `bson:"email"`
	DisplayName string             `bson:"display_name"`
	Role        string             `bson:"role"`
	Active      bool               `bson:"active"`
	LastLogin   time.Time          `bson:"last_login"`
	Profile     *profileDoc        `bson:"profile,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func toUserDoc(u *domain.User) userDoc {
	doc := userDoc{
		SubjectID:   u.SubjectID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Active:      u.Active,
		LastLogin:   u.LastLogin,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	if u.Profile != nil {
		doc.Profile = &profileDoc{
			Avatar:      u.Profile.Avatar,
			Department:  u.Profile.Department,
			PhoneNumber: u.Profile.PhoneNumber,
		}
	}
	return doc
}

func toDomainUser(doc userDoc) *domain.User {
	u := &domain.User{
		ID:          doc.ID.Hex(),
		SubjectID:   doc.SubjectID,
		Email:       doc.Email,
		DisplayName: doc.DisplayName,
		Role:        doc.Role,
		Active:      doc.Active,
		LastLogin:   doc.LastLogin,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
	if doc.Profile != nil {
		u.Profile = &domain.Profile{
			Avatar:      doc.Profile.Avatar,
			Department:  doc.Profile.Department,
			PhoneNumber: doc.Profile.PhoneNumber,
		}
	}
	return u
}

func (r *UserRepository) FindBySubject(ctx context.Context, subject string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	err := r.col.FindOne(ctx, bson.M{"subject_id": subject}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return toDomainUser(doc), nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toUserDoc(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}

	created := *user
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, subject string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"subject_id": subject},
		bson.M{"$set": bson.M{"last_login": at.UTC()}},
	)
	return err
}

func (r *UserRepository) UpdateProfile(ctx context.Context, subject string, displayName *string, profile *domain.Profile) (*domain.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if displayName != nil {
		set["display_name"] = *displayName
	}
	if profile != nil {
		set["profile"] = profileDoc{
			Avatar:      profile.Avatar,
			Department:  profile.Department,
			PhoneNumber: profile.PhoneNumber,
		}
	}
	return r.findOneAndUpdate(ctx, subject, bson.M{"$set": set})
}

func (r *UserRepository) UpdateRole(ctx context.Context, subject, role string) (*domain.User, error) {
	return r.findOneAndUpdate(ctx, subject, bson.M{
		"$set": bson.M{"role": role, "updated_at": time.Now().UTC()},
	})
}

func (r *UserRepository) SetActive(ctx context.Context, subject string, active bool) (*domain.User, error) {
	return r.findOneAndUpdate(ctx, subject, bson.M{
		"$set": bson.M{"active": active, "updated_at": time.Now().UTC()},
	})
}

func (r *UserRepository) findOneAndUpdate(ctx context.Context, subject string, update bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDoc
	err := r.col.FindOneAndUpdate(ctx, bson.M{"subject_id": subject}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return toDomainUser(doc), nil
}

func (r *UserRepository) List(ctx context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.Active != nil {
		query["active"] = *filter.Active
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: filter.Search, Options: "i"}
		query["$or"] = bson.A{
			bson.M{"display_name": pattern},
			bson.M{"email": pattern},
		}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var users []*domain.User
	for cursor.Next(ctx) {
		var doc userDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, err
		}
		users = append(users, toDomainUser(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) Delete(ctx context.Context, subject string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"subject_id": subject})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Stats computes aggregate user counts in a single pipeline pass.
func (r *UserRepository) Stats(ctx context.Context) (*ports.UserStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"total":    bson.M{"$sum": 1},
			"active":   bson.M{"$sum": bson.M{"$cond": bson.A{"$active", 1, 0}}},
			"inactive": bson.M{"$sum": bson.M{"$cond": bson.A{"$active", 0, 1}}},
			"admins":   bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$role", domain.RoleAdmin}}, 1, 0}}},
			"managers": bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$role", domain.RoleManager}}, 1, 0}}},
			"users":    bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$role", domain.RoleUser}}, 1, 0}}},
		}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total    int64 `bson:"total"`
		Active   int64 `bson:"active"`
		Inactive int64 `bson:"inactive"`
		Admins   int64 `bson:"admins"`
		Managers int64 `bson:"managers"`
		Users    int64 `bson:"users"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &ports.UserStats{}, nil
	}
	row := rows[0]
	return &ports.UserStats{
		Total:    row.Total,
		Active:   row.Active,
		Inactive: row.Inactive,
		Admins:   row.Admins,
		Managers: row.Managers,
		Users:    row.Users,
	}, nil
}

func (r *UserRepository) Recent(ctx context.Context, limit int) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*domain.User
	for cursor.Next(ctx) {
		var doc userDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		users = append(users, toDomainUser(doc))
	}
	return users, cursor.Err()
}

// EnsureIndexes creates the indexes the user queries rely on. Subject and
// email uniqueness back the directory invariants.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "subject_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
		{Keys: bson.D{{Key: "active", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
