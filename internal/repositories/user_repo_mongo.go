package repositories

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/BradenHooton/emporium/internal/database"
	"github.com/BradenHooton/emporium/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Name         string             `bson:"name"`
	Role         string             `bson:"role"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (d userDocument) toModel() *models.User {
	return &models.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Name:         d.Name,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// MongoUserRepository stores users in the users collection.
type MongoUserRepository struct {
	c   *mongo.Collection
	now func() time.Time
}

func NewMongoUserRepository(db *database.MongoDB) *MongoUserRepository {
	return &MongoUserRepository{c: db.DB.Collection(database.UsersCollection), now: time.Now}
}

// objectID parses a hex id. A malformed id cannot name a document, so it
// reads as not found.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, models.ErrNotFound
	}
	return oid, nil
}

// listOptions builds the sort, skip and limit options for a page.
// _id is a tiebreaker so pages stay stable across equal sort keys.
func listOptions(q models.ListQuery, key string, desc bool) *options.FindOptions {
	dir := 1
	if desc {
		dir = -1
	}
	return options.Find().
		SetSort(bson.D{{Key: key, Value: dir}, {Key: "_id", Value: 1}}).
		SetSkip(int64(q.Offset())).
		SetLimit(int64(q.PageSize))
}

// searchFilter matches key case-insensitively as a literal substring.
func searchFilter(key, value string) bson.M {
	if key == "" {
		return bson.M{}
	}
	return bson.M{key: primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}}
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	if err := r.c.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, database.MapMongoError(err)
	}
	return doc.toModel(), nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) List(ctx context.Context, q models.ListQuery) ([]*models.User, int64, error) {
	filter := searchFilter(resolveSearch(q, userSearchFields), q.SearchValue)

	total, err := r.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	key, desc := resolveSort(q, userSortFields, defaultUserSort)
	cur, err := r.c.Find(ctx, filter, listOptions(q, key, desc))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]*models.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toModel())
	}
	return users, total, nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	now := r.now().UTC().Truncate(time.Millisecond)
	doc := userDocument{
		ID:           primitive.NewObjectID(),
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Name:         user.Name,
		Role:         user.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if doc.Role == "" {
		doc.Role = models.RoleUser
	}

	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		return nil, database.MapMongoError(err)
	}
	return doc.toModel(), nil
}

func (r *MongoUserRepository) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"name":       upd.Name,
		"email":      upd.Email,
		"updated_at": r.now().UTC().Truncate(time.Millisecond),
	}

	var doc userDocument
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, database.MapMongoError(err)
	}
	return doc.toModel(), nil
}

func (r *MongoUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := r.c.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"password_hash": passwordHash,
		"updated_at":    r.now().UTC().Truncate(time.Millisecond),
	}})
	if err != nil {
		return database.MapMongoError(err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := r.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return database.MapMongoError(err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
