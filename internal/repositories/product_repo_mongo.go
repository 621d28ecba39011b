package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/BradenHooton/emporium/internal/database"
	"github.com/BradenHooton/emporium/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type productDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"product_name"`
	Price     float64            `bson:"product_price"`
	Stock     int                `bson:"product_stock"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d productDocument) toModel() *models.Product {
	return &models.Product{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Price:     d.Price,
		Stock:     d.Stock,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// MongoProductRepository stores products in the products collection.
type MongoProductRepository struct {
	c   *mongo.Collection
	now func() time.Time
}

func NewMongoProductRepository(db *database.MongoDB) *MongoProductRepository {
	return &MongoProductRepository{c: db.DB.Collection(database.ProductsCollection), now: time.Now}
}

func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc productDocument
	if err := r.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, database.MapMongoError(err)
	}
	return doc.toModel(), nil
}

func (r *MongoProductRepository) List(ctx context.Context, q models.ListQuery) ([]*models.Product, int64, error) {
	filter := searchFilter(resolveSearch(q, productSearchFields), q.SearchValue)

	total, err := r.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	key, desc := resolveSort(q, productSortFields, defaultProductSort)
	cur, err := r.c.Find(ctx, filter, listOptions(q, key, desc))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer cur.Close(ctx)

	var docs []productDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]*models.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.toModel())
	}
	return products, total, nil
}

func (r *MongoProductRepository) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	now := r.now().UTC().Truncate(time.Millisecond)
	doc := productDocument{
		ID:        primitive.NewObjectID(),
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		return nil, database.MapMongoError(err)
	}
	return doc.toModel(), nil
}

func (r *MongoProductRepository) Update(ctx context.Context, id string, upd models.ProductUpdate) (*models.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"product_price": upd.Price,
		"product_stock": upd.Stock,
		"updated_at":    r.now().UTC().Truncate(time.Millisecond),
	}

	var doc productDocument
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, database.MapMongoError(err)
	}
	return doc.toModel(), nil
}

func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
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
