package odm

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	apperrors "github.com/allisson/users/internal/errors"
)

// ErrInvalidID indicates an identifier that is not a valid ObjectID.
var ErrInvalidID = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid object id")

// Collection maps documents of type T to a MongoDB collection. Lookups that
// match nothing return a nil document and a nil error.
type Collection[T any] struct {
	collection *mongo.Collection
	model      Model
}

// NewCollection binds model to db.
func NewCollection[T any](db *mongo.Database, model Model) *Collection[T] {
	return &Collection[T]{
		collection: db.Collection(model.Collection),
		model:      model,
	}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.model.Collection
}

// Save inserts doc and returns the stored document.
func (c *Collection[T]) Save(ctx context.Context, doc *T) (*T, error) {
	result, err := c.collection.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	return c.findOne(ctx, bson.D{{Key: "_id", Value: result.InsertedID}})
}

// FindByID returns the document with the given hex id.
func (c *Collection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return c.findOne(ctx, bson.D{{Key: "_id", Value: objectID}})
}

// UpdateByID sets the fields of update on the document and returns it as
// stored after the write.
func (c *Collection[T]) UpdateByID(ctx context.Context, id string, update any) (*T, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	result := c.collection.FindOneAndUpdate(
		ctx,
		bson.D{{Key: "_id", Value: objectID}},
		bson.D{{Key: "$set", Value: update}},
		opts,
	)
	return decode[T](result)
}

// DeleteByID removes the document and returns it as it was before removal.
func (c *Collection[T]) DeleteByID(ctx context.Context, id string) (*T, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return decode[T](c.collection.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: objectID}}))
}

// EnsureIndexes creates the indexes declared by the model.
func (c *Collection[T]) EnsureIndexes(ctx context.Context) error {
	if len(c.model.Indexes) == 0 {
		return nil
	}
	if _, err := c.collection.Indexes().CreateMany(ctx, c.model.Indexes); err != nil {
		return fmt.Errorf("failed to create indexes on %s: %w", c.model.Collection, err)
	}
	return nil
}

func (c *Collection[T]) findOne(ctx context.Context, filter bson.D) (*T, error) {
	return decode[T](c.collection.FindOne(ctx, filter))
}

func decode[T any](result *mongo.SingleResult) (*T, error) {
	var doc T
	if err := result.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func parseID(id string) (bson.ObjectID, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, apperrors.Wrapf(ErrInvalidID, "%q", id)
	}
	return objectID, nil
}
