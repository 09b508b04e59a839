package device

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository implements Repository using a MongoDB collection.
//
// Documents are addressed by their application-level "id" field; the
// Mongo-internal _id is excluded from every read so the stored shape and
// the API shape stay identical.
type MongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository creates a MongoDB-backed repository over the given
// collection.
func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

// noObjectID excludes the Mongo-internal _id from query results.
var noObjectID = bson.M{"_id": 0}

// GetByID retrieves a device by its unique identifier.
func (r *MongoRepository) GetByID(ctx context.Context, id string) (*Device, error) {
	var d Device
	err := r.col.FindOne(ctx, bson.M{"id": id},
		options.FindOne().SetProjection(noObjectID)).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device by id: %w", err)
	}
	return &d, nil
}

// List retrieves all devices.
func (r *MongoRepository) List(ctx context.Context) ([]*Device, error) {
	cursor, err := r.col.Find(ctx, bson.M{},
		options.Find().SetProjection(noObjectID))
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer cursor.Close(ctx)

	var devices []*Device
	if err := cursor.All(ctx, &devices); err != nil {
		return nil, fmt.Errorf("decoding devices: %w", err)
	}
	return devices, nil
}

// ListIDs retrieves the identifiers of all devices.
func (r *MongoRepository) ListIDs(ctx context.Context) ([]string, error) {
	cursor, err := r.col.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"_id": 0, "id": 1}))
	if err != nil {
		return nil, fmt.Errorf("querying device ids: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID string `bson:"id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding device ids: %w", err)
	}

	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}
	return ids, nil
}

// Insert stores a new device after checking the ID is unused.
//
// The check-then-insert is not transactional; per-document atomicity is the
// store's only guarantee, matching the sync engine's concurrency model.
func (r *MongoRepository) Insert(ctx context.Context, device *Device) error {
	err := r.col.FindOne(ctx, bson.M{"id": device.ID},
		options.FindOne().SetProjection(bson.M{"_id": 0, "id": 1})).Err()
	switch {
	case err == nil:
		return fmt.Errorf("%w: %q", ErrDeviceExists, device.ID)
	case !errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("checking device id: %w", err)
	}

	if _, err := r.col.InsertOne(ctx, device); err != nil {
		return fmt.Errorf("inserting device: %w", err)
	}
	return nil
}

// Delete removes a device by ID.
func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("deleting device: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// UpdateFields sets top-level fields on a device via $set.
func (r *MongoRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	set := make(bson.M, len(fields))
	for k, v := range fields {
		set[k] = v
	}

	result, err := r.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("updating device fields: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// UpdateParameters sets individual parameters via dotted $set paths so
// parameters absent from the command are left untouched.
func (r *MongoRepository) UpdateParameters(ctx context.Context, id string, params map[string]any) error {
	set := make(bson.M, len(params))
	for k, v := range params {
		set["parameters."+k] = v
	}

	result, err := r.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("updating device parameters: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrDeviceNotFound
	}
	return nil
}
