package repo

import (
	"context"
	"errors"
	"fmt"

	dmn "github.com/beka-birhanu/vinom-labyrinth/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LabyrinthRepo persists accepted labyrinths. Records are immutable once saved.
type LabyrinthRepo struct {
	collection *mongo.Collection
}

// NewLabyrinthRepo creates a LabyrinthRepo over dbName.collectionName.
func NewLabyrinthRepo(client *mongo.Client, dbName, collectionName string) *LabyrinthRepo {
	return &LabyrinthRepo{
		collection: client.Database(dbName).Collection(collectionName),
	}
}

// EnsureIndexes creates the owner listing index.
func (r *LabyrinthRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

// Save inserts l.
func (r *LabyrinthRepo) Save(ctx context.Context, l *dmn.Labyrinth) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, l); err != nil {
		return fmt.Errorf("%w: %w", ErrUnexpected, err)
	}
	return nil
}

// ByID loads the labyrinth with id.
func (r *LabyrinthRepo) ByID(ctx context.Context, id uuid.UUID) (*dmn.Labyrinth, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var l dmn.Labyrinth
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, dmn.ErrLabyrinthNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrUnexpected, err)
	}
	return &l, nil
}

// ByOwner lists up to limit labyrinths of owner, newest first.
func (r *LabyrinthRepo) ByOwner(ctx context.Context, owner uuid.UUID, limit int64) ([]*dmn.Labyrinth, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpected, err)
	}

	labyrinths := []*dmn.Labyrinth{}
	if err := cursor.All(ctx, &labyrinths); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpected, err)
	}
	return labyrinths, nil
}
