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

// JobRepo persists generation jobs.
type JobRepo struct {
	collection *mongo.Collection
}

// NewJobRepo creates a JobRepo over dbName.collectionName.
func NewJobRepo(client *mongo.Client, dbName, collectionName string) *JobRepo {
	return &JobRepo{
		collection: client.Database(dbName).Collection(collectionName),
	}
}

// Save replaces the stored job, inserting it when new.
func (r *JobRepo) Save(ctx context.Context, job *dmn.Job) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": job.ID}, job, opts); err != nil {
		return fmt.Errorf("%w: %w", ErrUnexpected, err)
	}
	return nil
}

// ByID loads the job with id.
func (r *JobRepo) ByID(ctx context.Context, id uuid.UUID) (*dmn.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var job dmn.Job
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&job); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, dmn.ErrJobNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrUnexpected, err)
	}
	return &job, nil
}
