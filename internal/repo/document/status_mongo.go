package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andreyxaxa/Access-Gate/internal/entity"
	"github.com/andreyxaxa/Access-Gate/pkg/mongodb"
	"github.com/andreyxaxa/Access-Gate/pkg/types/errs"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type StatusRepo struct {
	statuses *mongo.Collection
}

func NewStatusRepo(m *mongodb.MongoDB) *StatusRepo {
	return &StatusRepo{statuses: m.Database.Collection(statusesCollection)}
}

// EnsureIndexes makes picture_id unique so a Picture never gets two Statuses.
func (r *StatusRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.statuses.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "picture_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("StatusRepo - EnsureIndexes - r.statuses.Indexes().CreateOne: %w", err)
	}

	return nil
}

func (r *StatusRepo) Insert(ctx context.Context, status *entity.Status) error {
	_, err := r.statuses.InsertOne(ctx, fromStatus(status))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("StatusRepo - Insert: %w", errs.ErrConflict)
		}
		return fmt.Errorf("StatusRepo - Insert - r.statuses.InsertOne: %w: %w", errs.ErrStorage, err)
	}

	return nil
}

func (r *StatusRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Status, error) {
	var doc statusDocument

	err := r.statuses.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("StatusRepo - FindByID: %w", errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("StatusRepo - FindByID - r.statuses.FindOne: %w: %w", errs.ErrStorage, err)
	}

	status, err := doc.entity()
	if err != nil {
		return nil, fmt.Errorf("StatusRepo - FindByID - doc.entity: %w: %w", errs.ErrIntegrity, err)
	}

	return status, nil
}

func (r *StatusRepo) FindAndUpdateAuthorised(
	ctx context.Context,
	id uuid.UUID,
	authorised bool,
	updatedAt time.Time,
) (*entity.Status, error) {
	filter := bson.D{{Key: "_id", Value: id.String()}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "authorised", Value: authorised},
		{Key: "updated_at", Value: updatedAt.UTC()},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc statusDocument

	err := r.statuses.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("StatusRepo - FindAndUpdateAuthorised: %w", errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("StatusRepo - FindAndUpdateAuthorised - r.statuses.FindOneAndUpdate: %w: %w", errs.ErrStorage, err)
	}

	status, err := doc.entity()
	if err != nil {
		return nil, fmt.Errorf("StatusRepo - FindAndUpdateAuthorised - doc.entity: %w: %w", errs.ErrIntegrity, err)
	}

	return status, nil
}
