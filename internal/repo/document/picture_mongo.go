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
)

type PictureRepo struct {
	pictures *mongo.Collection
}

func NewPictureRepo(m *mongodb.MongoDB) *PictureRepo {
	return &PictureRepo{pictures: m.Database.Collection(picturesCollection)}
}

func (r *PictureRepo) Insert(ctx context.Context, picture *entity.Picture) error {
	_, err := r.pictures.InsertOne(ctx, fromPicture(picture))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("PictureRepo - Insert: %w", errs.ErrConflict)
		}
		return fmt.Errorf("PictureRepo - Insert - r.pictures.InsertOne: %w: %w", errs.ErrStorage, err)
	}

	return nil
}

func (r *PictureRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Picture, error) {
	var doc pictureDocument

	err := r.pictures.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("PictureRepo - FindByID: %w", errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("PictureRepo - FindByID - r.pictures.FindOne: %w: %w", errs.ErrStorage, err)
	}

	picture, err := doc.entity()
	if err != nil {
		return nil, fmt.Errorf("PictureRepo - FindByID - doc.entity: %w: %w", errs.ErrIntegrity, err)
	}

	return picture, nil
}

// FindOrphans joins pictures against statuses with $lookup and keeps the
// pictures that matched nothing.
func (r *PictureRepo) FindOrphans(ctx context.Context, createdBefore time.Time, limit int) ([]*entity.Picture, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "created_at", Value: bson.D{{Key: "$lt", Value: createdBefore.UTC()}}}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: statusesCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "picture_id"},
			{Key: "as", Value: "statuses"},
		}}},
		{{Key: "$match", Value: bson.D{{Key: "statuses", Value: bson.D{{Key: "$size", Value: 0}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}}}},
		{{Key: "$limit", Value: int64(limit)}},
		{{Key: "$project", Value: bson.D{{Key: "statuses", Value: 0}}}},
	}

	cursor, err := r.pictures.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("PictureRepo - FindOrphans - r.pictures.Aggregate: %w: %w", errs.ErrStorage, err)
	}

	var docs []pictureDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("PictureRepo - FindOrphans - cursor.All: %w: %w", errs.ErrStorage, err)
	}

	pictures := make([]*entity.Picture, 0, len(docs))
	for _, doc := range docs {
		picture, err := doc.entity()
		if err != nil {
			return nil, fmt.Errorf("PictureRepo - FindOrphans - doc.entity: %w: %w", errs.ErrIntegrity, err)
		}
		pictures = append(pictures, picture)
	}

	return pictures, nil
}
