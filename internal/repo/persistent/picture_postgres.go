package persistent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/andreyxaxa/Access-Gate/internal/entity"
	"github.com/andreyxaxa/Access-Gate/pkg/postgres"
	"github.com/andreyxaxa/Access-Gate/pkg/types/errs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	// Table
	picturesTable = "pictures"

	// Columns
	pictureIDColumn        = "id"
	pictureNameColumn      = "name"
	pictureURLColumn       = "url"
	pictureCreatedAtColumn = "created_at"
	pictureUpdatedAtColumn = "updated_at"
)

type PictureRepo struct {
	*postgres.Postgres
}

func NewPictureRepo(pg *postgres.Postgres) *PictureRepo {
	return &PictureRepo{pg}
}

func (r *PictureRepo) Insert(ctx context.Context, picture *entity.Picture) error {
	sql, args, err := r.Builder.
		Insert(picturesTable).
		Columns(
			pictureIDColumn,
			pictureNameColumn,
			pictureURLColumn,
			pictureCreatedAtColumn,
			pictureUpdatedAtColumn,
		).
		Values(
			picture.ID,
			picture.Name,
			picture.URL,
			picture.CreatedAt,
			picture.UpdatedAt,
		).ToSql()
	if err != nil {
		return fmt.Errorf("PictureRepo - Insert - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("PictureRepo - Insert: %w", errs.ErrConflict)
		}
		return fmt.Errorf("PictureRepo - Insert - executor.Exec: %w: %w", errs.ErrStorage, err)
	}

	return nil
}

func (r *PictureRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Picture, error) {
	sql, args, err := r.Builder.
		Select(
			pictureIDColumn,
			pictureNameColumn,
			pictureURLColumn,
			pictureCreatedAtColumn,
			pictureUpdatedAtColumn,
		).
		From(picturesTable).
		Where(squirrel.Eq{pictureIDColumn: id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("PictureRepo - FindByID - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	var picture entity.Picture
	err = executor.QueryRow(ctx, sql, args...).Scan(
		&picture.ID,
		&picture.Name,
		&picture.URL,
		&picture.CreatedAt,
		&picture.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("PictureRepo - FindByID: %w", errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("PictureRepo - FindByID - executor.QueryRow: %w: %w", errs.ErrStorage, err)
	}

	return &picture, nil
}

func (r *PictureRepo) FindOrphans(ctx context.Context, createdBefore time.Time, limit int) ([]*entity.Picture, error) {
	sql, args, err := orphansQuery(r.Builder, createdBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("PictureRepo - FindOrphans - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("PictureRepo - FindOrphans - executor.Query: %w: %w", errs.ErrStorage, err)
	}
	defer rows.Close()

	var pictures []*entity.Picture
	for rows.Next() {
		var picture entity.Picture
		err = rows.Scan(
			&picture.ID,
			&picture.Name,
			&picture.URL,
			&picture.CreatedAt,
			&picture.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("PictureRepo - FindOrphans - rows.Scan: %w", err)
		}
		pictures = append(pictures, &picture)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("PictureRepo - FindOrphans - rows.Err: %w: %w", errs.ErrStorage, err)
	}

	return pictures, nil
}

// orphansQuery selects pictures older than createdBefore that no status
// references, oldest first.
func orphansQuery(b squirrel.StatementBuilderType, createdBefore time.Time, limit int) (string, []interface{}, error) {
	return b.
		Select(
			"p."+pictureIDColumn,
			"p."+pictureNameColumn,
			"p."+pictureURLColumn,
			"p."+pictureCreatedAtColumn,
			"p."+pictureUpdatedAtColumn,
		).
		From(picturesTable + " p").
		LeftJoin(statusesTable + " s ON s." + statusPictureIDColumn + " = p." + pictureIDColumn).
		Where(squirrel.And{
			squirrel.Eq{"s." + statusIDColumn: nil},
			squirrel.Lt{"p." + pictureCreatedAtColumn: createdBefore},
		}).
		OrderBy("p." + pictureCreatedAtColumn).
		Limit(uint64(limit)). //nolint:gosec // limit comes from config
		ToSql()
}
