package persistent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/andreyxaxa/Access-Gate/internal/entity"
	"github.com/andreyxaxa/Access-Gate/pkg/postgres"
	"github.com/andreyxaxa/Access-Gate/pkg/types/errs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	// Table
	statusesTable = "statuses"

	// Columns
	statusIDColumn         = "id"
	statusPictureIDColumn  = "picture_id"
	statusAuthorisedColumn = "authorised"
	statusCreatedAtColumn  = "created_at"
	statusUpdatedAtColumn  = "updated_at"

	_uniqueViolation = "23505"
)

type StatusRepo struct {
	*postgres.Postgres
}

func NewStatusRepo(pg *postgres.Postgres) *StatusRepo {
	return &StatusRepo{pg}
}

func (r *StatusRepo) Insert(ctx context.Context, status *entity.Status) error {
	sql, args, err := r.Builder.
		Insert(statusesTable).
		Columns(
			statusIDColumn,
			statusPictureIDColumn,
			statusAuthorisedColumn,
			statusCreatedAtColumn,
			statusUpdatedAtColumn,
		).
		Values(
			status.ID,
			status.PictureID,
			status.Authorised,
			status.CreatedAt,
			status.UpdatedAt,
		).ToSql()
	if err != nil {
		return fmt.Errorf("StatusRepo - Insert - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("StatusRepo - Insert: %w", errs.ErrConflict)
		}
		return fmt.Errorf("StatusRepo - Insert - executor.Exec: %w: %w", errs.ErrStorage, err)
	}

	return nil
}

func (r *StatusRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Status, error) {
	sql, args, err := r.Builder.
		Select(statusColumns()...).
		From(statusesTable).
		Where(squirrel.Eq{statusIDColumn: id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("StatusRepo - FindByID - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	status, err := scanStatus(executor.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("StatusRepo - FindByID: %w", errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("StatusRepo - FindByID - executor.QueryRow: %w: %w", errs.ErrStorage, err)
	}

	return status, nil
}

// FindAndUpdateAuthorised runs as one UPDATE ... RETURNING statement, so
// concurrent reviewers are serialised by the row lock.
func (r *StatusRepo) FindAndUpdateAuthorised(
	ctx context.Context,
	id uuid.UUID,
	authorised bool,
	updatedAt time.Time,
) (*entity.Status, error) {
	sql, args, err := updateAuthorisedQuery(r.Builder, id, authorised, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("StatusRepo - FindAndUpdateAuthorised - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	status, err := scanStatus(executor.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("StatusRepo - FindAndUpdateAuthorised: %w", errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("StatusRepo - FindAndUpdateAuthorised - executor.QueryRow: %w: %w", errs.ErrStorage, err)
	}

	return status, nil
}

func updateAuthorisedQuery(
	b squirrel.StatementBuilderType,
	id uuid.UUID,
	authorised bool,
	updatedAt time.Time,
) (string, []interface{}, error) {
	return b.
		Update(statusesTable).
		Set(statusAuthorisedColumn, authorised).
		Set(statusUpdatedAtColumn, updatedAt).
		Where(squirrel.Eq{statusIDColumn: id}).
		Suffix("RETURNING " + strings.Join(statusColumns(), ", ")).
		ToSql()
}

func statusColumns() []string {
	return []string{
		statusIDColumn,
		statusPictureIDColumn,
		statusAuthorisedColumn,
		statusCreatedAtColumn,
		statusUpdatedAtColumn,
	}
}

func scanStatus(row pgx.Row) (*entity.Status, error) {
	var status entity.Status
	err := row.Scan(
		&status.ID,
		&status.PictureID,
		&status.Authorised,
		&status.CreatedAt,
		&status.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &status, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == _uniqueViolation
}
