package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/clubrecruit/internal/app/models"
	"github.com/yigit/clubrecruit/internal/db"
	"github.com/yigit/clubrecruit/internal/pkg/apperrors"
)

var threadColumns = []string{
	"id", "type", "club_id", "application_id", "title", "visibility",
	"locked", "comment_count", "created_by", "created_at",
}

// ThreadRepository handles database operations for comment threads
type ThreadRepository struct {
	db *db.PostgresDB
}

// NewThreadRepository creates a new ThreadRepository
func NewThreadRepository(database *db.PostgresDB) *ThreadRepository {
	return &ThreadRepository{db: database}
}

func scanThread(row pgx.Row) (*models.CommentThread, error) {
	var t models.CommentThread
	if err := row.Scan(&t.ID, &t.Type, &t.ClubID, &t.ApplicationID, &t.Title, &t.Visibility,
		&t.Locked, &t.CommentCount, &t.CreatedBy, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetOrCreate inserts thread unless its owner already has one. Concurrent callers converge on
// the same row through the partial unique indexes on club_id (FORUM) and application_id (REVIEW).
func (r *ThreadRepository) GetOrCreate(ctx context.Context, thread *models.CommentThread) (*models.CommentThread, bool, error) {
	sql, args, err := psql.Insert("comment_threads").
		Columns("type", "club_id", "application_id", "title", "visibility", "locked", "created_by").
		Values(thread.Type, thread.ClubID, thread.ApplicationID, thread.Title, thread.Visibility, thread.Locked, thread.CreatedBy).
		Suffix("ON CONFLICT DO NOTHING RETURNING " + joinColumns(threadColumns)).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("error building SQL: %w", err)
	}

	created, err := scanThread(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("error creating thread: %w", err)
	}

	existing, err := r.getByOwner(ctx, thread)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *ThreadRepository) getByOwner(ctx context.Context, thread *models.CommentThread) (*models.CommentThread, error) {
	where := squirrel.Eq{"type": thread.Type}
	switch thread.Type {
	case models.ThreadTypeForum:
		where["club_id"] = thread.ClubID
	case models.ThreadTypeReview:
		if thread.ApplicationID == nil {
			return nil, apperrors.NewValidationError("review thread requires an application")
		}
		where["application_id"] = *thread.ApplicationID
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown thread type %q", thread.Type))
	}

	sql, args, err := psql.Select(threadColumns...).From("comment_threads").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	t, err := scanThread(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrThreadNotFound
		}
		return nil, fmt.Errorf("error fetching thread: %w", err)
	}
	return t, nil
}

// GetByID retrieves a thread by ID
func (r *ThreadRepository) GetByID(ctx context.Context, id int64) (*models.CommentThread, error) {
	sql, args, err := psql.Select(threadColumns...).From("comment_threads").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	t, err := scanThread(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrThreadNotFound
		}
		return nil, fmt.Errorf("error fetching thread: %w", err)
	}
	return t, nil
}

// SetLocked updates the lock flag and returns the thread
func (r *ThreadRepository) SetLocked(ctx context.Context, id int64, locked bool) (*models.CommentThread, error) {
	sql, args, err := psql.Update("comment_threads").
		Set("locked", locked).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(threadColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	t, err := scanThread(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrThreadNotFound
		}
		return nil, fmt.Errorf("error locking thread: %w", err)
	}
	return t, nil
}

// IncrementCommentCount bumps comment_count by one
func (r *ThreadRepository) IncrementCommentCount(ctx context.Context, id int64) error {
	sql, args, err := psql.Update("comment_threads").
		Set("comment_count", squirrel.Expr("comment_count + 1")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error incrementing comment count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrThreadNotFound
	}
	return nil
}
