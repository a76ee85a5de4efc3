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

var commentColumns = []string{
	"id", "thread_id", "parent_id", "author_id", "body", "stars", "deleted", "created_at", "updated_at",
}

// CommentRepository handles database operations for comments
type CommentRepository struct {
	db *db.PostgresDB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(database *db.PostgresDB) *CommentRepository {
	return &CommentRepository{db: database}
}

func scanComment(row pgx.Row) (*models.Comment, error) {
	var c models.Comment
	var stars *int16
	if err := row.Scan(&c.ID, &c.ThreadID, &c.ParentID, &c.AuthorID, &c.Body, &stars, &c.Deleted,
		&c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if stars != nil {
		v := int(*stars)
		c.Stars = &v
	}
	return &c, nil
}

// Create inserts a comment and fills its ID and timestamps
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	sql, args, err := psql.Insert("comments").
		Columns("thread_id", "parent_id", "author_id", "body", "stars").
		Values(comment.ThreadID, comment.ParentID, comment.AuthorID, comment.Body, comment.Stars).
		Suffix("RETURNING id, deleted, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).
		Scan(&comment.ID, &comment.Deleted, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating comment: %w", err)
	}
	return nil
}

// GetByID retrieves a comment by ID, deleted or not
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	sql, args, err := psql.Select(commentColumns...).From("comments").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	c, err := scanComment(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, fmt.Errorf("error fetching comment: %w", err)
	}
	return c, nil
}

// ListByThread returns every comment of the thread in creation order
func (r *CommentRepository) ListByThread(ctx context.Context, threadID int64) ([]*models.Comment, error) {
	sql, args, err := psql.Select(commentColumns...).From("comments").
		Where(squirrel.Eq{"thread_id": threadID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// UpdateContent rewrites body and stars while the comment is not deleted
func (r *CommentRepository) UpdateContent(ctx context.Context, id int64, body string, stars *int) (*models.Comment, error) {
	sql, args, err := psql.Update("comments").
		Set("body", body).
		Set("stars", stars).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "deleted": false}).
		Suffix("RETURNING " + joinColumns(commentColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	c, err := scanComment(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, err := r.GetByID(ctx, id); err != nil {
				return nil, err
			}
			return nil, apperrors.ErrCommentDeleted
		}
		return nil, fmt.Errorf("error updating comment: %w", err)
	}
	return c, nil
}

// SoftDelete tombstones the comment. A second call returns the existing tombstone.
func (r *CommentRepository) SoftDelete(ctx context.Context, id int64) (*models.Comment, error) {
	sql, args, err := psql.Update("comments").
		Set("deleted", true).
		Set("body", models.DeletedCommentBody).
		Set("stars", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "deleted": false}).
		Suffix("RETURNING " + joinColumns(commentColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	c, err := scanComment(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.GetByID(ctx, id)
		}
		return nil, fmt.Errorf("error deleting comment: %w", err)
	}
	return c, nil
}
