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
	"github.com/yigit/clubrecruit/internal/pkg/dberrors"
)

var clubConstraints = dberrors.Constraints{"clubs_name_key": apperrors.ErrClubNameTaken}

var clubColumns = []string{"id", "name", "description", "admins", "execs", "created_at", "updated_at"}

// ClubRepository handles database operations for clubs
type ClubRepository struct {
	db *db.PostgresDB
}

// NewClubRepository creates a new ClubRepository
func NewClubRepository(database *db.PostgresDB) *ClubRepository {
	return &ClubRepository{db: database}
}

func scanClub(row pgx.Row) (*models.Club, error) {
	var club models.Club
	if err := row.Scan(&club.ID, &club.Name, &club.Description, &club.Admins, &club.Execs,
		&club.CreatedAt, &club.UpdatedAt); err != nil {
		return nil, err
	}
	return &club, nil
}

// Create inserts a club and fills its ID and timestamps
func (r *ClubRepository) Create(ctx context.Context, club *models.Club) error {
	sql, args, err := psql.Insert("clubs").
		Columns("name", "description", "admins", "execs").
		Values(club.Name, club.Description, club.Admins, club.Execs).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&club.ID, &club.CreatedAt, &club.UpdatedAt)
	if err != nil {
		return clubConstraints.Translate(err, "error creating club")
	}
	return nil
}

// GetByID retrieves a club by ID
func (r *ClubRepository) GetByID(ctx context.Context, id int64) (*models.Club, error) {
	sql, args, err := psql.Select(clubColumns...).From("clubs").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	club, err := scanClub(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClubNotFound
		}
		return nil, fmt.Errorf("error fetching club: %w", err)
	}
	return club, nil
}

// List returns a page of clubs ordered by ID and the total count
func (r *ClubRepository) List(ctx context.Context, offset uint64, limit int) ([]*models.Club, int64, error) {
	var total int64
	countSQL, countArgs, err := psql.Select("COUNT(*)").From("clubs").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building count SQL: %w", err)
	}
	if err := r.db.Conn(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting clubs: %w", err)
	}

	sql, args, err := psql.Select(clubColumns...).From("clubs").
		OrderBy("id").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	clubs := make([]*models.Club, 0, limit)
	for rows.Next() {
		club, err := scanClub(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		clubs = append(clubs, club)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}
	return clubs, total, nil
}

// AddExec appends userID to the club's execs unless already present
func (r *ClubRepository) AddExec(ctx context.Context, clubID, userID int64) error {
	sql, args, err := psql.Update("clubs").
		Set("execs", squirrel.Expr("array_append(execs, ?::bigint)", userID)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": clubID}).
		Where("NOT (?::bigint = ANY(execs))", userID).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error adding exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, clubID); err != nil {
			return err
		}
		return apperrors.ErrAlreadyExec
	}
	return nil
}
