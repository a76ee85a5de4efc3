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

var openRoleColumns = []string{"id", "club_id", "title", "description", "deadline", "questions", "created_at"}

// OpenRoleRepository handles database operations for open roles
type OpenRoleRepository struct {
	db *db.PostgresDB
}

// NewOpenRoleRepository creates a new OpenRoleRepository
func NewOpenRoleRepository(database *db.PostgresDB) *OpenRoleRepository {
	return &OpenRoleRepository{db: database}
}

func scanOpenRole(row pgx.Row) (*models.OpenRole, error) {
	var role models.OpenRole
	if err := row.Scan(&role.ID, &role.ClubID, &role.Title, &role.Description, &role.Deadline,
		&role.Questions, &role.CreatedAt); err != nil {
		return nil, err
	}
	return &role, nil
}

// Create inserts an open role
func (r *OpenRoleRepository) Create(ctx context.Context, role *models.OpenRole) error {
	questions := role.Questions
	if questions == nil {
		questions = []string{}
	}

	sql, args, err := psql.Insert("open_roles").
		Columns("club_id", "title", "description", "deadline", "questions").
		Values(role.ClubID, role.Title, role.Description, role.Deadline, questions).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&role.ID, &role.CreatedAt); err != nil {
		return fmt.Errorf("error creating open role: %w", err)
	}
	return nil
}

// GetByID retrieves an open role by ID
func (r *OpenRoleRepository) GetByID(ctx context.Context, id int64) (*models.OpenRole, error) {
	sql, args, err := psql.Select(openRoleColumns...).From("open_roles").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	role, err := scanOpenRole(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOpenRoleNotFound
		}
		return nil, fmt.Errorf("error fetching open role: %w", err)
	}
	return role, nil
}

// ListByClub returns the club's open roles ordered by deadline
func (r *OpenRoleRepository) ListByClub(ctx context.Context, clubID int64) ([]*models.OpenRole, error) {
	sql, args, err := psql.Select(openRoleColumns...).From("open_roles").
		Where(squirrel.Eq{"club_id": clubID}).
		OrderBy("deadline", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var roles []*models.OpenRole
	for rows.Next() {
		role, err := scanOpenRole(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// ListIDsByClub returns only the IDs of the club's open roles
func (r *OpenRoleRepository) ListIDsByClub(ctx context.Context, clubID int64) ([]int64, error) {
	sql, args, err := psql.Select("id").From("open_roles").Where(squirrel.Eq{"club_id": clubID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("error collecting open role ids: %w", err)
	}
	return ids, nil
}
