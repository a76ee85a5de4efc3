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

var applicationConstraints = dberrors.Constraints{"applications_applicant_role_key": apperrors.ErrDuplicateApplication}

var applicationColumns = []string{"id", "applicant_id", "open_role_id", "status", "answers", "created_at", "updated_at"}

// ApplicationRepository handles database operations for applications
type ApplicationRepository struct {
	db *db.PostgresDB
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(database *db.PostgresDB) *ApplicationRepository {
	return &ApplicationRepository{db: database}
}

func scanApplication(row pgx.Row) (*models.Application, error) {
	var app models.Application
	if err := row.Scan(&app.ID, &app.ApplicantID, &app.OpenRoleID, &app.Status, &app.Answers,
		&app.CreatedAt, &app.UpdatedAt); err != nil {
		return nil, err
	}
	if app.Answers == nil {
		app.Answers = map[string]string{}
	}
	return &app, nil
}

// Create inserts an application. The unique (applicant_id, open_role_id) constraint rejects duplicates.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	answers := app.Answers
	if answers == nil {
		answers = map[string]string{}
	}

	sql, args, err := psql.Insert("applications").
		Columns("applicant_id", "open_role_id", "status", "answers").
		Values(app.ApplicantID, app.OpenRoleID, app.Status, answers).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return applicationConstraints.Translate(err, "error creating application")
	}
	app.Answers = answers
	return nil
}

// GetByID retrieves an application by ID
func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	sql, args, err := psql.Select(applicationColumns...).From("applications").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	app, err := scanApplication(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("error fetching application: %w", err)
	}
	return app, nil
}

// ExistsForApplicantInRoles reports whether the applicant applied to any of roleIDs
func (r *ApplicationRepository) ExistsForApplicantInRoles(ctx context.Context, applicantID int64, roleIDs []int64) (bool, error) {
	if len(roleIDs) == 0 {
		return false, nil
	}

	sql, args, err := psql.Select("1").From("applications").
		Where(squirrel.Eq{"applicant_id": applicantID, "open_role_id": roleIDs}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	var exists bool
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking application existence: %w", err)
	}
	return exists, nil
}

// ListByRole returns the applications for an open role, oldest first
func (r *ApplicationRepository) ListByRole(ctx context.Context, roleID int64) ([]*models.Application, error) {
	return r.list(ctx, squirrel.Eq{"open_role_id": roleID})
}

// ListByApplicant returns the applicant's applications, oldest first
func (r *ApplicationRepository) ListByApplicant(ctx context.Context, applicantID int64) ([]*models.Application, error) {
	return r.list(ctx, squirrel.Eq{"applicant_id": applicantID})
}

func (r *ApplicationRepository) list(ctx context.Context, where squirrel.Eq) ([]*models.Application, error) {
	sql, args, err := psql.Select(applicationColumns...).From("applications").
		Where(where).
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

	var apps []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

// UpdateStatus sets the application status and returns the updated row
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) (*models.Application, error) {
	sql, args, err := psql.Update("applications").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(applicationColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	app, err := scanApplication(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("error updating application status: %w", err)
	}
	return app, nil
}
