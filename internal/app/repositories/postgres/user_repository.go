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

var userConstraints = dberrors.Constraints{"users_email_key": apperrors.ErrEmailAlreadyExists}

var userColumns = []string{
	"id", "email", "password", "first_name", "last_name", "roles",
	"admin_club_id", "exec_position", "bio", "profile_photo_url",
	"created_at", "updated_at",
}

// UserRepository handles database operations for users
type UserRepository struct {
	db *db.PostgresDB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(database *db.PostgresDB) *UserRepository {
	return &UserRepository{db: database}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	var roles []string
	err := row.Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName, &user.LastName, &roles,
		&user.AdminClubID, &user.ExecPosition, &user.Bio, &user.ProfilePhotoURL,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Roles = make([]models.Role, 0, len(roles))
	for _, r := range roles {
		user.Roles = append(user.Roles, models.Role(r))
	}
	return &user, nil
}

func roleStrings(roles []models.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

// Create inserts a new user and fills its ID and timestamps
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := psql.Insert("users").
		Columns("email", "password", "first_name", "last_name", "roles",
			"admin_club_id", "exec_position", "bio", "profile_photo_url").
		Values(user.Email, user.Password, user.FirstName, user.LastName, roleStrings(user.Roles),
			user.AdminClubID, user.ExecPosition, user.Bio, user.ProfilePhotoURL).
		Suffix("RETURNING id, created_at, updated_at")

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return userConstraints.Translate(err, "error creating user")
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	sql, args, err := psql.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	user, err := scanUser(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

// GetByIDs retrieves users keyed by ID; missing IDs are absent from the map
func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
	users := make(map[int64]*models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	sql, args, err := psql.Select(userColumns...).From("users").Where(squirrel.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		users[user.ID] = user
	}
	return users, rows.Err()
}

// SetClubProfileIfUnset attaches the user to a club when they have no adminClub
func (r *UserRepository) SetClubProfileIfUnset(ctx context.Context, userID int64, profile models.ClubProfile) error {
	query := psql.Update("users").
		Set("admin_club_id", profile.ClubID).
		Set("exec_position", profile.Position).
		Set("bio", profile.Bio).
		Set("profile_photo_url", profile.ProfilePhotoURL).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID}).
		Where("admin_club_id IS NULL")

	affected, err := r.exec(ctx, query)
	if err != nil {
		return fmt.Errorf("error setting club profile: %w", err)
	}
	if affected == 0 {
		if _, err := r.GetByID(ctx, userID); err != nil {
			return err
		}
		return apperrors.ErrMembershipExists
	}
	return nil
}

// ClearPendingClubProfile detaches a pending user from clubID
func (r *UserRepository) ClearPendingClubProfile(ctx context.Context, userID, clubID int64) error {
	query := psql.Update("users").
		Set("admin_club_id", nil).
		Set("exec_position", nil).
		Set("bio", nil).
		Set("profile_photo_url", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID, "admin_club_id": clubID}).
		Where("NOT EXISTS (SELECT 1 FROM clubs c WHERE c.id = ? AND ?::bigint = ANY(c.execs))", clubID, userID)

	affected, err := r.exec(ctx, query)
	if err != nil {
		return fmt.Errorf("error clearing club profile: %w", err)
	}
	if affected == 0 {
		if _, err := r.GetByID(ctx, userID); err != nil {
			return err
		}
		return apperrors.ErrNoPendingRequest
	}
	return nil
}

// GrantRole appends role unless the user already holds it
func (r *UserRepository) GrantRole(ctx context.Context, userID int64, role models.Role) error {
	query := psql.Update("users").
		Set("roles", squirrel.Expr("array_append(roles, ?::text)", string(role))).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID}).
		Where("NOT (?::text = ANY(roles))", string(role))

	affected, err := r.exec(ctx, query)
	if err != nil {
		return fmt.Errorf("error granting role: %w", err)
	}
	if affected == 0 {
		// Either already granted or no such user
		_, err := r.GetByID(ctx, userID)
		return err
	}
	return nil
}

// ListByAdminClub returns every user whose adminClub is clubID
func (r *UserRepository) ListByAdminClub(ctx context.Context, clubID int64) ([]*models.User, error) {
	sql, args, err := psql.Select(userColumns...).From("users").
		Where(squirrel.Eq{"admin_club_id": clubID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) exec(ctx context.Context, query squirrel.UpdateBuilder) (int64, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}
	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
