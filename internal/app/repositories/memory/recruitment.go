package memory

import (
	"context"
	"sort"

	"github.com/yigit/clubrecruit/internal/app/models"
	"github.com/yigit/clubrecruit/internal/pkg/apperrors"
)

// OpenRoleRepository is the in-memory open_roles table
type OpenRoleRepository struct {
	s *Store
}

func (r *OpenRoleRepository) Create(ctx context.Context, role *models.OpenRole) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.data.clubs[role.ClubID]; !ok {
		return apperrors.ErrClubNotFound
	}
	role.ID = r.s.nextID()
	role.CreatedAt = r.s.now()
	r.s.data.roles[role.ID] = cloneOpenRole(role)
	return nil
}

func (r *OpenRoleRepository) GetByID(ctx context.Context, id int64) (*models.OpenRole, error) {
	defer r.s.lock(ctx)()

	role, ok := r.s.data.roles[id]
	if !ok {
		return nil, apperrors.ErrOpenRoleNotFound
	}
	return cloneOpenRole(role), nil
}

func (r *OpenRoleRepository) ListByClub(ctx context.Context, clubID int64) ([]*models.OpenRole, error) {
	defer r.s.lock(ctx)()

	var out []*models.OpenRole
	for _, role := range r.s.data.roles {
		if role.ClubID == clubID {
			out = append(out, cloneOpenRole(role))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Deadline.Equal(out[j].Deadline) {
			return out[i].Deadline.Before(out[j].Deadline)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *OpenRoleRepository) ListIDsByClub(ctx context.Context, clubID int64) ([]int64, error) {
	defer r.s.lock(ctx)()

	var ids []int64
	for _, role := range r.s.data.roles {
		if role.ClubID == clubID {
			ids = append(ids, role.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// ApplicationRepository is the in-memory applications table
type ApplicationRepository struct {
	s *Store
}

func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	defer r.s.lock(ctx)()

	for _, existing := range r.s.data.apps {
		if existing.ApplicantID == app.ApplicantID && existing.OpenRoleID == app.OpenRoleID {
			return apperrors.ErrDuplicateApplication
		}
	}
	if app.Answers == nil {
		app.Answers = map[string]string{}
	}
	now := r.s.now()
	app.ID = r.s.nextID()
	app.CreatedAt = now
	app.UpdatedAt = now
	r.s.data.apps[app.ID] = cloneApplication(app)
	return nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	defer r.s.lock(ctx)()

	app, ok := r.s.data.apps[id]
	if !ok {
		return nil, apperrors.ErrApplicationNotFound
	}
	return cloneApplication(app), nil
}

func (r *ApplicationRepository) ExistsForApplicantInRoles(ctx context.Context, applicantID int64, roleIDs []int64) (bool, error) {
	if len(roleIDs) == 0 {
		return false, nil
	}
	defer r.s.lock(ctx)()

	wanted := make(map[int64]struct{}, len(roleIDs))
	for _, id := range roleIDs {
		wanted[id] = struct{}{}
	}
	for _, app := range r.s.data.apps {
		if app.ApplicantID != applicantID {
			continue
		}
		if _, ok := wanted[app.OpenRoleID]; ok {
			return true, nil
		}
	}
	return false, nil
}

func (r *ApplicationRepository) ListByRole(ctx context.Context, roleID int64) ([]*models.Application, error) {
	return r.list(ctx, func(a *models.Application) bool { return a.OpenRoleID == roleID })
}

func (r *ApplicationRepository) ListByApplicant(ctx context.Context, applicantID int64) ([]*models.Application, error) {
	return r.list(ctx, func(a *models.Application) bool { return a.ApplicantID == applicantID })
}

func (r *ApplicationRepository) list(ctx context.Context, match func(*models.Application) bool) ([]*models.Application, error) {
	defer r.s.lock(ctx)()

	var out []*models.Application
	for _, app := range r.s.data.apps {
		if match(app) {
			out = append(out, cloneApplication(app))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) (*models.Application, error) {
	defer r.s.lock(ctx)()

	app, ok := r.s.data.apps[id]
	if !ok {
		return nil, apperrors.ErrApplicationNotFound
	}
	app.Status = status
	app.UpdatedAt = r.s.now()
	return cloneApplication(app), nil
}
