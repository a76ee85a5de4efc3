package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/yigit/clubrecruit/internal/app/models"
	"github.com/yigit/clubrecruit/internal/pkg/apperrors"
)

// UserRepository is the in-memory users table
type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	defer r.s.lock(ctx)()

	for _, u := range r.s.data.users {
		if strings.EqualFold(u.Email, user.Email) {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	now := r.s.now()
	user.ID = r.s.nextID()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.data.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	defer r.s.lock(ctx)()

	u, ok := r.s.data.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
	defer r.s.lock(ctx)()

	out := make(map[int64]*models.User, len(ids))
	for _, id := range ids {
		if u, ok := r.s.data.users[id]; ok {
			out[id] = cloneUser(u)
		}
	}
	return out, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer r.s.lock(ctx)()

	for _, u := range r.s.data.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *UserRepository) SetClubProfileIfUnset(ctx context.Context, userID int64, profile models.ClubProfile) error {
	defer r.s.lock(ctx)()

	u, ok := r.s.data.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	if u.AdminClubID != nil {
		return apperrors.ErrMembershipExists
	}
	u.SetClubProfile(profile)
	u.UpdatedAt = r.s.now()
	return nil
}

func (r *UserRepository) ClearPendingClubProfile(ctx context.Context, userID, clubID int64) error {
	defer r.s.lock(ctx)()

	u, ok := r.s.data.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	club, ok := r.s.data.clubs[clubID]
	if !ok || !models.IsPendingMember(u, club) {
		return apperrors.ErrNoPendingRequest
	}
	u.ClearClubProfile()
	u.UpdatedAt = r.s.now()
	return nil
}

func (r *UserRepository) GrantRole(ctx context.Context, userID int64, role models.Role) error {
	defer r.s.lock(ctx)()

	u, ok := r.s.data.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	if u.GrantRole(role) {
		u.UpdatedAt = r.s.now()
	}
	return nil
}

func (r *UserRepository) ListByAdminClub(ctx context.Context, clubID int64) ([]*models.User, error) {
	defer r.s.lock(ctx)()

	var out []*models.User
	for _, u := range r.s.data.users {
		if u.AdminClubID != nil && *u.AdminClubID == clubID {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
