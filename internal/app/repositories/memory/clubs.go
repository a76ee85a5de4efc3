package memory

import (
	"context"
	"sort"

	"github.com/yigit/clubrecruit/internal/app/models"
	"github.com/yigit/clubrecruit/internal/pkg/apperrors"
)

// ClubRepository is the in-memory clubs table
type ClubRepository struct {
	s *Store
}

func (r *ClubRepository) Create(ctx context.Context, club *models.Club) error {
	defer r.s.lock(ctx)()

	for _, c := range r.s.data.clubs {
		if c.Name == club.Name {
			return apperrors.ErrClubNameTaken
		}
	}
	now := r.s.now()
	club.ID = r.s.nextID()
	club.CreatedAt = now
	club.UpdatedAt = now
	r.s.data.clubs[club.ID] = cloneClub(club)
	return nil
}

func (r *ClubRepository) GetByID(ctx context.Context, id int64) (*models.Club, error) {
	defer r.s.lock(ctx)()

	c, ok := r.s.data.clubs[id]
	if !ok {
		return nil, apperrors.ErrClubNotFound
	}
	return cloneClub(c), nil
}

func (r *ClubRepository) List(ctx context.Context, offset uint64, limit int) ([]*models.Club, int64, error) {
	defer r.s.lock(ctx)()

	all := make([]*models.Club, 0, len(r.s.data.clubs))
	for _, c := range r.s.data.clubs {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := int64(len(all))
	if offset >= uint64(len(all)) {
		return []*models.Club{}, total, nil
	}
	end := len(all)
	if limit > 0 && int(offset)+limit < end {
		end = int(offset) + limit
	}

	page := make([]*models.Club, 0, end-int(offset))
	for _, c := range all[int(offset):end] {
		page = append(page, cloneClub(c))
	}
	return page, total, nil
}

func (r *ClubRepository) AddExec(ctx context.Context, clubID, userID int64) error {
	defer r.s.lock(ctx)()

	c, ok := r.s.data.clubs[clubID]
	if !ok {
		return apperrors.ErrClubNotFound
	}
	if c.IsExec(userID) {
		return apperrors.ErrAlreadyExec
	}
	c.Execs = append(c.Execs, userID)
	c.UpdatedAt = r.s.now()
	return nil
}
