// Package memory implements the repository interfaces in process memory. It backs the
// "memory" storage driver and the service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/yigit/clubrecruit/internal/app/models"
	"github.com/yigit/clubrecruit/internal/app/repositories"
)

type txKey struct{}

// Store holds every table behind one mutex. A transaction holds the mutex for its whole
// duration and restores a snapshot when it fails.
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	data tables
}

type tables struct {
	seq      int64
	users    map[int64]*models.User
	clubs    map[int64]*models.Club
	roles    map[int64]*models.OpenRole
	apps     map[int64]*models.Application
	threads  map[int64]*models.CommentThread
	comments map[int64]*models.Comment
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		now: time.Now,
		data: tables{
			users:    map[int64]*models.User{},
			clubs:    map[int64]*models.Club{},
			roles:    map[int64]*models.OpenRole{},
			apps:     map[int64]*models.Application{},
			threads:  map[int64]*models.CommentThread{},
			comments: map[int64]*models.Comment{},
		},
	}
}

// SetClock replaces the time source used for timestamps
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// NewRepositories exposes the store through the repository interfaces
func NewRepositories(s *Store) *repositories.Repositories {
	return &repositories.Repositories{
		Transactor:   s,
		Users:        &UserRepository{s: s},
		Clubs:        &ClubRepository{s: s},
		OpenRoles:    &OpenRoleRepository{s: s},
		Applications: &ApplicationRepository{s: s},
		Threads:      &ThreadRepository{s: s},
		Comments:     &CommentRepository{s: s},
	}
}

// WithinTx runs fn with the store locked. When fn fails every write made through ctx is undone.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) == s {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	committed := false
	defer func() {
		if !committed {
			s.data = snapshot
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		return err
	}
	committed = true
	return nil
}

// lock acquires the mutex unless ctx already runs inside a transaction of this store
func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txKey{}) == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) nextID() int64 {
	s.data.seq++
	return s.data.seq
}

func (t tables) clone() tables {
	out := tables{
		seq:      t.seq,
		users:    make(map[int64]*models.User, len(t.users)),
		clubs:    make(map[int64]*models.Club, len(t.clubs)),
		roles:    make(map[int64]*models.OpenRole, len(t.roles)),
		apps:     make(map[int64]*models.Application, len(t.apps)),
		threads:  make(map[int64]*models.CommentThread, len(t.threads)),
		comments: make(map[int64]*models.Comment, len(t.comments)),
	}
	for id, v := range t.users {
		out.users[id] = cloneUser(v)
	}
	for id, v := range t.clubs {
		out.clubs[id] = cloneClub(v)
	}
	for id, v := range t.roles {
		out.roles[id] = cloneOpenRole(v)
	}
	for id, v := range t.apps {
		out.apps[id] = cloneApplication(v)
	}
	for id, v := range t.threads {
		out.threads[id] = cloneThread(v)
	}
	for id, v := range t.comments {
		out.comments[id] = cloneComment(v)
	}
	return out
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Roles = append([]models.Role(nil), u.Roles...)
	c.AdminClubID = clonePtr(u.AdminClubID)
	c.ExecPosition = clonePtr(u.ExecPosition)
	c.Bio = clonePtr(u.Bio)
	c.ProfilePhotoURL = clonePtr(u.ProfilePhotoURL)
	return &c
}

func cloneClub(club *models.Club) *models.Club {
	c := *club
	c.Admins = append([]int64(nil), club.Admins...)
	c.Execs = append([]int64(nil), club.Execs...)
	return &c
}

func cloneOpenRole(r *models.OpenRole) *models.OpenRole {
	c := *r
	c.Questions = append([]string(nil), r.Questions...)
	return &c
}

func cloneApplication(a *models.Application) *models.Application {
	c := *a
	c.Answers = make(map[string]string, len(a.Answers))
	for k, v := range a.Answers {
		c.Answers[k] = v
	}
	return &c
}

func cloneThread(t *models.CommentThread) *models.CommentThread {
	c := *t
	c.ApplicationID = clonePtr(t.ApplicationID)
	return &c
}

func cloneComment(cm *models.Comment) *models.Comment {
	c := *cm
	c.ParentID = clonePtr(cm.ParentID)
	c.Stars = clonePtr(cm.Stars)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
