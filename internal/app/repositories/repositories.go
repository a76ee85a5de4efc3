package repositories

import (
	"context"

	"github.com/yigit/clubrecruit/internal/app/models"
)

// Transactor runs fn atomically. Repository calls made with the ctx passed to fn join the
// same unit of work; if fn returns an error none of them are observable afterwards.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository stores users and their club profile
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// SetClubProfileIfUnset attaches the user to a club only when they have no adminClub.
	// Returns apperrors.ErrMembershipExists otherwise.
	SetClubProfileIfUnset(ctx context.Context, userID int64, profile models.ClubProfile) error
	// ClearPendingClubProfile detaches the user only while they are pending for clubID
	// (adminClub equals clubID and the user is not in the club's execs).
	// Returns apperrors.ErrNoPendingRequest otherwise.
	ClearPendingClubProfile(ctx context.Context, userID, clubID int64) error
	// GrantRole adds role to the user's role set. Idempotent.
	GrantRole(ctx context.Context, userID int64, role models.Role) error
	ListByAdminClub(ctx context.Context, clubID int64) ([]*models.User, error)
}

// ClubRepository stores clubs and their leader lists
type ClubRepository interface {
	// Create inserts a club. Returns apperrors.ErrClubNameTaken on duplicate names.
	Create(ctx context.Context, club *models.Club) error
	GetByID(ctx context.Context, id int64) (*models.Club, error)
	List(ctx context.Context, offset uint64, limit int) ([]*models.Club, int64, error)
	// AddExec appends userID to execs. Returns apperrors.ErrAlreadyExec if present.
	AddExec(ctx context.Context, clubID, userID int64) error
}

// OpenRoleRepository stores recruiting roles
type OpenRoleRepository interface {
	Create(ctx context.Context, role *models.OpenRole) error
	GetByID(ctx context.Context, id int64) (*models.OpenRole, error)
	ListByClub(ctx context.Context, clubID int64) ([]*models.OpenRole, error)
	ListIDsByClub(ctx context.Context, clubID int64) ([]int64, error)
}

// ApplicationRepository stores applications
type ApplicationRepository interface {
	// Create inserts an application. The (applicant, role) check and the insert are atomic;
	// returns apperrors.ErrDuplicateApplication when the pair exists.
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id int64) (*models.Application, error)
	ExistsForApplicantInRoles(ctx context.Context, applicantID int64, roleIDs []int64) (bool, error)
	ListByRole(ctx context.Context, roleID int64) ([]*models.Application, error)
	ListByApplicant(ctx context.Context, applicantID int64) ([]*models.Application, error)
	UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) (*models.Application, error)
}

// ThreadRepository stores comment threads
type ThreadRepository interface {
	// GetOrCreate returns the thread keyed by (FORUM, ClubID) or (REVIEW, ApplicationID),
	// inserting thread when absent. The bool reports whether this call created it.
	GetOrCreate(ctx context.Context, thread *models.CommentThread) (*models.CommentThread, bool, error)
	GetByID(ctx context.Context, id int64) (*models.CommentThread, error)
	SetLocked(ctx context.Context, id int64, locked bool) (*models.CommentThread, error)
	IncrementCommentCount(ctx context.Context, id int64) error
}

// CommentRepository stores comments as a flat list keyed by thread
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	// ListByThread returns all comments, deleted included, oldest first
	ListByThread(ctx context.Context, threadID int64) ([]*models.Comment, error)
	// UpdateContent rewrites body and stars of a non-deleted comment.
	// Returns apperrors.ErrCommentDeleted if it was deleted meanwhile.
	UpdateContent(ctx context.Context, id int64, body string, stars *int) (*models.Comment, error)
	// SoftDelete tombstones the comment. Deleting a deleted comment is a no-op.
	SoftDelete(ctx context.Context, id int64) (*models.Comment, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	Transactor   Transactor
	Users        UserRepository
	Clubs        ClubRepository
	OpenRoles    OpenRoleRepository
	Applications ApplicationRepository
	Threads      ThreadRepository
	Comments     CommentRepository
}
