// Package postgres implements the repository interfaces on PostgreSQL through pgx and squirrel.
package postgres

import (
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/clubrecruit/internal/app/repositories"
	"github.com/yigit/clubrecruit/internal/db"
)

// psql builds statements with $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// NewRepositories wires every repository to the same database handle
func NewRepositories(database *db.PostgresDB) *repositories.Repositories {
	return &repositories.Repositories{
		Transactor:   database,
		Users:        NewUserRepository(database),
		Clubs:        NewClubRepository(database),
		OpenRoles:    NewOpenRoleRepository(database),
		Applications: NewApplicationRepository(database),
		Threads:      NewThreadRepository(database),
		Comments:     NewCommentRepository(database),
	}
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
