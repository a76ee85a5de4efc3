// Package services holds the recruitment core: club membership, recruitment, threads and comments.
//
// Services defined in this package:
// - AuthService: registration and login
// - MembershipService: club creation and the exec join workflow
// - ApplicationService: open roles and applications
// - ThreadService: forum and review thread lifecycle
// - CommentService: comment creation, edits and soft deletes
package services

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/clubrecruit/internal/pkg/apperrors"
)

// wrapRepoError passes domain errors through unchanged and logs and wraps everything else
func wrapRepoError(logger zerolog.Logger, err error, msg string) error {
	if apperrors.KindOf(err) != apperrors.KindInternal {
		return err
	}
	logger.Error().Err(err).Msg(msg)
	return fmt.Errorf("%s: %w", msg, err)
}
