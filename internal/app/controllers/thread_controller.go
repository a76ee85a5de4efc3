package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubrecruit/internal/app/models/dto"
	"github.com/yigit/clubrecruit/internal/app/services"
	"github.com/yigit/clubrecruit/internal/middleware"
)

// ThreadController handles forum and review threads
type ThreadController struct {
	threadService services.ThreadService
}

// NewThreadController creates a new ThreadController
func NewThreadController(threadService services.ThreadService) *ThreadController {
	return &ThreadController{
		threadService: threadService,
	}
}

// GetForumThread godoc
// @Summary Open a club's forum
// @Description Returns the club forum, creating it on first access. Leaders and applicants only.
// @Tags threads
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Club ID"
// @Success 200 {object} dto.APIResponse{data=dto.ThreadResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /clubs/{id}/forum [get]
func (c *ThreadController) GetForumThread(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	thread, err := c.threadService.GetOrCreateForumThread(ctx, userID, clubID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: thread})
}

// GetReviewThread godoc
// @Summary Open an application's review thread
// @Description Returns the leaders-only review thread, creating it on first access
// @Tags threads
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=dto.ThreadResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /applications/{id}/review-thread [get]
func (c *ThreadController) GetReviewThread(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	appID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	thread, err := c.threadService.GetOrCreateReviewThread(ctx, userID, appID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: thread})
}

// GetThread godoc
// @Summary Get a thread
// @Tags threads
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Thread ID"
// @Success 200 {object} dto.APIResponse{data=dto.ThreadResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /threads/{id} [get]
func (c *ThreadController) GetThread(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	threadID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	thread, err := c.threadService.GetThread(ctx, userID, threadID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: thread})
}

// SetThreadLocked godoc
// @Summary Lock or unlock a thread
// @Description Club leaders only
// @Tags threads
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Thread ID"
// @Param request body dto.LockThreadRequest true "Lock state"
// @Success 200 {object} dto.APIResponse{data=dto.ThreadResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /threads/{id}/lock [put]
func (c *ThreadController) SetThreadLocked(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	threadID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.LockThreadRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	thread, err := c.threadService.SetThreadLocked(ctx, userID, threadID, *req.Locked)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: thread})
}
