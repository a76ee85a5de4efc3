package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubrecruit/internal/app/models/dto"
	"github.com/yigit/clubrecruit/internal/app/services"
	"github.com/yigit/clubrecruit/internal/middleware"
)

// CommentController handles comments inside threads
type CommentController struct {
	commentService services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService services.CommentService) *CommentController {
	return &CommentController{
		commentService: commentService,
	}
}

// ListComments godoc
// @Summary List a thread's comments
// @Description Flat list, oldest first; deleted comments are tombstones without an author
// @Tags comments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Thread ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.CommentResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /threads/{id}/comments [get]
func (c *CommentController) ListComments(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	threadID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	comments, err := c.commentService.ListComments(ctx, userID, threadID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: comments})
}

// CreateComment godoc
// @Summary Post a comment
// @Description Stars are only allowed on top-level comments in review threads
// @Tags comments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Thread ID"
// @Param request body dto.CreateCommentRequest true "Comment"
// @Success 201 {object} dto.APIResponse{data=dto.CommentResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail} "No access or thread locked"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /threads/{id}/comments [post]
func (c *CommentController) CreateComment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	threadID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	comment, err := c.commentService.CreateComment(ctx, userID, threadID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: comment})
}

// EditComment godoc
// @Summary Edit a comment
// @Description Author only. Body and stars are updated independently.
// @Tags comments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Comment ID"
// @Param request body dto.EditCommentRequest true "Changes"
// @Success 200 {object} dto.APIResponse{data=dto.CommentResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "Comment deleted"
// @Router /comments/{id} [patch]
func (c *CommentController) EditComment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	commentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.EditCommentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	comment, err := c.commentService.EditComment(ctx, userID, commentID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: comment})
}

// DeleteComment godoc
// @Summary Delete a comment
// @Description Soft delete. Authors may delete their own; club leaders may also delete forum comments.
// @Tags comments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} dto.APIResponse{data=dto.CommentResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /comments/{id} [delete]
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	commentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	comment, err := c.commentService.DeleteComment(ctx, userID, commentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: comment})
}
