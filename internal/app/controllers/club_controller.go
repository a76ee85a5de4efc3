package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubrecruit/internal/app/models/dto"
	"github.com/yigit/clubrecruit/internal/app/services"
	"github.com/yigit/clubrecruit/internal/middleware"
	"github.com/yigit/clubrecruit/internal/pkg/helpers"
)

// ClubController handles clubs and the exec join workflow
type ClubController struct {
	membershipService services.MembershipService
}

// NewClubController creates a new ClubController
func NewClubController(membershipService services.MembershipService) *ClubController {
	return &ClubController{
		membershipService: membershipService,
	}
}

// CreateClub godoc
// @Summary Create a club
// @Description Creates a club with the caller as superadmin and first exec
// @Tags clubs
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateClubRequest true "Club and creator profile"
// @Success 201 {object} dto.APIResponse{data=dto.ClubResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "Name taken or caller already in a club"
// @Router /clubs [post]
func (c *ClubController) CreateClub(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateClubRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	club, err := c.membershipService.CreateClub(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: club})
}

// ListClubs godoc
// @Summary List clubs
// @Tags clubs
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 10, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ClubListResponse}
// @Router /clubs [get]
func (c *ClubController) ListClubs(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)

	clubs, err := c.membershipService.ListClubs(ctx, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: clubs})
}

// GetClub godoc
// @Summary Get a club
// @Tags clubs
// @Produce json
// @Param id path int true "Club ID"
// @Success 200 {object} dto.APIResponse{data=dto.ClubResponse}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /clubs/{id} [get]
func (c *ClubController) GetClub(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	club, err := c.membershipService.GetClub(ctx, clubID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: club})
}

// RequestJoin godoc
// @Summary Request to join a club as exec
// @Description Attaches the caller to the club as a pending member until the superadmin decides
// @Tags clubs
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Club ID"
// @Param request body dto.JoinRequest true "Exec profile"
// @Success 202 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "Caller already pending or active"
// @Router /clubs/{id}/join-requests [post]
func (c *ClubController) RequestJoin(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.JoinRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.membershipService.RequestJoin(ctx, userID, clubID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusAccepted, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Join request submitted"},
	})
}

// ListPendingJoinRequests godoc
// @Summary List pending join requests
// @Description Superadmin only
// @Tags clubs
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Club ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ExecResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /clubs/{id}/join-requests [get]
func (c *ClubController) ListPendingJoinRequests(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	pending, err := c.membershipService.ListPendingJoinRequests(ctx, userID, clubID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: pending})
}

// ApproveJoinRequest godoc
// @Summary Approve a pending exec
// @Tags clubs
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Club ID"
// @Param userId path int true "Pending user ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /clubs/{id}/join-requests/{userId}/approve [post]
func (c *ClubController) ApproveJoinRequest(ctx *gin.Context) {
	c.decide(ctx, c.membershipService.ApproveJoinRequest, "Join request approved")
}

// RejectJoinRequest godoc
// @Summary Reject a pending exec
// @Tags clubs
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Club ID"
// @Param userId path int true "Pending user ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /clubs/{id}/join-requests/{userId}/reject [post]
func (c *ClubController) RejectJoinRequest(ctx *gin.Context) {
	c.decide(ctx, c.membershipService.RejectJoinRequest, "Join request rejected")
}

func (c *ClubController) decide(
	ctx *gin.Context,
	action func(ctx context.Context, superadminID, clubID, targetUserID int64) error,
	message string,
) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}

	if err := action(ctx, userID, clubID, targetID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: message}})
}

// ListExecs godoc
// @Summary List club leaders
// @Tags clubs
// @Produce json
// @Param id path int true "Club ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ExecResponse}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /clubs/{id}/execs [get]
func (c *ClubController) ListExecs(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	execs, err := c.membershipService.ListExecs(ctx, clubID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: execs})
}
