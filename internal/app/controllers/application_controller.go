package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubrecruit/internal/app/models"
	"github.com/yigit/clubrecruit/internal/app/models/dto"
	"github.com/yigit/clubrecruit/internal/app/services"
	"github.com/yigit/clubrecruit/internal/middleware"
)

// ApplicationController handles open roles and applications
type ApplicationController struct {
	applicationService services.ApplicationService
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService services.ApplicationService) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
	}
}

// CreateOpenRole godoc
// @Summary Open a recruiting role
// @Description Club leaders only
// @Tags recruitment
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Club ID"
// @Param request body dto.CreateOpenRoleRequest true "Role"
// @Success 201 {object} dto.APIResponse{data=dto.OpenRoleResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /clubs/{id}/roles [post]
func (c *ApplicationController) CreateOpenRole(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateOpenRoleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	role, err := c.applicationService.CreateOpenRole(ctx, userID, clubID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: role})
}

// ListOpenRoles godoc
// @Summary List a club's roles
// @Tags recruitment
// @Produce json
// @Param id path int true "Club ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.OpenRoleResponse}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /clubs/{id}/roles [get]
func (c *ApplicationController) ListOpenRoles(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	roles, err := c.applicationService.ListOpenRoles(ctx, clubID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: roles})
}

// SubmitApplication godoc
// @Summary Apply to a role
// @Tags recruitment
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Open role ID"
// @Param request body dto.SubmitApplicationRequest true "Answers"
// @Success 201 {object} dto.APIResponse{data=dto.ApplicationResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Deadline passed"
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "Already applied"
// @Router /roles/{id}/applications [post]
func (c *ApplicationController) SubmitApplication(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	roleID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SubmitApplicationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	app, err := c.applicationService.SubmitApplication(ctx, userID, roleID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: app})
}

// ListApplicationsForRole godoc
// @Summary List applications to a role
// @Description Club leaders only
// @Tags recruitment
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Open role ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ApplicationResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /roles/{id}/applications [get]
func (c *ApplicationController) ListApplicationsForRole(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	roleID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	apps, err := c.applicationService.ListApplicationsForRole(ctx, userID, roleID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: apps})
}

// ListMyApplications godoc
// @Summary List the caller's applications
// @Tags recruitment
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ApplicationResponse}
// @Router /applications/mine [get]
func (c *ApplicationController) ListMyApplications(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	apps, err := c.applicationService.ListMyApplications(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: apps})
}

// GetApplication godoc
// @Summary Get an application
// @Description Visible to its applicant and the club leaders
// @Tags recruitment
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /applications/{id} [get]
func (c *ApplicationController) GetApplication(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	appID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	app, err := c.applicationService.GetApplication(ctx, userID, appID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: app})
}

// UpdateApplicationStatus godoc
// @Summary Change an application's status
// @Description Leaders may set any status; the applicant may only withdraw
// @Tags recruitment
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Application ID"
// @Param request body dto.UpdateApplicationStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /applications/{id}/status [put]
func (c *ApplicationController) UpdateApplicationStatus(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	appID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateApplicationStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	app, err := c.applicationService.UpdateApplicationStatus(ctx, userID, appID, models.ApplicationStatus(req.Status))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: app})
}
