package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/clubrecruit/internal/app/controllers"
	"github.com/yigit/clubrecruit/internal/middleware"
)

// Controllers groups the handlers mounted under /api/v1
type Controllers struct {
	Auth        *controllers.AuthController
	Club        *controllers.ClubController
	Application *controllers.ApplicationController
	Thread      *controllers.ThreadController
	Comment     *controllers.CommentController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
	}

	clubs := v1.Group("/clubs")
	{
		clubs.GET("", c.Club.ListClubs)
		clubs.GET("/:id", c.Club.GetClub)
		clubs.GET("/:id/execs", c.Club.ListExecs)
		clubs.GET("/:id/roles", c.Application.ListOpenRoles)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.GET("/auth/me", c.Auth.GetProfile)

	clubsProtected := authenticated.Group("/clubs")
	{
		clubsProtected.POST("", c.Club.CreateClub)
		clubsProtected.POST("/:id/join-requests", c.Club.RequestJoin)
		clubsProtected.GET("/:id/join-requests", c.Club.ListPendingJoinRequests)
		clubsProtected.POST("/:id/join-requests/:userId/approve", c.Club.ApproveJoinRequest)
		clubsProtected.POST("/:id/join-requests/:userId/reject", c.Club.RejectJoinRequest)
		clubsProtected.POST("/:id/roles", c.Application.CreateOpenRole)
		clubsProtected.GET("/:id/forum", c.Thread.GetForumThread)
	}

	roles := authenticated.Group("/roles")
	{
		roles.POST("/:id/applications", c.Application.SubmitApplication)
		roles.GET("/:id/applications", c.Application.ListApplicationsForRole)
	}

	applications := authenticated.Group("/applications")
	{
		applications.GET("/mine", c.Application.ListMyApplications)
		applications.GET("/:id", c.Application.GetApplication)
		applications.PUT("/:id/status", c.Application.UpdateApplicationStatus)
		applications.GET("/:id/review-thread", c.Thread.GetReviewThread)
	}

	threads := authenticated.Group("/threads")
	{
		threads.GET("/:id", c.Thread.GetThread)
		threads.PUT("/:id/lock", c.Thread.SetThreadLocked)
		threads.GET("/:id/comments", c.Comment.ListComments)
		threads.POST("/:id/comments", c.Comment.CreateComment)
	}

	comments := authenticated.Group("/comments")
	{
		comments.PATCH("/:id", c.Comment.EditComment)
		comments.DELETE("/:id", c.Comment.DeleteComment)
	}
}
