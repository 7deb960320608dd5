package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kartikeya-dewal/devConnector/pkg/auth"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

// Handlers groups everything the router mounts. Media may be nil, in
// which case the avatar upload route is not registered.
type Handlers struct {
	Auth    *AuthHandler
	Profile *ProfileHandler
	GitHub  *GitHubHandler
	Post    *PostHandler
	Media   *MediaHandler
}

func NewRouter(h Handlers, jwtSvc *auth.JWTService, log logger.Logger) *gin.Engine {
	useJSONFieldNames()

	router := gin.New()
	router.Use(RequestLogger(log), ErrorMiddleware(log), gin.Recovery())
	authMiddleware := AuthMiddleware(jwtSvc, log)

	api := router.Group("/api")
	api.GET("", func(c *gin.Context) { c.String(http.StatusOK, "API running") })
	api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

	users := api.Group("/users")
	{
		users.POST("", h.Auth.Register)
		if h.Media != nil {
			users.POST("/avatar", authMiddleware, h.Media.UploadAvatar)
		}
	}

	authGroup := api.Group("/auth")
	{
		authGroup.POST("", h.Auth.Login)
		authGroup.GET("", authMiddleware, h.Auth.CurrentUser)
	}

	profiles := api.Group("/profile")
	{
		profiles.GET("", h.Profile.ListProfiles)
		profiles.GET("/user/:userId", h.Profile.GetProfileByUserID)
		profiles.GET("/github/:username", h.GitHub.ListRepos)

		private := profiles.Group("")
		private.Use(authMiddleware)
		{
			private.GET("/me", h.Profile.GetMyProfile)
			private.POST("", h.Profile.UpsertProfile)
			private.DELETE("", h.Profile.DeleteAccount)
			private.PUT("/experience", h.Profile.AddExperience)
			private.DELETE("/experience/:expId", h.Profile.RemoveExperience)
			private.PUT("/education", h.Profile.AddEducation)
			private.DELETE("/education/:eduId", h.Profile.RemoveEducation)
		}
	}

	posts := api.Group("/posts")
	posts.Use(authMiddleware)
	{
		posts.POST("", h.Post.CreatePost)
		posts.GET("", h.Post.ListPosts)
		posts.GET("/:id", h.Post.GetPost)
		posts.DELETE("/:id", h.Post.DeletePost)
		posts.PUT("/like/:id", h.Post.LikePost)
		posts.PUT("/unlike/:id", h.Post.UnlikePost)
		posts.POST("/comment/:id", h.Post.AddComment)
		posts.DELETE("/comment/:id/:commentId", h.Post.RemoveComment)
	}

	return router
}
