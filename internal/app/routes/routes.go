package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/mentorhub/internal/app/controllers"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/middleware"
	"github.com/yigit/mentorhub/internal/pkg/websocket"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Auth      *controllers.AuthController
	Pages     *controllers.PageController
	Users     *controllers.UserController
	Schedule  *controllers.ScheduleController
	Chat      *controllers.ChatController
	Forum     *controllers.ForumController
	WebSocket *websocket.Handler

	AuthMiddleware *middleware.AuthMiddleware
	// Presence runs after JWTAuth on every authenticated route
	Presence gin.HandlerFunc
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, h Handlers) {
	// API version group
	v1 := router.Group(controllers.APIPrefix)

	// --- Public routes ---
	v1.GET("/", h.AuthMiddleware.OptionalAuth(), h.Pages.Home)
	v1.GET("/about", h.Pages.About)
	v1.GET("/health", h.Pages.Health)
	v1.GET("/users/:username", h.Users.GetPublicProfile)

	auth := v1.Group("/auth")
	{
		auth.POST("/register", middleware.ValidateRequest[dto.RegisterRequest](), h.Auth.Register)
		auth.POST("/login", middleware.ValidateRequest[dto.LoginRequest](), h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(h.AuthMiddleware.JWTAuth())
	if h.Presence != nil {
		authenticated.Use(h.Presence)
	}

	authenticated.GET("/dashboard", h.Schedule.Dashboard)
	authenticated.GET("/calendar", h.Schedule.Calendar)

	meetings := authenticated.Group("/meetings")
	{
		meetings.POST("", middleware.ValidateRequest[dto.CreateMeetingRequest](), h.Schedule.CreateMeeting)
		meetings.GET("/invitees", h.Schedule.ListInviteeCandidates)
		meetings.GET("/:id", h.Schedule.GetMeeting)
		meetings.PUT("/:id", middleware.ValidateRequest[dto.UpdateMeetingRequest](), h.Schedule.UpdateMeeting)
		meetings.DELETE("/:id", h.Schedule.DeleteMeeting)
	}

	tasks := authenticated.Group("/tasks")
	{
		tasks.POST("", middleware.ValidateRequest[dto.CreateTaskRequest](), h.Schedule.CreateTask)
		tasks.GET("/assignees", h.Schedule.ListAssignees)
		tasks.GET("/:id", h.Schedule.GetTask)
		tasks.PUT("/:id", middleware.ValidateRequest[dto.UpdateTaskRequest](), h.Schedule.UpdateTask)
		tasks.DELETE("/:id", h.Schedule.DeleteTask)
	}

	chat := authenticated.Group("/chat")
	{
		chat.GET("", h.Chat.ListContacts)
		chat.GET("/:username", h.Chat.Room)
		chat.POST("/:username", middleware.ValidateRequest[dto.SendMessageRequest](), h.Chat.Send)
	}
	authenticated.POST("/notifications/:id/read", h.Chat.MarkNotificationRead)
	authenticated.GET("/ws", h.WebSocket.HandleConnection)

	authenticated.GET("/members", h.Users.ListMembers)
	authenticated.GET("/profile", h.Users.GetProfile)
	authenticated.PUT("/profile", middleware.ValidateRequest[dto.UpdateProfileRequest](), h.Users.UpdateProfile)

	forum := authenticated.Group("/forum")
	{
		forum.GET("", h.Forum.Feed)
		forum.POST("/posts", middleware.ValidateRequest[dto.CreatePostRequest](), h.Forum.CreatePost)
		forum.GET("/posts/:id", h.Forum.GetPost)
		forum.POST("/posts/:id/comments", middleware.ValidateRequest[dto.CreateCommentRequest](), h.Forum.AddComment)
		forum.POST("/posts/:id/like", h.Forum.ToggleLike)
		forum.DELETE("/posts/:id", h.Forum.DeletePost)
		forum.DELETE("/comments/:id", h.Forum.DeleteComment)
	}
}
