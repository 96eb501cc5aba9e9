package handler

import (
	"net/http"

	"farm-assist-go/internal/middleware"
	"farm-assist-go/internal/service"
	"farm-assist-go/pkg/token"

	"github.com/gin-gonic/gin"
)

// Services 是注册路由所需的全部依赖。
type Services struct {
	JWTManager   *token.JWTManager
	User         service.UserService
	Chat         service.ChatService
	Conversation service.ConversationService
	Weather      service.WeatherService
	Soil         service.SoilService
	Content      service.ContentService
	Admin        service.AdminService
}

// RegisterRoutes 在引擎上注册所有 API 路由。
func RegisterRoutes(r *gin.Engine, s Services) {
	authMW := middleware.AuthMiddleware(s.JWTManager, s.User)

	authHandler := NewAuthHandler(s.User)
	userHandler := NewUserHandler(s.User)
	chatHandler := NewChatHandler(s.Chat, s.User, s.JWTManager)
	conversationHandler := NewConversationHandler(s.Conversation)
	weatherHandler := NewWeatherHandler(s.Weather)
	soilHandler := NewSoilHandler(s.Soil)
	contentHandler := NewContentHandler(s.Content)
	assistantHandler := NewAssistantHandler()
	adminHandler := NewAdminHandler(s.Admin)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := r.Group("/api/v1")
	{
		// Auth 路由组
		auth := apiV1.Group("/auth")
		{
			auth.POST("/google", authHandler.GoogleLogin)
			auth.POST("/refreshToken", authHandler.RefreshToken)
		}

		users := apiV1.Group("/users")
		users.Use(authMW)
		{
			users.GET("/me", userHandler.GetProfile)
			users.PATCH("/me/language", userHandler.UpdateLanguage)
			users.POST("/logout", userHandler.Logout)
		}

		// 无需认证的内容路由
		apiV1.GET("/water-tips", contentHandler.ListWaterTips)
		apiV1.GET("/water-tips/:id", contentHandler.GetWaterTip)
		apiV1.GET("/paddy-info", contentHandler.ListPaddyInfo)
		apiV1.GET("/paddy-info/:id", contentHandler.GetPaddyInfo)
		apiV1.GET("/farming-tips", contentHandler.ListFarmingTips)
		apiV1.GET("/content/search", contentHandler.Search)
		apiV1.GET("/weather", weatherHandler.GetWeather)
		apiV1.GET("/assistant/topics", assistantHandler.ListTopics)

		soil := apiV1.Group("/soil")
		soil.Use(authMW)
		{
			soil.GET("", soilHandler.Get)
			soil.POST("", soilHandler.Save)
		}

		chatGroup := apiV1.Group("/chat")
		{
			chatGroup.POST("/offline", chatHandler.Offline)
			chatGroup.POST("", authMW, chatHandler.Chat)
			chatGroup.GET("/history", authMW, conversationHandler.GetConversations)
		}

		admin := apiV1.Group("/admin")
		// 管理员路由组，需要同时通过认证和管理员授权两个中间件
		admin.Use(authMW, middleware.AdminAuthMiddleware())
		{
			admin.GET("/assistant/stats", adminHandler.GetAssistantStats)
			admin.GET("/users/list", adminHandler.ListUsers)
		}
	}

	// Chat 路由 (WebSocket)，token 通过路径参数传递
	r.GET("/chat/ws/:token", chatHandler.Handle)
}
