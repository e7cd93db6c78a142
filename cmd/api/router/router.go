package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"yt-insight/cmd/api/dto"
	"yt-insight/cmd/api/handlers"
	"yt-insight/cmd/api/middleware"
	"yt-insight/cmd/api/services"
	_ "yt-insight/docs"
)

// HealthCheck 는 저장소 연결 상태를 확인한다. nil 이면 항상 up 이다.
type HealthCheck func(ctx context.Context) error

type Deps struct {
	YouTube *services.YouTubeService
	// Tokens 가 nil 이면 모든 요청을 free 등급으로 처리한다.
	Tokens middleware.TokenParser
	Health HealthCheck
}

func New(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestTrace())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		if deps.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
			defer cancel()
			if err := deps.Health(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, dto.HealthResponseDTO{Status: "degraded", Storage: "down", Error: err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, dto.HealthResponseDTO{Status: "ok", Storage: "up"})
	})

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.Use(middleware.TierAuth(deps.Tokens))
	{
		yt := api.Group("/youtube")
		yt.GET("/video", handlers.GetVideoHandler(deps.YouTube))
		yt.POST("/summarize", handlers.SummarizeHandler(deps.YouTube))
		yt.GET("/analysis", handlers.GetAnalysisHandler(deps.YouTube))
		yt.GET("/channel/uploads", handlers.ListChannelUploadsHandler(deps.YouTube))

		api.GET("/tiers", handlers.ListTiersHandler(deps.YouTube))
	}

	return r
}
