package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/novelforge/backend/config"
	"github.com/novelforge/backend/internal/handler"
)

func Setup(
	cfg *config.Config,
	novelHandler *handler.NovelHandler,
	chapterHandler *handler.ChapterHandler,
	versionHandler *handler.VersionHandler,
	characterHandler *handler.CharacterHandler,
	memoryHandler *handler.StoryMemoryHandler,
	writingHandler *handler.WritingHandler,
	exportHandler *handler.ExportHandler,
	notificationHandler *handler.NotificationHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	api := r.Group("/api")
	api.Use(handler.Identity())
	{
		novels := api.Group("/novels")
		{
			novels.POST("", novelHandler.Create)
			novels.GET("", novelHandler.List)
			novels.GET("/:id", novelHandler.Get)
			novels.PUT("/:id", novelHandler.Update)
			novels.DELETE("/:id", novelHandler.Delete)

			novels.POST("/:id/develop-idea", writingHandler.DevelopIdea)
			novels.POST("/:id/generate-titles", writingHandler.GenerateTitles)
			novels.POST("/:id/select-title", writingHandler.SelectTitle)
			novels.POST("/:id/generate-outline", writingHandler.GenerateOutline)
			novels.POST("/:id/generate-cover-prompt", writingHandler.GenerateCoverPrompt)

			novels.GET("/:id/export", exportHandler.Export)
			novels.GET("/:id/export/stats", exportHandler.Stats)
			novels.GET("/:id/story-memory", memoryHandler.Get)
			novels.GET("/:id/version-stats", versionHandler.NovelStats)

			novels.GET("/:id/characters", characterHandler.ListByNovel)
			novels.POST("/:id/characters", characterHandler.Create)

			novels.GET("/:id/chapters", chapterHandler.ListByNovel)
			novels.POST("/:id/chapters", chapterHandler.Create)
			novels.POST("/:id/chapters/:chapterId/generate", writingHandler.GenerateChapter)
		}

		chapters := api.Group("/chapters")
		{
			chapters.GET("/:id", chapterHandler.Get)
			chapters.PUT("/:id", chapterHandler.Update)
			chapters.DELETE("/:id", chapterHandler.Delete)
			chapters.POST("/:id/autosave", chapterHandler.AutoSave)
			chapters.GET("/:id/versions", versionHandler.ListByChapter)
			chapters.POST("/:id/versions", versionHandler.Snapshot)
		}

		versions := api.Group("/versions")
		{
			versions.GET("/compare", versionHandler.Compare)
			versions.POST("/:id/restore", versionHandler.Restore)
			versions.DELETE("/:id", versionHandler.Delete)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.POST("/mark-read", notificationHandler.MarkAllRead)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
			notifications.DELETE("/:id", notificationHandler.Delete)
			notifications.DELETE("", notificationHandler.ClearRead)
		}
	}

	return r
}
