package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"

	"github.com/novelforge/backend/config"
	"github.com/novelforge/backend/internal/eventbus"
	"github.com/novelforge/backend/internal/eventsubscriber"
	"github.com/novelforge/backend/internal/handler"
	"github.com/novelforge/backend/internal/pkg/database"
	"github.com/novelforge/backend/internal/pkg/llm"
	"github.com/novelforge/backend/internal/repository"
	"github.com/novelforge/backend/internal/router"
	"github.com/novelforge/backend/internal/service"
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	cfg := config.GetConfig()

	if cfg.Database.Type == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.DSN), 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
	}

	db, err := database.InitDB(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	novelRepo := repository.NewNovelRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	versionRepo := repository.NewVersionRepository(db)
	characterRepo := repository.NewCharacterRepository(db)
	memoryRepo := repository.NewMemoryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	bus := eventbus.NewBus()

	novelService := service.NewNovelService(novelRepo, userRepo)
	chapterService := service.NewChapterService(chapterRepo, novelRepo, bus)
	versionService := service.NewVersionService(versionRepo, chapterRepo, novelRepo, bus)
	characterService := service.NewCharacterService(characterRepo, novelRepo)
	memoryService := service.NewMemoryService(memoryRepo, service.NewKeywordExtractor())
	contextService := service.NewContextService(novelRepo, chapterRepo, characterRepo, memoryRepo)
	consistencyService := service.NewConsistencyService(memoryRepo, characterRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	exportService := service.NewExportService(novelRepo)
	writingService := service.NewWritingService(novelRepo, chapterRepo, contextService, llm.NewClient(cfg), notificationService, bus)

	eventsubscriber.NewMemorySubscriber(memoryService).Register(bus)
	eventsubscriber.NewNotificationSubscriber(notificationService).Register(bus)

	r := router.Setup(
		cfg,
		handler.NewNovelHandler(novelService),
		handler.NewChapterHandler(chapterService),
		handler.NewVersionHandler(versionService),
		handler.NewCharacterHandler(characterService),
		handler.NewStoryMemoryHandler(contextService, consistencyService),
		handler.NewWritingHandler(writingService),
		handler.NewExportHandler(exportService, novelService),
		handler.NewNotificationHandler(notificationService),
	)

	log.Printf("Server starting on port %s...", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
