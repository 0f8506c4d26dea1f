package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/novelforge/backend/internal/eventbus"
	"github.com/novelforge/backend/internal/model"
	"github.com/novelforge/backend/internal/repository"
	"gorm.io/gorm"
)

type testEnv struct {
	db            *gorm.DB
	bus           *eventbus.Bus
	users         repository.UserRepository
	novels        repository.NovelRepository
	chapters      repository.ChapterRepository
	versions      repository.VersionRepository
	characters    repository.CharacterRepository
	memories      repository.MemoryRepository
	notifications repository.NotificationRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db error: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Novel{},
		&model.Chapter{},
		&model.ChapterVersion{},
		&model.Character{},
		&model.StoryMemory{},
		&model.Notification{},
	); err != nil {
		t.Fatalf("migrate error: %v", err)
	}
	return &testEnv{
		db:            db,
		bus:           eventbus.NewBus(),
		users:         repository.NewUserRepository(db),
		novels:        repository.NewNovelRepository(db),
		chapters:      repository.NewChapterRepository(db),
		versions:      repository.NewVersionRepository(db),
		characters:    repository.NewCharacterRepository(db),
		memories:      repository.NewMemoryRepository(db),
		notifications: repository.NewNotificationRepository(db),
	}
}

func (env *testEnv) createNovel(t *testing.T, userID, title string) *model.Novel {
	t.Helper()
	novel := &model.Novel{UserID: userID, Title: title, Status: model.NovelStatusIdea}
	if err := env.novels.Create(novel); err != nil {
		t.Fatalf("create novel error: %v", err)
	}
	return novel
}

func (env *testEnv) createChapter(t *testing.T, novelID uint, number int, content string) *model.Chapter {
	t.Helper()
	chapter := &model.Chapter{
		NovelID:       novelID,
		ChapterNumber: number,
		Status:        model.ChapterStatusPending,
	}
	if err := env.chapters.CreateWithNovelUpdate(chapter); err != nil {
		t.Fatalf("create chapter error: %v", err)
	}
	if content != "" {
		svc := NewChapterService(env.chapters, env.novels, nil)
		if _, err := svc.AutoSave(context.Background(), chapter.ID, content); err != nil {
			t.Fatalf("seed chapter content error: %v", err)
		}
		got, err := env.chapters.Get(chapter.ID)
		if err != nil {
			t.Fatalf("reload chapter error: %v", err)
		}
		return got
	}
	return chapter
}

func words(n int) string {
	out := make([]byte, 0, n*5)
	for i := 0; i < n; i++ {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, "word"...)
	}
	return string(out)
}
