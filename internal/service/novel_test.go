package service

import (
	"errors"
	"testing"

	"github.com/novelforge/backend/internal/model"
	"github.com/novelforge/backend/internal/repository"
)

func TestNovelCreateRequiresTitle(t *testing.T) {
	env := newTestEnv(t)
	svc := NewNovelService(env.novels, env.users)

	if _, err := svc.Create("u1", CreateNovelRequest{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestNovelCreateUpsertsUser(t *testing.T) {
	env := newTestEnv(t)
	svc := NewNovelService(env.novels, env.users)

	novel, err := svc.Create("u1", CreateNovelRequest{Title: "Novel", Description: "An idea"})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if novel.Status != model.NovelStatusIdea {
		t.Fatalf("expected status idea, got %q", novel.Status)
	}

	user, err := env.users.Get("u1")
	if err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if user.ID != "u1" {
		t.Fatalf("unexpected user %+v", user)
	}

	// a second novel must not fail on the existing user row
	if _, err := svc.Create("u1", CreateNovelRequest{Title: "Second"}); err != nil {
		t.Fatalf("second create error: %v", err)
	}
}

func TestNovelUpdateValidatesStatus(t *testing.T) {
	env := newTestEnv(t)
	svc := NewNovelService(env.novels, env.users)

	novel, err := svc.Create("u1", CreateNovelRequest{Title: "Novel"})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	bad := "paused"
	if _, err := svc.Update(novel.ID, UpdateNovelRequest{Status: &bad}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	good := model.NovelStatusCompleted
	updated, err := svc.Update(novel.ID, UpdateNovelRequest{Status: &good})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if updated.Status != model.NovelStatusCompleted {
		t.Fatalf("status not applied: %q", updated.Status)
	}
}

func TestNovelDeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	svc := NewNovelService(env.novels, env.users)

	novel, err := svc.Create("u1", CreateNovelRequest{Title: "Novel"})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	chapter := env.createChapter(t, novel.ID, 1, "Some chapter content here.")
	if err := env.memories.Create(&model.StoryMemory{NovelID: novel.ID, Type: model.MemoryTypePlotPoint, Description: "d"}); err != nil {
		t.Fatalf("create memory error: %v", err)
	}

	if err := svc.Delete(novel.ID); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if _, err := env.novels.GetBasic(novel.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("novel should be gone, got %v", err)
	}
	if _, err := env.chapters.Get(chapter.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("chapter should be gone, got %v", err)
	}
	memories, err := env.memories.GetByNovel(novel.ID)
	if err != nil {
		t.Fatalf("list memories error: %v", err)
	}
	if len(memories) != 0 {
		t.Fatalf("memories should be gone, got %d", len(memories))
	}
}
