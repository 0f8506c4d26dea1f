package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/novelforge/backend/internal/model"
)

func TestStoryContextPartitionsByType(t *testing.T) {
	env := newTestEnv(t)
	novel := env.createNovel(t, "u1", "Novel")
	for _, memType := range []string{
		model.MemoryTypePlotPoint,
		model.MemoryTypeRelationship,
		model.MemoryTypeCharacterArc,
		model.MemoryTypeSetting,
		model.MemoryTypeTimeline,
	} {
		err := env.memories.Create(&model.StoryMemory{
			NovelID:     novel.ID,
			Type:        memType,
			Description: "memory of type " + memType,
		})
		if err != nil {
			t.Fatalf("create memory error: %v", err)
		}
	}
	if err := env.characters.Create(&model.Character{NovelID: novel.ID, Name: "Emma"}); err != nil {
		t.Fatalf("create character error: %v", err)
	}

	svc := NewContextService(env.novels, env.chapters, env.characters, env.memories)
	ctx, err := svc.StoryContext(novel.ID)
	if err != nil {
		t.Fatalf("story context error: %v", err)
	}
	if len(ctx.Characters) != 1 {
		t.Fatalf("expected 1 character, got %d", len(ctx.Characters))
	}
	if len(ctx.PlotPoints) != 1 || len(ctx.Relationships) != 1 || len(ctx.CharacterArcs) != 1 ||
		len(ctx.Settings) != 1 || len(ctx.Timeline) != 1 {
		t.Fatalf("memories not partitioned by type: %+v", ctx)
	}
}

func TestChapterGenerationContextPreviousSummaries(t *testing.T) {
	env := newTestEnv(t)
	novel := env.createNovel(t, "u1", "Novel")
	novel.Genre = "Literary Fiction"
	if err := env.novels.Save(novel); err != nil {
		t.Fatalf("save novel error: %v", err)
	}

	first := env.createChapter(t, novel.ID, 1, "")
	first.Summary = "Emma receives the manuscript."
	if err := env.chapters.Save(first); err != nil {
		t.Fatalf("save chapter error: %v", err)
	}
	second := env.createChapter(t, novel.ID, 2, "")
	second.Objectives = "Explore the archive."
	if err := env.chapters.Save(second); err != nil {
		t.Fatalf("save chapter error: %v", err)
	}
	env.createChapter(t, novel.ID, 3, "")

	svc := NewContextService(env.novels, env.chapters, env.characters, env.memories)
	genCtx, err := svc.ChapterGenerationContext(novel.ID, 3)
	if err != nil {
		t.Fatalf("generation context error: %v", err)
	}
	if genCtx.Foundation.Genre != "Literary Fiction" {
		t.Fatalf("unexpected genre %q", genCtx.Foundation.Genre)
	}
	if len(genCtx.PreviousChapters) != 2 {
		t.Fatalf("expected 2 previous chapters, got %d", len(genCtx.PreviousChapters))
	}
	if genCtx.PreviousChapters[0] != "Emma receives the manuscript." {
		t.Fatalf("unexpected first summary %q", genCtx.PreviousChapters[0])
	}
	if genCtx.PreviousChapters[1] != "Explore the archive." {
		t.Fatalf("summary should fall back to objectives, got %q", genCtx.PreviousChapters[1])
	}
}

func TestBuildPromptBlockNotSpecified(t *testing.T) {
	block := BuildPromptBlock(&ChapterGenerationContext{})

	if !strings.Contains(block, "STORY FOUNDATION") {
		t.Fatalf("missing foundation header:\n%s", block)
	}
	if !strings.Contains(block, "Genre: Not specified") {
		t.Fatalf("absent genre must surface as Not specified:\n%s", block)
	}
	if !strings.Contains(block, "Central conflict: Not specified") {
		t.Fatalf("absent conflict must surface as Not specified:\n%s", block)
	}
	if strings.Contains(block, "CHARACTERS") || strings.Contains(block, "PREVIOUS CHAPTERS") {
		t.Fatalf("empty sections must be omitted:\n%s", block)
	}
}

func TestBuildPromptBlockLimitsAndDedupe(t *testing.T) {
	genCtx := &ChapterGenerationContext{}
	for i := 0; i < 12; i++ {
		genCtx.StoryMemory.PlotPoints = append(genCtx.StoryMemory.PlotPoints, model.StoryMemory{
			Description:    fmt.Sprintf("plot point %d", i),
			ChapterContext: "Chapter 1",
		})
	}
	for i := 0; i < 8; i++ {
		genCtx.StoryMemory.Settings = append(genCtx.StoryMemory.Settings, model.StoryMemory{
			Description: "the old library",
		})
	}
	genCtx.StoryMemory.Settings = append(genCtx.StoryMemory.Settings, model.StoryMemory{
		Description: "the university archive",
	})

	block := BuildPromptBlock(genCtx)

	if strings.Contains(block, "plot point 0") || strings.Contains(block, "plot point 1 (") {
		t.Fatalf("oldest plot points should be truncated:\n%s", block)
	}
	if !strings.Contains(block, "plot point 11") {
		t.Fatalf("latest plot point missing:\n%s", block)
	}
	if strings.Count(block, "the old library") != 1 {
		t.Fatalf("settings must be de-duplicated:\n%s", block)
	}
	if !strings.Contains(block, "the university archive") {
		t.Fatalf("distinct setting missing:\n%s", block)
	}
}
