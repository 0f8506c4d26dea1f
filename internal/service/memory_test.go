package service

import (
	"strings"
	"testing"

	"github.com/novelforge/backend/internal/model"
)

func TestKeywordExtractorMultiCategory(t *testing.T) {
	extractor := NewKeywordExtractor()
	out := extractor.Extract("She discovered the letter in the old library that night.", 3)

	if len(out.PlotPoints) != 1 {
		t.Fatalf("expected 1 plot point, got %d", len(out.PlotPoints))
	}
	if len(out.Settings) != 1 {
		t.Fatalf("expected 1 setting, got %d", len(out.Settings))
	}
	if len(out.TimelineEvents) != 1 {
		t.Fatalf("expected 1 timeline event, got %d", len(out.TimelineEvents))
	}
	if len(out.Relationships) != 0 || len(out.CharacterArcs) != 0 {
		t.Fatalf("unexpected extra categories: %+v", out)
	}
}

func TestKeywordExtractorDropsShortSentences(t *testing.T) {
	extractor := NewKeywordExtractor()
	out := extractor.Extract("She found it. He felt sad.", 1)

	if len(out.PlotPoints) != 0 || len(out.CharacterArcs) != 0 {
		t.Fatalf("short sentences must be dropped, got %+v", out)
	}
}

func TestKeywordExtractorCategoryCap(t *testing.T) {
	extractor := NewKeywordExtractor()
	var sentences []string
	for i := 0; i < 5; i++ {
		sentences = append(sentences, "She discovered something new about the manuscript today.")
	}
	out := extractor.Extract(strings.Join(sentences, " "), 1)

	if len(out.PlotPoints) != maxPerCategory {
		t.Fatalf("expected cap of %d plot points, got %d", maxPerCategory, len(out.PlotPoints))
	}
}

func TestKeywordExtractorCaseInsensitive(t *testing.T) {
	extractor := NewKeywordExtractor()
	out := extractor.Extract("THEY DISCOVERED THE HIDDEN PASSAGE BEHIND THE SHELF.", 1)

	if len(out.PlotPoints) != 1 {
		t.Fatalf("expected case-insensitive match, got %+v", out)
	}
	if out.PlotPoints[0] != "THEY DISCOVERED THE HIDDEN PASSAGE BEHIND THE SHELF" {
		t.Fatalf("original casing must be preserved, got %q", out.PlotPoints[0])
	}
}

func TestMemoryServiceExtractAndStore(t *testing.T) {
	env := newTestEnv(t)
	novel := env.createNovel(t, "u1", "Novel")

	svc := NewMemoryService(env.memories, NewKeywordExtractor())
	svc.ExtractAndStore(novel.ID, "She discovered the letter in the old library that night.", 3)

	memories, err := env.memories.GetByNovel(novel.ID)
	if err != nil {
		t.Fatalf("list memories error: %v", err)
	}
	if len(memories) != 3 {
		t.Fatalf("expected 3 memory rows, got %d", len(memories))
	}

	byType := make(map[string]model.StoryMemory)
	for _, m := range memories {
		byType[m.Type] = m
		if m.ChapterContext != "Chapter 3" {
			t.Fatalf("unexpected chapter context %q", m.ChapterContext)
		}
	}
	if byType[model.MemoryTypePlotPoint].Importance != model.ImportanceHigh {
		t.Fatalf("plot points should be high importance, got %q", byType[model.MemoryTypePlotPoint].Importance)
	}
	if byType[model.MemoryTypeSetting].Importance != model.ImportanceLow {
		t.Fatalf("settings should be low importance, got %q", byType[model.MemoryTypeSetting].Importance)
	}
	if byType[model.MemoryTypeTimeline].Importance != model.ImportanceNormal {
		t.Fatalf("timeline should be normal importance, got %q", byType[model.MemoryTypeTimeline].Importance)
	}
}
