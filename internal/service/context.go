package service

import (
	"fmt"
	"strings"

	"github.com/novelforge/backend/internal/model"
	"github.com/novelforge/backend/internal/repository"
)

// StoryContext is everything known about a novel's story so far: memory
// entries partitioned by type (creation order) plus the character roster.
type StoryContext struct {
	Characters    []model.Character   `json:"characters"`
	PlotPoints    []model.StoryMemory `json:"plot_points"`
	Relationships []model.StoryMemory `json:"relationships"`
	CharacterArcs []model.StoryMemory `json:"character_arcs"`
	Settings      []model.StoryMemory `json:"settings"`
	Timeline      []model.StoryMemory `json:"timeline"`
}

// NovelFoundation carries the novel-level fields that anchor generation.
type NovelFoundation struct {
	Genre             string `json:"genre"`
	Tone              string `json:"tone"`
	Themes            string `json:"themes"`
	CentralConflict   string `json:"central_conflict"`
	DirectionalEnding string `json:"directional_ending"`
}

// ChapterGenerationContext is the bundle handed to prompt construction
// before drafting a chapter.
type ChapterGenerationContext struct {
	Foundation       NovelFoundation `json:"foundation"`
	PreviousChapters []string        `json:"previous_chapters"`
	StoryMemory      StoryContext    `json:"story_memory"`
}

type ContextService struct {
	novelRepo     repository.NovelRepository
	chapterRepo   repository.ChapterRepository
	characterRepo repository.CharacterRepository
	memoryRepo    repository.MemoryRepository
}

func NewContextService(novelRepo repository.NovelRepository, chapterRepo repository.ChapterRepository, characterRepo repository.CharacterRepository, memoryRepo repository.MemoryRepository) *ContextService {
	return &ContextService{
		novelRepo:     novelRepo,
		chapterRepo:   chapterRepo,
		characterRepo: characterRepo,
		memoryRepo:    memoryRepo,
	}
}

func (s *ContextService) StoryContext(novelID uint) (*StoryContext, error) {
	memories, err := s.memoryRepo.GetByNovel(novelID)
	if err != nil {
		return nil, err
	}
	characters, err := s.characterRepo.GetByNovel(novelID)
	if err != nil {
		return nil, err
	}

	ctx := &StoryContext{Characters: characters}
	for _, m := range memories {
		switch m.Type {
		case model.MemoryTypePlotPoint:
			ctx.PlotPoints = append(ctx.PlotPoints, m)
		case model.MemoryTypeRelationship:
			ctx.Relationships = append(ctx.Relationships, m)
		case model.MemoryTypeCharacterArc:
			ctx.CharacterArcs = append(ctx.CharacterArcs, m)
		case model.MemoryTypeSetting:
			ctx.Settings = append(ctx.Settings, m)
		case model.MemoryTypeTimeline:
			ctx.Timeline = append(ctx.Timeline, m)
		}
	}
	return ctx, nil
}

// ChapterGenerationContext assembles the novel foundation, the summaries
// of every chapter before currentChapterNumber (ascending) and the full
// story memory.
func (s *ContextService) ChapterGenerationContext(novelID uint, currentChapterNumber int) (*ChapterGenerationContext, error) {
	novel, err := s.novelRepo.GetBasic(novelID)
	if err != nil {
		return nil, err
	}

	previous, err := s.chapterRepo.GetBefore(novelID, currentChapterNumber)
	if err != nil {
		return nil, err
	}
	summaries := make([]string, 0, len(previous))
	for _, ch := range previous {
		summary := ch.Summary
		if summary == "" {
			summary = ch.Objectives
		}
		summaries = append(summaries, summary)
	}

	memory, err := s.StoryContext(novelID)
	if err != nil {
		return nil, err
	}

	return &ChapterGenerationContext{
		Foundation: NovelFoundation{
			Genre:             novel.Genre,
			Tone:              novel.Tone,
			Themes:            novel.Themes,
			CentralConflict:   novel.CentralConflict,
			DirectionalEnding: novel.DirectionalEnding,
		},
		PreviousChapters: summaries,
		StoryMemory:      *memory,
	}, nil
}

// notSpecified is the explicit marker surfaced for absent foundation
// fields so the prompt block never contains empty slots.
const notSpecified = "Not specified"

const (
	promptPlotPointLimit = 10
	promptSettingLimit   = 5
)

// BuildPromptBlock renders a generation context into the natural-language
// block embedded in chapter prompts. Plot points are truncated to the most
// recent entries; settings are de-duplicated by exact string before
// truncation.
func BuildPromptBlock(genCtx *ChapterGenerationContext) string {
	var b strings.Builder

	b.WriteString("STORY FOUNDATION\n")
	fmt.Fprintf(&b, "Genre: %s\n", orNotSpecified(genCtx.Foundation.Genre))
	fmt.Fprintf(&b, "Tone: %s\n", orNotSpecified(genCtx.Foundation.Tone))
	fmt.Fprintf(&b, "Themes: %s\n", orNotSpecified(genCtx.Foundation.Themes))
	fmt.Fprintf(&b, "Central conflict: %s\n", orNotSpecified(genCtx.Foundation.CentralConflict))
	fmt.Fprintf(&b, "Direction of the ending: %s\n", orNotSpecified(genCtx.Foundation.DirectionalEnding))

	if len(genCtx.StoryMemory.Characters) > 0 {
		b.WriteString("\nCHARACTERS\n")
		for _, c := range genCtx.StoryMemory.Characters {
			fmt.Fprintf(&b, "- %s (%s): %s\n",
				orNotSpecified(c.Name), orNotSpecified(c.Role), orNotSpecified(c.PersonalityTraits))
		}
	}

	if len(genCtx.PreviousChapters) > 0 {
		b.WriteString("\nPREVIOUS CHAPTERS\n")
		for i, summary := range genCtx.PreviousChapters {
			if summary == "" {
				summary = notSpecified
			}
			fmt.Fprintf(&b, "Chapter %d: %s\n", i+1, summary)
		}
	}

	plotPoints := lastN(genCtx.StoryMemory.PlotPoints, promptPlotPointLimit)
	if len(plotPoints) > 0 {
		b.WriteString("\nESTABLISHED PLOT POINTS\n")
		for _, m := range plotPoints {
			fmt.Fprintf(&b, "- %s (%s)\n", m.Description, m.ChapterContext)
		}
	}

	settings := lastN(dedupeByDescription(genCtx.StoryMemory.Settings), promptSettingLimit)
	if len(settings) > 0 {
		b.WriteString("\nESTABLISHED SETTINGS\n")
		for _, m := range settings {
			fmt.Fprintf(&b, "- %s\n", m.Description)
		}
	}

	return b.String()
}

func orNotSpecified(value string) string {
	if strings.TrimSpace(value) == "" {
		return notSpecified
	}
	return value
}

func lastN(memories []model.StoryMemory, n int) []model.StoryMemory {
	if len(memories) <= n {
		return memories
	}
	return memories[len(memories)-n:]
}

func dedupeByDescription(memories []model.StoryMemory) []model.StoryMemory {
	seen := make(map[string]struct{}, len(memories))
	out := make([]model.StoryMemory, 0, len(memories))
	for _, m := range memories {
		if _, ok := seen[m.Description]; ok {
			continue
		}
		seen[m.Description] = struct{}{}
		out = append(out, m)
	}
	return out
}
