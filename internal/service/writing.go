package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/novelforge/backend/internal/eventbus"
	"github.com/novelforge/backend/internal/model"
	"github.com/novelforge/backend/internal/pkg/llm"
	"github.com/novelforge/backend/internal/pkg/textutil"
	"github.com/novelforge/backend/internal/repository"
	"k8s.io/klog/v2"
)

const writingSystemPrompt = "You are a helpful fiction writing assistant. Always respond with creative, engaging content for fiction novels."

// Generator is the completion surface WritingService depends on. The
// production implementation is llm.Client.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// WritingService drives the guided workflow from raw idea to drafted
// chapters. Every step loads the novel fresh, calls the model once and
// persists the result; there are no retries.
type WritingService struct {
	novelRepo     repository.NovelRepository
	chapterRepo   repository.ChapterRepository
	contextSvc    *ContextService
	generator     Generator
	notifications *NotificationService
	bus           *eventbus.Bus
}

func NewWritingService(novelRepo repository.NovelRepository, chapterRepo repository.ChapterRepository, contextSvc *ContextService, generator Generator, notifications *NotificationService, bus *eventbus.Bus) *WritingService {
	return &WritingService{
		novelRepo:     novelRepo,
		chapterRepo:   chapterRepo,
		contextSvc:    contextSvc,
		generator:     generator,
		notifications: notifications,
		bus:           bus,
	}
}

// DevelopIdeaResult carries either the updated novel or, when the model
// did not return parseable JSON, the raw completion for the caller to
// work with by hand. The two are mutually exclusive.
type DevelopIdeaResult struct {
	Novel *model.Novel `json:"novel,omitempty"`
	Raw   string       `json:"raw,omitempty"`
}

// DevelopIdea expands a one-line idea into the novel's foundation fields.
// An unparseable completion is returned raw and leaves the novel
// untouched.
func (s *WritingService) DevelopIdea(ctx context.Context, novelID uint, idea string) (*DevelopIdeaResult, error) {
	if strings.TrimSpace(idea) == "" {
		return nil, fmt.Errorf("%w: idea is required", ErrValidation)
	}
	novel, err := s.novelRepo.GetBasic(novelID)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Based on this book idea: %q, develop a complete fiction novel foundation:
1. Genre (specific fiction sub-genre)
2. Themes (3-5 central themes, comma separated)
3. Tone (describe the narrative voice and atmosphere)
4. Central Conflict (2-3 sentences)
5. Directional Ending (where the story is ultimately headed, 2-3 sentences)

Format your response as JSON:
{
  "genre": "...",
  "themes": "...",
  "tone": "...",
  "central_conflict": "...",
  "directional_ending": "..."
}`, idea)

	raw, err := s.complete(ctx, "develop idea", novelID, prompt)
	if err != nil {
		return nil, err
	}

	var foundation NovelFoundation
	if err := json.Unmarshal([]byte(llm.ExtractJSON(raw)), &foundation); err != nil {
		klog.Warningf("idea development returned non-JSON output: novelID=%d, error=%v", novelID, err)
		return &DevelopIdeaResult{Raw: raw}, nil
	}

	novel.Description = idea
	novel.Genre = foundation.Genre
	novel.Themes = foundation.Themes
	novel.Tone = foundation.Tone
	novel.CentralConflict = foundation.CentralConflict
	novel.DirectionalEnding = foundation.DirectionalEnding
	novel.Status = model.NovelStatusOutlined
	novel.UpdatedAt = time.Now()
	if err := s.novelRepo.Save(novel); err != nil {
		return nil, err
	}

	s.notifications.NotifyIdeaDeveloped(novel.UserID, novel.ID, novel.Title)
	return &DevelopIdeaResult{Novel: novel}, nil
}

// GenerateTitles proposes title options without touching the novel; the
// user commits one through SelectTitle.
func (s *WritingService) GenerateTitles(ctx context.Context, novelID uint) ([]string, error) {
	novel, err := s.novelRepo.GetBasic(novelID)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Based on this novel concept:
Idea: %s
Genre: %s
Themes: %s
Tone: %s

Generate 5-8 compelling book titles that match the genre and tone. Return only the titles, one per line.`,
		novel.Description, novel.Genre, novel.Themes, novel.Tone)

	raw, err := s.complete(ctx, "generate titles", novelID, prompt)
	if err != nil {
		return nil, err
	}

	titles := parseTitleLines(raw)
	if len(titles) == 0 {
		return nil, fmt.Errorf("model returned no usable titles")
	}

	s.notifications.NotifyTitlesGenerated(novel.UserID, novel.ID, novel.Title, len(titles))
	return titles, nil
}

func (s *WritingService) SelectTitle(novelID uint, title string) (*model.Novel, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	novel, err := s.novelRepo.GetBasic(novelID)
	if err != nil {
		return nil, err
	}
	novel.CurrentTitle = title
	novel.UpdatedAt = time.Now()
	if err := s.novelRepo.Save(novel); err != nil {
		return nil, err
	}
	return novel, nil
}

// GenerateOutline stores the outline text verbatim and moves the novel
// into the writing stage.
func (s *WritingService) GenerateOutline(ctx context.Context, novelID uint) (*model.Novel, error) {
	novel, err := s.novelRepo.GetBasic(novelID)
	if err != nil {
		return nil, err
	}

	title := novel.CurrentTitle
	if title == "" {
		title = novel.Title
	}
	prompt := fmt.Sprintf(`Create a structured outline for a fiction novel with:
Title: %s
Genre: %s
Themes: %s
Tone: %s
Central Conflict: %s
Directional Ending: %s

Generate a chapter-by-chapter outline with 8-12 chapters. For each chapter give a short title and 3-4 bullet points covering the key events. Return plain text, not JSON.`,
		title, novel.Genre, novel.Themes, novel.Tone, novel.CentralConflict, novel.DirectionalEnding)

	outline, err := s.complete(ctx, "generate outline", novelID, prompt)
	if err != nil {
		return nil, err
	}

	novel.Outline = outline
	novel.Status = model.NovelStatusWriting
	novel.UpdatedAt = time.Now()
	if err := s.novelRepo.Save(novel); err != nil {
		return nil, err
	}

	s.notifications.NotifyOutlineGenerated(novel.UserID, novel.ID, title)
	return novel, nil
}

// GenerateCoverPrompt returns an image-generation prompt for the cover.
// Nothing is persisted.
func (s *WritingService) GenerateCoverPrompt(ctx context.Context, novelID uint) (string, error) {
	novel, err := s.novelRepo.GetBasic(novelID)
	if err != nil {
		return "", err
	}

	title := novel.CurrentTitle
	if title == "" {
		title = novel.Title
	}
	prompt := fmt.Sprintf(`Based on this novel:
Title: %s
Genre: %s
Idea: %s
Tone: %s

Generate a detailed text prompt for creating a book cover image. Describe the visual style, mood, key elements, and composition. The prompt should be suitable for AI image generation.`,
		title, novel.Genre, novel.Description, novel.Tone)

	return s.complete(ctx, "generate cover prompt", novelID, prompt)
}

// GenerateChapter drafts a chapter from the accumulated story context and
// commits it as completed AI-generated content.
func (s *WritingService) GenerateChapter(ctx context.Context, novelID, chapterID uint) (*model.Chapter, error) {
	chapter, err := s.chapterRepo.Get(chapterID)
	if err != nil {
		return nil, err
	}
	if chapter.NovelID != novelID {
		return nil, repository.ErrNotFound
	}
	novel, err := s.novelRepo.GetBasic(novelID)
	if err != nil {
		return nil, err
	}

	genCtx, err := s.contextSvc.ChapterGenerationContext(novelID, chapter.ChapterNumber)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`%s

Write Chapter %d%s for this novel.
Summary: %s
Objectives: %s

Write the full chapter content (500-1500 words) that matches the established style and tone. Ensure it flows naturally from previous events and stays consistent with the established plot points and settings. Return only the chapter prose.`,
		BuildPromptBlock(genCtx),
		chapter.ChapterNumber, titleSuffix(chapter.Title),
		orNotSpecified(chapter.Summary), orNotSpecified(chapter.Objectives))

	content, err := s.complete(ctx, "generate chapter", novelID, prompt)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("model returned empty chapter content")
	}

	wasCompleted := chapter.Status == model.ChapterStatusCompleted
	chapter.Content = content
	chapter.WordCount = textutil.CountWords(content)
	chapter.Status = model.ChapterStatusCompleted
	chapter.AIGenerated = true
	chapter.UpdatedAt = time.Now()
	if err := s.chapterRepo.SaveContent(chapter, nil); err != nil {
		return nil, err
	}

	s.publish(ctx, eventbus.ChapterEvent{
		Type:          eventbus.ChapterEventContentSaved,
		NovelID:       chapter.NovelID,
		ChapterID:     chapter.ID,
		ChapterNumber: chapter.ChapterNumber,
		Content:       chapter.Content,
		WordCount:     chapter.WordCount,
	})
	if !wasCompleted {
		title := novel.CurrentTitle
		if title == "" {
			title = novel.Title
		}
		s.publish(ctx, eventbus.ChapterEvent{
			Type:          eventbus.ChapterEventCompleted,
			UserID:        novel.UserID,
			NovelID:       novel.ID,
			ChapterID:     chapter.ID,
			ChapterNumber: chapter.ChapterNumber,
			WordCount:     chapter.WordCount,
			NovelTitle:    title,
		})
	}

	return chapter, nil
}

func (s *WritingService) complete(ctx context.Context, step string, novelID uint, prompt string) (string, error) {
	requestID := uuid.NewString()
	klog.V(6).Infof("llm request %s: %s, novelID=%d, promptLen=%d", requestID, step, novelID, len(prompt))
	start := time.Now()
	result, err := s.generator.Generate(ctx, writingSystemPrompt, prompt)
	if err != nil {
		klog.Errorf("llm request %s failed: %s, novelID=%d, error=%v", requestID, step, novelID, err)
		return "", fmt.Errorf("%s: %w", step, err)
	}
	klog.V(6).Infof("llm request %s done: %s, novelID=%d, elapsed=%s, responseLen=%d", requestID, step, novelID, time.Since(start), len(result))
	return result, nil
}

func (s *WritingService) publish(ctx context.Context, event eventbus.ChapterEvent) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		klog.Errorf("chapter event %s failed: chapterID=%d, error=%v", event.Type, event.ChapterID, err)
	}
}

func titleSuffix(title string) string {
	if title == "" {
		return ""
	}
	return ": " + title
}

// parseTitleLines splits a completion into clean title candidates,
// stripping list markers and surrounding quotes the model tends to add.
func parseTitleLines(raw string) []string {
	var titles []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•")
		line = strings.TrimSpace(line)
		if i := strings.IndexAny(line, ".)"); i > 0 && i <= 2 && isDigits(line[:i]) {
			line = strings.TrimSpace(line[i+1:])
		}
		line = strings.Trim(line, `"“”`)
		if line == "" {
			continue
		}
		titles = append(titles, line)
	}
	return titles
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
