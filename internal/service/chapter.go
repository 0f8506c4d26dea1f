package service

import (
	"context"
	"fmt"
	"time"

	"github.com/novelforge/backend/internal/eventbus"
	"github.com/novelforge/backend/internal/model"
	"github.com/novelforge/backend/internal/pkg/textutil"
	"github.com/novelforge/backend/internal/repository"
	"k8s.io/klog/v2"
)

// SignificantChangeWords is the word-count delta at which an edit triggers
// an automatic version of the content being replaced. Fixed policy, not
// user-configurable.
const SignificantChangeWords = 500

// recentVersionLimit caps the version list preloaded with a chapter.
const recentVersionLimit = 20

type ChapterService struct {
	chapterRepo repository.ChapterRepository
	novelRepo   repository.NovelRepository
	bus         *eventbus.Bus
}

func NewChapterService(chapterRepo repository.ChapterRepository, novelRepo repository.NovelRepository, bus *eventbus.Bus) *ChapterService {
	return &ChapterService{
		chapterRepo: chapterRepo,
		novelRepo:   novelRepo,
		bus:         bus,
	}
}

type CreateChapterRequest struct {
	ChapterNumber int    `json:"chapter_number"`
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	Objectives    string `json:"objectives"`
}

func (s *ChapterService) Create(novelID uint, req CreateChapterRequest) (*model.Chapter, error) {
	novel, err := s.novelRepo.GetBasic(novelID)
	if err != nil {
		return nil, err
	}

	number := req.ChapterNumber
	if number <= 0 {
		number = novel.ChapterCount + 1
	}

	chapter := &model.Chapter{
		NovelID:       novelID,
		ChapterNumber: number,
		Title:         req.Title,
		Summary:       req.Summary,
		Objectives:    req.Objectives,
		Status:        model.ChapterStatusPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := s.chapterRepo.CreateWithNovelUpdate(chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *ChapterService) Get(id uint) (*model.Chapter, error) {
	return s.chapterRepo.Get(id)
}

// GetWithVersions loads a chapter with its most recent versions, newest
// first.
func (s *ChapterService) GetWithVersions(id uint) (*model.Chapter, error) {
	return s.chapterRepo.GetWithVersions(id, recentVersionLimit)
}

func (s *ChapterService) ListByNovel(novelID uint) ([]model.Chapter, error) {
	return s.chapterRepo.GetByNovel(novelID)
}

// IsSignificantChange reports whether an edit crosses the automatic
// versioning threshold.
func (s *ChapterService) IsSignificantChange(oldContent, newContent string) bool {
	diff := textutil.CountWords(newContent) - textutil.CountWords(oldContent)
	if diff < 0 {
		diff = -diff
	}
	return diff >= SignificantChangeWords
}

type UpdateChapterRequest struct {
	Content    *string `json:"content"`
	Title      *string `json:"title"`
	Summary    *string `json:"summary"`
	Objectives *string `json:"objectives"`
	Status     *string `json:"status"`
}

// Update is the chapter edit pipeline: a significant content change first
// snapshots the content being replaced, then the new content, recomputed
// word count and the novel's derived totals are committed in one
// transaction. Story-memory extraction and notifications run afterwards as
// isolated side effects.
func (s *ChapterService) Update(ctx context.Context, id uint, req UpdateChapterRequest) (*model.Chapter, error) {
	chapter, err := s.chapterRepo.Get(id)
	if err != nil {
		return nil, err
	}

	var backup *model.ChapterVersion
	contentChanged := false
	if req.Content != nil {
		if s.IsSignificantChange(chapter.Content, *req.Content) {
			oldWords := textutil.CountWords(chapter.Content)
			backup = &model.ChapterVersion{
				ChapterID:    chapter.ID,
				Content:      chapter.Content,
				WordCount:    oldWords,
				VersionLabel: fmt.Sprintf("Auto-version (%d words)", oldWords),
				IsSnapshot:   false,
				CreatedAt:    time.Now(),
			}
		}
		chapter.Content = *req.Content
		chapter.WordCount = textutil.CountWords(*req.Content)
		contentChanged = true
	}
	if req.Title != nil {
		chapter.Title = *req.Title
	}
	if req.Summary != nil {
		chapter.Summary = *req.Summary
	}
	if req.Objectives != nil {
		chapter.Objectives = *req.Objectives
	}
	completed := false
	if req.Status != nil {
		switch *req.Status {
		case model.ChapterStatusPending, model.ChapterStatusCompleted:
			completed = *req.Status == model.ChapterStatusCompleted && chapter.Status != model.ChapterStatusCompleted
			chapter.Status = *req.Status
		default:
			return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, *req.Status)
		}
	}
	chapter.UpdatedAt = time.Now()

	if contentChanged {
		if err := s.chapterRepo.SaveContent(chapter, backup); err != nil {
			return nil, err
		}
	} else {
		if err := s.chapterRepo.Save(chapter); err != nil {
			return nil, err
		}
	}

	if contentChanged && chapter.Content != "" {
		s.publish(ctx, eventbus.ChapterEvent{
			Type:          eventbus.ChapterEventContentSaved,
			NovelID:       chapter.NovelID,
			ChapterID:     chapter.ID,
			ChapterNumber: chapter.ChapterNumber,
			Content:       chapter.Content,
			WordCount:     chapter.WordCount,
		})
	}
	if completed {
		s.publishCompleted(ctx, chapter)
	}

	return chapter, nil
}

// AutoSave overwrites content and word count without creating a version.
func (s *ChapterService) AutoSave(ctx context.Context, id uint, content string) (*model.Chapter, error) {
	chapter, err := s.chapterRepo.Get(id)
	if err != nil {
		return nil, err
	}

	chapter.Content = content
	chapter.WordCount = textutil.CountWords(content)
	chapter.UpdatedAt = time.Now()

	if err := s.chapterRepo.SaveContent(chapter, nil); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *ChapterService) Delete(id uint) error {
	chapter, err := s.chapterRepo.Get(id)
	if err != nil {
		return err
	}
	return s.chapterRepo.DeleteWithNovelUpdate(chapter)
}

func (s *ChapterService) publish(ctx context.Context, event eventbus.ChapterEvent) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		// secondary effects never fail the save that triggered them
		klog.Errorf("chapter event %s failed: chapterID=%d, error=%v", event.Type, event.ChapterID, err)
	}
}

func (s *ChapterService) publishCompleted(ctx context.Context, chapter *model.Chapter) {
	novel, err := s.novelRepo.GetBasic(chapter.NovelID)
	if err != nil {
		klog.Errorf("load novel for completion event failed: novelID=%d, error=%v", chapter.NovelID, err)
		return
	}
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
