package service

import (
	"context"
	"time"

	"github.com/novelforge/backend/internal/eventbus"
	"github.com/novelforge/backend/internal/model"
	"github.com/novelforge/backend/internal/repository"
	"k8s.io/klog/v2"
)

type VersionService struct {
	versionRepo repository.VersionRepository
	chapterRepo repository.ChapterRepository
	novelRepo   repository.NovelRepository
	bus         *eventbus.Bus
}

func NewVersionService(versionRepo repository.VersionRepository, chapterRepo repository.ChapterRepository, novelRepo repository.NovelRepository, bus *eventbus.Bus) *VersionService {
	return &VersionService{
		versionRepo: versionRepo,
		chapterRepo: chapterRepo,
		novelRepo:   novelRepo,
		bus:         bus,
	}
}

// Snapshot creates a user-requested version of the chapter's current
// content. Snapshots are never deduplicated: two calls produce two rows.
func (s *VersionService) Snapshot(ctx context.Context, chapterID uint, label string) (*model.ChapterVersion, error) {
	chapter, err := s.chapterRepo.Get(chapterID)
	if err != nil {
		return nil, err
	}
	if chapter.Content == "" {
		return nil, ErrEmptyContent
	}

	if label == "" {
		label = "Snapshot - " + time.Now().Format("2006-01-02 15:04:05")
	}

	version := &model.ChapterVersion{
		ChapterID:    chapter.ID,
		Content:      chapter.Content,
		WordCount:    chapter.WordCount,
		VersionLabel: label,
		IsSnapshot:   true,
		CreatedAt:    time.Now(),
	}
	if err := s.versionRepo.Create(version); err != nil {
		return nil, err
	}

	s.notifyVersionCreated(ctx, chapter)

	return version, nil
}

func (s *VersionService) List(chapterID uint, limit int) ([]model.ChapterVersion, error) {
	if _, err := s.chapterRepo.Get(chapterID); err != nil {
		return nil, err
	}
	return s.versionRepo.GetByChapter(chapterID, limit)
}

// Restore writes a version's content back onto its chapter. The chapter's
// pre-restore content is snapshotted first so restoring is itself
// recoverable; the backup, the content write and the novel word-count
// recompute commit together.
func (s *VersionService) Restore(ctx context.Context, versionID uint) (*model.Chapter, error) {
	version, err := s.versionRepo.Get(versionID)
	if err != nil {
		return nil, err
	}

	chapter, err := s.chapterRepo.Get(version.ChapterID)
	if err != nil {
		return nil, err
	}

	var backup *model.ChapterVersion
	if chapter.Content != "" {
		backup = &model.ChapterVersion{
			ChapterID:    chapter.ID,
			Content:      chapter.Content,
			WordCount:    chapter.WordCount,
			VersionLabel: "Backup before restore",
			IsSnapshot:   true,
			CreatedAt:    time.Now(),
		}
	}

	chapter.Content = version.Content
	chapter.WordCount = version.WordCount
	chapter.UpdatedAt = time.Now()

	if err := s.chapterRepo.SaveContent(chapter, backup); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *VersionService) Delete(versionID uint) error {
	return s.versionRepo.Delete(versionID)
}

type VersionComparison struct {
	From          model.ChapterVersion `json:"from"`
	To            model.ChapterVersion `json:"to"`
	WordCountDiff int                  `json:"word_count_diff"`
}

func (s *VersionService) Compare(fromID, toID uint) (*VersionComparison, error) {
	from, err := s.versionRepo.Get(fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.versionRepo.Get(toID)
	if err != nil {
		return nil, err
	}
	return &VersionComparison{
		From:          *from,
		To:            *to,
		WordCountDiff: to.WordCount - from.WordCount,
	}, nil
}

type NovelVersionStats struct {
	TotalVersions        int `json:"total_versions"`
	TotalSnapshots       int `json:"total_snapshots"`
	ChaptersWithVersions int `json:"chapters_with_versions"`
}

func (s *VersionService) NovelStats(novelID uint) (*NovelVersionStats, error) {
	if _, err := s.novelRepo.GetBasic(novelID); err != nil {
		return nil, err
	}

	versions, err := s.versionRepo.GetByNovel(novelID)
	if err != nil {
		return nil, err
	}

	stats := &NovelVersionStats{TotalVersions: len(versions)}
	chapterIDs := make(map[uint]struct{})
	for _, v := range versions {
		if v.IsSnapshot {
			stats.TotalSnapshots++
		}
		chapterIDs[v.ChapterID] = struct{}{}
	}
	stats.ChaptersWithVersions = len(chapterIDs)
	return stats, nil
}

func (s *VersionService) notifyVersionCreated(ctx context.Context, chapter *model.Chapter) {
	if s.bus == nil {
		return
	}
	novel, err := s.novelRepo.GetBasic(chapter.NovelID)
	if err != nil {
		klog.Errorf("load novel for version event failed: novelID=%d, error=%v", chapter.NovelID, err)
		return
	}
	title := novel.CurrentTitle
	if title == "" {
		title = novel.Title
	}
	event := eventbus.ChapterEvent{
		Type:          eventbus.ChapterEventVersionCreated,
		UserID:        novel.UserID,
		NovelID:       novel.ID,
		ChapterID:     chapter.ID,
		ChapterNumber: chapter.ChapterNumber,
		NovelTitle:    title,
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		klog.Errorf("version event failed: chapterID=%d, error=%v", chapter.ID, err)
	}
}
