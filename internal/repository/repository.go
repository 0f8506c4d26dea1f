package repository

import (
	"errors"

	"github.com/novelforge/backend/internal/model"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

type UserRepository interface {
	Get(id string) (*model.User, error)
	Upsert(user *model.User) error
}

type NovelRepository interface {
	Create(novel *model.Novel) error
	GetByUser(userID string) ([]model.Novel, error)
	Get(id uint) (*model.Novel, error)
	GetBasic(id uint) (*model.Novel, error)
	Save(novel *model.Novel) error
	Delete(id uint) error
}

type ChapterRepository interface {
	// CreateWithNovelUpdate inserts the chapter and bumps the owning
	// novel's chapter count in one transaction.
	CreateWithNovelUpdate(chapter *model.Chapter) error
	Get(id uint) (*model.Chapter, error)
	GetWithVersions(id uint, versionLimit int) (*model.Chapter, error)
	GetByNovel(novelID uint) ([]model.Chapter, error)
	GetBefore(novelID uint, chapterNumber int) ([]model.Chapter, error)
	Save(chapter *model.Chapter) error
	// SaveContent persists a content change. When backup is non-nil it is
	// inserted before the chapter row is written, and the owning novel's
	// total word count is re-derived from its chapters. Everything runs in
	// a single transaction so concurrent saves cannot interleave.
	SaveContent(chapter *model.Chapter, backup *model.ChapterVersion) error
	// DeleteWithNovelUpdate removes the chapter and its versions, then
	// fixes up the owning novel's chapter count and total words.
	DeleteWithNovelUpdate(chapter *model.Chapter) error
}

type VersionRepository interface {
	Create(version *model.ChapterVersion) error
	Get(id uint) (*model.ChapterVersion, error)
	GetByChapter(chapterID uint, limit int) ([]model.ChapterVersion, error)
	GetByNovel(novelID uint) ([]model.ChapterVersion, error)
	Delete(id uint) error
}

type CharacterRepository interface {
	Create(character *model.Character) error
	GetByNovel(novelID uint) ([]model.Character, error)
}

type MemoryRepository interface {
	Create(memory *model.StoryMemory) error
	GetByNovel(novelID uint) ([]model.StoryMemory, error)
}

type NotificationRepository interface {
	Create(notification *model.Notification) error
	GetByUser(userID string, unreadOnly bool) ([]model.Notification, error)
	CountUnread(userID string) (int64, error)
	MarkRead(id uint) error
	MarkAllRead(userID string) error
	Delete(id uint) error
	DeleteRead(userID string) error
}
