package repository

import (
	"errors"

	"github.com/novelforge/backend/internal/model"
	"gorm.io/gorm"
)

type chapterRepository struct {
	db *gorm.DB
}

func NewChapterRepository(db *gorm.DB) ChapterRepository {
	return &chapterRepository{db: db}
}

func (r *chapterRepository) CreateWithNovelUpdate(chapter *model.Chapter) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(chapter).Error; err != nil {
			return err
		}
		return tx.Model(&model.Novel{}).
			Where("id = ?", chapter.NovelID).
			Update("chapter_count", gorm.Expr("chapter_count + 1")).Error
	})
}

func (r *chapterRepository) Get(id uint) (*model.Chapter, error) {
	var chapter model.Chapter
	err := r.db.First(&chapter, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &chapter, nil
}

func (r *chapterRepository) GetWithVersions(id uint, versionLimit int) (*model.Chapter, error) {
	var chapter model.Chapter
	err := r.db.Preload("Versions", func(db *gorm.DB) *gorm.DB {
		q := db.Order("created_at DESC, id DESC")
		if versionLimit > 0 {
			q = q.Limit(versionLimit)
		}
		return q
	}).First(&chapter, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &chapter, nil
}

func (r *chapterRepository) GetByNovel(novelID uint) ([]model.Chapter, error) {
	var chapters []model.Chapter
	err := r.db.Where("novel_id = ?", novelID).
		Order("chapter_number ASC").
		Find(&chapters).Error
	return chapters, err
}

// GetBefore returns all chapters of the novel that precede chapterNumber,
// ordered ascending. Used to build generation context.
func (r *chapterRepository) GetBefore(novelID uint, chapterNumber int) ([]model.Chapter, error) {
	var chapters []model.Chapter
	err := r.db.Where("novel_id = ? AND chapter_number < ?", novelID, chapterNumber).
		Order("chapter_number ASC").
		Find(&chapters).Error
	return chapters, err
}

func (r *chapterRepository) Save(chapter *model.Chapter) error {
	return r.db.Save(chapter).Error
}

func (r *chapterRepository) SaveContent(chapter *model.Chapter, backup *model.ChapterVersion) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if backup != nil {
			if err := tx.Create(backup).Error; err != nil {
				return err
			}
		}
		if err := tx.Save(chapter).Error; err != nil {
			return err
		}
		return syncNovelTotalWords(tx, chapter.NovelID)
	})
}

func (r *chapterRepository) DeleteWithNovelUpdate(chapter *model.Chapter) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chapter_id = ?", chapter.ID).
			Delete(&model.ChapterVersion{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Chapter{}, chapter.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Novel{}).
			Where("id = ? AND chapter_count > 0", chapter.NovelID).
			Update("chapter_count", gorm.Expr("chapter_count - 1")).Error; err != nil {
			return err
		}
		return syncNovelTotalWords(tx, chapter.NovelID)
	})
}

// syncNovelTotalWords re-derives the novel's total word count from its
// chapters inside the caller's transaction.
func syncNovelTotalWords(tx *gorm.DB, novelID uint) error {
	var total int64
	if err := tx.Model(&model.Chapter{}).
		Where("novel_id = ?", novelID).
		Select("COALESCE(SUM(word_count), 0)").
		Scan(&total).Error; err != nil {
		return err
	}
	return tx.Model(&model.Novel{}).
		Where("id = ?", novelID).
		Update("total_words", total).Error
}
