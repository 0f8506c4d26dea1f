package repository

import (
	"errors"

	"github.com/novelforge/backend/internal/model"
	"gorm.io/gorm"
)

type novelRepository struct {
	db *gorm.DB
}

func NewNovelRepository(db *gorm.DB) NovelRepository {
	return &novelRepository{db: db}
}

func (r *novelRepository) Create(novel *model.Novel) error {
	return r.db.Create(novel).Error
}

func (r *novelRepository) GetByUser(userID string) ([]model.Novel, error) {
	var novels []model.Novel
	err := r.db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&novels).Error
	return novels, err
}

// Get loads the novel with its chapters, characters and story memories.
func (r *novelRepository) Get(id uint) (*model.Novel, error) {
	var novel model.Novel
	err := r.db.Preload("Chapters", func(db *gorm.DB) *gorm.DB {
		return db.Order("chapter_number ASC")
	}).Preload("Characters", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	}).Preload("Memories", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	}).First(&novel, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &novel, nil
}

func (r *novelRepository) GetBasic(id uint) (*model.Novel, error) {
	var novel model.Novel
	err := r.db.First(&novel, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &novel, nil
}

func (r *novelRepository) Save(novel *model.Novel) error {
	return r.db.Save(novel).Error
}

// Delete removes the novel and everything it owns. Children are deleted
// explicitly inside one transaction rather than relying on the database to
// enforce the cascade, since sqlite does not enable foreign keys by default.
func (r *novelRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var novel model.Novel
		if err := tx.First(&novel, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var chapterIDs []uint
		if err := tx.Model(&model.Chapter{}).
			Where("novel_id = ?", id).
			Pluck("id", &chapterIDs).Error; err != nil {
			return err
		}
		if len(chapterIDs) > 0 {
			if err := tx.Where("chapter_id IN ?", chapterIDs).
				Delete(&model.ChapterVersion{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("novel_id = ?", id).Delete(&model.Chapter{}).Error; err != nil {
			return err
		}
		if err := tx.Where("novel_id = ?", id).Delete(&model.Character{}).Error; err != nil {
			return err
		}
		if err := tx.Where("novel_id = ?", id).Delete(&model.StoryMemory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Novel{}, id).Error
	})
}
