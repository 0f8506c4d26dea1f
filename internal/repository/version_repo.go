package repository

import (
	"errors"

	"github.com/novelforge/backend/internal/model"
	"gorm.io/gorm"
)

type versionRepository struct {
	db *gorm.DB
}

func NewVersionRepository(db *gorm.DB) VersionRepository {
	return &versionRepository{db: db}
}

func (r *versionRepository) Create(version *model.ChapterVersion) error {
	return r.db.Create(version).Error
}

func (r *versionRepository) Get(id uint) (*model.ChapterVersion, error) {
	var version model.ChapterVersion
	err := r.db.First(&version, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &version, nil
}

func (r *versionRepository) GetByChapter(chapterID uint, limit int) ([]model.ChapterVersion, error) {
	var versions []model.ChapterVersion
	q := r.db.Where("chapter_id = ?", chapterID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&versions).Error
	return versions, err
}

// GetByNovel returns every version of every chapter of the novel. Used for
// version statistics.
func (r *versionRepository) GetByNovel(novelID uint) ([]model.ChapterVersion, error) {
	var versions []model.ChapterVersion
	err := r.db.
		Joins("JOIN chapters ON chapters.id = chapter_versions.chapter_id").
		Where("chapters.novel_id = ?", novelID).
		Find(&versions).Error
	return versions, err
}

func (r *versionRepository) Delete(id uint) error {
	result := r.db.Delete(&model.ChapterVersion{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
