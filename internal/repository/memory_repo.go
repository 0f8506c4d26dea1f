package repository

import (
	"github.com/novelforge/backend/internal/model"
	"gorm.io/gorm"
)

type memoryRepository struct {
	db *gorm.DB
}

func NewMemoryRepository(db *gorm.DB) MemoryRepository {
	return &memoryRepository{db: db}
}

func (r *memoryRepository) Create(memory *model.StoryMemory) error {
	return r.db.Create(memory).Error
}

// GetByNovel returns all memory entries in creation order (oldest first).
func (r *memoryRepository) GetByNovel(novelID uint) ([]model.StoryMemory, error) {
	var memories []model.StoryMemory
	err := r.db.Where("novel_id = ?", novelID).
		Order("created_at ASC, id ASC").
		Find(&memories).Error
	return memories, err
}
