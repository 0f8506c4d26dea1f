package repository

import (
	"github.com/novelforge/backend/internal/model"
	"gorm.io/gorm"
)

type characterRepository struct {
	db *gorm.DB
}

func NewCharacterRepository(db *gorm.DB) CharacterRepository {
	return &characterRepository{db: db}
}

func (r *characterRepository) Create(character *model.Character) error {
	return r.db.Create(character).Error
}

func (r *characterRepository) GetByNovel(novelID uint) ([]model.Character, error) {
	var characters []model.Character
	err := r.db.Where("novel_id = ?", novelID).
		Order("created_at ASC, id ASC").
		Find(&characters).Error
	return characters, err
}
