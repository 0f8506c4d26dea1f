package service

import (
	"fmt"
	"time"

	"github.com/novelforge/backend/internal/model"
	"github.com/novelforge/backend/internal/repository"
)

type CharacterService struct {
	characterRepo repository.CharacterRepository
	novelRepo     repository.NovelRepository
}

func NewCharacterService(characterRepo repository.CharacterRepository, novelRepo repository.NovelRepository) *CharacterService {
	return &CharacterService{
		characterRepo: characterRepo,
		novelRepo:     novelRepo,
	}
}

type CreateCharacterRequest struct {
	Name               string `json:"name"`
	Role               string `json:"role"`
	Age                string `json:"age"`
	PhysicalAppearance string `json:"physical_appearance"`
	PersonalityTraits  string `json:"personality_traits"`
	Backstory          string `json:"backstory"`
	Goals              string `json:"goals"`
	Fears              string `json:"fears"`
	Relationships      string `json:"relationships"`
}

func (s *CharacterService) Create(novelID uint, req CreateCharacterRequest) (*model.Character, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if _, err := s.novelRepo.GetBasic(novelID); err != nil {
		return nil, err
	}

	character := &model.Character{
		NovelID:            novelID,
		Name:               req.Name,
		Role:               req.Role,
		Age:                req.Age,
		PhysicalAppearance: req.PhysicalAppearance,
		PersonalityTraits:  req.PersonalityTraits,
		Backstory:          req.Backstory,
		Goals:              req.Goals,
		Fears:              req.Fears,
		Relationships:      req.Relationships,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
	if err := s.characterRepo.Create(character); err != nil {
		return nil, err
	}
	return character, nil
}

func (s *CharacterService) ListByNovel(novelID uint) ([]model.Character, error) {
	return s.characterRepo.GetByNovel(novelID)
}
