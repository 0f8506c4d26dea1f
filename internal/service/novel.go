package service

import (
	"fmt"
	"time"

	"github.com/novelforge/backend/internal/model"
	"github.com/novelforge/backend/internal/repository"
)

type NovelService struct {
	novelRepo repository.NovelRepository
	userRepo  repository.UserRepository
}

func NewNovelService(novelRepo repository.NovelRepository, userRepo repository.UserRepository) *NovelService {
	return &NovelService{
		novelRepo: novelRepo,
		userRepo:  userRepo,
	}
}

type CreateNovelRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *NovelService) Create(userID string, req CreateNovelRequest) (*model.Novel, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	// the identity provider owns user records; make sure a row exists for
	// the foreign key before the first novel is created
	if err := s.userRepo.Upsert(&model.User{ID: userID}); err != nil {
		return nil, err
	}

	novel := &model.Novel{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.NovelStatusIdea,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.novelRepo.Create(novel); err != nil {
		return nil, err
	}
	return novel, nil
}

func (s *NovelService) ListByUser(userID string) ([]model.Novel, error) {
	return s.novelRepo.GetByUser(userID)
}

func (s *NovelService) Get(id uint) (*model.Novel, error) {
	return s.novelRepo.Get(id)
}

func (s *NovelService) GetBasic(id uint) (*model.Novel, error) {
	return s.novelRepo.GetBasic(id)
}

type UpdateNovelRequest struct {
	Title             *string `json:"title"`
	CurrentTitle      *string `json:"current_title"`
	Description       *string `json:"description"`
	Genre             *string `json:"genre"`
	Themes            *string `json:"themes"`
	Tone              *string `json:"tone"`
	CentralConflict   *string `json:"central_conflict"`
	DirectionalEnding *string `json:"directional_ending"`
	Outline           *string `json:"outline"`
	Status            *string `json:"status"`
}

func (s *NovelService) Update(id uint, req UpdateNovelRequest) (*model.Novel, error) {
	novel, err := s.novelRepo.GetBasic(id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		novel.Title = *req.Title
	}
	if req.CurrentTitle != nil {
		novel.CurrentTitle = *req.CurrentTitle
	}
	if req.Description != nil {
		novel.Description = *req.Description
	}
	if req.Genre != nil {
		novel.Genre = *req.Genre
	}
	if req.Themes != nil {
		novel.Themes = *req.Themes
	}
	if req.Tone != nil {
		novel.Tone = *req.Tone
	}
	if req.CentralConflict != nil {
		novel.CentralConflict = *req.CentralConflict
	}
	if req.DirectionalEnding != nil {
		novel.DirectionalEnding = *req.DirectionalEnding
	}
	if req.Outline != nil {
		novel.Outline = *req.Outline
	}
	if req.Status != nil {
		switch *req.Status {
		case model.NovelStatusIdea, model.NovelStatusOutlined, model.NovelStatusWriting, model.NovelStatusCompleted:
			novel.Status = *req.Status
		default:
			return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, *req.Status)
		}
	}
	novel.UpdatedAt = time.Now()

	if err := s.novelRepo.Save(novel); err != nil {
		return nil, err
	}
	return novel, nil
}

func (s *NovelService) Delete(id uint) error {
	return s.novelRepo.Delete(id)
}
