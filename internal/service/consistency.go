package service

import (
	"fmt"
	"strings"

	"github.com/novelforge/backend/internal/model"
	"github.com/novelforge/backend/internal/repository"
)

const (
	IssueRelationshipContradiction = "relationship_contradiction"
	IssueIncompleteCharacter       = "incomplete_character"
)

type ConsistencyIssue struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ConsistencyService runs heuristic sanity checks over the accumulated
// story memory. False positives and negatives are expected; this is a
// review aid, not a proof of narrative consistency.
type ConsistencyService struct {
	memoryRepo    repository.MemoryRepository
	characterRepo repository.CharacterRepository
}

func NewConsistencyService(memoryRepo repository.MemoryRepository, characterRepo repository.CharacterRepository) *ConsistencyService {
	return &ConsistencyService{
		memoryRepo:    memoryRepo,
		characterRepo: characterRepo,
	}
}

func (s *ConsistencyService) Check(novelID uint) ([]ConsistencyIssue, error) {
	issues := []ConsistencyIssue{}

	memories, err := s.memoryRepo.GetByNovel(novelID)
	if err != nil {
		return nil, err
	}

	var relationships []string
	for _, m := range memories {
		if m.Type == model.MemoryTypeRelationship {
			relationships = append(relationships, strings.ToLower(m.Description))
		}
	}

	pairCount := 0
	var firstPair [2]string
	for i, a := range relationships {
		for _, b := range relationships[i+1:] {
			if contradicts(a, b) {
				if pairCount == 0 {
					firstPair = [2]string{a, b}
				}
				pairCount++
			}
		}
	}
	if pairCount > 0 {
		issues = append(issues, ConsistencyIssue{
			Type: IssueRelationshipContradiction,
			Description: fmt.Sprintf("Found %d potential relationship contradictions. Review: %s vs %s",
				pairCount, firstPair[0], firstPair[1]),
		})
	}

	characters, err := s.characterRepo.GetByNovel(novelID)
	if err != nil {
		return nil, err
	}
	for _, c := range characters {
		if c.Name == "" || c.PersonalityTraits == "" {
			name := c.Name
			if name == "" {
				name = "Unnamed"
			}
			issues = append(issues, ConsistencyIssue{
				Type:        IssueIncompleteCharacter,
				Description: fmt.Sprintf("Character %s is missing a name or personality traits", name),
			})
		}
	}

	return issues, nil
}

// contradicts flags an unordered pair of relationship descriptions where
// one side says hated/enemies and the other loved/friends.
func contradicts(a, b string) bool {
	if strings.Contains(a, "hated") && strings.Contains(b, "loved") {
		return true
	}
	if strings.Contains(b, "hated") && strings.Contains(a, "loved") {
		return true
	}
	if strings.Contains(a, "enemies") && strings.Contains(b, "friends") {
		return true
	}
	if strings.Contains(b, "enemies") && strings.Contains(a, "friends") {
		return true
	}
	return false
}
