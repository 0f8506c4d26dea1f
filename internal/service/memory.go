package service

import (
	"fmt"
	"strings"

	"github.com/novelforge/backend/internal/model"
	"github.com/novelforge/backend/internal/repository"
	"k8s.io/klog/v2"
)

// Extraction holds the raw sentences pulled out of one pass over chapter
// text, bucketed by memory type.
type Extraction struct {
	PlotPoints     []string
	Relationships  []string
	CharacterArcs  []string
	Settings       []string
	TimelineEvents []string
}

// Extractor turns chapter text into categorized story facts. The keyword
// implementation below is deliberately crude pattern matching, not
// semantic analysis; keeping it behind an interface lets a smarter
// implementation replace it without touching callers.
type Extractor interface {
	Extract(content string, chapterNumber int) Extraction
}

// minSentenceLength drops fragments left over from the sentence split.
const minSentenceLength = 20

// maxPerCategory caps how many sentences one extraction pass may assign to
// a single category; later matches in the same pass are discarded.
const maxPerCategory = 3

var (
	plotPointKeywords    = []string{"discovered", "realized", "decided", "learned", "found", "revealed"}
	relationshipKeywords = []string{"said to", "told", "spoke", "relationship", "together", "with"}
	characterArcKeywords = []string{"felt", "changed", "became", "understood", "realized about herself"}
	settingKeywords      = []string{"room", "house", "street", "office", "library", "walked through"}
	timelineKeywords     = []string{"later", "that night", "next day", "morning", "after", "when"}
)

// KeywordExtractor classifies sentences by case-insensitive substring
// match against fixed keyword sets. A sentence may land in several
// categories; the category tests are independent.
type KeywordExtractor struct{}

func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{}
}

func (e *KeywordExtractor) Extract(content string, chapterNumber int) Extraction {
	sentences := splitSentences(content)

	var out Extraction
	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)

		if matchesAny(lower, plotPointKeywords) && len(out.PlotPoints) < maxPerCategory {
			out.PlotPoints = append(out.PlotPoints, sentence)
		}
		if matchesAny(lower, relationshipKeywords) && len(out.Relationships) < maxPerCategory {
			out.Relationships = append(out.Relationships, sentence)
		}
		if matchesAny(lower, characterArcKeywords) && len(out.CharacterArcs) < maxPerCategory {
			out.CharacterArcs = append(out.CharacterArcs, sentence)
		}
		if matchesAny(lower, settingKeywords) && len(out.Settings) < maxPerCategory {
			out.Settings = append(out.Settings, sentence)
		}
		if matchesAny(lower, timelineKeywords) && len(out.TimelineEvents) < maxPerCategory {
			out.TimelineEvents = append(out.TimelineEvents, sentence)
		}
	}
	return out
}

func splitSentences(content string) []string {
	raw := strings.FieldsFunc(content, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if len(s) > minSentenceLength {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func matchesAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

type MemoryService struct {
	memoryRepo repository.MemoryRepository
	extractor  Extractor
}

func NewMemoryService(memoryRepo repository.MemoryRepository, extractor Extractor) *MemoryService {
	return &MemoryService{
		memoryRepo: memoryRepo,
		extractor:  extractor,
	}
}

// ExtractAndStore scans chapter content and persists one StoryMemory row
// per extracted sentence per category. Persistence errors are logged and
// swallowed: extraction is a best-effort side channel of the chapter save
// and must never fail it.
func (s *MemoryService) ExtractAndStore(novelID uint, content string, chapterNumber int) {
	extracted := s.extractor.Extract(content, chapterNumber)
	chapterContext := fmt.Sprintf("Chapter %d", chapterNumber)

	store := func(memoryType, importance string, descriptions []string) {
		for _, description := range descriptions {
			memory := &model.StoryMemory{
				NovelID:        novelID,
				Type:           memoryType,
				Description:    description,
				ChapterContext: chapterContext,
				Importance:     importance,
			}
			if err := s.memoryRepo.Create(memory); err != nil {
				klog.Errorf("failed to store %s memory: novelID=%d, error=%v", memoryType, novelID, err)
			}
		}
	}

	store(model.MemoryTypePlotPoint, model.ImportanceHigh, extracted.PlotPoints)
	store(model.MemoryTypeRelationship, model.ImportanceNormal, extracted.Relationships)
	store(model.MemoryTypeCharacterArc, model.ImportanceHigh, extracted.CharacterArcs)
	store(model.MemoryTypeSetting, model.ImportanceLow, extracted.Settings)
	store(model.MemoryTypeTimeline, model.ImportanceNormal, extracted.TimelineEvents)
}

func (s *MemoryService) ListByNovel(novelID uint) ([]model.StoryMemory, error) {
	return s.memoryRepo.GetByNovel(novelID)
}
