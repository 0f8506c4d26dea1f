package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/novelforge/backend/internal/model"
	"github.com/novelforge/backend/internal/repository"
)

const (
	exportWordsPerPage   = 300
	exportWordsPerMinute = 200
)

type ExportService struct {
	novelRepo repository.NovelRepository
}

func NewExportService(novelRepo repository.NovelRepository) *ExportService {
	return &ExportService{novelRepo: novelRepo}
}

var (
	headerPattern    = regexp.MustCompile(`(?m)^#{1,2}\s`)
	boldPattern      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern    = regexp.MustCompile(`\*(.*?)\*`)
	slugStripPattern = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpacePattern = regexp.MustCompile(`\s+`)
	blankRunPattern  = regexp.MustCompile(`\n{3,}`)
)

// Markdown renders the full manuscript: title page fields, then every
// chapter in reading order separated by horizontal rules.
func (s *ExportService) Markdown(novelID uint) (string, error) {
	novel, err := s.novelRepo.Get(novelID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", displayTitle(novel))
	if novel.Description != "" {
		fmt.Fprintf(&b, "*%s*\n\n", novel.Description)
	}
	if novel.Genre != "" {
		fmt.Fprintf(&b, "**Genre:** %s\n\n", novel.Genre)
	}
	if novel.Themes != "" {
		fmt.Fprintf(&b, "**Themes:** %s\n\n", novel.Themes)
	}
	b.WriteString("---\n\n")

	for _, chapter := range novel.Chapters {
		if chapter.Title != "" {
			fmt.Fprintf(&b, "## Chapter %d: %s\n\n", chapter.ChapterNumber, chapter.Title)
		} else {
			fmt.Fprintf(&b, "## Chapter %d\n\n", chapter.ChapterNumber)
		}
		if chapter.Content != "" {
			fmt.Fprintf(&b, "%s\n\n", chapter.Content)
		}
		b.WriteString("---\n\n")
	}

	return b.String(), nil
}

// Text is the markdown render with formatting stripped.
func (s *ExportService) Text(novelID uint) (string, error) {
	markdown, err := s.Markdown(novelID)
	if err != nil {
		return "", err
	}

	text := headerPattern.ReplaceAllString(markdown, "")
	text = boldPattern.ReplaceAllString(text, "$1")
	text = italicPattern.ReplaceAllString(text, "$1")
	text = strings.ReplaceAll(text, "---\n", "\n")
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	return text, nil
}

// Filename slugs the display title for a download attachment.
func Filename(novel *model.Novel, extension string) string {
	slug := strings.ToLower(displayTitle(novel))
	slug = slugStripPattern.ReplaceAllString(slug, "")
	slug = slugSpacePattern.ReplaceAllString(strings.TrimSpace(slug), "-")
	if len(slug) > 50 {
		slug = slug[:50]
	}
	return slug + "." + extension
}

// ExportStats summarizes manuscript length from the novel's derived
// counters.
type ExportStats struct {
	WordCount            int `json:"word_count"`
	ChapterCount         int `json:"chapter_count"`
	EstimatedPages       int `json:"estimated_pages"`
	EstimatedReadingTime int `json:"estimated_reading_time"`
}

func (s *ExportService) Stats(novelID uint) (*ExportStats, error) {
	novel, err := s.novelRepo.GetBasic(novelID)
	if err != nil {
		return nil, err
	}
	return &ExportStats{
		WordCount:            novel.TotalWords,
		ChapterCount:         novel.ChapterCount,
		EstimatedPages:       ceilDiv(novel.TotalWords, exportWordsPerPage),
		EstimatedReadingTime: ceilDiv(novel.TotalWords, exportWordsPerMinute),
	}, nil
}

func displayTitle(novel *model.Novel) string {
	if novel.CurrentTitle != "" {
		return novel.CurrentTitle
	}
	return novel.Title
}

func ceilDiv(value, per int) int {
	if value <= 0 {
		return 0
	}
	return (value + per - 1) / per
}
