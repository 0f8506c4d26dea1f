package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novelforge/backend/internal/model"
)

func TestExportMarkdown(t *testing.T) {
	env := newTestEnv(t)
	novel := env.createNovel(t, "u1", "Working Title")
	novel.CurrentTitle = "The Unfinished Manuscript"
	novel.Description = "A daughter completes her father's last novel."
	novel.Genre = "Literary Fiction"
	novel.Themes = "Loss and grief, Redemption"
	if err := env.novels.Save(novel); err != nil {
		t.Fatalf("save novel error: %v", err)
	}

	first := env.createChapter(t, novel.ID, 1, "The package sat on the kitchen table.")
	first.Title = "The Discovery"
	if err := env.chapters.Save(first); err != nil {
		t.Fatalf("save chapter error: %v", err)
	}
	env.createChapter(t, novel.ID, 2, "She began to read.")

	svc := NewExportService(env.novels)
	md, err := svc.Markdown(novel.ID)
	if err != nil {
		t.Fatalf("markdown error: %v", err)
	}

	for _, want := range []string{
		"# The Unfinished Manuscript\n\n",
		"*A daughter completes her father's last novel.*\n\n",
		"**Genre:** Literary Fiction\n\n",
		"**Themes:** Loss and grief, Redemption\n\n",
		"## Chapter 1: The Discovery\n\n",
		"The package sat on the kitchen table.\n\n",
		"## Chapter 2\n\n",
		"---\n\n",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Index(md, "## Chapter 1") > strings.Index(md, "## Chapter 2") {
		t.Fatalf("chapters out of order:\n%s", md)
	}
}

func TestExportText(t *testing.T) {
	env := newTestEnv(t)
	novel := env.createNovel(t, "u1", "Title")
	novel.Description = "A story."
	novel.Genre = "Fiction"
	if err := env.novels.Save(novel); err != nil {
		t.Fatalf("save novel error: %v", err)
	}
	env.createChapter(t, novel.ID, 1, "Plain content.")

	svc := NewExportService(env.novels)
	text, err := svc.Text(novel.ID)
	if err != nil {
		t.Fatalf("text error: %v", err)
	}
	if strings.Contains(text, "#") || strings.Contains(text, "**") || strings.Contains(text, "---") {
		t.Fatalf("markdown formatting should be stripped:\n%s", text)
	}
	if !strings.Contains(text, "Genre: Fiction") {
		t.Fatalf("bold labels should keep their text:\n%s", text)
	}
	if !strings.Contains(text, "A story.") {
		t.Fatalf("italic description should keep its text:\n%s", text)
	}
}

func TestExportFilename(t *testing.T) {
	cases := []struct {
		novel model.Novel
		ext   string
		want  string
	}{
		{model.Novel{Title: "The Unfinished Manuscript"}, "md", "the-unfinished-manuscript.md"},
		{model.Novel{Title: "Working", CurrentTitle: "Her Father's Legacy"}, "txt", "her-fathers-legacy.txt"},
		{model.Novel{Title: "What?! A Novel..."}, "md", "what-a-novel.md"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Filename(&tc.novel, tc.ext))
	}

	long := model.Novel{Title: strings.Repeat("very long title ", 10)}
	got := Filename(&long, "md")
	assert.LessOrEqual(t, len(strings.TrimSuffix(got, ".md")), 50, "slug should be capped at 50 chars")
}

func TestExportStats(t *testing.T) {
	env := newTestEnv(t)
	novel := env.createNovel(t, "u1", "Novel")
	env.createChapter(t, novel.ID, 1, words(650))

	svc := NewExportService(env.novels)
	stats, err := svc.Stats(novel.ID)
	if err != nil {
		t.Fatalf("stats error: %v", err)
	}
	assert.Equal(t, 650, stats.WordCount)
	assert.Equal(t, 1, stats.ChapterCount)
	assert.Equal(t, 3, stats.EstimatedPages, "3 pages at 300 words/page")
	assert.Equal(t, 4, stats.EstimatedReadingTime, "4 minutes at 200 wpm")
}
