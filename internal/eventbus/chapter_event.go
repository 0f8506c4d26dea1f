package eventbus

type ChapterEventType string

const (
	// ChapterEventContentSaved fires after a chapter content write has
	// committed. Subscribers run story-memory extraction.
	ChapterEventContentSaved ChapterEventType = "ContentSaved"
	// ChapterEventCompleted fires when a chapter transitions to the
	// completed status.
	ChapterEventCompleted ChapterEventType = "ChapterCompleted"
	// ChapterEventVersionCreated fires after a user-requested snapshot.
	ChapterEventVersionCreated ChapterEventType = "VersionCreated"
)

type ChapterEvent struct {
	Type          ChapterEventType
	UserID        string
	NovelID       uint
	ChapterID     uint
	ChapterNumber int
	Content       string
	WordCount     int
	NovelTitle    string
}
