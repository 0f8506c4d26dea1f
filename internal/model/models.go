package model

import (
	"time"
)

// Novel lifecycle statuses.
const (
	NovelStatusIdea      = "idea"
	NovelStatusOutlined  = "outlined"
	NovelStatusWriting   = "writing"
	NovelStatusCompleted = "completed"
)

// Chapter statuses.
const (
	ChapterStatusPending   = "pending"
	ChapterStatusCompleted = "completed"
)

// Story memory entry types.
const (
	MemoryTypePlotPoint    = "plot_point"
	MemoryTypeRelationship = "relationship"
	MemoryTypeCharacterArc = "character_arc"
	MemoryTypeSetting      = "setting"
	MemoryTypeTimeline     = "timeline"
)

// Story memory importance levels.
const (
	ImportanceLow    = "low"
	ImportanceNormal = "normal"
	ImportanceHigh   = "high"
)

// Notification types.
const (
	NotificationGenerationComplete = "generation_complete"
	NotificationMilestone          = "milestone"
	NotificationSystemUpdate       = "system_update"
	NotificationChapterCompleted   = "chapter_completed"
	NotificationVersionCreated     = "version_created"
)

// User identity comes from the external identity provider; the ID is the
// provider subject, so it is a string rather than an auto-increment key.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	Email     string    `json:"email" gorm:"size:255"`
	Name      string    `json:"name" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Novel struct {
	ID                uint   `json:"id" gorm:"primaryKey"`
	UserID            string `json:"user_id" gorm:"index;size:64;not null"`
	Title             string `json:"title" gorm:"size:255;not null"`
	CurrentTitle      string `json:"current_title" gorm:"size:255"`
	Description       string `json:"description" gorm:"size:2000"`
	Genre             string `json:"genre" gorm:"size:255"`
	Themes            string `json:"themes" gorm:"size:1000"`
	Tone              string `json:"tone" gorm:"size:500"`
	CentralConflict   string `json:"central_conflict" gorm:"size:2000"`
	DirectionalEnding string `json:"directional_ending" gorm:"size:2000"`
	Outline           string `json:"outline" gorm:"type:text"`
	Status            string `json:"status" gorm:"size:50;default:idea"` // idea, outlined, writing, completed
	ChapterCount      int    `json:"chapter_count" gorm:"default:0"`
	// TotalWords is always re-derived from the owned chapters' word counts,
	// never written directly by a caller.
	TotalWords int           `json:"total_words" gorm:"default:0"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
	Chapters   []Chapter     `json:"chapters,omitempty" gorm:"foreignKey:NovelID;constraint:OnDelete:CASCADE"`
	Characters []Character   `json:"characters,omitempty" gorm:"foreignKey:NovelID;constraint:OnDelete:CASCADE"`
	Memories   []StoryMemory `json:"story_memories,omitempty" gorm:"foreignKey:NovelID;constraint:OnDelete:CASCADE"`
}

type Chapter struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	NovelID       uint   `json:"novel_id" gorm:"not null;uniqueIndex:idx_novel_chapter_number"`
	ChapterNumber int    `json:"chapter_number" gorm:"not null;uniqueIndex:idx_novel_chapter_number"`
	Title         string `json:"title" gorm:"size:255"`
	Summary       string `json:"summary" gorm:"size:4000"`
	Objectives    string `json:"objectives" gorm:"size:4000"`
	Content       string `json:"content" gorm:"type:text"`
	// WordCount is recomputed from Content on every content change and is
	// never trusted from caller input.
	WordCount   int              `json:"word_count" gorm:"default:0"`
	Status      string           `json:"status" gorm:"size:50;default:pending"` // pending, completed
	AIGenerated bool             `json:"ai_generated" gorm:"default:false"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Versions    []ChapterVersion `json:"versions,omitempty" gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE"`
}

// ChapterVersion is an immutable content snapshot. Rows are only ever
// created or hard-deleted; restore creates a new backup row instead of
// mutating an existing one.
type ChapterVersion struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ChapterID    uint      `json:"chapter_id" gorm:"index;not null"`
	Content      string    `json:"content" gorm:"type:text"`
	WordCount    int       `json:"word_count" gorm:"default:0"`
	VersionLabel string    `json:"version_label" gorm:"size:255"`
	IsSnapshot   bool      `json:"is_snapshot" gorm:"default:false"` // true = user-requested, false = automatic
	CreatedAt    time.Time `json:"created_at"`
}

type Character struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	NovelID            uint      `json:"novel_id" gorm:"index;not null"`
	Name               string    `json:"name" gorm:"size:255"`
	Role               string    `json:"role" gorm:"size:255"`
	Age                string    `json:"age" gorm:"size:50"`
	PhysicalAppearance string    `json:"physical_appearance" gorm:"size:2000"`
	PersonalityTraits  string    `json:"personality_traits" gorm:"size:2000"`
	Backstory          string    `json:"backstory" gorm:"size:4000"`
	Goals              string    `json:"goals" gorm:"size:2000"`
	Fears              string    `json:"fears" gorm:"size:2000"`
	Relationships      string    `json:"relationships" gorm:"size:2000"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// StoryMemory is a derived, categorized fact extracted from chapter text.
// Entries are append-only during normal operation.
type StoryMemory struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	NovelID        uint      `json:"novel_id" gorm:"index;not null"`
	Type           string    `json:"type" gorm:"size:50;not null"` // plot_point, relationship, character_arc, setting, timeline
	Description    string    `json:"description" gorm:"size:4000"`
	ChapterContext string    `json:"chapter_context" gorm:"size:255"`
	Importance     string    `json:"importance" gorm:"size:20;default:normal"` // low, normal, high
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;size:64;not null"`
	NovelID   *uint     `json:"novel_id"`
	Type      string    `json:"type" gorm:"size:50;not null"`
	Title     string    `json:"title" gorm:"size:255"`
	Message   string    `json:"message" gorm:"size:2000"`
	Read      bool      `json:"read" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
