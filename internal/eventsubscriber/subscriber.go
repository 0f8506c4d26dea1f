// Package eventsubscriber wires chapter events to their secondary
// effects: story-memory extraction and notification dispatch. Handlers
// never fail the write that published the event.
package eventsubscriber

import (
	"context"

	"github.com/novelforge/backend/internal/eventbus"
	"github.com/novelforge/backend/internal/service"
	"k8s.io/klog/v2"
)

// MemorySubscriber feeds saved chapter content to the story-memory
// extractor.
type MemorySubscriber struct {
	memoryService *service.MemoryService
}

func NewMemorySubscriber(memoryService *service.MemoryService) *MemorySubscriber {
	return &MemorySubscriber{memoryService: memoryService}
}

func (s *MemorySubscriber) Register(bus *eventbus.Bus) {
	bus.Subscribe(eventbus.ChapterEventContentSaved, s.onContentSaved)
}

func (s *MemorySubscriber) onContentSaved(ctx context.Context, event eventbus.ChapterEvent) error {
	klog.V(6).Infof("extracting story memory: novelID=%d, chapter=%d, words=%d", event.NovelID, event.ChapterNumber, event.WordCount)
	s.memoryService.ExtractAndStore(event.NovelID, event.Content, event.ChapterNumber)
	return nil
}

// NotificationSubscriber turns milestone events into user notifications.
type NotificationSubscriber struct {
	notificationService *service.NotificationService
}

func NewNotificationSubscriber(notificationService *service.NotificationService) *NotificationSubscriber {
	return &NotificationSubscriber{notificationService: notificationService}
}

func (s *NotificationSubscriber) Register(bus *eventbus.Bus) {
	bus.Subscribe(eventbus.ChapterEventCompleted, s.onChapterCompleted)
	bus.Subscribe(eventbus.ChapterEventVersionCreated, s.onVersionCreated)
}

func (s *NotificationSubscriber) onChapterCompleted(ctx context.Context, event eventbus.ChapterEvent) error {
	if event.UserID == "" {
		return nil
	}
	s.notificationService.NotifyChapterCompleted(event.UserID, event.NovelID, event.NovelTitle, event.ChapterNumber, event.WordCount)
	return nil
}

func (s *NotificationSubscriber) onVersionCreated(ctx context.Context, event eventbus.ChapterEvent) error {
	if event.UserID == "" {
		return nil
	}
	s.notificationService.NotifyVersionCreated(event.UserID, event.NovelID, event.NovelTitle)
	return nil
}
