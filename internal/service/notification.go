package service

import (
	"fmt"

	"github.com/novelforge/backend/internal/model"
	"github.com/novelforge/backend/internal/repository"
	"k8s.io/klog/v2"
)

type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

type CreateNotificationInput struct {
	UserID  string
	NovelID *uint
	Type    string
	Title   string
	Message string
}

// Create persists one notification. Notification dispatch is best-effort:
// the returned bool reports success and failures are logged, because no
// milestone event is allowed to fail on a notification write.
func (s *NotificationService) Create(input CreateNotificationInput) bool {
	notification := &model.Notification{
		UserID:  input.UserID,
		NovelID: input.NovelID,
		Type:    input.Type,
		Title:   input.Title,
		Message: input.Message,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		klog.Errorf("failed to create notification: userID=%s, type=%s, error=%v", input.UserID, input.Type, err)
		return false
	}
	return true
}

func (s *NotificationService) ListByUser(userID string, unreadOnly bool) ([]model.Notification, error) {
	return s.notificationRepo.GetByUser(userID, unreadOnly)
}

func (s *NotificationService) UnreadCount(userID string) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}

func (s *NotificationService) MarkRead(id uint) error {
	return s.notificationRepo.MarkRead(id)
}

func (s *NotificationService) MarkAllRead(userID string) error {
	return s.notificationRepo.MarkAllRead(userID)
}

func (s *NotificationService) Delete(id uint) error {
	return s.notificationRepo.Delete(id)
}

func (s *NotificationService) ClearRead(userID string) error {
	return s.notificationRepo.DeleteRead(userID)
}

// Milestone templates. Message wording mirrors what the UI shows verbatim.

func (s *NotificationService) NotifyIdeaDeveloped(userID string, novelID uint, novelTitle string) bool {
	return s.Create(CreateNotificationInput{
		UserID:  userID,
		NovelID: &novelID,
		Type:    model.NotificationGenerationComplete,
		Title:   "Idea Development Complete",
		Message: fmt.Sprintf("Your novel %q has been developed with genre, themes, and central conflict.", novelTitle),
	})
}

func (s *NotificationService) NotifyTitlesGenerated(userID string, novelID uint, novelTitle string, count int) bool {
	return s.Create(CreateNotificationInput{
		UserID:  userID,
		NovelID: &novelID,
		Type:    model.NotificationGenerationComplete,
		Title:   "Titles Generated",
		Message: fmt.Sprintf("%d title options have been generated for %q. Review and select your favorite!", count, novelTitle),
	})
}

func (s *NotificationService) NotifyOutlineGenerated(userID string, novelID uint, novelTitle string) bool {
	return s.Create(CreateNotificationInput{
		UserID:  userID,
		NovelID: &novelID,
		Type:    model.NotificationGenerationComplete,
		Title:   "Outline Generated",
		Message: fmt.Sprintf("A complete outline has been created for %q. You're ready to start writing!", novelTitle),
	})
}

func (s *NotificationService) NotifyChapterCompleted(userID string, novelID uint, novelTitle string, chapterNumber, wordCount int) bool {
	return s.Create(CreateNotificationInput{
		UserID:  userID,
		NovelID: &novelID,
		Type:    model.NotificationChapterCompleted,
		Title:   fmt.Sprintf("Chapter %d Completed", chapterNumber),
		Message: fmt.Sprintf("Congratulations! You've completed Chapter %d of %q with %d words.", chapterNumber, novelTitle, wordCount),
	})
}

func (s *NotificationService) NotifyVersionCreated(userID string, novelID uint, novelTitle string) bool {
	return s.Create(CreateNotificationInput{
		UserID:  userID,
		NovelID: &novelID,
		Type:    model.NotificationVersionCreated,
		Title:   "Version Snapshot Created",
		Message: fmt.Sprintf("A version snapshot has been created for %q. Your work is safely saved.", novelTitle),
	})
}

func (s *NotificationService) NotifyMilestoneReached(userID string, novelID uint, novelTitle, milestone string) bool {
	return s.Create(CreateNotificationInput{
		UserID:  userID,
		NovelID: &novelID,
		Type:    model.NotificationMilestone,
		Title:   "Milestone Reached!",
		Message: fmt.Sprintf("Great job! You've reached a milestone: %s in %q.", milestone, novelTitle),
	})
}

func (s *NotificationService) NotifyNovelCompleted(userID string, novelID uint, novelTitle string, totalWords, totalChapters int) bool {
	return s.Create(CreateNotificationInput{
		UserID:  userID,
		NovelID: &novelID,
		Type:    model.NotificationMilestone,
		Title:   "Novel Completed!",
		Message: fmt.Sprintf("Congratulations! %q is complete with %d words across %d chapters. Time to export!", novelTitle, totalWords, totalChapters),
	})
}

func (s *NotificationService) NotifyConsistencyWarning(userID string, novelID uint, novelTitle string, issueCount int) bool {
	return s.Create(CreateNotificationInput{
		UserID:  userID,
		NovelID: &novelID,
		Type:    model.NotificationSystemUpdate,
		Title:   "Consistency Check",
		Message: fmt.Sprintf("%d potential consistency issues found in %q. Review your story memory.", issueCount, novelTitle),
	})
}
