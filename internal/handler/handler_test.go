package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/novelforge/backend/config"
	"github.com/novelforge/backend/internal/eventbus"
	"github.com/novelforge/backend/internal/eventsubscriber"
	"github.com/novelforge/backend/internal/handler"
	"github.com/novelforge/backend/internal/model"
	"github.com/novelforge/backend/internal/pkg/llm"
	"github.com/novelforge/backend/internal/repository"
	"github.com/novelforge/backend/internal/router"
	"github.com/novelforge/backend/internal/service"
	"gorm.io/gorm"
)

// newTestServer wires the full API over an in-memory database. llmContent
// is what the fake completions endpoint returns.
func newTestServer(t *testing.T, llmContent string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db error: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Novel{},
		&model.Chapter{},
		&model.ChapterVersion{},
		&model.Character{},
		&model.StoryMemory{},
		&model.Notification{},
	); err != nil {
		t.Fatalf("migrate error: %v", err)
	}

	llmServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		payload, _ := json.Marshal(llmContent)
		fmt.Fprintf(w, `{"choices":[{"index":0,"message":{"role":"assistant","content":%s}}]}`, payload)
	}))
	t.Cleanup(llmServer.Close)

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0", Mode: "debug"},
		LLM:    config.LLMConfig{APIURL: llmServer.URL, Model: "test-model", MaxTokens: 2000, Temperature: 0.8},
	}

	userRepo := repository.NewUserRepository(db)
	novelRepo := repository.NewNovelRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	versionRepo := repository.NewVersionRepository(db)
	characterRepo := repository.NewCharacterRepository(db)
	memoryRepo := repository.NewMemoryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	bus := eventbus.NewBus()

	novelService := service.NewNovelService(novelRepo, userRepo)
	chapterService := service.NewChapterService(chapterRepo, novelRepo, bus)
	versionService := service.NewVersionService(versionRepo, chapterRepo, novelRepo, bus)
	characterService := service.NewCharacterService(characterRepo, novelRepo)
	memoryService := service.NewMemoryService(memoryRepo, service.NewKeywordExtractor())
	contextService := service.NewContextService(novelRepo, chapterRepo, characterRepo, memoryRepo)
	consistencyService := service.NewConsistencyService(memoryRepo, characterRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	exportService := service.NewExportService(novelRepo)
	writingService := service.NewWritingService(novelRepo, chapterRepo, contextService, llm.NewClient(cfg), notificationService, bus)

	eventsubscriber.NewMemorySubscriber(memoryService).Register(bus)
	eventsubscriber.NewNotificationSubscriber(notificationService).Register(bus)

	r := router.Setup(
		cfg,
		handler.NewNovelHandler(novelService),
		handler.NewChapterHandler(chapterService),
		handler.NewVersionHandler(versionService),
		handler.NewCharacterHandler(characterService),
		handler.NewStoryMemoryHandler(contextService, consistencyService),
		handler.NewWritingHandler(writingService),
		handler.NewExportHandler(exportService, novelService),
		handler.NewNotificationHandler(notificationService),
	)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body error: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdentityMiddlewareRequiresHeader(t *testing.T) {
	r, _ := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/novels", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestNovelLifecycle(t *testing.T) {
	r, _ := newTestServer(t, "")

	w := doJSON(t, r, http.MethodPost, "/api/novels", gin.H{"title": "The Unfinished Manuscript", "description": "An idea"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		Novel model.Novel `json:"novel"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	w = doJSON(t, r, http.MethodGet, "/api/novels", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "The Unfinished Manuscript") {
		t.Fatalf("list: unexpected response %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/novels/%d", created.Novel.ID), gin.H{"genre": "Literary Fiction"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/novels/%d", created.Novel.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/novels/%d", created.Novel.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get deleted: expected 404, got %d", w.Code)
	}
}

func TestNovelCreateMissingTitle(t *testing.T) {
	r, _ := newTestServer(t, "")

	w := doJSON(t, r, http.MethodPost, "/api/novels", gin.H{"description": "no title"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestChapterUpdateTriggersMemoryExtraction(t *testing.T) {
	r, db := newTestServer(t, "")

	w := doJSON(t, r, http.MethodPost, "/api/novels", gin.H{"title": "Novel"})
	var created struct {
		Novel model.Novel `json:"novel"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/novels/%d/chapters", created.Novel.ID), gin.H{"title": "The Discovery"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create chapter: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var chapterResp struct {
		Chapter model.Chapter `json:"chapter"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &chapterResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/chapters/%d", chapterResp.Chapter.ID),
		gin.H{"content": "She discovered the letter in the old library that night."})
	if w.Code != http.StatusOK {
		t.Fatalf("update chapter: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var memories []model.StoryMemory
	if err := db.Find(&memories).Error; err != nil {
		t.Fatalf("query memories error: %v", err)
	}
	if len(memories) != 3 {
		t.Fatalf("expected 3 extracted memories, got %d", len(memories))
	}

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/novels/%d/story-memory", created.Novel.ID), nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "storyContext") {
		t.Fatalf("story memory: unexpected response %d: %s", w.Code, w.Body.String())
	}
}

func TestDevelopIdeaRoute(t *testing.T) {
	r, _ := newTestServer(t, `{"genre":"Literary Fiction","themes":"Loss","tone":"Quiet","central_conflict":"A manuscript.","directional_ending":"Closure."}`)

	w := doJSON(t, r, http.MethodPost, "/api/novels", gin.H{"title": "Novel"})
	var created struct {
		Novel model.Novel `json:"novel"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/novels/%d/develop-idea", created.Novel.ID), gin.H{"idea": "a daughter inherits a manuscript"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Literary Fiction") {
		t.Fatalf("foundation not applied: %s", w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/notifications/unread-count", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"count":1`) {
		t.Fatalf("expected one unread notification, got %d: %s", w.Code, w.Body.String())
	}
}

func TestExportRouteDownloads(t *testing.T) {
	r, _ := newTestServer(t, "")

	w := doJSON(t, r, http.MethodPost, "/api/novels", gin.H{"title": "Her Father's Legacy"})
	var created struct {
		Novel model.Novel `json:"novel"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/novels/%d/export?format=md", created.Novel.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "her-fathers-legacy.md") {
		t.Fatalf("unexpected disposition %q", w.Header().Get("Content-Disposition"))
	}

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/novels/%d/export?format=pdf", created.Novel.ID), nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported format, got %d", w.Code)
	}
}

func TestVersionRoutes(t *testing.T) {
	r, _ := newTestServer(t, "")

	w := doJSON(t, r, http.MethodPost, "/api/novels", gin.H{"title": "Novel"})
	var created struct {
		Novel model.Novel `json:"novel"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/novels/%d/chapters", created.Novel.ID), gin.H{})
	var chapterResp struct {
		Chapter model.Chapter `json:"chapter"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &chapterResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	chapterID := chapterResp.Chapter.ID

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/chapters/%d/autosave", chapterID), gin.H{"content": "Draft one of the chapter."})
	if w.Code != http.StatusOK {
		t.Fatalf("autosave: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/chapters/%d/versions", chapterID), gin.H{"label": "v1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("snapshot: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var versionResp struct {
		Version model.ChapterVersion `json:"version"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &versionResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/chapters/%d/autosave", chapterID), gin.H{"content": "A different second draft."})
	if w.Code != http.StatusOK {
		t.Fatalf("autosave: expected 200, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/versions/%d/restore", versionResp.Version.ID), nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Draft one of the chapter.") {
		t.Fatalf("restore: unexpected response %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/versions/9999/restore", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("restore missing: expected 404, got %d", w.Code)
	}
}
