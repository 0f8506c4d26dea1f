package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/novelforge/backend/internal/service"
)

type WritingHandler struct {
	service *service.WritingService
}

func NewWritingHandler(service *service.WritingService) *WritingHandler {
	return &WritingHandler{service: service}
}

func (h *WritingHandler) DevelopIdea(c *gin.Context) {
	novelID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Idea string `json:"idea"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.DevelopIdea(c.Request.Context(), novelID, req.Idea)
	if err != nil {
		writeError(c, err)
		return
	}
	if result.Raw != "" {
		c.JSON(http.StatusOK, gin.H{"raw": result.Raw})
		return
	}
	c.JSON(http.StatusOK, gin.H{"novel": result.Novel})
}

func (h *WritingHandler) GenerateTitles(c *gin.Context) {
	novelID, ok := parseID(c, "id")
	if !ok {
		return
	}

	titles, err := h.service.GenerateTitles(c.Request.Context(), novelID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"titles": titles})
}

func (h *WritingHandler) SelectTitle(c *gin.Context) {
	novelID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	novel, err := h.service.SelectTitle(novelID, req.Title)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"novel": novel})
}

func (h *WritingHandler) GenerateOutline(c *gin.Context) {
	novelID, ok := parseID(c, "id")
	if !ok {
		return
	}

	novel, err := h.service.GenerateOutline(c.Request.Context(), novelID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"novel": novel})
}

func (h *WritingHandler) GenerateCoverPrompt(c *gin.Context) {
	novelID, ok := parseID(c, "id")
	if !ok {
		return
	}

	prompt, err := h.service.GenerateCoverPrompt(c.Request.Context(), novelID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prompt": prompt})
}

// GenerateChapter drafts the chapter with the LLM and commits the result.
func (h *WritingHandler) GenerateChapter(c *gin.Context) {
	novelID, ok := parseID(c, "id")
	if !ok {
		return
	}
	chapterID, ok := parseID(c, "chapterId")
	if !ok {
		return
	}

	chapter, err := h.service.GenerateChapter(c.Request.Context(), novelID, chapterID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chapter": chapter})
}
