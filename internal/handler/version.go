package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/novelforge/backend/internal/service"
)

type VersionHandler struct {
	service *service.VersionService
}

func NewVersionHandler(service *service.VersionService) *VersionHandler {
	return &VersionHandler{service: service}
}

func (h *VersionHandler) ListByChapter(c *gin.Context) {
	chapterID, ok := parseID(c, "id")
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	versions, err := h.service.List(chapterID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": versions})
}

func (h *VersionHandler) Snapshot(c *gin.Context) {
	chapterID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Label string `json:"label"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	version, err := h.service.Snapshot(c.Request.Context(), chapterID, req.Label)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"version": version})
}

func (h *VersionHandler) Restore(c *gin.Context) {
	versionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	chapter, err := h.service.Restore(c.Request.Context(), versionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chapter": chapter})
}

func (h *VersionHandler) Delete(c *gin.Context) {
	versionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(versionID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "version deleted"})
}

func (h *VersionHandler) Compare(c *gin.Context) {
	fromID, err := strconv.ParseUint(c.Query("from"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from id"})
		return
	}
	toID, err := strconv.ParseUint(c.Query("to"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to id"})
		return
	}

	comparison, err := h.service.Compare(uint(fromID), uint(toID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comparison)
}

func (h *VersionHandler) NovelStats(c *gin.Context) {
	novelID, ok := parseID(c, "id")
	if !ok {
		return
	}

	stats, err := h.service.NovelStats(novelID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
