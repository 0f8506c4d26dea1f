package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/novelforge/backend/internal/service"
)

type StoryMemoryHandler struct {
	contextService     *service.ContextService
	consistencyService *service.ConsistencyService
}

func NewStoryMemoryHandler(contextService *service.ContextService, consistencyService *service.ConsistencyService) *StoryMemoryHandler {
	return &StoryMemoryHandler{
		contextService:     contextService,
		consistencyService: consistencyService,
	}
}

// Get returns the partitioned story memory together with the current
// consistency check result.
func (h *StoryMemoryHandler) Get(c *gin.Context) {
	novelID, ok := parseID(c, "id")
	if !ok {
		return
	}

	storyContext, err := h.contextService.StoryContext(novelID)
	if err != nil {
		writeError(c, err)
		return
	}
	issues, err := h.consistencyService.Check(novelID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"storyContext":     storyContext,
		"consistencyCheck": gin.H{"issues": issues, "issueCount": len(issues)},
	})
}
