package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/novelforge/backend/internal/service"
)

type ExportHandler struct {
	service      *service.ExportService
	novelService *service.NovelService
}

func NewExportHandler(service *service.ExportService, novelService *service.NovelService) *ExportHandler {
	return &ExportHandler{
		service:      service,
		novelService: novelService,
	}
}

// Export streams the manuscript as a file download. Supported formats are
// markdown (md) and plain text (txt).
func (h *ExportHandler) Export(c *gin.Context) {
	novelID, ok := parseID(c, "id")
	if !ok {
		return
	}

	novel, err := h.novelService.GetBasic(novelID)
	if err != nil {
		writeError(c, err)
		return
	}

	format := c.DefaultQuery("format", "md")
	var content, mimeType, extension string
	switch format {
	case "md", "markdown":
		content, err = h.service.Markdown(novelID)
		mimeType = "text/markdown"
		extension = "md"
	case "txt", "text":
		content, err = h.service.Text(novelID)
		mimeType = "text/plain"
		extension = "txt"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported format, use md or txt"})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+service.Filename(novel, extension)+`"`)
	c.Data(http.StatusOK, mimeType, []byte(content))
}

func (h *ExportHandler) Stats(c *gin.Context) {
	novelID, ok := parseID(c, "id")
	if !ok {
		return
	}

	stats, err := h.service.Stats(novelID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
