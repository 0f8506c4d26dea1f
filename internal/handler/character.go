package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/novelforge/backend/internal/service"
)

type CharacterHandler struct {
	service *service.CharacterService
}

func NewCharacterHandler(service *service.CharacterService) *CharacterHandler {
	return &CharacterHandler{service: service}
}

func (h *CharacterHandler) ListByNovel(c *gin.Context) {
	novelID, ok := parseID(c, "id")
	if !ok {
		return
	}

	characters, err := h.service.ListByNovel(novelID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"characters": characters})
}

func (h *CharacterHandler) Create(c *gin.Context) {
	novelID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.CreateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	character, err := h.service.Create(novelID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"character": character})
}
