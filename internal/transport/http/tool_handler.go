package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"quizbot/internal/chat"
)

// ToolHandler exposes the quiz operations as JSON endpoints, one per tool an
// LLM tool-caller may invoke. User identity is taken as given.
type ToolHandler struct {
	assistant *chat.Assistant
}

func NewToolHandler(assistant *chat.Assistant) *ToolHandler {
	return &ToolHandler{assistant: assistant}
}

type userRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type startRequest struct {
	UserID string `json:"userId" binding:"required"`
	chat.StartOptions
}

type answerRequest struct {
	UserID string `json:"userId" binding:"required"`
	Answer string `json:"answer"`
}

func (h *ToolHandler) Start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.assistant.StartQuiz(c.Request.Context(), req.UserID, req.StartOptions))
}

func (h *ToolHandler) Answer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.assistant.SubmitAnswer(c.Request.Context(), req.UserID, req.Answer))
}

func (h *ToolHandler) Status(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.assistant.Status(c.Request.Context(), req.UserID))
}

func (h *ToolHandler) End(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.assistant.EndQuiz(c.Request.Context(), req.UserID))
}

func (h *ToolHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, h.assistant.Categories(c.Request.Context()))
}
