package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hairwise/hairwise-backend/internal/services"
	"github.com/hairwise/hairwise-backend/internal/utils"
)

type ChatHandler struct {
	chat   services.ChatService
	convos services.ConversationService
}

func NewChatHandler(chat services.ChatService, convos services.ConversationService) *ChatHandler {
	return &ChatHandler{chat: chat, convos: convos}
}

type SendMessageRequest struct {
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content" binding:"required"`
}

func (h *ChatHandler) Send(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ChatHandler.Send", "invalid request body", err))
		return
	}

	turn, err := h.chat.Send(c.Request.Context(), userID, req.ConversationID, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, turn)
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.convos.ListConversations(c.Request.Context(), userID, limitQuery(c, 50, 200))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": rows})
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	conversationID := c.Param("conversation_id")
	conv, err := h.convos.Get(c.Request.Context(), conversationID)
	if err != nil {
		writeError(c, err)
		return
	}
	if conv.UserID != userID {
		writeError(c, utils.E(utils.CodeForbidden, "ChatHandler.ListMessages", "forbidden", nil))
		return
	}

	rows, err := h.convos.ListMessages(c.Request.Context(), conversationID)
	if err != nil {
		writeError(c, err)
		return
	}

	total, err := h.convos.CountMessages(c.Request.Context(), conversationID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation_id": conversationID,
		"messages":        rows,
		"total":           total,
	})
}
