package handlers

import (
	"net/http"

	chatService "pijatku/services/chat"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	Service chatService.ChatService
}

func NewChatHandler(svc chatService.ChatService) *ChatHandler {
	return &ChatHandler{Service: svc}
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req chatService.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	req.BookingID = c.Param("id")
	req.SenderID = currentUser(c)
	m, err := h.Service.Send(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	previews, err := h.Service.Previews(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, previews)
}

func (h *ChatHandler) GetConversation(c *gin.Context) {
	msgs, err := h.Service.Conversation(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	m, err := h.Service.MarkRead(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}
