package controllers

import (
	"context"
	"net/http"

	"github.com/date-course/api-go/models"
	"github.com/date-course/api-go/services"
	"github.com/date-course/api-go/types"
	"github.com/gin-gonic/gin"
)

type ChatService interface {
	Rooms(ctx context.Context, actor services.Actor, userID uint) ([]models.ChatRoomSummary, error)
	Messages(ctx context.Context, actor services.Actor, roomID uint) ([]models.MessageDetail, error)
	StartDirect(ctx context.Context, actor services.Actor, req types.DirectRoomRequest) (uint, error)
	Send(ctx context.Context, actor services.Actor, roomID uint, req types.MessageRequest) (*models.Message, error)
}

// ChatController serves stored chat. Clients poll the message list.
type ChatController struct {
	Chat ChatService
}

func NewChatController(chat ChatService) *ChatController {
	return &ChatController{Chat: chat}
}

func (cc *ChatController) StartDirect(c *gin.Context) {
	var req types.DirectRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "userA and userB are required")
		return
	}
	roomID, err := cc.Chat.StartDirect(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roomId": roomID})
}

func (cc *ChatController) GetUserRooms(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	rooms, err := cc.Chat.Rooms(c.Request.Context(), actorFrom(c), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// GetMessages godoc
// @Summary List a room's messages, oldest first
// @Description Report resolution notices from admins show up here.
// @Router /chat/rooms/{roomId}/messages [get]
func (cc *ChatController) GetMessages(c *gin.Context) {
	roomID, ok := idParam(c, "roomId")
	if !ok {
		return
	}
	messages, err := cc.Chat.Messages(c.Request.Context(), actorFrom(c), roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (cc *ChatController) PostMessage(c *gin.Context) {
	roomID, ok := idParam(c, "roomId")
	if !ok {
		return
	}
	var req types.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "content is required")
		return
	}
	req.SenderID = defaultUser(c, req.SenderID)
	msg, err := cc.Chat.Send(c.Request.Context(), actorFrom(c), roomID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}
