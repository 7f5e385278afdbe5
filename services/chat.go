package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/date-course/api-go/models"
	"github.com/date-course/api-go/types"
	"gorm.io/gorm"
)

// ChatService reads and writes stored chat rooms. Delivery is by polling
// the message list.
type ChatService struct {
	db *gorm.DB
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

// Rooms lists the rooms userID belongs to, most recently active first.
func (s *ChatService) Rooms(ctx context.Context, actor Actor, userID uint) ([]models.ChatRoomSummary, error) {
	if !actor.owns(userID) {
		return nil, ErrForbidden
	}
	rooms := []models.ChatRoomSummary{}
	err := s.db.WithContext(ctx).Raw(`
		SELECT cr.id AS room_id,
		       cr.is_group,
		       MAX(m.sent_at) AS last_message_at,
		       CASE WHEN cr.is_group = FALSE THEN (
		           SELECT u.nickname
		           FROM chat_room_members o
		           JOIN users u ON u.id = o.user_id
		           WHERE o.room_id = cr.id AND o.user_id <> ?
		           ORDER BY o.user_id
		           LIMIT 1)
		       END AS peer_nickname
		FROM chat_rooms cr
		JOIN chat_room_members crm ON crm.room_id = cr.id
		LEFT JOIN messages m ON m.room_id = cr.id
		WHERE crm.user_id = ?
		GROUP BY cr.id
		ORDER BY last_message_at DESC NULLS LAST, cr.id DESC`, userID, userID).
		Scan(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("list chat rooms of user %d: %w", userID, err)
	}
	return rooms, nil
}

// Messages returns a room's messages oldest first. Only members and admins
// may read them.
func (s *ChatService) Messages(ctx context.Context, actor Actor, roomID uint) ([]models.MessageDetail, error) {
	db := s.db.WithContext(ctx)
	if err := checkMember(db, actor, roomID); err != nil {
		return nil, err
	}
	messages := []models.MessageDetail{}
	err := db.Raw(`
		SELECT m.id, m.sender_id, u.nickname AS sender_nickname, m.content, m.sent_at
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.room_id = ?
		ORDER BY m.sent_at, m.id`, roomID).
		Scan(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("list messages of room %d: %w", roomID, err)
	}
	return messages, nil
}

// StartDirect returns the 1:1 room of two users, creating it if needed.
func (s *ChatService) StartDirect(ctx context.Context, actor Actor, req types.DirectRoomRequest) (uint, error) {
	if req.UserA == 0 || req.UserB == 0 {
		return 0, invalid("userA", "userA and userB are required")
	}
	if req.UserA == req.UserB {
		return 0, invalid("userB", "cannot start a chat with yourself")
	}
	if !actor.owns(req.UserA) && !actor.owns(req.UserB) {
		return 0, ErrForbidden
	}

	var roomID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		roomID, err = directRoom(tx, req.UserA, req.UserB)
		return err
	})
	if err != nil {
		return 0, err
	}
	return roomID, nil
}

func (s *ChatService) Send(ctx context.Context, actor Actor, roomID uint, req types.MessageRequest) (*models.Message, error) {
	if req.SenderID == 0 {
		return nil, invalid("sender_id", "sender_id is required")
	}
	if blank(req.Content) {
		return nil, invalid("content", "content is required")
	}
	if !actor.owns(req.SenderID) {
		return nil, ErrForbidden
	}

	db := s.db.WithContext(ctx)
	if err := checkMember(db, Actor{UserID: req.SenderID}, roomID); err != nil {
		return nil, err
	}
	msg := &models.Message{RoomID: roomID, SenderID: req.SenderID, Content: strings.TrimSpace(req.Content)}
	if err := db.Create(msg).Error; err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return msg, nil
}

func checkMember(db *gorm.DB, actor Actor, roomID uint) error {
	var count int64
	if err := db.Model(&models.ChatRoom{}).Where("id = ?", roomID).Count(&count).Error; err != nil {
		return fmt.Errorf("check chat room %d: %w", roomID, err)
	}
	if count == 0 {
		return notFound("chat room")
	}
	if actor.IsAdmin {
		return nil
	}
	if err := db.Model(&models.ChatRoomMember{}).
		Where("room_id = ? AND user_id = ?", roomID, actor.UserID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check chat membership: %w", err)
	}
	if count == 0 {
		return ErrForbidden
	}
	return nil
}
