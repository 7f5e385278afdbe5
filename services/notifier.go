package services

import (
	"context"
	"fmt"

	"github.com/date-course/api-go/models"
	"gorm.io/gorm"
)

// Notifier delivers a one-shot text to a user.
type Notifier interface {
	Notify(ctx context.Context, fromUserID, toUserID uint, text string) error
}

// ChatNotifier writes the text into the 1:1 chat room of the two users,
// creating the room on first contact.
type ChatNotifier struct {
	db *gorm.DB
}

func NewChatNotifier(db *gorm.DB) *ChatNotifier {
	return &ChatNotifier{db: db}
}

func (n *ChatNotifier) Notify(ctx context.Context, fromUserID, toUserID uint, text string) error {
	if fromUserID == 0 || toUserID == 0 || fromUserID == toUserID {
		return invalid("user_id", "notification needs two distinct users")
	}
	if blank(text) {
		return invalid("message", "message is required")
	}

	return n.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roomID, err := directRoom(tx, fromUserID, toUserID)
		if err != nil {
			return err
		}
		msg := &models.Message{RoomID: roomID, SenderID: fromUserID, Content: text}
		if err := tx.Create(msg).Error; err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
		return nil
	})
}

func directRoom(tx *gorm.DB, a, b uint) (uint, error) {
	var ids []uint
	err := tx.Raw(`
		SELECT m.room_id
		FROM chat_room_members m
		JOIN chat_rooms r ON r.id = m.room_id
		WHERE r.is_group = FALSE AND m.user_id IN (?, ?)
		GROUP BY m.room_id
		HAVING COUNT(DISTINCT m.user_id) = 2
		ORDER BY m.room_id
		LIMIT 1`, a, b).Scan(&ids).Error
	if err != nil {
		return 0, fmt.Errorf("find chat room: %w", err)
	}
	if len(ids) > 0 {
		return ids[0], nil
	}

	room := &models.ChatRoom{IsGroup: false}
	if err := tx.Create(room).Error; err != nil {
		return 0, fmt.Errorf("create chat room: %w", err)
	}
	members := []models.ChatRoomMember{{RoomID: room.ID, UserID: a}, {RoomID: room.ID, UserID: b}}
	if err := tx.Create(&members).Error; err != nil {
		return 0, fmt.Errorf("add chat room members: %w", err)
	}
	return room.ID, nil
}
