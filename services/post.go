package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/date-course/api-go/models"
	"github.com/date-course/api-go/types"
	"gorm.io/gorm"
)

// PostService keeps the board posts that post reports point at.
type PostService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

func (s *PostService) Create(ctx context.Context, actor Actor, req types.PostRequest) (*models.Post, error) {
	if req.UserID == 0 {
		return nil, invalid("user_id", "user_id is required")
	}
	if blank(req.Title) {
		return nil, invalid("title", "title is required")
	}
	if !actor.owns(req.UserID) {
		return nil, ErrForbidden
	}

	post := &models.Post{
		UserID:  req.UserID,
		Title:   strings.TrimSpace(req.Title),
		Content: req.Content,
	}
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		if isForeignKeyViolation(err) {
			return nil, notFound("user")
		}
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return post, nil
}

// List returns posts newest first with the author's nickname. Search
// matches title or content.
func (s *PostService) List(ctx context.Context, filter types.PostFilter) ([]models.PostDetail, error) {
	q := s.db.WithContext(ctx).
		Table("posts AS p").
		Select("p.*, u.nickname").
		Joins("LEFT JOIN users u ON u.id = p.user_id")
	if filter.UserID != 0 {
		q = q.Where("p.user_id = ?", filter.UserID)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + term + "%"
		q = q.Where("p.title ILIKE ? OR p.content ILIKE ?", like, like)
	}

	posts := []models.PostDetail{}
	if err := q.Order("p.created_at DESC, p.id DESC").Scan(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("post")
	}
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	return &post, nil
}

// Delete removes a post. Only its author or an admin may do so.
func (s *PostService) Delete(ctx context.Context, actor Actor, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		err := tx.Select("id", "user_id").Where("id = ?", id).First(&post).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("post")
		}
		if err != nil {
			return fmt.Errorf("load post %d: %w", id, err)
		}
		if !actor.owns(post.UserID) {
			return ErrForbidden
		}
		if err := tx.Delete(&models.Post{}, id).Error; err != nil {
			return fmt.Errorf("delete post %d: %w", id, err)
		}
		return nil
	})
}
