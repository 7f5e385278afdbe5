package controllers

import (
	"context"
	"net/http"

	"github.com/date-course/api-go/models"
	"github.com/date-course/api-go/services"
	"github.com/date-course/api-go/types"
	"github.com/gin-gonic/gin"
)

type PostService interface {
	Create(ctx context.Context, actor services.Actor, req types.PostRequest) (*models.Post, error)
	List(ctx context.Context, filter types.PostFilter) ([]models.PostDetail, error)
	Get(ctx context.Context, id uint) (*models.Post, error)
	Delete(ctx context.Context, actor services.Actor, id uint) error
}

type BoardController struct {
	Posts PostService
}

func NewBoardController(posts PostService) *BoardController {
	return &BoardController{Posts: posts}
}

func (bc *BoardController) GetPosts(c *gin.Context) {
	var filter types.PostFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, "Invalid query")
		return
	}
	posts, err := bc.Posts.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (bc *BoardController) CreatePost(c *gin.Context) {
	var req types.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "title is required")
		return
	}
	req.UserID = defaultUser(c, req.UserID)
	post, err := bc.Posts.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

func (bc *BoardController) GetPost(c *gin.Context) {
	id, ok := idParam(c, "postId")
	if !ok {
		return
	}
	post, err := bc.Posts.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (bc *BoardController) DeletePost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := bc.Posts.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}
