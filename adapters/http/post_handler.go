package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	postUC "github.com/kartikeya-dewal/devConnector/internal/application/usecase/post"
	"github.com/kartikeya-dewal/devConnector/internal/domain/post"
	"github.com/kartikeya-dewal/devConnector/pkg/apperror"
)

type PostHandler struct {
	createPostUseCase  *postUC.CreatePostUseCase
	listPostsUseCase   *postUC.ListPostsUseCase
	getPostUseCase     *postUC.GetPostUseCase
	deletePostUseCase  *postUC.DeletePostUseCase
	likePostUseCase    *postUC.LikePostUseCase
	commentPostUseCase *postUC.CommentPostUseCase
}

func NewPostHandler(
	createUC *postUC.CreatePostUseCase,
	listUC *postUC.ListPostsUseCase,
	getUC *postUC.GetPostUseCase,
	deleteUC *postUC.DeletePostUseCase,
	likeUC *postUC.LikePostUseCase,
	commentUC *postUC.CommentPostUseCase,
) *PostHandler {
	return &PostHandler{
		createPostUseCase:  createUC,
		listPostsUseCase:   listUC,
		getPostUseCase:     getUC,
		deletePostUseCase:  deleteUC,
		likePostUseCase:    likeUC,
		commentPostUseCase: commentUC,
	}
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	var req CreatePostRequest
	if err := bindJSON(c, &req, postTextMessages); err != nil {
		c.Error(err)
		return
	}

	p, err := h.createPostUseCase.Execute(c.Request.Context(), postUC.CreatePostInput{UserID: userID, Text: req.Text})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToPostDTO(p))
}

func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.listPostsUseCase.Execute(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	out := make([]PostDTO, len(posts))
	for i, p := range posts {
		out[i] = ToPostDTO(p)
	}
	c.JSON(http.StatusOK, out)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	p, err := h.getPostUseCase.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToPostDTO(p))
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	err := h.deletePostUseCase.Execute(c.Request.Context(), postUC.DeletePostInput{PostID: c.Param("id"), UserID: userID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Post removed"})
}

func (h *PostHandler) LikePost(c *gin.Context) {
	h.toggleLike(c, h.likePostUseCase.Like)
}

func (h *PostHandler) UnlikePost(c *gin.Context) {
	h.toggleLike(c, h.likePostUseCase.Unlike)
}

func (h *PostHandler) toggleLike(c *gin.Context, op func(context.Context, postUC.LikeInput) ([]post.Like, error)) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	likes, err := op(c.Request.Context(), postUC.LikeInput{PostID: c.Param("id"), UserID: userID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToLikeDTOs(likes))
}

func (h *PostHandler) AddComment(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	var req CreatePostRequest
	if err := bindJSON(c, &req, postTextMessages); err != nil {
		c.Error(err)
		return
	}

	comments, err := h.commentPostUseCase.AddComment(c.Request.Context(), postUC.AddCommentInput{
		PostID: c.Param("id"),
		UserID: userID,
		Text:   req.Text,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToCommentDTOs(comments))
}

func (h *PostHandler) RemoveComment(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	comments, err := h.commentPostUseCase.RemoveComment(c.Request.Context(), postUC.RemoveCommentInput{
		PostID:    c.Param("id"),
		CommentID: c.Param("commentId"),
		UserID:    userID,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToCommentDTOs(comments))
}
