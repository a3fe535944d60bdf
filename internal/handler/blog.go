package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nawedy/melting-pot-plus/internal/blog"
	"github.com/nawedy/melting-pot-plus/internal/dto"
	"github.com/nawedy/melting-pot-plus/internal/middleware"
	"github.com/nawedy/melting-pot-plus/internal/model"
	"github.com/nawedy/melting-pot-plus/internal/service"
)

const maxRelatedPosts = 3

type BlogHandler struct {
	store       *blog.Store
	submissions *service.SubmissionService
	authSvc     *service.AuthService
}

func NewBlogHandler(store *blog.Store, submissions *service.SubmissionService, authSvc *service.AuthService) *BlogHandler {
	return &BlogHandler{store: store, submissions: submissions, authSvc: authSvc}
}

func (h *BlogHandler) ListPosts(c *gin.Context) {
	var req dto.ListPostsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lang := middleware.GetLang(c)
	posts := h.store.List(blog.Filter{
		Search:   req.Search,
		Category: req.Category,
		Tag:      req.Tag,
		Lang:     lang,
	})

	items := make([]dto.BlogPostResponse, 0, len(posts))
	for i := range posts {
		items = append(items, dto.ToBlogPostResponse(&posts[i], lang, false))
	}
	c.JSON(http.StatusOK, dto.BlogListResponse{Posts: items, Total: len(items)})
}

func (h *BlogHandler) GetPost(c *gin.Context) {
	post, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	c.JSON(http.StatusOK, dto.ToBlogPostResponse(post, middleware.GetLang(c), true))
}

func (h *BlogHandler) RelatedPosts(c *gin.Context) {
	if _, ok := h.store.Get(c.Param("id")); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	lang := middleware.GetLang(c)
	related := h.store.Related(c.Param("id"), maxRelatedPosts)
	items := make([]dto.BlogPostResponse, 0, len(related))
	for i := range related {
		items = append(items, dto.ToBlogPostResponse(&related[i], lang, false))
	}
	c.JSON(http.StatusOK, dto.BlogListResponse{Posts: items, Total: len(items)})
}

func (h *BlogHandler) LikePost(c *gin.Context) {
	likes, ok := h.store.Like(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": likes})
}

func (h *BlogHandler) UnlikePost(c *gin.Context) {
	likes, ok := h.store.Unlike(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": likes})
}

func (h *BlogHandler) SharePost(c *gin.Context) {
	var req dto.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shares, ok := h.store.Share(c.Param("id"), req.Platform)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"shares": shares})
}

func (h *BlogHandler) AddComment(c *gin.Context) {
	var req dto.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	author, ok := h.commentAuthor(c)
	if !ok {
		return
	}
	comment, err := h.store.AddComment(c.Param("id"), author, req.Content)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *BlogHandler) AddReply(c *gin.Context) {
	var req dto.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	author, ok := h.commentAuthor(c)
	if !ok {
		return
	}
	reply, err := h.store.AddReply(c.Param("id"), c.Param("commentId"), author, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, blog.ErrReplyTooDeep):
			c.JSON(http.StatusBadRequest, gin.H{"error": "replies cannot be nested"})
		case errors.Is(err, blog.ErrCommentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		default:
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		}
		return
	}
	c.JSON(http.StatusCreated, reply)
}

func (h *BlogHandler) LikeComment(c *gin.Context) {
	likes, err := h.store.LikeComment(c.Param("id"), c.Param("commentId"))
	if err != nil {
		if errors.Is(err, blog.ErrCommentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": likes})
}

func (h *BlogHandler) SubmitPost(c *gin.Context) {
	var req dto.SubmitPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	author, ok := h.commentAuthor(c)
	if !ok {
		return
	}
	sub, err := h.submissions.Submit(c.Request.Context(), req, author)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "submission failed"})
		return
	}
	c.JSON(http.StatusAccepted, dto.SubmissionResponse{
		ID: sub.ID, Status: sub.Status, SubmittedAt: sub.SubmittedAt,
	})
}

// commentAuthor resolves the authenticated user into the author stamp put on
// comments and submissions.
func (h *BlogHandler) commentAuthor(c *gin.Context) (model.Author, bool) {
	user, err := h.authSvc.GetUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return model.Author{}, false
	}
	return model.Author{ID: user.ID.String(), Name: user.Name, Avatar: user.Avatar}, true
}
