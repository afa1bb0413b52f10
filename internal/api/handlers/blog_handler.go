package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayazfazlani/rent-ghar-sub000/internal/api/middleware"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/services"
)

// BlogHandler handles REST requests for blog posts.
type BlogHandler struct {
	blogService services.IBlogService
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(blogService services.IBlogService) *BlogHandler {
	return &BlogHandler{blogService: blogService}
}

// authenticatedUserID pulls the authenticated user's id out of the gin
// context. Returns the zero ObjectID when absent or malformed.
func authenticatedUserID(c *gin.Context) primitive.ObjectID {
	idHex, ok := c.Get(middleware.ContextKeyUserID)
	if !ok {
		return primitive.NilObjectID
	}
	idStr, ok := idHex.(string)
	if !ok {
		return primitive.NilObjectID
	}
	oid, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}

// CreateBlog handles POST /blog
func (h *BlogHandler) CreateBlog(c *gin.Context) {
	var input services.BlogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	blog, err := h.blogService.Create(c.Request.Context(), authenticatedUserID(c), input)
	if err != nil {
		respondServiceError(c, err, "Failed to create blog post")
		return
	}
	c.JSON(http.StatusCreated, blog)
}

// GetPublishedBlogs handles GET /blog/published
func (h *BlogHandler) GetPublishedBlogs(c *gin.Context) {
	blogs, err := h.blogService.FindPublished(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch blog posts")
		return
	}
	c.JSON(http.StatusOK, blogs)
}

// GetBlogs handles GET /blog. An optional status query parameter
// restricts the result to one moderation status.
func (h *BlogHandler) GetBlogs(c *gin.Context) {
	blogs, err := h.blogService.FindAll(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch blog posts")
		return
	}
	c.JSON(http.StatusOK, blogs)
}

// GetBlogByID handles GET /blog/:id
func (h *BlogHandler) GetBlogByID(c *gin.Context) {
	blog, err := h.blogService.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch blog post")
		return
	}
	c.JSON(http.StatusOK, blog)
}

// GetBlogBySlug handles GET /blog/slug/:slug. Fetching a published post
// by slug counts as a view.
func (h *BlogHandler) GetBlogBySlug(c *gin.Context) {
	blog, err := h.blogService.FindBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch blog post")
		return
	}
	c.JSON(http.StatusOK, blog)
}

// IncrementBlogViews handles POST /blog/:id/views
func (h *BlogHandler) IncrementBlogViews(c *gin.Context) {
	if err := h.blogService.IncrementViews(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "Failed to record view")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "View recorded"})
}

// UpdateBlog handles PUT /blog/:id
func (h *BlogHandler) UpdateBlog(c *gin.Context) {
	var input services.BlogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	blog, err := h.blogService.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondServiceError(c, err, "Failed to update blog post")
		return
	}
	c.JSON(http.StatusOK, blog)
}

// DeleteBlog handles DELETE /blog/:id
func (h *BlogHandler) DeleteBlog(c *gin.Context) {
	if err := h.blogService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "Failed to delete blog post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Blog post deleted"})
}
