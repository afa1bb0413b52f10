package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ayazfazlani/rent-ghar-sub000/internal/services"
)

// CategoryHandler handles REST requests for blog categories.
type CategoryHandler struct {
	categoryService services.ICategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.ICategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategory handles POST /category/create
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var input services.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err, "Failed to create category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

// GetCategories handles GET /category
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.FindAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetCategoryByID handles GET /category/:id
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	category, err := h.categoryService.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// GetCategoryBySlug handles GET /category/slug/:slug
func (h *CategoryHandler) GetCategoryBySlug(c *gin.Context) {
	category, err := h.categoryService.FindBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// UpdateCategory handles PUT /category/:id
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var input services.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondServiceError(c, err, "Failed to update category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory handles DELETE /category/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.categoryService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "Failed to delete category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
