package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ayazfazlani/rent-ghar-sub000/internal/services"
)

// AreaHandler handles REST requests for areas.
type AreaHandler struct {
	areaService services.IAreaService
}

// NewAreaHandler creates a new AreaHandler.
func NewAreaHandler(areaService services.IAreaService) *AreaHandler {
	return &AreaHandler{areaService: areaService}
}

// CreateArea handles POST /areas
func (h *AreaHandler) CreateArea(c *gin.Context) {
	var input services.AreaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	area, err := h.areaService.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err, "Failed to create area")
		return
	}
	c.JSON(http.StatusCreated, area)
}

// GetAreas handles GET /areas. An optional cityId query parameter
// restricts the result to one city's areas.
func (h *AreaHandler) GetAreas(c *gin.Context) {
	ctx := c.Request.Context()

	if cityID := c.Query("cityId"); cityID != "" {
		areas, err := h.areaService.FindByCity(ctx, cityID)
		if err != nil {
			respondServiceError(c, err, "Failed to fetch areas")
			return
		}
		c.JSON(http.StatusOK, areas)
		return
	}

	areas, err := h.areaService.FindAll(ctx)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch areas")
		return
	}
	c.JSON(http.StatusOK, areas)
}

// GetAreasByCity handles GET /areas/city/:cityId
func (h *AreaHandler) GetAreasByCity(c *gin.Context) {
	areas, err := h.areaService.FindByCity(c.Request.Context(), c.Param("cityId"))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch areas")
		return
	}
	c.JSON(http.StatusOK, areas)
}

// GetAreaByID handles GET /areas/:id
func (h *AreaHandler) GetAreaByID(c *gin.Context) {
	area, err := h.areaService.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch area")
		return
	}
	c.JSON(http.StatusOK, area)
}

// UpdateArea handles PUT /areas/:id
func (h *AreaHandler) UpdateArea(c *gin.Context) {
	var input services.AreaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	area, err := h.areaService.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondServiceError(c, err, "Failed to update area")
		return
	}
	c.JSON(http.StatusOK, area)
}

// DeleteArea handles DELETE /areas/:id
func (h *AreaHandler) DeleteArea(c *gin.Context) {
	if err := h.areaService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "Failed to delete area")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Area deleted"})
}
