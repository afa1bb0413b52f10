package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ayazfazlani/rent-ghar-sub000/internal/services"
)

// CityHandler handles REST requests for cities.
type CityHandler struct {
	cityService services.ICityService
}

// NewCityHandler creates a new CityHandler.
func NewCityHandler(cityService services.ICityService) *CityHandler {
	return &CityHandler{cityService: cityService}
}

// CreateCity handles POST /city
func (h *CityHandler) CreateCity(c *gin.Context) {
	var input services.CityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	city, err := h.cityService.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err, "Failed to create city")
		return
	}
	c.JSON(http.StatusCreated, city)
}

// GetCities handles GET /city
func (h *CityHandler) GetCities(c *gin.Context) {
	cities, err := h.cityService.FindAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch cities")
		return
	}
	c.JSON(http.StatusOK, cities)
}

// GetCityByID handles GET /city/:id
func (h *CityHandler) GetCityByID(c *gin.Context) {
	city, err := h.cityService.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch city")
		return
	}
	c.JSON(http.StatusOK, city)
}

// UpdateCity handles PUT /city/:id
func (h *CityHandler) UpdateCity(c *gin.Context) {
	var input services.CityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	city, err := h.cityService.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondServiceError(c, err, "Failed to update city")
		return
	}
	c.JSON(http.StatusOK, city)
}

// DeleteCity handles DELETE /city/:id
func (h *CityHandler) DeleteCity(c *gin.Context) {
	if err := h.cityService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "Failed to delete city")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "City deleted"})
}
