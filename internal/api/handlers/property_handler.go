package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayazfazlani/rent-ghar-sub000/internal/cache"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/config"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/services"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/storage"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/tasks"
)

const (
	mainPhotoField        = "mainPhoto"
	additionalPhotosField = "additionalPhotos"
	maxAdditionalPhotos   = 10
)

// PropertyHandler handles REST requests for property listings.
type PropertyHandler struct {
	propertyService services.IPropertyService
	photoStorage    storage.IPhotoStorage
	taskClient      tasks.Enqueuer
	rdb             *redis.Client
	cfg             *config.Config
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(
	propertyService services.IPropertyService,
	photoStorage storage.IPhotoStorage,
	taskClient tasks.Enqueuer,
	rdb *redis.Client,
	cfg *config.Config,
) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		photoStorage:    photoStorage,
		taskClient:      taskClient,
		rdb:             rdb,
		cfg:             cfg,
	}
}

// uploadedPhoto pairs a stored photo's object key with its public URL.
type uploadedPhoto struct {
	key string
	url string
}

// uploadPhotos stores the submission's photos and returns the main photo
// plus the additional ones. Either part may be absent.
func (h *PropertyHandler) uploadPhotos(c *gin.Context) (*uploadedPhoto, []uploadedPhoto, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}

	uploadOne := func(fh *multipart.FileHeader) (*uploadedPhoto, error) {
		file, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open photo %s: %w", fh.Filename, err)
		}
		defer file.Close()

		contentType := fh.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		// The key is not property-scoped yet because the property does not
		// exist until Create succeeds.
		key, url, err := h.photoStorage.Upload(c.Request.Context(), "uploads", fh.Filename, contentType, file)
		if err != nil {
			return nil, err
		}
		return &uploadedPhoto{key: key, url: url}, nil
	}

	var main *uploadedPhoto
	if files := form.File[mainPhotoField]; len(files) > 0 {
		main, err = uploadOne(files[0])
		if err != nil {
			return nil, nil, err
		}
	}

	var additional []uploadedPhoto
	files := form.File[additionalPhotosField]
	if len(files) > maxAdditionalPhotos {
		files = files[:maxAdditionalPhotos]
	}
	for _, fh := range files {
		photo, err := uploadOne(fh)
		if err != nil {
			return nil, nil, err
		}
		additional = append(additional, *photo)
	}

	return main, additional, nil
}

// enqueueImageTasks queues background processing for uploaded photos.
// Failures only log; the submission has already been accepted.
func (h *PropertyHandler) enqueueImageTasks(propertyID primitive.ObjectID, main *uploadedPhoto, additional []uploadedPhoto) {
	enqueue := func(photo uploadedPhoto, isMain bool) {
		task, err := tasks.NewImageProcessTask(propertyID.Hex(), photo.key, isMain)
		if err != nil {
			log.Printf("Failed to build image task for %s: %v", photo.key, err)
			return
		}
		if _, err := h.taskClient.Enqueue(task); err != nil {
			log.Printf("Failed to enqueue image task for %s: %v", photo.key, err)
		}
	}
	if main != nil {
		enqueue(*main, true)
	}
	for _, photo := range additional {
		enqueue(photo, false)
	}
}

// invalidateListCache drops every cached property list after a write.
func (h *PropertyHandler) invalidateListCache(c *gin.Context) {
	if h.rdb == nil {
		return
	}
	if err := cache.InvalidatePropertyLists(c.Request.Context(), h.rdb); err != nil {
		log.Printf("Failed to invalidate property list cache: %v", err)
	}
}

// SubmitProperty handles POST /properties (multipart form).
func (h *PropertyHandler) SubmitProperty(c *gin.Context) {
	var input services.PropertyInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data: " + err.Error()})
		return
	}

	var (
		main       *uploadedPhoto
		additional []uploadedPhoto
	)
	// Photos are optional; a submission without any arrives as a plain form.
	if _, err := c.MultipartForm(); err == nil {
		main, additional, err = h.uploadPhotos(c)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to store photos"})
			return
		}
	}

	mainURL := ""
	if main != nil {
		mainURL = main.url
	}
	additionalURLs := make([]string, 0, len(additional))
	for _, photo := range additional {
		additionalURLs = append(additionalURLs, photo.url)
	}

	property, err := h.propertyService.Create(c.Request.Context(), authenticatedUserID(c), input, mainURL, additionalURLs)
	if err != nil {
		respondServiceError(c, err, "Failed to submit property")
		return
	}

	h.enqueueImageTasks(property.ID, main, additional)
	h.notifyAdmin(property.Title, property.ID.Hex())
	h.invalidateListCache(c)

	c.JSON(http.StatusCreated, property)
}

// notifyAdmin queues the new-submission email. Best effort.
func (h *PropertyHandler) notifyAdmin(title, id string) {
	if h.cfg.AdminEmail == "" {
		return
	}
	body := fmt.Sprintf("A new property %q (%s) was submitted and is awaiting review.", title, id)
	task, err := tasks.NewEmailDeliverTask([]string{h.cfg.AdminEmail}, "New property submission", body)
	if err != nil {
		log.Printf("Failed to build notification email task: %v", err)
		return
	}
	if _, err := h.taskClient.Enqueue(task); err != nil {
		log.Printf("Failed to enqueue notification email: %v", err)
	}
}

// listProperties serves a cached property listing for the given scope,
// falling through to the service on a miss.
func (h *PropertyHandler) listProperties(c *gin.Context, scope string, fetch func() (interface{}, error)) {
	var cacheKey string
	if h.rdb != nil {
		cacheKey = cache.PropertyListKey(scope, c.Request.URL.Query())
		if payload, ok := cache.GetPropertyList(c.Request.Context(), h.rdb, cacheKey); ok {
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(payload))
			return
		}
	}

	properties, err := fetch()
	if err != nil {
		respondServiceError(c, err, "Failed to fetch properties")
		return
	}

	if h.rdb != nil {
		if payload, err := json.Marshal(properties); err == nil {
			cache.SetPropertyList(c.Request.Context(), h.rdb, cacheKey, string(payload), h.cfg.ListCacheTTL)
		}
	}
	c.JSON(http.StatusOK, properties)
}

// GetApprovedProperties handles GET /properties. Optional areaId and
// cityId query parameters filter the listing; areaId wins when both are
// present.
func (h *PropertyHandler) GetApprovedProperties(c *gin.Context) {
	filters := services.PropertyFilters{
		AreaID: c.Query("areaId"),
		CityID: c.Query("cityId"),
	}
	h.listProperties(c, "approved", func() (interface{}, error) {
		return h.propertyService.FindAllApproved(c.Request.Context(), filters)
	})
}

// GetAllProperties handles GET /properties/all (admin, every status).
func (h *PropertyHandler) GetAllProperties(c *gin.Context) {
	filters := services.PropertyFilters{
		AreaID: c.Query("areaId"),
		CityID: c.Query("cityId"),
	}
	h.listProperties(c, "all", func() (interface{}, error) {
		return h.propertyService.FindAll(c.Request.Context(), filters)
	})
}

// GetPropertyByID handles GET /properties/:id
func (h *PropertyHandler) GetPropertyByID(c *gin.Context) {
	property, err := h.propertyService.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch property")
		return
	}
	c.JSON(http.StatusOK, property)
}

// GetPropertyBySlug handles GET /properties/slug/:slug
func (h *PropertyHandler) GetPropertyBySlug(c *gin.Context) {
	property, err := h.propertyService.FindBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch property")
		return
	}
	c.JSON(http.StatusOK, property)
}

// UpdateProperty handles PUT /properties/:id (multipart form). Photos are
// replaced only when new files are attached.
func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	var input services.PropertyInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data: " + err.Error()})
		return
	}

	var (
		main       *uploadedPhoto
		additional []uploadedPhoto
	)
	// An update without any files arrives as a plain form; only parse the
	// multipart part when present.
	if _, err := c.MultipartForm(); err == nil {
		main, additional, err = h.uploadPhotos(c)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to store photos"})
			return
		}
	}

	mainURL := ""
	if main != nil {
		mainURL = main.url
	}
	additionalURLs := make([]string, 0, len(additional))
	for _, photo := range additional {
		additionalURLs = append(additionalURLs, photo.url)
	}

	property, err := h.propertyService.Update(c.Request.Context(), c.Param("id"), input, mainURL, additionalURLs)
	if err != nil {
		respondServiceError(c, err, "Failed to update property")
		return
	}

	h.enqueueImageTasks(property.ID, main, additional)
	h.invalidateListCache(c)

	c.JSON(http.StatusOK, property)
}

// StatusInput carries the body of a moderation status change.
type StatusInput struct {
	Status string `json:"status" binding:"required"`
}

// UpdatePropertyStatus handles PATCH /properties/:id/status (admin).
func (h *PropertyHandler) UpdatePropertyStatus(c *gin.Context) {
	var input StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	property, err := h.propertyService.UpdateStatus(c.Request.Context(), c.Param("id"), input.Status)
	if err != nil {
		respondServiceError(c, err, "Failed to update property status")
		return
	}

	h.invalidateListCache(c)
	c.JSON(http.StatusOK, property)
}

// DeleteProperty handles DELETE /properties/:id
func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	if err := h.propertyService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "Failed to delete property")
		return
	}
	h.invalidateListCache(c)
	c.JSON(http.StatusOK, gin.H{"message": "Property deleted"})
}
