package handlers_test

import (
	"context"
	"io"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayazfazlani/rent-ghar-sub000/internal/models"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/services"
)

// --- Mocks ---

// MockCityService
type MockCityService struct {
	mock.Mock
}

func (m *MockCityService) Create(ctx context.Context, input services.CityInput) (*models.City, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.City), args.Error(1)
}
func (m *MockCityService) FindAll(ctx context.Context) ([]models.City, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.City), args.Error(1)
}
func (m *MockCityService) FindByID(ctx context.Context, id string) (*models.City, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.City), args.Error(1)
}
func (m *MockCityService) Update(ctx context.Context, id string, input services.CityInput) (*models.City, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.City), args.Error(1)
}
func (m *MockCityService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAreaService
type MockAreaService struct {
	mock.Mock
}

func (m *MockAreaService) Create(ctx context.Context, input services.AreaInput) (*models.Area, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Area), args.Error(1)
}
func (m *MockAreaService) FindAll(ctx context.Context) ([]models.AreaWithCity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AreaWithCity), args.Error(1)
}
func (m *MockAreaService) FindByID(ctx context.Context, id string) (*models.AreaWithCity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AreaWithCity), args.Error(1)
}
func (m *MockAreaService) FindByCity(ctx context.Context, cityID string) ([]models.AreaWithCity, error) {
	args := m.Called(ctx, cityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AreaWithCity), args.Error(1)
}
func (m *MockAreaService) Update(ctx context.Context, id string, input services.AreaInput) (*models.Area, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Area), args.Error(1)
}
func (m *MockAreaService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCategoryService
type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) Create(ctx context.Context, input services.CategoryInput) (*models.Category, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}
func (m *MockCategoryService) FindAll(ctx context.Context) ([]models.CategoryWithParent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CategoryWithParent), args.Error(1)
}
func (m *MockCategoryService) FindByID(ctx context.Context, id string) (*models.CategoryWithParent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CategoryWithParent), args.Error(1)
}
func (m *MockCategoryService) FindBySlug(ctx context.Context, slug string) (*models.CategoryWithParent, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CategoryWithParent), args.Error(1)
}
func (m *MockCategoryService) Update(ctx context.Context, id string, input services.CategoryInput) (*models.Category, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}
func (m *MockCategoryService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBlogService
type MockBlogService struct {
	mock.Mock
}

func (m *MockBlogService) Create(ctx context.Context, authorID primitive.ObjectID, input services.BlogInput) (*models.Blog, error) {
	args := m.Called(ctx, authorID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}
func (m *MockBlogService) FindPublished(ctx context.Context) ([]models.BlogWithCategories, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BlogWithCategories), args.Error(1)
}
func (m *MockBlogService) FindAll(ctx context.Context, status string) ([]models.BlogWithCategories, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BlogWithCategories), args.Error(1)
}
func (m *MockBlogService) FindByID(ctx context.Context, id string) (*models.BlogWithCategories, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlogWithCategories), args.Error(1)
}
func (m *MockBlogService) FindBySlug(ctx context.Context, slug string) (*models.BlogWithCategories, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlogWithCategories), args.Error(1)
}
func (m *MockBlogService) IncrementViews(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBlogService) Update(ctx context.Context, id string, input services.BlogInput) (*models.Blog, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}
func (m *MockBlogService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPropertyService
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) Create(ctx context.Context, ownerID primitive.ObjectID, input services.PropertyInput, mainPhotoURL string, additionalPhotosURLs []string) (*models.Property, error) {
	args := m.Called(ctx, ownerID, input, mainPhotoURL, additionalPhotosURLs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}
func (m *MockPropertyService) FindAllApproved(ctx context.Context, filters services.PropertyFilters) ([]models.PropertyWithArea, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PropertyWithArea), args.Error(1)
}
func (m *MockPropertyService) FindAll(ctx context.Context, filters services.PropertyFilters) ([]models.PropertyWithArea, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PropertyWithArea), args.Error(1)
}
func (m *MockPropertyService) FindByID(ctx context.Context, id string) (*models.PropertyWithArea, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PropertyWithArea), args.Error(1)
}
func (m *MockPropertyService) FindBySlug(ctx context.Context, slug string) (*models.PropertyWithArea, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PropertyWithArea), args.Error(1)
}
func (m *MockPropertyService) UpdateStatus(ctx context.Context, id, status string) (*models.Property, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}
func (m *MockPropertyService) Update(ctx context.Context, id string, input services.PropertyInput, mainPhotoURL string, additionalPhotosURLs []string) (*models.Property, error) {
	args := m.Called(ctx, id, input, mainPhotoURL, additionalPhotosURLs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}
func (m *MockPropertyService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockPropertyService) BackfillSlugs(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *MockPropertyService) SetPhotoURLs(ctx context.Context, id primitive.ObjectID, mainPhotoURL string, additionalPhotosURLs []string) error {
	args := m.Called(ctx, id, mainPhotoURL, additionalPhotosURLs)
	return args.Error(0)
}

// MockUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	args := m.Called(ctx, email, password, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockEnqueuer
type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(task, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}

// MockPhotoStorage
type MockPhotoStorage struct {
	mock.Mock
}

func (m *MockPhotoStorage) Upload(ctx context.Context, propertyID, filename, contentType string, body io.Reader) (string, string, error) {
	args := m.Called(ctx, propertyID, filename, contentType, body)
	return args.String(0), args.String(1), args.Error(2)
}
func (m *MockPhotoStorage) Download(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
func (m *MockPhotoStorage) URLFor(key string) string {
	args := m.Called(key)
	return args.String(0)
}
