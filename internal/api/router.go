package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ayazfazlani/rent-ghar-sub000/internal/api/handlers"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/api/middleware"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/captcha"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/config"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/services"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/storage"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/tasks"
)

// SetupRouter configures the Gin engine with all routes and middleware.
func SetupRouter(
	cfg *config.Config,
	db *mongo.Database,
	rdb *redis.Client,
	taskClient tasks.Enqueuer,
	photoStorage storage.IPhotoStorage,
) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware(cfg.FrontendURL))

	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)
	r.Use(rateLimiter.Limit())

	// Services
	cityService := services.NewCityService(db)
	areaService := services.NewAreaService(db)
	categoryService := services.NewCategoryService(db)
	blogService := services.NewBlogService(db)
	propertyService := services.NewPropertyService(db)
	userService := services.NewUserService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, cfg)
	cityHandler := handlers.NewCityHandler(cityService)
	areaHandler := handlers.NewAreaHandler(areaService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	blogHandler := handlers.NewBlogHandler(blogService)
	propertyHandler := handlers.NewPropertyHandler(propertyService, photoStorage, taskClient, rdb, cfg)

	turnstile := captcha.NewTurnstileVerifier(cfg)

	requireAuth := middleware.AuthMiddleware(cfg.JwtSecret)
	requireAdmin := middleware.AdminMiddleware()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Accounts
	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)

	// Cities
	r.POST("/city", requireAuth, requireAdmin, cityHandler.CreateCity)
	r.GET("/city", cityHandler.GetCities)
	r.GET("/city/:id", cityHandler.GetCityByID)
	r.PUT("/city/:id", requireAuth, requireAdmin, cityHandler.UpdateCity)
	r.DELETE("/city/:id", requireAuth, requireAdmin, cityHandler.DeleteCity)

	// Areas
	r.POST("/areas", requireAuth, requireAdmin, areaHandler.CreateArea)
	r.GET("/areas", areaHandler.GetAreas)
	r.GET("/areas/city/:cityId", areaHandler.GetAreasByCity)
	r.GET("/areas/:id", areaHandler.GetAreaByID)
	r.PUT("/areas/:id", requireAuth, requireAdmin, areaHandler.UpdateArea)
	r.DELETE("/areas/:id", requireAuth, requireAdmin, areaHandler.DeleteArea)

	// Blog categories
	r.POST("/category/create", requireAuth, requireAdmin, categoryHandler.CreateCategory)
	r.GET("/category", categoryHandler.GetCategories)
	r.GET("/category/slug/:slug", categoryHandler.GetCategoryBySlug)
	r.GET("/category/:id", categoryHandler.GetCategoryByID)
	r.PUT("/category/:id", requireAuth, requireAdmin, categoryHandler.UpdateCategory)
	r.DELETE("/category/:id", requireAuth, requireAdmin, categoryHandler.DeleteCategory)

	// Blog posts
	r.POST("/blog", requireAuth, requireAdmin, blogHandler.CreateBlog)
	r.GET("/blog", blogHandler.GetBlogs)
	r.GET("/blog/published", blogHandler.GetPublishedBlogs)
	r.GET("/blog/slug/:slug", blogHandler.GetBlogBySlug)
	r.GET("/blog/:id", blogHandler.GetBlogByID)
	r.POST("/blog/:id/views", blogHandler.IncrementBlogViews)
	r.PUT("/blog/:id", requireAuth, requireAdmin, blogHandler.UpdateBlog)
	r.DELETE("/blog/:id", requireAuth, requireAdmin, blogHandler.DeleteBlog)

	// Properties. Submission is open to anonymous visitors behind the
	// captcha; an attached bearer token links the listing to its owner.
	r.POST("/properties",
		middleware.OptionalAuthMiddleware(cfg.JwtSecret),
		middleware.CaptchaMiddleware(turnstile),
		propertyHandler.SubmitProperty,
	)
	r.GET("/properties", propertyHandler.GetApprovedProperties)
	r.GET("/properties/all", requireAuth, requireAdmin, propertyHandler.GetAllProperties)
	r.GET("/properties/slug/:slug", propertyHandler.GetPropertyBySlug)
	r.GET("/properties/:id", propertyHandler.GetPropertyByID)
	r.PUT("/properties/:id", requireAuth, requireAdmin, propertyHandler.UpdateProperty)
	r.PATCH("/properties/:id/status", requireAuth, requireAdmin, propertyHandler.UpdatePropertyStatus)
	r.DELETE("/properties/:id", requireAuth, requireAdmin, propertyHandler.DeleteProperty)

	return r
}
