package router

import (
	"github.com/dkim/aquamarket-backend/config"
	"github.com/dkim/aquamarket-backend/internal/app/controller"
	"github.com/dkim/aquamarket-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController         *controller.AuthController
	fishController         *controller.FishController
	categoryController     *controller.CategoryController
	favoriteController     *controller.FavoriteController
	cartController         *controller.CartController
	orderController        *controller.OrderController
	platformController     *controller.PlatformController
	notificationController *controller.NotificationController
	uploadController       *controller.UploadController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	fishController *controller.FishController,
	categoryController *controller.CategoryController,
	favoriteController *controller.FavoriteController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	platformController *controller.PlatformController,
	notificationController *controller.NotificationController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		fishController:         fishController,
		categoryController:     categoryController,
		favoriteController:     favoriteController,
		cartController:         cartController,
		orderController:        orderController,
		platformController:     platformController,
		notificationController: notificationController,
		uploadController:       uploadController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "AquaMarket API is running",
		})
	})

	// Real-time notification stream
	router.GET("/ws/notifications",
		r.authMiddleware.Authenticate(),
		r.notificationController.Subscribe,
	)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
		}

		fishes := v1.Group("/fishes")
		{
			fishes.GET("", r.fishController.ListFishes)
			fishes.GET("/export",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.fishController.ExportCatalog,
			)
			fishes.GET("/:id", r.fishController.GetFish)
			fishes.GET("/:id/reviews", r.fishController.GetFishReviews)

			fishes.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.fishController.CreateFish,
			)
			fishes.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.fishController.UpdateFish,
			)
			fishes.PUT("/:id/stock",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.fishController.UpdateStock,
			)
			fishes.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.fishController.DeleteFish,
			)
			fishes.POST("/:id/reviews",
				r.authMiddleware.Authenticate(),
				r.fishController.CreateReview,
			)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.ListCategories)
			categories.GET("/:id", r.categoryController.GetCategory)
			categories.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.categoryController.CreateCategory,
			)
			categories.POST("/:id/fishes/:fish_id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.categoryController.AddFishToCategory,
			)
		}

		favorites := v1.Group("/favorites")
		favorites.Use(r.authMiddleware.Authenticate())
		{
			favorites.GET("", r.favoriteController.GetFavorites)
			favorites.POST("", r.favoriteController.AddFavorite)
			favorites.DELETE("/:fish_id", r.favoriteController.RemoveFavorite)
		}

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("/items", r.cartController.AddItem)
			cart.DELETE("/items/:fish_id", r.cartController.RemoveItem)
			cart.DELETE("", r.cartController.EmptyCart)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.GET("", r.orderController.GetOrders)
			orders.GET("/:id", r.orderController.GetOrderByID)
			orders.POST("", r.orderController.CreateOrder)
			orders.POST("/from-cart", r.orderController.CreateOrderFromCart)
			orders.POST("/:id/confirm", r.orderController.ConfirmOrder)
		}

		platforms := v1.Group("/platforms")
		{
			platforms.GET("", r.platformController.ListPlatforms)
			platforms.GET("/:id", r.platformController.GetPlatform)
			platforms.GET("/:id/popular", r.platformController.PopularFishes)
			platforms.GET("/:id/new", r.platformController.NewlyAddedFishes)

			platforms.POST("",
				r.authMiddleware.Authenticate(),
				r.platformController.CreatePlatform,
			)
			platforms.POST("/:id/fishes/:fish_id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.platformController.AddFish,
			)
			platforms.POST("/:id/categories/:category_id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.platformController.AddCategory,
			)
			platforms.POST("/:id/join",
				r.authMiddleware.Authenticate(),
				r.platformController.Join,
			)
			platforms.POST("/:id/activity",
				r.authMiddleware.Authenticate(),
				r.platformController.RecordActivity,
			)
			platforms.GET("/:id/activity",
				r.authMiddleware.Authenticate(),
				r.platformController.GetActivityLog,
			)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(r.authMiddleware.Authenticate())
		{
			notifications.GET("", r.notificationController.GetNotifications)
			notifications.PUT("/:id/read", r.notificationController.MarkAsRead)
		}

		upload := v1.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate())
		{
			upload.POST("/presigned", r.uploadController.CreatePresignedUpload)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
