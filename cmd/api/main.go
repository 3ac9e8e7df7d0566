package main

import (
	"log"
	"os"
	"time"

	"github.com/abhishek9871/nesteryrelease-sub001/internal/database"
	"github.com/abhishek9871/nesteryrelease-sub001/internal/handlers"
	"github.com/abhishek9871/nesteryrelease-sub001/internal/middleware"
	"github.com/abhishek9871/nesteryrelease-sub001/internal/models"
	"github.com/abhishek9871/nesteryrelease-sub001/internal/repository"
	"github.com/abhishek9871/nesteryrelease-sub001/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Redis is optional; caching and click dedup fall back to the database
	if err := services.InitRedis(); err != nil {
		log.Printf("Redis initialization warning: %v", err)
	}

	// Initialize Storage (S3 or local fallback)
	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	affiliateRepo := repository.NewAffiliateRepository(db)

	affiliateService := services.NewAffiliateService(affiliateRepo)
	bookingService := services.NewBookingService(bookingRepo, userRepo, propertyRepo, affiliateService, hub)

	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Serve locally stored uploads
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	r.Static("/uploads", uploadDir)

	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(userRepo))
			auth.POST("/login", handlers.Login(userRepo))
		}

		api.GET("/properties", handlers.ListProperties(propertyRepo))
		api.GET("/properties/:id", handlers.GetProperty(propertyRepo))
		api.GET("/properties/:id/share", handlers.GetShareContent(propertyRepo))

		// Affiliate click tracking is unauthenticated by design
		api.GET("/affiliates/track/:code", handlers.TrackAffiliateClick(affiliateService))

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(userRepo))
				users.PUT("/profile", handlers.UpdateProfile(userRepo))
				users.GET("/loyalty", handlers.GetLoyalty(userRepo))
			}

			properties := protected.Group("/properties")
			properties.Use(middleware.RequireRole(string(models.UserRoleHost), string(models.UserRoleAdmin)))
			{
				properties.POST("", handlers.CreateProperty(propertyRepo))
				properties.PUT("/:id", handlers.UpdateProperty(propertyRepo))
				properties.DELETE("/:id", handlers.DeleteProperty(propertyRepo))
				properties.POST("/:id/images", handlers.UploadPropertyImage(propertyRepo))
			}

			bookings := protected.Group("/bookings")
			{
				bookings.POST("", handlers.CreateBooking(bookingService))
				bookings.GET("/my", handlers.GetMyBookings(bookingService))
				bookings.GET("/search", handlers.SearchBookings(bookingService))
				bookings.GET("/:id", handlers.GetBooking(bookingService))
				bookings.PATCH("/:id", handlers.UpdateBooking(bookingService))

				admin := bookings.Group("")
				admin.Use(middleware.RequireRole(string(models.UserRoleAdmin)))
				{
					admin.GET("", handlers.GetAllBookings(bookingService))
					admin.DELETE("/:id", handlers.DeleteBooking(bookingService))
				}
			}

			affiliates := protected.Group("/affiliates")
			affiliates.Use(middleware.RequireRole(string(models.UserRoleAdmin)))
			{
				affiliates.POST("/partners", handlers.RegisterAffiliatePartner(affiliateService))
				affiliates.GET("/partners/:id/earnings", handlers.GetAffiliateEarnings(affiliateService))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
