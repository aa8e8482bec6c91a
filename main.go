package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/Gulverda/C-Final-Web-Store/config"
	"github.com/Gulverda/C-Final-Web-Store/database"
	"github.com/Gulverda/C-Final-Web-Store/handlers"
	"github.com/Gulverda/C-Final-Web-Store/metrics"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Connect to database
	db, err := database.Connect(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Initialize tables and seed data
	if err := db.InitializeTables(); err != nil {
		log.Fatal("Failed to initialize tables:", err)
	}

	// Set Gin mode
	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.Default()

	// Add CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Configure this properly for production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Store server is running",
		})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Initialize handlers
	handlers.InitializeHandlers(db)

	// Admin authentication routes (no auth required)
	router.POST("/admin/signup", handlers.AdminSignup)
	router.POST("/admin/login", handlers.AdminLogin)

	// API routes
	api := router.Group("/api")
	{
		// Public catalog routes
		api.GET("/products", handlers.GetProducts)
		api.GET("/products/:id", handlers.GetProduct)

		// Catalog management (admin only)
		adminProducts := api.Group("/products")
		adminProducts.Use(handlers.AuthMiddleware(), handlers.AdminMiddleware())
		{
			adminProducts.POST("", handlers.CreateProduct)
			adminProducts.PUT("/:id", handlers.UpdateProduct)
			adminProducts.DELETE("/:id", handlers.DeleteProduct)
		}

		// Cart routes (session-keyed, no auth)
		cart := api.Group("/cart")
		{
			cart.GET("", handlers.GetCart)
			cart.POST("/items", handlers.AddToCart)
			cart.PUT("/items/:productId", handlers.UpdateCartItem)
			cart.DELETE("/items/:productId", handlers.RemoveFromCart)
		}

		// Order routes
		api.POST("/orders", handlers.CreateOrder)
		api.GET("/orders/:id", handlers.GetOrder)
	}

	// Start server
	log.Printf("Starting store server on 0.0.0.0:%s", config.AppConfig.ServerPort)
	log.Fatal(http.ListenAndServe("0.0.0.0:"+config.AppConfig.ServerPort, c.Handler(router)))
}
