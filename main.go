package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tawan-r/ruenthai-api/config"
	"github.com/tawan-r/ruenthai-api/controllers"
	"github.com/tawan-r/ruenthai-api/middleware"
	"github.com/tawan-r/ruenthai-api/models"
	"github.com/tawan-r/ruenthai-api/services"
)

// TableCount is how many physical tables the restaurant floor has
const TableCount = 30

func main() {
	log.Println("Starting Ruen Thai API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.GuestUser{},
		&models.Table{},
		&models.Category{},
		&models.Menu{},
		&models.Reservation{},
		&models.Order{},
		&models.OrderItem{},
		&models.Cart{},
		&models.OrderHistory{},
		&models.Inventory{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	if err := seedTables(); err != nil {
		log.Fatalf("Failed to seed tables: %v", err)
	}

	// Menu photos go to S3 when a bucket is configured; development and
	// local setups fall back to the in-memory store
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
		services.InitImageService(s3Service)
	} else {
		log.Println("AWS_S3_BUCKET not set, using in-memory image store")
		services.SetImageService(services.NewMockImageService())
	}

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// seedTables makes sure every physical table has a row. Existing rows keep
// their current status.
func seedTables() error {
	db := config.GetDB()
	for number := 1; number <= TableCount; number++ {
		table := models.Table{TableNumber: number, Status: models.TableAvailable}
		if err := db.Where("table_number = ?", number).FirstOrCreate(&table).Error; err != nil {
			return err
		}
	}
	return nil
}

// setupRouter wires middleware and all route groups
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		// Public browsing
		v1.GET("/tables", controllers.ListTables)
		v1.GET("/tables/:tableNumber", controllers.GetTable)
		v1.GET("/menus", controllers.ListMenus)
		v1.GET("/menus/:id", controllers.GetMenu)
		v1.GET("/categories", controllers.ListCategories)

		// Walk-in guests book without an account
		guest := v1.Group("/guest")
		{
			guest.POST("/reservations", controllers.CreateGuestReservation)
			guest.GET("/reservations", controllers.ListGuestReservations)
			guest.DELETE("/reservations/:id", controllers.CancelGuestReservation)
		}

		// Profile creation only needs a valid token, not an existing profile
		authed := v1.Group("")
		authed.Use(middleware.EnsureValidToken(cfg))
		authed.POST("/users", controllers.CreateUser)

		// Everything below requires a resolved local user
		user := v1.Group("")
		user.Use(middleware.EnsureValidToken(cfg), middleware.ResolveUser())
		{
			user.GET("/users/me", controllers.GetMe)
			user.PATCH("/users/me", controllers.UpdateMe)

			user.POST("/reservations", controllers.CreateReservation)
			user.GET("/reservations", controllers.ListMyReservations)
			user.DELETE("/reservations/:id", controllers.CancelReservation)

			user.POST("/orders", controllers.CreateOrder)
			user.GET("/orders", controllers.ListMyOrders)
			user.GET("/orders/history", controllers.ListOrderHistory)
			user.GET("/orders/:id", controllers.GetOrder)
			user.DELETE("/orders/:id", controllers.CancelOrder)
			user.GET("/orders/:id/payment-link", controllers.GetPaymentLink)

			user.POST("/cart", controllers.AddToCart)
			user.GET("/cart", controllers.ListCart)
			user.PATCH("/cart/:id", controllers.UpdateCartItem)
			user.DELETE("/cart/:menuId", controllers.RemoveFromCart)
			user.POST("/cart/checkout", controllers.Checkout)
		}

		// Cashier dashboard
		cashier := v1.Group("/cashier")
		cashier.Use(middleware.EnsureValidToken(cfg), middleware.ResolveUser(),
			middleware.RequireRole(models.RoleCashier, models.RoleAdmin))
		{
			cashier.GET("/orders", controllers.ListOrders)
			cashier.PUT("/orders/:id", controllers.UpdateOrder)
			cashier.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)
			cashier.POST("/orders/:id/payment", controllers.CompletePayment)
			cashier.GET("/tables/unpaid", controllers.ListUnpaidTables)
			cashier.PATCH("/tables/:tableNumber/status", controllers.UpdateTableStatus)
			cashier.DELETE("/tables/:tableNumber/reservation", controllers.CancelReservationByTable)
			cashier.GET("/reservations", controllers.ListAllReservations)
		}

		// Menu and stock management
		admin := v1.Group("/admin")
		admin.Use(middleware.EnsureValidToken(cfg), middleware.ResolveUser(),
			middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/menus", controllers.CreateMenu)
			admin.PUT("/menus/:id", controllers.UpdateMenu)
			admin.DELETE("/menus/:id", controllers.DeleteMenu)
			admin.POST("/categories", controllers.CreateCategory)
			admin.POST("/inventory", controllers.CreateStock)
			admin.GET("/inventory", controllers.ListStock)
			admin.PUT("/inventory/:id", controllers.UpdateStock)
			admin.DELETE("/inventory/:id", controllers.DeleteStock)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Ruen Thai API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
