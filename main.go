package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SiRoHK/MiniAnazinClone/controllers"
	"github.com/SiRoHK/MiniAnazinClone/database"
	"github.com/SiRoHK/MiniAnazinClone/logger"
	"github.com/SiRoHK/MiniAnazinClone/middleware"
	"github.com/SiRoHK/MiniAnazinClone/models"
	"github.com/SiRoHK/MiniAnazinClone/repository"
	"github.com/SiRoHK/MiniAnazinClone/routes"
	"github.com/SiRoHK/MiniAnazinClone/services"
	"github.com/SiRoHK/MiniAnazinClone/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog := logger.Initialize(cfg.Environment)
	defer zlog.Sync() //nolint:errcheck

	db, err := database.Connect(cfg.Postgres, zlog,
		&models.User{}, &models.Product{}, &models.Order{}, &models.OrderItem{})
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db) //nolint:errcheck

	// DI chain
	userRepo := repository.NewGormUserRepository(db)
	productRepo := repository.NewGormProductRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)

	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	authService := services.NewAuthService(userRepo, tokenService, db, cfg.BcryptCost, zlog)
	orderService := services.NewOrderService(db, zlog)

	authController := controllers.NewAuthController(authService, zlog)
	productController := controllers.NewProductController(productRepo, zlog)
	orderController := controllers.NewOrderController(orderRepo, orderService, zlog)
	userController := controllers.NewUserController(userRepo, zlog)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	types.RegisterValidations()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestID())
	r.Use(logger.RequestLogger(zlog))
	r.Use(cors.Default())

	// 30-second request timeout
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	authLimiter := middleware.RateLimit(time.Minute/time.Duration(cfg.AuthRatePerMinute), cfg.AuthRateBurst)
	routes.Register(r, tokenService, authLimiter, authController, productController, orderController, userController)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("Server failed", zap.Error(err))
		}
	}()

	zlog.Info("API started", zap.String("port", cfg.Port))
	<-quit
	zlog.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal("Server forced to shutdown", zap.Error(err))
	}
	zlog.Info("Server exited cleanly")
}
