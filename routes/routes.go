package routes

import (
	"github.com/SiRoHK/MiniAnazinClone/controllers"
	"github.com/SiRoHK/MiniAnazinClone/middleware"
	"github.com/gin-gonic/gin"
)

// Register wires all API routes with their authorization policies.
// authLimiter throttles the unauthenticated auth endpoints.
func Register(
	r *gin.Engine,
	tokens middleware.TokenValidator,
	authLimiter gin.HandlerFunc,
	ac *controllers.AuthController,
	pc *controllers.ProductController,
	oc *controllers.OrderController,
	uc *controllers.UserController,
) {
	authenticated := middleware.Authenticate(tokens)

	auth := r.Group("/auth")
	auth.Use(authLimiter)
	{
		auth.POST("/register", ac.Register)
		auth.POST("/login", ac.Login)
	}

	products := r.Group("/products")
	{
		products.GET("", pc.GetProducts)
		products.GET("/search", pc.SearchProducts)
		products.GET("/:id", pc.GetProduct)

		products.POST("", authenticated, middleware.Require(middleware.AdminOnly), pc.CreateProduct)
		products.PUT("/:id", authenticated, middleware.Require(middleware.AdminOnly), pc.UpdateProduct)
		products.DELETE("/:id", authenticated, middleware.Require(middleware.AdminOnly), pc.DeleteProduct)
		products.POST("/:id/stock", authenticated, middleware.Require(middleware.AdminOnly), pc.AdjustStock)
	}

	orders := r.Group("/orders")
	orders.Use(authenticated)
	{
		orders.GET("/GetUserOrder", oc.GetUserOrders)
		orders.GET("/all", middleware.Require(middleware.CanViewOrders), oc.GetAllOrders)
		orders.POST("/create", oc.CreateOrder)
		orders.GET("/:id", oc.GetOrder)
	}

	users := r.Group("/users")
	users.Use(authenticated)
	{
		users.GET("/profile", uc.GetProfile)
		users.PUT("/:id/role", middleware.Require(middleware.AdminOnly), uc.ChangeRole)
	}
}
