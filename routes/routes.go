package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/stevnathans/hustlecare-sub001/controllers"
	"github.com/stevnathans/hustlecare-sub001/middleware"
)

func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/signup", controllers.CreateUser)
		auth.POST("/login", controllers.Login)
	}

	// Community listings are browsable without an account; only
	// publishing and copying require one.
	api.GET("/shared", controllers.GetSharedListings)
	api.GET("/shared/:id", controllers.GetSharedListing)

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware())
	{
		// Business directory
		protected.POST("/businesses", middleware.RoleMiddleware("admin"), controllers.CreateBusiness)
		protected.GET("/businesses", controllers.GetBusinesses)
		protected.GET("/businesses/:id", controllers.GetBusiness)

		// Requirement linking (admin writes, anyone may read)
		protected.GET("/businesses/:id/requirements", controllers.GetBusinessRequirements)
		protected.POST("/businesses/:id/requirements", middleware.RoleMiddleware("admin"), controllers.LinkRequirement)
		protected.PUT("/businesses/:id/requirements/:linkId", middleware.RoleMiddleware("admin"), controllers.UpdateLink)
		protected.DELETE("/businesses/:id/requirements/:linkId", middleware.RoleMiddleware("admin"), controllers.UnlinkRequirement)
		protected.DELETE("/businesses/:id/requirements", middleware.RoleMiddleware("admin"), controllers.UnlinkRequirementByTemplate)

		// Requirement catalog
		requirements := protected.Group("/requirements")
		{
			requirements.GET("", controllers.GetRequirements)
			requirements.GET("/:id", controllers.GetRequirement)
			requirements.POST("", middleware.RoleMiddleware("admin"), controllers.CreateRequirement)
			requirements.PUT("/:id", middleware.RoleMiddleware("admin"), controllers.UpdateRequirement)
			requirements.POST("/:id/deprecate", middleware.RoleMiddleware("admin"), controllers.DeprecateRequirement)
			requirements.GET("/:id/businesses", controllers.GetRequirementBusinesses)
			requirements.POST("/:id/bulk-link", middleware.RoleMiddleware("admin"), controllers.BulkLinkRequirement)
			requirements.GET("/:id/products", controllers.GetProducts)
			requirements.POST("/:id/products", middleware.RoleMiddleware("admin"), controllers.CreateProduct)
		}

		// Carts
		carts := protected.Group("/carts")
		{
			carts.GET("/:businessId", controllers.GetCart)
			carts.POST("/:businessId/items", controllers.AddCartItem)
			carts.DELETE("/:businessId/items", controllers.ClearCart)
			carts.POST("/:businessId/clear-category", controllers.ClearCategory)
			carts.POST("/:businessId/clear-requirement", controllers.ClearRequirement)
			carts.GET("/:businessId/report", controllers.CartReport)
		}
		protected.PUT("/cart-items/:id", controllers.UpdateCartItem)
		protected.DELETE("/cart-items/:id", controllers.RemoveCartItem)

		// Community sharing
		protected.POST("/shared", controllers.ToggleShare)
		protected.POST("/shared/:id/copy", controllers.CopySharedListing)

		// User routes
		users := protected.Group("/users")
		{
			users.GET("/profile", controllers.GetProfile)
			users.POST("/changePassword", controllers.ChangePassword)
			users.POST("/logout", controllers.Logout)
		}

		protected.GET("/session", controllers.VerifyAuth)
	}
}
