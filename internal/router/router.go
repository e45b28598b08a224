package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebook/backend/internal/api"
	"github.com/pageza/recipebook/backend/internal/logger"
	"github.com/pageza/recipebook/backend/internal/middleware"
	"github.com/pageza/recipebook/backend/internal/service"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth       *api.AuthHandler
	Profile    *api.ProfileHandler
	Recipe     *api.RecipeHandler
	Tag        *api.TagHandler
	Ingredient *api.IngredientHandler
	Health     *api.HealthHandler
}

// Options carries the cross-cutting pieces the routes depend on.
type Options struct {
	AuthService  service.IAuthService
	WriteLimiter *middleware.RateLimiter
	CORSOrigins  []string
	Log          *logger.Logger
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestLogger(opts.Log),
		middleware.ErrorHandler(opts.Log),
		middleware.CORS(opts.CORSOrigins),
	)

	router.GET("/health", h.Health.HealthCheck)
	router.GET("/api/health", h.Health.HealthCheck)

	v1 := router.Group("/api/v1")
	requireAuth := middleware.AuthMiddleware(opts.AuthService, opts.AuthService)
	limitWrites := opts.WriteLimiter.RateLimitMiddleware()

	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/token/refresh", h.Auth.RefreshToken)
		auth.POST("/password-reset", h.Auth.RequestPasswordReset)
		auth.POST("/password-reset/verify", h.Auth.VerifyPasswordReset)
		auth.POST("/password-reset/confirm", requireAuth, h.Auth.ConfirmPasswordReset)
	}

	protected := v1.Group("")
	protected.Use(requireAuth)

	user := protected.Group("/user")
	{
		user.GET("/profile", h.Profile.GetProfile)
		user.PATCH("/profile", h.Profile.UpdateProfile)
		user.POST("/change-password", h.Profile.ChangePassword)
		user.GET("/my-recipes", h.Profile.GetUserRecipes)
		user.GET("/my-tags", h.Profile.GetUserTags)
		user.GET("/my-ingredients", h.Profile.GetUserIngredients)
	}

	recipes := protected.Group("/recipes")
	{
		recipes.GET("", h.Recipe.ListRecipes)
		recipes.GET("/:id", h.Recipe.GetRecipe)
		recipes.GET("/:id/download", h.Recipe.DownloadRecipe)
		recipes.POST("", limitWrites, h.Recipe.CreateRecipe)
		recipes.PUT("/:id", limitWrites, h.Recipe.UpdateRecipe)
		recipes.PATCH("/:id", limitWrites, h.Recipe.PatchRecipe)
		recipes.DELETE("/:id", limitWrites, h.Recipe.DeleteRecipe)
		recipes.POST("/:id/export", limitWrites, h.Recipe.ExportRecipe)
	}

	tags := protected.Group("/tags")
	{
		tags.GET("", h.Tag.ListTags)
		tags.GET("/:id", h.Tag.GetTag)
		tags.POST("", limitWrites, h.Tag.CreateTag)
		tags.PATCH("/:id", limitWrites, h.Tag.UpdateTag)
		tags.DELETE("/:id", limitWrites, h.Tag.DeleteTag)
	}

	ingredients := protected.Group("/ingredients")
	{
		ingredients.GET("", h.Ingredient.ListIngredients)
		ingredients.GET("/:id", h.Ingredient.GetIngredient)
		ingredients.POST("", limitWrites, h.Ingredient.CreateIngredient)
		ingredients.PATCH("/:id", limitWrites, h.Ingredient.UpdateIngredient)
		ingredients.DELETE("/:id", limitWrites, h.Ingredient.DeleteIngredient)
	}

	return router
}
