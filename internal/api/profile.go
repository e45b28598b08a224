package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebook/backend/internal/middleware"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/types"
)

// ProfileHandler serves the /user endpoints for the authenticated user.
type ProfileHandler struct {
	profileService service.IProfileService
	authService    service.IAuthService
	recipeService  service.IRecipeService
}

func NewProfileHandler(profileService service.IProfileService, authService service.IAuthService, recipeService service.IRecipeService) *ProfileHandler {
	useJSONFieldNames()
	return &ProfileHandler{
		profileService: profileService,
		authService:    authService,
		recipeService:  recipeService,
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}

	user, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewUserResponse(user))
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}
	var req types.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.profileService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewUserResponse(user))
}

func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}
	var req types.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Password updated successfully."})
}

func (h *ProfileHandler) GetUserRecipes(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}

	recipes, err := h.recipeService.ListUserRecipes(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewRecipeResponses(recipes))
}

func (h *ProfileHandler) GetUserTags(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}

	tags, err := h.profileService.GetUserTags(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewTagResponses(tags))
}

func (h *ProfileHandler) GetUserIngredients(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}

	ingredients, err := h.profileService.GetUserIngredients(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewIngredientResponses(ingredients))
}
