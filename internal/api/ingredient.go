package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/types"
)

type IngredientHandler struct {
	ingredientService service.IIngredientService
}

func NewIngredientHandler(ingredientService service.IIngredientService) *IngredientHandler {
	useJSONFieldNames()
	return &IngredientHandler{ingredientService: ingredientService}
}

func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.ingredientService.ListIngredients(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewIngredientResponses(ingredients))
}

func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ingredient, err := h.ingredientService.GetIngredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewIngredientResponse(ingredient))
}

func (h *IngredientHandler) CreateIngredient(c *gin.Context) {
	var req types.IngredientRequest
	if !bindJSON(c, &req) {
		return
	}

	ingredient, created, err := h.ingredientService.CreateIngredient(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, types.NewIngredientResponse(ingredient))
}

func (h *IngredientHandler) UpdateIngredient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.IngredientRequest
	if !bindJSON(c, &req) {
		return
	}

	ingredient, err := h.ingredientService.UpdateIngredient(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewIngredientResponse(ingredient))
}

func (h *IngredientHandler) DeleteIngredient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.ingredientService.DeleteIngredient(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
