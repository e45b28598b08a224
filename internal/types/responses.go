package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/pageza/recipebook/backend/internal/models"
)

type TagResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatorID   uuid.UUID `json:"creator"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type IngredientResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// RecipeResponse is the wire form of a recipe aggregate. Price is rendered
// with exactly two decimals.
type RecipeResponse struct {
	ID                     uuid.UUID            `json:"id"`
	Title                  string               `json:"title"`
	Description            string               `json:"description"`
	PreparationTimeMinutes uint                 `json:"preparation_time_minutes"`
	Price                  string               `json:"price"`
	Link                   string               `json:"link"`
	DifficultyLevel        models.Difficulty    `json:"difficulty_level"`
	Difficulty             string               `json:"difficulty"`
	User                   uuid.UUID            `json:"user"`
	Tags                   []TagResponse        `json:"tags"`
	Ingredients            []IngredientResponse `json:"ingredients"`
	CreatedAt              time.Time            `json:"created_at"`
	UpdatedAt              time.Time            `json:"updated_at"`
}

type UserResponse struct {
	ID              uuid.UUID              `json:"id"`
	Email           string                 `json:"email"`
	Username        string                 `json:"username"`
	FirstName       string                 `json:"first_name"`
	LastName        string                 `json:"last_name"`
	CompetenceLevel models.CompetenceLevel `json:"competence_level"`
	Competence      string                 `json:"competence"`
	CreatedAt       time.Time              `json:"date_joined"`
}

// TokenPair is returned by login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func NewTagResponse(t *models.Tag) TagResponse {
	return TagResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatorID:   t.CreatorID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func NewTagResponses(tags []models.Tag) []TagResponse {
	out := make([]TagResponse, 0, len(tags))
	for i := range tags {
		out = append(out, NewTagResponse(&tags[i]))
	}
	return out
}

func NewIngredientResponse(i *models.Ingredient) IngredientResponse {
	return IngredientResponse{ID: i.ID, Name: i.Name}
}

func NewIngredientResponses(ingredients []models.Ingredient) []IngredientResponse {
	out := make([]IngredientResponse, 0, len(ingredients))
	for i := range ingredients {
		out = append(out, NewIngredientResponse(&ingredients[i]))
	}
	return out
}

func NewRecipeResponse(r *models.Recipe) RecipeResponse {
	return RecipeResponse{
		ID:                     r.ID,
		Title:                  r.Title,
		Description:            r.Description,
		PreparationTimeMinutes: r.PreparationTimeMinutes,
		Price:                  r.Price.StringFixed(2),
		Link:                   r.Link,
		DifficultyLevel:        r.Difficulty,
		Difficulty:             r.Difficulty.Label(),
		User:                   r.UserID,
		Tags:                   NewTagResponses(r.Tags),
		Ingredients:            NewIngredientResponses(r.Ingredients),
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
}

func NewRecipeResponses(recipes []models.Recipe) []RecipeResponse {
	out := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, NewRecipeResponse(&recipes[i]))
	}
	return out
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		Username:        u.Username,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		CompetenceLevel: u.CompetenceLevel,
		Competence:      u.CompetenceLevel.Label(),
		CreatedAt:       u.CreatedAt,
	}
}
