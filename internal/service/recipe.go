package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pageza/recipebook/backend/internal/logger"
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/requestdata"
	"github.com/pageza/recipebook/backend/internal/types"
)

const (
	maxTitleLength = 60
	maxLinkLength  = 255
)

// maxPrice is the first value that no longer fits numeric(5,2).
var maxPrice = decimal.NewFromInt(1000)

// RecipeService owns recipe aggregates: the recipe row plus its tag and
// ingredient links, written together in one transaction.
type RecipeService struct {
	db  *gorm.DB
	log *logger.Logger
}

var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, log *logger.Logger) *RecipeService {
	return &RecipeService{db: db, log: log.With("service", "RecipeService")}
}

// CreateRecipe persists a recipe owned by the acting user and links every
// named tag and ingredient, reusing rows that already exist.
func (s *RecipeService) CreateRecipe(ctx context.Context, req *types.RecipeRequest) (*models.Recipe, error) {
	userID, ok := requestdata.ActingUserID(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	if err := validateRecipe(req, false); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Title:                  strings.TrimSpace(*req.Title),
		PreparationTimeMinutes: uint(*req.PreparationTimeMinutes),
		Price:                  *req.Price,
		UserID:                 userID,
	}
	if req.Description != nil {
		recipe.Description = *req.Description
	}
	if req.Link != nil {
		recipe.Link = strings.TrimSpace(*req.Link)
	}
	if req.DifficultyLevel != nil {
		recipe.Difficulty = models.Difficulty(*req.DifficultyLevel)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Ingredients").Create(&recipe).Error; err != nil {
			return err
		}
		if req.Tags != nil {
			if err := s.linkTags(tx, &recipe, userID, descriptorNames(*req.Tags)); err != nil {
				return err
			}
		}
		if req.Ingredients != nil {
			if err := s.linkIngredients(tx, &recipe, userID, descriptorNames(*req.Ingredients)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	s.log.Info("Recipe created", "recipe_id", recipe.ID, "user_id", userID)
	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe applies req to a recipe owned by the acting user. Present
// scalars overwrite, absent ones stay. A non-nil tag or ingredient list
// replaces that association wholesale. The owner never changes. When
// partial is false the required fields must all be present.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id uuid.UUID, req *types.RecipeRequest, partial bool) (*models.Recipe, error) {
	userID, ok := requestdata.ActingUserID(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	if err := validateRecipe(req, partial); err != nil {
		return nil, err
	}
	if len(req.User) > 0 {
		s.log.Debug("Ignoring owner field on recipe update", "recipe_id", id, "user_id", userID)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Where("id = ? AND user_id = ?", id, userID).Take(&recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if updates := scalarUpdates(req); len(updates) > 0 {
			if err := tx.Model(&recipe).Omit("user_id").Updates(updates).Error; err != nil {
				return err
			}
		}

		if req.Tags != nil {
			if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
				return err
			}
			if err := s.linkTags(tx, &recipe, recipe.UserID, descriptorNames(*req.Tags)); err != nil {
				return err
			}
		}
		if req.Ingredients != nil {
			if err := tx.Model(&recipe).Association("Ingredients").Clear(); err != nil {
				return err
			}
			if err := s.linkIngredients(tx, &recipe, recipe.UserID, descriptorNames(*req.Ingredients)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update recipe: %w", err)
	}

	s.log.Info("Recipe updated", "recipe_id", id, "user_id", userID)
	return s.GetRecipe(ctx, id)
}

func (s *RecipeService) linkTags(tx *gorm.DB, recipe *models.Recipe, creatorID uuid.UUID, names []string) error {
	if len(names) == 0 {
		return nil
	}
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		tag, created, err := resolveTag(tx, creatorID, name)
		if err != nil {
			return fmt.Errorf("resolve tag %q: %w", name, err)
		}
		if created {
			s.log.Debug("Tag created during recipe write", "tag", name, "creator_id", creatorID)
		}
		tags = append(tags, *tag)
	}
	return tx.Model(recipe).Association("Tags").Append(tags)
}

func (s *RecipeService) linkIngredients(tx *gorm.DB, recipe *models.Recipe, userID uuid.UUID, names []string) error {
	if len(names) == 0 {
		return nil
	}
	ingredients := make([]models.Ingredient, 0, len(names))
	for _, name := range names {
		ingredient, _, err := resolveIngredient(tx, userID, name)
		if err != nil {
			return fmt.Errorf("resolve ingredient %q: %w", name, err)
		}
		ingredients = append(ingredients, *ingredient)
	}
	return tx.Model(recipe).Association("Ingredients").Append(ingredients)
}

// GetRecipe retrieves a recipe with its tags and ingredients.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := withAssociations(s.db.WithContext(ctx)).Where("id = ?", id).Take(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// ListRecipes returns every recipe, newest first.
func (s *RecipeService) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := withAssociations(s.db.WithContext(ctx)).Order("created_at DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// ListUserRecipes returns the recipes owned by userID, newest first.
func (s *RecipeService) ListUserRecipes(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := withAssociations(s.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// DeleteRecipe removes a recipe owned by the acting user together with its
// association rows. Tags and ingredients themselves are kept.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	userID, ok := requestdata.ActingUserID(ctx)
	if !ok {
		return ErrUnauthenticated
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Where("id = ? AND user_id = ?", id, userID).Take(&recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Ingredients").Clear(); err != nil {
			return err
		}
		if err := tx.Delete(&recipe).Error; err != nil {
			return err
		}
		s.log.Info("Recipe deleted", "recipe_id", id, "user_id", userID)
		return nil
	})
}

func withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("ingredients.name") })
}

// scalarUpdates maps the present scalar fields of req to columns. user_id
// is never among them.
func scalarUpdates(req *types.RecipeRequest) map[string]interface{} {
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.PreparationTimeMinutes != nil {
		updates["preparation_time_minutes"] = uint(*req.PreparationTimeMinutes)
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Link != nil {
		updates["link"] = strings.TrimSpace(*req.Link)
	}
	if req.DifficultyLevel != nil {
		updates["difficulty_level"] = models.Difficulty(*req.DifficultyLevel)
	}
	return updates
}

// validateRecipe checks req before any write happens. With partial set,
// missing required fields are allowed; present ones are still checked.
func validateRecipe(req *types.RecipeRequest, partial bool) error {
	v := NewValidationError()

	if req.Title == nil {
		if !partial {
			v.Add("title", "This field is required.")
		}
	} else if t := strings.TrimSpace(*req.Title); t == "" {
		v.Add("title", "This field may not be blank.")
	} else if len([]rune(t)) > maxTitleLength {
		v.Addf("title", "Ensure this field has no more than %d characters.", maxTitleLength)
	}

	if req.PreparationTimeMinutes == nil {
		if !partial {
			v.Add("preparation_time_minutes", "This field is required.")
		}
	} else if *req.PreparationTimeMinutes < 0 {
		v.Add("preparation_time_minutes", "Ensure this value is greater than or equal to 0.")
	}

	if req.Price == nil {
		if !partial {
			v.Add("price", "This field is required.")
		}
	} else {
		p := *req.Price
		switch {
		case p.IsNegative():
			v.Add("price", "Ensure this value is greater than or equal to 0.")
		case !p.Equal(p.Round(2)):
			v.Add("price", "Ensure that there are no more than 2 decimal places.")
		case p.GreaterThanOrEqual(maxPrice):
			v.Add("price", "Ensure that there are no more than 5 digits in total.")
		}
	}

	if req.Link != nil && len(strings.TrimSpace(*req.Link)) > maxLinkLength {
		v.Addf("link", "Ensure this field has no more than %d characters.", maxLinkLength)
	}

	if req.DifficultyLevel != nil {
		if d := *req.DifficultyLevel; d < 0 || d > 255 || !models.Difficulty(d).Valid() {
			v.Addf("difficulty_level", "\"%d\" is not a valid choice.", d)
		}
	}

	if req.Tags != nil {
		validateDescriptors(v, "tags", *req.Tags)
		if n := len(descriptorNames(*req.Tags)); n > models.MaxRecipeTags {
			v.Addf("tags", "A recipe can have at most %d tags.", models.MaxRecipeTags)
		}
	}
	if req.Ingredients != nil {
		validateDescriptors(v, "ingredients", *req.Ingredients)
	}

	return v.OrNil()
}
