package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipebook/backend/internal/database"
	"github.com/pageza/recipebook/backend/internal/logger"
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/requestdata"
	"github.com/pageza/recipebook/backend/internal/types"
)

// IngredientService works only inside the acting user's ingredient list.
type IngredientService struct {
	db  *gorm.DB
	log *logger.Logger
}

var _ IIngredientService = (*IngredientService)(nil)

func NewIngredientService(db *gorm.DB, log *logger.Logger) *IngredientService {
	return &IngredientService{db: db, log: log.With("service", "IngredientService")}
}

func (s *IngredientService) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	userID, ok := requestdata.ActingUserID(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	var ingredients []models.Ingredient
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("name").Find(&ingredients).Error
	if err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *IngredientService) GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	userID, ok := requestdata.ActingUserID(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	var ingredient models.Ingredient
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Take(&ingredient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

// CreateIngredient returns the acting user's ingredient with req.Name,
// creating it if needed.
func (s *IngredientService) CreateIngredient(ctx context.Context, req *types.IngredientRequest) (*models.Ingredient, bool, error) {
	userID, ok := requestdata.ActingUserID(ctx)
	if !ok {
		return nil, false, ErrUnauthenticated
	}
	name, err := normalizeName(&req.Name, true)
	if err != nil {
		return nil, false, err
	}

	var (
		ingredient *models.Ingredient
		created    bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		ingredient, created, err = resolveIngredient(tx, userID, name)
		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("create ingredient: %w", err)
	}
	if created {
		s.log.Info("Ingredient created", "ingredient_id", ingredient.ID, "user_id", userID)
	}
	return ingredient, created, nil
}

func (s *IngredientService) UpdateIngredient(ctx context.Context, id uuid.UUID, req *types.IngredientRequest) (*models.Ingredient, error) {
	ingredient, err := s.GetIngredient(ctx, id)
	if err != nil {
		return nil, err
	}
	name, err := normalizeName(&req.Name, true)
	if err != nil {
		return nil, err
	}
	if name == ingredient.Name {
		return ingredient, nil
	}

	if err := s.db.WithContext(ctx).Model(ingredient).Update("name", name).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, fieldError("name", "You already have an ingredient with this name.")
		}
		return nil, fmt.Errorf("update ingredient: %w", err)
	}
	return s.GetIngredient(ctx, id)
}

// DeleteIngredient removes the ingredient and unlinks it from the user's
// recipes.
func (s *IngredientService) DeleteIngredient(ctx context.Context, id uuid.UUID) error {
	ingredient, err := s.GetIngredient(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM recipe_ingredients WHERE ingredient_id = ?", ingredient.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(ingredient).Error; err != nil {
			return err
		}
		s.log.Info("Ingredient deleted", "ingredient_id", ingredient.ID)
		return nil
	})
}
