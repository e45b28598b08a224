package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipebook/backend/internal/database"
	"github.com/pageza/recipebook/backend/internal/logger"
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/types"
)

// ProfileService handles user profile operations
type ProfileService struct {
	db  *gorm.DB
	log *logger.Logger
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB, log *logger.Logger) *ProfileService {
	return &ProfileService{db: db, log: log.With("service", "ProfileService")}
}

// GetProfile retrieves a user's account
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies the fields present in req. Email and password are
// changed through their own flows.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	v := NewValidationError()
	updates := map[string]interface{}{}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			v.Add("username", "This field may not be blank.")
		} else if username != user.Username {
			var count int64
			if err := s.db.WithContext(ctx).Model(&models.User{}).
				Where("username = ? AND id <> ?", username, userID).
				Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				v.Add("username", "A user with that username already exists.")
			}
			updates["username"] = username
		}
	}
	if req.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.CompetenceLevel != nil {
		level := *req.CompetenceLevel
		if level < 0 || level > 255 || !models.CompetenceLevel(level).Valid() {
			v.Addf("competence_level", "\"%d\" is not a valid choice.", level)
		} else {
			updates["competence_level"] = models.CompetenceLevel(level)
		}
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return nil, fieldError("username", "A user with that username already exists.")
			}
			return nil, fmt.Errorf("update profile: %w", err)
		}
		s.log.Info("Profile updated", "user_id", userID)
	}
	return s.GetProfile(ctx, userID)
}

// GetUserTags returns the tags userID created, newest first.
func (s *ProfileService) GetUserTags(ctx context.Context, userID uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).Where("creator_id = ?", userID).Order("created_at DESC").Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// GetUserIngredients returns the ingredients owned by userID, newest first.
func (s *ProfileService) GetUserIngredients(ctx context.Context, userID uuid.UUID) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&ingredients).Error
	if err != nil {
		return nil, err
	}
	return ingredients, nil
}
