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
	"github.com/pageza/recipebook/backend/internal/requestdata"
	"github.com/pageza/recipebook/backend/internal/types"
)

type TagService struct {
	db  *gorm.DB
	log *logger.Logger
}

var _ ITagService = (*TagService)(nil)

func NewTagService(db *gorm.DB, log *logger.Logger) *TagService {
	return &TagService{db: db, log: log.With("service", "TagService")}
}

func (s *TagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *TagService) GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// CreateTag returns the tag named req.Name, creating it for the acting
// user when it does not exist yet. The bool reports whether it was created.
func (s *TagService) CreateTag(ctx context.Context, req *types.TagRequest) (*models.Tag, bool, error) {
	userID, ok := requestdata.ActingUserID(ctx)
	if !ok {
		return nil, false, ErrUnauthenticated
	}
	name, err := normalizeName(req.Name, true)
	if err != nil {
		return nil, false, err
	}

	var (
		tag     *models.Tag
		created bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		tag, created, err = resolveTag(tx, userID, name)
		if err != nil || !created || req.Description == nil {
			return err
		}
		tag.Description = *req.Description
		return tx.Model(tag).Update("description", tag.Description).Error
	})
	if err != nil {
		return nil, false, fmt.Errorf("create tag: %w", err)
	}
	if created {
		s.log.Info("Tag created", "tag_id", tag.ID, "user_id", userID)
	}
	return tag, created, nil
}

// UpdateTag changes a tag created by the acting user. Tags created by
// someone else are reported as not found.
func (s *TagService) UpdateTag(ctx context.Context, id uuid.UUID, req *types.TagRequest) (*models.Tag, error) {
	tag, err := s.ownedTag(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name, err := normalizeName(req.Name, false)
		if err != nil {
			return nil, err
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) == 0 {
		return tag, nil
	}

	if err := s.db.WithContext(ctx).Model(tag).Updates(updates).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, fieldError("name", "tag with this name already exists.")
		}
		return nil, fmt.Errorf("update tag: %w", err)
	}
	return s.GetTag(ctx, id)
}

// DeleteTag removes a tag created by the acting user and unlinks it from
// every recipe.
func (s *TagService) DeleteTag(ctx context.Context, id uuid.UUID) error {
	tag, err := s.ownedTag(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM recipe_tags WHERE tag_id = ?", tag.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(tag).Error; err != nil {
			return err
		}
		s.log.Info("Tag deleted", "tag_id", tag.ID)
		return nil
	})
}

func (s *TagService) ownedTag(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	userID, ok := requestdata.ActingUserID(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	tag, err := s.GetTag(ctx, id)
	if err != nil {
		return nil, err
	}
	if tag.CreatorID != userID {
		return nil, ErrNotFound
	}
	return tag, nil
}

func normalizeName(name *string, required bool) (string, error) {
	if name == nil {
		if required {
			return "", fieldError("name", "This field is required.")
		}
		return "", nil
	}
	trimmed := strings.TrimSpace(*name)
	switch {
	case trimmed == "":
		return "", fieldError("name", "This field may not be blank.")
	case len(trimmed) > maxNameLength:
		return "", fieldError("name", fmt.Sprintf("Ensure this field has no more than %d characters.", maxNameLength))
	}
	return trimmed, nil
}
