package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipebook/backend/internal/database"
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/types"
)

const maxNameLength = 255

// resolveOrCreate returns the row selected by key, inserting candidate when
// there is none. The insert runs in a savepoint: if another writer created
// the same key first, the unique violation is rolled back to the savepoint
// and the winner's row is read and returned instead.
func resolveOrCreate[T any](tx *gorm.DB, key func(*gorm.DB) *gorm.DB, candidate *T) (*T, bool, error) {
	var existing T
	err := key(tx).Take(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	err = tx.Transaction(func(sp *gorm.DB) error {
		return sp.Create(candidate).Error
	})
	if err == nil {
		return candidate, true, nil
	}
	if !database.IsUniqueViolation(err) {
		return nil, false, err
	}

	var winner T
	if err := key(tx).Take(&winner).Error; err != nil {
		return nil, false, fmt.Errorf("re-read after unique violation: %w", err)
	}
	return &winner, false, nil
}

// resolveTag looks tags up by name alone; a new tag is credited to creatorID.
func resolveTag(tx *gorm.DB, creatorID uuid.UUID, name string) (*models.Tag, bool, error) {
	return resolveOrCreate(tx,
		func(db *gorm.DB) *gorm.DB { return db.Where("name = ?", name) },
		&models.Tag{Name: name, CreatorID: creatorID},
	)
}

// resolveIngredient looks ingredients up within one user's namespace.
func resolveIngredient(tx *gorm.DB, userID uuid.UUID, name string) (*models.Ingredient, bool, error) {
	return resolveOrCreate(tx,
		func(db *gorm.DB) *gorm.DB { return db.Where("user_id = ? AND name = ?", userID, name) },
		&models.Ingredient{Name: name, UserID: userID},
	)
}

// descriptorNames trims names and drops repeats, keeping first-seen order.
func descriptorNames(descriptors []types.NameDescriptor) []string {
	seen := make(map[string]struct{}, len(descriptors))
	names := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		name := strings.TrimSpace(d.Name)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

func validateDescriptors(v *ValidationError, field string, descriptors []types.NameDescriptor) {
	for i, d := range descriptors {
		name := strings.TrimSpace(d.Name)
		switch {
		case name == "":
			v.Addf(field, "item %d: name may not be blank", i)
		case len(name) > maxNameLength:
			v.Addf(field, "item %d: name must be at most %d characters", i, maxNameLength)
		}
	}
}
