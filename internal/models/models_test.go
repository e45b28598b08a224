package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, db.AutoMigrate(AllModels()...))
	return db
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Alice@Example.COM", "Alice@example.com"},
		{"  bob@EXAMPLE.org ", "bob@example.org"},
		{"not-an-email", "not-an-email"},
		{"a@b@Host.IO", "a@b@host.io"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeEmail(tt.in), tt.in)
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Not chosen", DifficultyNotChosen.Label())
	assert.Equal(t, "Advanced", DifficultyAdvanced.Label())
	assert.True(t, DifficultyIntermediate.Valid())
	assert.False(t, Difficulty(4).Valid())
	assert.Equal(t, "", Difficulty(9).Label())

	assert.Equal(t, "Expert", CompetenceExpert.Label())
	assert.True(t, CompetenceNovice.Valid())
	assert.False(t, CompetenceLevel(6).Valid())
}

func TestCreateUser(t *testing.T) {
	db := setupTestDB(t)
	user := &User{Username: "testuser", Email: "Test@EXAMPLE.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)

	assert.NotEqual(t, uuid.Nil, user.ID, "User ID should be set after creation")
	assert.Equal(t, "Test@example.com", user.Email)

	var stored User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.True(t, stored.IsActive)
	assert.Equal(t, CompetenceNotChosen, stored.CompetenceLevel)
}

func TestCreateRecipeWithAssociations(t *testing.T) {
	db := setupTestDB(t)
	user := &User{Username: "cook", Email: "cook@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)

	recipe := &Recipe{
		Title:                  "Dal",
		PreparationTimeMinutes: 30,
		Price:                  decimal.RequireFromString("4.25"),
		UserID:                 user.ID,
		Tags:                   []Tag{{Name: "Indian", CreatorID: user.ID}},
		Ingredients:            []Ingredient{{Name: "Lentils", UserID: user.ID}},
	}
	require.NoError(t, db.Create(recipe).Error)
	assert.NotEqual(t, uuid.Nil, recipe.ID)

	var loaded Recipe
	require.NoError(t, db.Preload("Tags").Preload("Ingredients").First(&loaded, "id = ?", recipe.ID).Error)
	require.Len(t, loaded.Tags, 1)
	require.Len(t, loaded.Ingredients, 1)
	assert.Equal(t, "Indian", loaded.Tags[0].Name)
	assert.Equal(t, "Lentils", loaded.Ingredients[0].Name)
	assert.True(t, loaded.Price.Equal(decimal.RequireFromString("4.25")))
	assert.Equal(t, DifficultyNotChosen, loaded.Difficulty)
}
