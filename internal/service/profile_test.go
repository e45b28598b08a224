package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebook/backend/internal/logger"
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/testhelpers"
	"github.com/pageza/recipebook/backend/internal/types"
)

func TestUpdateProfile(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	user := testhelpers.CreateTestUser(t, db, "chef@example.com")
	testhelpers.CreateTestUser(t, db, "taken@example.com")
	svc := NewProfileService(db, logger.Nop())
	ctx := context.Background()

	updated, err := svc.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{
		FirstName:       ptr("Julia"),
		CompetenceLevel: ptr(int(models.CompetenceExpert)),
	})
	require.NoError(t, err)
	assert.Equal(t, "Julia", updated.FirstName)
	assert.Equal(t, "User", updated.LastName, "absent fields stay")
	assert.Equal(t, models.CompetenceExpert, updated.CompetenceLevel)

	_, err = svc.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{Username: ptr("taken")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")

	_, err = svc.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{CompetenceLevel: ptr(6)})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "competence_level")

	same, err := svc.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{Username: ptr("chef")})
	require.NoError(t, err)
	assert.Equal(t, "chef", same.Username)
}

func TestProfileListsOwnTagsAndIngredients(t *testing.T) {
	f := setupRecipeFixture(t)
	other := testhelpers.CreateTestUser(t, f.db, "other@example.com")
	testhelpers.CreateTestTag(t, f.db, other, "Foreign")
	svc := NewProfileService(f.db, logger.Nop())

	req := newRecipeRequest("Bibimbap")
	req.Tags = descriptors("Korean", "Foreign")
	req.Ingredients = descriptors("Rice", "Egg")
	_, err := f.svc.CreateRecipe(f.ctx, req)
	require.NoError(t, err)

	tags, err := svc.GetUserTags(f.ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Korean"}, tagNames(tags))

	ingredients, err := svc.GetUserIngredients(f.ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, ingredients, 2)
}
