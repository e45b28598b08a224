package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebook/backend/internal/logger"
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/requestdata"
	"github.com/pageza/recipebook/backend/internal/testhelpers"
	"github.com/pageza/recipebook/backend/internal/types"
)

func TestCreateTagResolvesExisting(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	owner := testhelpers.CreateTestUser(t, db, "owner@example.com")
	other := testhelpers.CreateTestUser(t, db, "other@example.com")
	svc := NewTagService(db, logger.Nop())

	tag, created, err := svc.CreateTag(requestdata.WithActingUser(context.Background(), owner.ID),
		&types.TagRequest{Name: ptr(" Vegan "), Description: ptr("No animal products")})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Vegan", tag.Name)
	assert.Equal(t, "No animal products", tag.Description)
	assert.Equal(t, owner.ID, tag.CreatorID)

	again, created, err := svc.CreateTag(requestdata.WithActingUser(context.Background(), other.ID),
		&types.TagRequest{Name: ptr("Vegan")})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, tag.ID, again.ID)
	assert.Equal(t, owner.ID, again.CreatorID)
}

func TestCreateTagValidation(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	user := testhelpers.CreateTestUser(t, db, "owner@example.com")
	svc := NewTagService(db, logger.Nop())
	ctx := requestdata.WithActingUser(context.Background(), user.ID)

	for _, name := range []*string{nil, ptr(""), ptr("   ")} {
		_, _, err := svc.CreateTag(ctx, &types.TagRequest{Name: name})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "name")
	}

	_, _, err := svc.CreateTag(context.Background(), &types.TagRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUpdateAndDeleteTagCreatorOnly(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	owner := testhelpers.CreateTestUser(t, db, "owner@example.com")
	other := testhelpers.CreateTestUser(t, db, "other@example.com")
	svc := NewTagService(db, logger.Nop())
	ownerCtx := requestdata.WithActingUser(context.Background(), owner.ID)
	otherCtx := requestdata.WithActingUser(context.Background(), other.ID)

	tag := testhelpers.CreateTestTag(t, db, owner, "Dinner")
	testhelpers.CreateTestTag(t, db, owner, "Lunch")

	_, err := svc.UpdateTag(otherCtx, tag.ID, &types.TagRequest{Name: ptr("Supper")})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteTag(otherCtx, tag.ID), ErrNotFound)

	_, err = svc.UpdateTag(ownerCtx, tag.ID, &types.TagRequest{Name: ptr("Lunch")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")

	updated, err := svc.UpdateTag(ownerCtx, tag.ID, &types.TagRequest{Name: ptr("Supper"), Description: ptr("Evening meal")})
	require.NoError(t, err)
	assert.Equal(t, "Supper", updated.Name)
	assert.Equal(t, "Evening meal", updated.Description)

	require.NoError(t, svc.DeleteTag(ownerCtx, tag.ID))
	_, err = svc.GetTag(ownerCtx, tag.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetTag(ownerCtx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTagUnlinksRecipes(t *testing.T) {
	f := setupRecipeFixture(t)
	tags := NewTagService(f.db, logger.Nop())

	req := newRecipeRequest("Tacos")
	req.Tags = descriptors("Mexican", "Dinner")
	recipe, err := f.svc.CreateRecipe(f.ctx, req)
	require.NoError(t, err)

	var mexican models.Tag
	require.NoError(t, f.db.Where("name = ?", "Mexican").Take(&mexican).Error)
	require.NoError(t, tags.DeleteTag(f.ctx, mexican.ID))

	reloaded, err := f.svc.GetRecipe(f.ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dinner"}, tagNames(reloaded.Tags))
}

func TestListTags(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	user := testhelpers.CreateTestUser(t, db, "owner@example.com")
	testhelpers.CreateTestTag(t, db, user, "A")
	testhelpers.CreateTestTag(t, db, user, "B")

	tags, err := NewTagService(db, logger.Nop()).ListTags(context.Background())
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}
