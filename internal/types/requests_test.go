package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeRequestDecodesPrice(t *testing.T) {
	var req RecipeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Dal","price":"4.25","tags":[{"name":"Indian"}]}`), &req))
	require.NotNil(t, req.Price)
	assert.True(t, req.Price.Equal(decimal.RequireFromString("4.25")))
	require.NotNil(t, req.Title)
	assert.Equal(t, "Dal", *req.Title)
	require.NotNil(t, req.Tags)
	assert.Equal(t, []NameDescriptor{{Name: "Indian"}}, *req.Tags)
	assert.Nil(t, req.Ingredients)

	req = RecipeRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"price":7.5,"ingredients":[]}`), &req))
	require.NotNil(t, req.Price)
	assert.Equal(t, "7.5", req.Price.String())
	require.NotNil(t, req.Ingredients)
	assert.Empty(t, *req.Ingredients)

	req = RecipeRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"price":null,"tags":null}`), &req))
	assert.Nil(t, req.Price)
	assert.Nil(t, req.Tags)
}

func TestRecipeRequestMalformedPrice(t *testing.T) {
	var req RecipeRequest
	err := json.Unmarshal([]byte(`{"title":"Dal","price":"abc"}`), &req)
	require.Error(t, err)

	var fieldErr *FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "price", fieldErr.Field)
	assert.Equal(t, "A valid number is required.", fieldErr.Message)
}
