package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// NameDescriptor is the nested {"name": ...} form used for tags and ingredients.
type NameDescriptor struct {
	Name string `json:"name"`
}

// RecipeRequest is the body for creating or updating a recipe. Every scalar
// is a pointer so an update can tell "absent" from "zero". Tags and
// Ingredients follow the same rule: nil leaves the association alone, an
// empty list clears it.
type RecipeRequest struct {
	Title                  *string           `json:"title"`
	Description            *string           `json:"description"`
	PreparationTimeMinutes *int64            `json:"preparation_time_minutes"`
	Price                  *decimal.Decimal  `json:"price"`
	Link                   *string           `json:"link"`
	DifficultyLevel        *int64            `json:"difficulty_level"`
	Tags                   *[]NameDescriptor `json:"tags"`
	Ingredients            *[]NameDescriptor `json:"ingredients"`

	// User is read so that clients echoing a full recipe back are not
	// rejected. It is never applied: recipes keep their original owner.
	User json.RawMessage `json:"user,omitempty"`
}

// FieldError is a decode failure tied to one request field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// UnmarshalJSON decodes price separately so a malformed number is reported
// against the price field.
func (r *RecipeRequest) UnmarshalJSON(data []byte) error {
	type alias RecipeRequest
	aux := struct {
		*alias
		Price json.RawMessage `json:"price"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.Price = nil
	if len(aux.Price) == 0 || string(aux.Price) == "null" {
		return nil
	}
	var price decimal.Decimal
	if err := price.UnmarshalJSON(aux.Price); err != nil {
		return &FieldError{Field: "price", Message: "A valid number is required."}
	}
	r.Price = &price
	return nil
}

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email,max=255"`
	Username        string `json:"username" binding:"required,max=38"`
	FirstName       string `json:"first_name" binding:"required,min=3,max=32"`
	LastName        string `json:"last_name" binding:"required,min=3,max=32"`
	Password        string `json:"password" binding:"required,max=255"`
	ConfirmPassword string `json:"confirm_password" binding:"required,max=255"`
}

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,max=255"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type OTPVerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

type PasswordResetConfirmRequest struct {
	Password        string `json:"password" binding:"required,max=255"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// UpdateProfileRequest is a partial update of the caller's own account.
type UpdateProfileRequest struct {
	Username        *string `json:"username" binding:"omitempty,min=1,max=38"`
	FirstName       *string `json:"first_name" binding:"omitempty,min=3,max=32"`
	LastName        *string `json:"last_name" binding:"omitempty,min=3,max=32"`
	CompetenceLevel *int    `json:"competence_level" binding:"omitempty,min=0,max=5"`
}

type TagRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type IngredientRequest struct {
	Name string `json:"name"`
}
