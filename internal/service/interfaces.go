package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*types.TokenPair, error)
	ValidateToken(tokenString string) (*types.TokenClaims, error)
	RefreshToken(refreshToken string) (string, error)
	GenerateAccessToken(userID uuid.UUID) (string, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *types.ChangePasswordRequest) error
	SetPassword(ctx context.Context, userID uuid.UUID, password, confirm string) error
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// IPasswordResetService defines the one-time-code password reset flow
type IPasswordResetService interface {
	RequestReset(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) (string, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.User, error)
	GetUserTags(ctx context.Context, userID uuid.UUID) ([]models.Tag, error)
	GetUserIngredients(ctx context.Context, userID uuid.UUID) ([]models.Ingredient, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, req *types.RecipeRequest) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, id uuid.UUID, req *types.RecipeRequest, partial bool) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id uuid.UUID) error
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	ListUserRecipes(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error)
}

// ITagService defines the interface for tag operations
type ITagService interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error)
	CreateTag(ctx context.Context, req *types.TagRequest) (*models.Tag, bool, error)
	UpdateTag(ctx context.Context, id uuid.UUID, req *types.TagRequest) (*models.Tag, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error
}

// IIngredientService defines the interface for ingredient operations
type IIngredientService interface {
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
	CreateIngredient(ctx context.Context, req *types.IngredientRequest) (*models.Ingredient, bool, error)
	UpdateIngredient(ctx context.Context, id uuid.UUID, req *types.IngredientRequest) (*models.Ingredient, error)
	DeleteIngredient(ctx context.Context, id uuid.UUID) error
}

// IExportService renders recipes to documents
type IExportService interface {
	RenderPDF(recipe *models.Recipe) ([]byte, error)
	Filename(recipe *models.Recipe) string
	Publish(ctx context.Context, recipe *models.Recipe) (string, error)
}

// EmailSender delivers HTML mail
type EmailSender interface {
	SendEmail(ctx context.Context, to []string, subject, htmlBody string) error
}

// OTPStore keeps one-time codes until they are used or expire
type OTPStore interface {
	// Save stores code -> email unless code is already taken.
	Save(ctx context.Context, code, email string, ttl time.Duration) (bool, error)
	// Consume deletes code only when it was saved for email. A mismatch
	// returns ErrInvalidOTP and leaves the code usable.
	Consume(ctx context.Context, code, email string) error
}

// ObjectStore is where exported documents are published
type ObjectStore interface {
	Upload(ctx context.Context, objectKey, contentType string, body []byte) error
	GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error)
}
