package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/requestdata"
	"github.com/pageza/recipebook/backend/internal/types"
)

type stubValidator map[string]uuid.UUID

func (s stubValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	id, ok := s[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &types.TokenClaims{UserID: id, TokenType: types.AccessToken}, nil
}

type stubUsers map[uuid.UUID]*models.User

func (s stubUsers) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := s[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func newAuthRouter(validator TokenValidator, users UserLoader) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(validator, users), func(c *gin.Context) {
		ctxID, _ := requestdata.ActingUserID(c.Request.Context())
		ginID, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"ctx": ctxID, "gin": ginID})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	active := &models.User{ID: uuid.New(), IsActive: true}
	inactive := &models.User{ID: uuid.New(), IsActive: false}
	validator := stubValidator{"good": active.ID, "sleepy": inactive.ID, "ghost": uuid.New()}
	users := stubUsers{active.ID: active, inactive.ID: inactive}
	r := newAuthRouter(validator, users)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token good", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"inactive user", "Bearer sleepy", http.StatusUnauthorized},
		{"unknown user", "Bearer ghost", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			require.Equal(t, tt.status, rr.Code, rr.Body.String())
			if tt.status == http.StatusOK {
				want := `{"ctx":"` + active.ID.String() + `","gin":"` + active.ID.String() + `"}`
				assert.JSONEq(t, want, rr.Body.String())
			} else {
				assert.Contains(t, rr.Body.String(), `"error"`)
			}
		})
	}
}
