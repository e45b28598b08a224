package main

import (
	"context"
	"errors"
	"flag"

	"github.com/shopspring/decimal"

	"github.com/pageza/recipebook/backend/config"
	"github.com/pageza/recipebook/backend/internal/database"
	"github.com/pageza/recipebook/backend/internal/logger"
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/requestdata"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/types"
)

type seedUser struct {
	Email, Username, FirstName, LastName string
}

type seedRecipe struct {
	Title       string
	Description string
	Minutes     int64
	Price       string
	Difficulty  models.Difficulty
	Tags        []string
	Ingredients []string
}

var users = []seedUser{
	{"alice@example.com", "alice", "Alice", "Baker"},
	{"bob@example.com", "bob", "Bob", "Griller"},
}

var recipes = []seedRecipe{
	{"Masala Dosa", "Crisp rice crepe with spiced potato filling.", 40, "6.50", models.DifficultyIntermediate,
		[]string{"Indian", "Breakfast", "Vegetarian"}, []string{"Rice", "Urad dal", "Potato", "Mustard seeds"}},
	{"Shakshuka", "Eggs poached in a peppery tomato sauce.", 25, "5.00", models.DifficultyNovice,
		[]string{"Breakfast", "Middle Eastern"}, []string{"Eggs", "Tomato", "Bell pepper", "Cumin"}},
	{"Chicken Tikka Masala", "Charred chicken in a creamy tomato gravy.", 60, "12.00", models.DifficultyIntermediate,
		[]string{"Indian", "Dinner"}, []string{"Chicken", "Yogurt", "Tomato", "Cream", "Garam masala"}},
	{"Beef Wellington", "Fillet wrapped in mushroom duxelles and pastry.", 150, "45.00", models.DifficultyAdvanced,
		[]string{"British", "Dinner", "Festive"}, []string{"Beef fillet", "Mushrooms", "Puff pastry", "Prosciutto"}},
}

func main() {
	password := flag.String("password", "Passw0rdOK", "password for the demo accounts")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(string(cfg.Env))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database", "error", err)
	}

	authService := service.NewAuthService(db, cfg, log)
	recipeService := service.NewRecipeService(db, log)
	ctx := context.Background()

	var owners []*models.User
	for _, u := range users {
		user, err := authService.Register(ctx, &types.RegisterRequest{
			Email:           u.Email,
			Username:        u.Username,
			FirstName:       u.FirstName,
			LastName:        u.LastName,
			Password:        *password,
			ConfirmPassword: *password,
		})
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			user, err = authService.GetUserByEmail(ctx, u.Email)
			log.Info("Seed user already exists", "email", u.Email)
		}
		if err != nil {
			log.Fatal("Failed to seed user", "email", u.Email, "error", err)
		}
		owners = append(owners, user)
	}

	for i, r := range recipes {
		owner := owners[i%len(owners)]
		req := &types.RecipeRequest{
			Title:                  &r.Title,
			Description:            &r.Description,
			PreparationTimeMinutes: &r.Minutes,
			Price:                  ptr(decimal.RequireFromString(r.Price)),
			DifficultyLevel:        ptr(int64(r.Difficulty)),
			Tags:                   names(r.Tags),
			Ingredients:            names(r.Ingredients),
		}
		recipe, err := recipeService.CreateRecipe(requestdata.WithActingUser(ctx, owner.ID), req)
		if err != nil {
			log.Fatal("Failed to seed recipe", "title", r.Title, "error", err)
		}
		log.Info("Seeded recipe", "title", recipe.Title, "owner", owner.Username, "tags", len(recipe.Tags))
	}
}

func ptr[T any](v T) *T { return &v }

func names(values []string) *[]types.NameDescriptor {
	out := make([]types.NameDescriptor, 0, len(values))
	for _, v := range values {
		out = append(out, types.NameDescriptor{Name: v})
	}
	return &out
}
