package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Difficulty of preparing a recipe.
type Difficulty uint8

const (
	DifficultyNotChosen Difficulty = iota
	DifficultyNovice
	DifficultyIntermediate
	DifficultyAdvanced
)

var difficultyLabels = map[Difficulty]string{
	DifficultyNotChosen:    "Not chosen",
	DifficultyNovice:       "Novice",
	DifficultyIntermediate: "Intermediate",
	DifficultyAdvanced:     "Advanced",
}

func (d Difficulty) Valid() bool {
	_, ok := difficultyLabels[d]
	return ok
}

func (d Difficulty) Label() string {
	return difficultyLabels[d]
}

// MaxRecipeTags is checked by the recipe writer, not by the schema.
const MaxRecipeTags = 5

type Recipe struct {
	ID                     uuid.UUID       `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt              time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
	Title                  string          `gorm:"size:60;not null" json:"title"`
	Description            string          `gorm:"type:text" json:"description"`
	PreparationTimeMinutes uint            `gorm:"not null" json:"preparation_time_minutes"`
	Price                  decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"price"`
	Link                   string          `gorm:"size:255" json:"link"`
	Difficulty             Difficulty      `gorm:"column:difficulty_level;not null;default:0" json:"difficulty_level"`
	UserID                 uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"user_id"`
	User                   *User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Tags                   []Tag           `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags"`
	Ingredients            []Ingredient    `gorm:"many2many:recipe_ingredients;constraint:OnDelete:CASCADE" json:"ingredients"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// AllModels lists every table the application owns, in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
	}
}
