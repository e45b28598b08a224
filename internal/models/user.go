package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompetenceLevel is the self-reported cooking skill of a user.
type CompetenceLevel uint8

const (
	CompetenceNotChosen CompetenceLevel = iota
	CompetenceNovice
	CompetenceIntermediate
	CompetenceProficient
	CompetenceAdvanced
	CompetenceExpert
)

var competenceLabels = map[CompetenceLevel]string{
	CompetenceNotChosen:    "Not chosen",
	CompetenceNovice:       "Novice",
	CompetenceIntermediate: "Intermediate",
	CompetenceProficient:   "Proficient",
	CompetenceAdvanced:     "Advanced",
	CompetenceExpert:       "Expert",
}

// Valid reports whether l is one of the known levels.
func (l CompetenceLevel) Valid() bool {
	_, ok := competenceLabels[l]
	return ok
}

// Label returns the display name, or "" for unknown values.
func (l CompetenceLevel) Label() string {
	return competenceLabels[l]
}

type User struct {
	ID              uuid.UUID       `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Email           string          `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username        string          `gorm:"size:38;uniqueIndex;not null" json:"username"`
	FirstName       string          `gorm:"size:32" json:"first_name"`
	LastName        string          `gorm:"size:32" json:"last_name"`
	PasswordHash    string          `gorm:"not null" json:"-"`
	CompetenceLevel CompetenceLevel `gorm:"not null;default:0" json:"competence_level"`
	IsActive        bool            `gorm:"not null;default:true" json:"is_active"`
	IsStaff         bool            `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser     bool            `gorm:"not null;default:false" json:"is_superuser"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = NormalizeEmail(u.Email)
	return nil
}

// NormalizeEmail lowercases the domain portion of an address and trims
// surrounding whitespace. The local part is left as typed.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}
