package models

import (
	"time"
)

// User is the author profile. Username is the public identifier used in
// profile URLs.
type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Username  string    `gorm:"uniqueIndex;not null;size:150" json:"username"`
	FirstName string    `gorm:"size:150" json:"first_name"`
	LastName  string    `gorm:"size:150" json:"last_name"`
	Bio       string    `gorm:"type:text" json:"bio"`
	Email     *string   `gorm:"uniqueIndex" json:"-"`
	Password  *string   `json:"-"` // nil for accounts created through Google sign-in
	GoogleID  *string   `gorm:"uniqueIndex" json:"-"`
	Posts     []Post    `gorm:"foreignKey:AuthorID" json:"-"`
	Comments  []Comment `gorm:"foreignKey:AuthorID" json:"-"`
}
