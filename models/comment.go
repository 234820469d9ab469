package models

import (
	"time"
)

type Comment struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Text        string    `gorm:"not null;type:text" json:"text"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	PostID      uint      `gorm:"not null;index" json:"post_id"`
	IsPublished bool      `gorm:"not null" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *Comment) OwnerID() uint { return c.AuthorID }

func (c *Comment) DetailPostID() uint { return c.PostID }
