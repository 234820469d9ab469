package models

import (
	"time"
)

type Post struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"not null;size:256" json:"title"`
	Text        string    `gorm:"not null;type:text" json:"text"`
	Image       string    `json:"image,omitempty"` // object key in the image store
	ImageURL    string    `gorm:"-" json:"image_url,omitempty"`
	PubDate     time.Time `gorm:"not null;index" json:"pub_date"`
	IsPublished bool      `gorm:"not null" json:"is_published"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	CategoryID  *uint     `gorm:"index" json:"category_id"`
	Category    *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	LocationID  *uint     `json:"location_id"`
	Location    *Location `gorm:"foreignKey:LocationID;constraint:OnDelete:SET NULL" json:"location,omitempty"`
	Comments    []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Filled by feed queries only; counts every comment of the post.
	CommentCount int64 `gorm:"->;-:migration" json:"comment_count"`
}

func (p *Post) OwnerID() uint { return p.AuthorID }

// DetailPostID is the post whose detail page a denied editor is sent to.
func (p *Post) DetailPostID() uint { return p.ID }
