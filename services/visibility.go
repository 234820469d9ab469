package services

import (
	"time"

	"github.com/blogicum/api-go/models"
	"gorm.io/gorm"
)

// IsVisible decides whether viewerID may see post at instant now. Authors
// always see their own posts; everyone else needs the post published, its
// category (if any) published and pub_date not in the future. viewerID 0 is
// an anonymous viewer. post.Category must be loaded when CategoryID is set.
func IsVisible(post *models.Post, viewerID uint, now time.Time) bool {
	if viewerID != 0 && viewerID == post.AuthorID {
		return true
	}
	if !post.IsPublished {
		return false
	}
	if post.Category != nil && !post.Category.IsPublished {
		return false
	}
	return !post.PubDate.After(now)
}

// publishedOnly is the query form of IsVisible for a non-author viewer.
func publishedOnly(q *gorm.DB, now time.Time) *gorm.DB {
	return q.
		Joins("LEFT JOIN categories ON categories.id = posts.category_id").
		Where("posts.is_published = ?", true).
		Where("(posts.category_id IS NULL OR categories.is_published = ?)", true).
		Where("posts.pub_date <= ?", now)
}
