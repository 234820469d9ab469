package services

import (
	"context"
	"fmt"

	"github.com/blogicum/api-go/models"
	"gorm.io/gorm"
)

type feedKind int

const (
	feedAll feedKind = iota
	feedCategory
	feedAuthor
)

// FeedFilter selects one of the listing contexts. Build it with AllPosts,
// ByCategory or ByAuthor.
type FeedFilter struct {
	kind     feedKind
	slug     string
	username string
	viewerID uint
}

func AllPosts() FeedFilter { return FeedFilter{kind: feedAll} }

func ByCategory(slug string) FeedFilter { return FeedFilter{kind: feedCategory, slug: slug} }

// ByAuthor lists a profile's posts. When viewerID is that profile, drafts
// and scheduled posts are included.
func ByAuthor(username string, viewerID uint) FeedFilter {
	return FeedFilter{kind: feedAuthor, username: username, viewerID: viewerID}
}

type FeedPage struct {
	Posts    []models.Post
	Page     Page
	Category *models.Category // set for category feeds
	Profile  *models.User     // set for author feeds
}

const commentCountColumn = "(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count"

type FeedService struct {
	db  *gorm.DB
	now Clock
}

func NewFeedService(db *gorm.DB, clock Clock) *FeedService {
	return &FeedService{db: db, now: clockOrSystem(clock)}
}

// ListPosts returns one page of the filtered feed, newest pub_date first,
// each post annotated with its comment count.
func (s *FeedService) ListPosts(ctx context.Context, filter FeedFilter, pageParam string) (*FeedPage, error) {
	db := s.db.WithContext(ctx)
	now := s.now()
	out := &FeedPage{}

	q := db.Model(&models.Post{})
	switch filter.kind {
	case feedCategory:
		var category models.Category
		if err := db.Where("slug = ?", filter.slug).First(&category).Error; err != nil {
			return nil, lookupErr(err, "category")
		}
		if !category.IsPublished {
			return nil, fmt.Errorf("category %q unpublished: %w", filter.slug, ErrNotFound)
		}
		out.Category = &category
		q = publishedOnly(q, now).Where("posts.category_id = ?", category.ID)
	case feedAuthor:
		var profile models.User
		if err := db.Where("username = ?", filter.username).First(&profile).Error; err != nil {
			return nil, lookupErr(err, "profile")
		}
		out.Profile = &profile
		q = q.Where("posts.author_id = ?", profile.ID)
		if filter.viewerID != profile.ID {
			q = publishedOnly(q, now)
		}
	default:
		q = publishedOnly(q, now)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	out.Page = Paginate(total, pageParam, PageSize)

	if err := q.
		Select("posts.*, " + commentCountColumn).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		Order("posts.pub_date DESC, posts.id DESC").
		Offset(out.Page.Offset()).
		Limit(out.Page.Size).
		Find(&out.Posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return out, nil
}
