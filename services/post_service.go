package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/blogicum/api-go/logger"
	"github.com/blogicum/api-go/models"
	"github.com/blogicum/api-go/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxTitleLength = 256

// PostInput is the post form. Nil pointers mean "not submitted": on create
// IsPublished defaults to true and PubDate to now; on update they keep the
// stored value. CategoryID and LocationID are always taken as submitted.
type PostInput struct {
	Title       string
	Text        string
	PubDate     *time.Time
	CategoryID  *uint
	LocationID  *uint
	IsPublished *bool
	Image       *string // object key from the upload flow; "" clears it
}

type PostService struct {
	db     *gorm.DB
	images storage.ImageStore
	log    *logger.Logger
	now    Clock
}

// NewPostService accepts a nil images store; posts then cannot carry images.
func NewPostService(db *gorm.DB, images storage.ImageStore, log *logger.Logger, clock Clock) *PostService {
	return &PostService{
		db:     db,
		images: images,
		log:    log.With("service", "PostService"),
		now:    clockOrSystem(clock),
	}
}

// GetPostDetail returns a post and its comments, oldest comment first.
// Posts the viewer may not see are reported as ErrNotFound.
func (s *PostService) GetPostDetail(ctx context.Context, postID, viewerID uint) (*models.Post, []models.Comment, error) {
	db := s.db.WithContext(ctx)

	var post models.Post
	if err := db.Preload("Author").Preload("Category").Preload("Location").First(&post, postID).Error; err != nil {
		return nil, nil, lookupErr(err, "post")
	}
	if !IsVisible(&post, viewerID, s.now()) {
		return nil, nil, fmt.Errorf("post %d hidden from viewer %d: %w", postID, viewerID, ErrNotFound)
	}

	var comments []models.Comment
	if err := db.Preload("Author").
		Where("post_id = ?", post.ID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return nil, nil, fmt.Errorf("load comments: %w", err)
	}
	post.CommentCount = int64(len(comments))
	return &post, comments, nil
}

// GetOwnedPost loads a post for its author's edit or delete form.
func (s *PostService) GetOwnedPost(ctx context.Context, postID, viewerID uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Preload("Author").Preload("Category").Preload("Location").
		First(&post, postID).Error; err != nil {
		return nil, lookupErr(err, "post")
	}
	if err := Authorize(&post, viewerID); err != nil {
		return &post, err
	}
	return &post, nil
}

func (s *PostService) CreatePost(ctx context.Context, authorID uint, in PostInput) (*models.Post, error) {
	db := s.db.WithContext(ctx)
	if err := s.validate(ctx, authorID, in); err != nil {
		return nil, err
	}

	post := models.Post{
		Title:       strings.TrimSpace(in.Title),
		Text:        in.Text,
		PubDate:     s.now(),
		IsPublished: true,
		AuthorID:    authorID,
		CategoryID:  in.CategoryID,
		LocationID:  in.LocationID,
	}
	if in.PubDate != nil {
		post.PubDate = in.PubDate.UTC()
	}
	if in.IsPublished != nil {
		post.IsPublished = *in.IsPublished
	}
	if in.Image != nil {
		post.Image = *in.Image
	}

	if err := db.Create(&post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.log.Info("Post created", "post_id", post.ID, "author_id", authorID)
	return &post, nil
}

// UpdatePost applies in to the post after checking the viewer wrote it.
func (s *PostService) UpdatePost(ctx context.Context, postID, viewerID uint, in PostInput) (*models.Post, error) {
	db := s.db.WithContext(ctx)

	var post models.Post
	if err := db.First(&post, postID).Error; err != nil {
		return nil, lookupErr(err, "post")
	}
	if err := Authorize(&post, viewerID); err != nil {
		return &post, err
	}
	if err := s.validate(ctx, viewerID, in); err != nil {
		return &post, err
	}

	oldImage := post.Image
	post.Title = strings.TrimSpace(in.Title)
	post.Text = in.Text
	post.CategoryID = in.CategoryID
	post.LocationID = in.LocationID
	if in.PubDate != nil {
		post.PubDate = in.PubDate.UTC()
	}
	if in.IsPublished != nil {
		post.IsPublished = *in.IsPublished
	}
	if in.Image != nil {
		post.Image = *in.Image
	}

	if err := db.Omit(clause.Associations).Save(&post).Error; err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if oldImage != "" && oldImage != post.Image {
		s.deleteImage(ctx, oldImage)
	}
	return &post, nil
}

// DeletePost removes the post and its comments in one transaction.
func (s *PostService) DeletePost(ctx context.Context, postID, viewerID uint) error {
	db := s.db.WithContext(ctx)

	var post models.Post
	if err := db.First(&post, postID).Error; err != nil {
		return lookupErr(err, "post")
	}
	if err := Authorize(&post, viewerID); err != nil {
		return err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		if err := tx.Delete(&post).Error; err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if post.Image != "" {
		s.deleteImage(ctx, post.Image)
	}
	s.log.Info("Post deleted", "post_id", post.ID, "author_id", viewerID)
	return nil
}

func (s *PostService) deleteImage(ctx context.Context, key string) {
	if s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		s.log.Warn("Failed to delete post image", "key", key, "error", err)
	}
}

func (s *PostService) validate(ctx context.Context, authorID uint, in PostInput) error {
	db := s.db.WithContext(ctx)
	verr := &ValidationError{}

	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		verr.add("title", "This field is required.")
	case utf8.RuneCountInString(title) > maxTitleLength:
		verr.add("title", fmt.Sprintf("Ensure this value has at most %d characters.", maxTitleLength))
	}
	if strings.TrimSpace(in.Text) == "" {
		verr.add("text", "This field is required.")
	}

	if in.CategoryID != nil {
		if err := exists(db, &models.Category{}, *in.CategoryID); err != nil {
			if !errors.Is(err, ErrNotFound) {
				return err
			}
			verr.add("category_id", "Select a valid choice.")
		}
	}
	if in.LocationID != nil {
		if err := exists(db, &models.Location{}, *in.LocationID); err != nil {
			if !errors.Is(err, ErrNotFound) {
				return err
			}
			verr.add("location_id", "Select a valid choice.")
		}
	}

	if in.Image != nil && *in.Image != "" {
		key := *in.Image
		switch {
		case s.images == nil:
			verr.add("image", "Image uploads are not enabled.")
		case !storage.OwnsKey(key, authorID):
			verr.add("image", "Unknown image.")
		default:
			ok, err := s.images.Exists(ctx, key)
			if err != nil {
				return fmt.Errorf("check image: %w", err)
			}
			if !ok {
				verr.add("image", "Image has not been uploaded.")
			}
		}
	}
	return verr.orNil()
}

func exists(db *gorm.DB, model interface{}, id uint) error {
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("lookup %d: %w", id, err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
