package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/blogicum/api-go/logger"
	"github.com/blogicum/api-go/models"
	"gorm.io/gorm"
)

type CommentService struct {
	db  *gorm.DB
	log *logger.Logger
	now Clock
}

func NewCommentService(db *gorm.DB, log *logger.Logger, clock Clock) *CommentService {
	return &CommentService{db: db, log: log.With("service", "CommentService"), now: clockOrSystem(clock)}
}

// AddComment attaches a published comment by authorID to an existing post.
// The post's visibility is not checked.
func (s *CommentService) AddComment(ctx context.Context, postID, authorID uint, text string) (*models.Comment, error) {
	db := s.db.WithContext(ctx)
	if err := exists(db, &models.Post{}, postID); err != nil {
		return nil, fmt.Errorf("post %d: %w", postID, err)
	}
	if err := validateCommentText(text); err != nil {
		return nil, err
	}

	now := s.now()
	comment := models.Comment{
		Text:        text,
		AuthorID:    authorID,
		PostID:      postID,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	s.log.Debug("Comment added", "comment_id", comment.ID, "post_id", postID)
	return &comment, nil
}

// GetOwnedComment loads a comment of postID for its author. A comment that
// belongs to another post is ErrNotFound.
func (s *CommentService) GetOwnedComment(ctx context.Context, postID, commentID, viewerID uint) (*models.Comment, error) {
	comment, err := s.load(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(comment, viewerID); err != nil {
		return comment, err
	}
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, postID, commentID, viewerID uint, text string) (*models.Comment, error) {
	comment, err := s.GetOwnedComment(ctx, postID, commentID, viewerID)
	if err != nil {
		return comment, err
	}
	if err := validateCommentText(text); err != nil {
		return comment, err
	}
	if err := s.db.WithContext(ctx).Model(comment).Updates(map[string]interface{}{
		"text":       text,
		"updated_at": s.now(),
	}).Error; err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	comment.Text = text
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, postID, commentID, viewerID uint) error {
	comment, err := s.GetOwnedComment(ctx, postID, commentID, viewerID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Comment{}, comment.ID).Error; err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (s *CommentService) load(ctx context.Context, postID, commentID uint) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).Preload("Author").
		Where("id = ? AND post_id = ?", commentID, postID).
		First(&comment).Error; err != nil {
		return nil, lookupErr(err, "comment")
	}
	return &comment, nil
}

func validateCommentText(text string) error {
	verr := &ValidationError{}
	if strings.TrimSpace(text) == "" {
		verr.add("text", "This field is required.")
	}
	return verr.orNil()
}
