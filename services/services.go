package services

import (
	"github.com/blogicum/api-go/logger"
	"github.com/blogicum/api-go/storage"
	"gorm.io/gorm"
)

type Services struct {
	Feed     *FeedService
	Posts    *PostService
	Comments *CommentService
	Users    *UserService
	Catalog  *CatalogService
}

func New(db *gorm.DB, images storage.ImageStore, log *logger.Logger, clock Clock) *Services {
	return &Services{
		Feed:     NewFeedService(db, clock),
		Posts:    NewPostService(db, images, log, clock),
		Comments: NewCommentService(db, log, clock),
		Users:    NewUserService(db, log),
		Catalog:  NewCatalogService(db),
	}
}
