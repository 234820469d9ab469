package controllers

import (
	"github.com/blogicum/api-go/models"
	"github.com/blogicum/api-go/storage"
)

func decoratePost(images storage.ImageStore, post *models.Post) {
	if images == nil || post.Image == "" {
		return
	}
	post.ImageURL = images.PublicURL(post.Image)
}
