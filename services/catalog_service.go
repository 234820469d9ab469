package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/blogicum/api-go/models"
	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type CategoryInput struct {
	Title       string
	Description string
	Slug        string
	IsPublished bool
}

// CatalogService manages categories and locations, the reference data
// posts point at.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	db := s.db.WithContext(ctx)
	verr := &ValidationError{}
	if strings.TrimSpace(in.Title) == "" {
		verr.add("title", "This field is required.")
	}
	if !slugPattern.MatchString(in.Slug) {
		verr.add("slug", "Use only latin letters, digits, hyphens and underscores.")
	} else {
		var count int64
		if err := db.Model(&models.Category{}).Where("slug = ?", in.Slug).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("check slug: %w", err)
		}
		if count > 0 {
			verr.add("slug", "Category with this slug already exists.")
		}
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	category := models.Category{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Slug:        in.Slug,
		IsPublished: in.IsPublished,
	}
	if err := db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}

func (s *CatalogService) CreateLocation(ctx context.Context, name string, isPublished bool) (*models.Location, error) {
	if strings.TrimSpace(name) == "" {
		verr := &ValidationError{}
		verr.add("name", "This field is required.")
		return nil, verr
	}
	location := models.Location{Name: strings.TrimSpace(name), IsPublished: isPublished}
	if err := s.db.WithContext(ctx).Create(&location).Error; err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	return &location, nil
}

// FormChoices lists what the post form can point at.
func (s *CatalogService) FormChoices(ctx context.Context) ([]models.Category, []models.Location, error) {
	db := s.db.WithContext(ctx)
	var categories []models.Category
	if err := db.Order("title ASC").Find(&categories).Error; err != nil {
		return nil, nil, fmt.Errorf("list categories: %w", err)
	}
	var locations []models.Location
	if err := db.Order("name ASC").Find(&locations).Error; err != nil {
		return nil, nil, fmt.Errorf("list locations: %w", err)
	}
	return categories, locations, nil
}
