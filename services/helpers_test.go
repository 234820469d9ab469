package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/blogicum/api-go/config"
	"github.com/blogicum/api-go/logger"
	"github.com/blogicum/api-go/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), config.GormConfig())
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

type fixture struct {
	t  *testing.T
	db *gorm.DB
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, db: newTestDB(t)}
}

func (f *fixture) user(username string) models.User {
	f.t.Helper()
	u := models.User{Username: username}
	require.NoError(f.t, f.db.Create(&u).Error)
	return u
}

func (f *fixture) category(slug string, published bool) models.Category {
	f.t.Helper()
	c := models.Category{Title: strings.ToUpper(slug), Slug: slug, IsPublished: published}
	require.NoError(f.t, f.db.Create(&c).Error)
	return c
}

func (f *fixture) location(name string) models.Location {
	f.t.Helper()
	l := models.Location{Name: name, IsPublished: true}
	require.NoError(f.t, f.db.Create(&l).Error)
	return l
}

type postOpt func(*models.Post)

func draft() postOpt { return func(p *models.Post) { p.IsPublished = false } }

func at(d time.Duration) postOpt { return func(p *models.Post) { p.PubDate = testNow.Add(d) } }

func inCategory(c models.Category) postOpt {
	return func(p *models.Post) {
		id := c.ID
		p.CategoryID = &id
	}
}

func (f *fixture) post(author models.User, title string, opts ...postOpt) models.Post {
	f.t.Helper()
	p := models.Post{
		Title:       title,
		Text:        "text of " + title,
		PubDate:     testNow.Add(-time.Hour),
		IsPublished: true,
		AuthorID:    author.ID,
	}
	for _, opt := range opts {
		opt(&p)
	}
	require.NoError(f.t, f.db.Create(&p).Error)
	return p
}

func (f *fixture) comment(author models.User, post models.Post, text string, published bool) models.Comment {
	f.t.Helper()
	c := models.Comment{Text: text, AuthorID: author.ID, PostID: post.ID, IsPublished: published}
	require.NoError(f.t, f.db.Create(&c).Error)
	return c
}

func titles(posts []models.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Title)
	}
	return out
}

type fakeStore struct {
	objects map[string]bool
	deleted []string
}

func newFakeStore(keys ...string) *fakeStore {
	s := &fakeStore{objects: map[string]bool{}}
	for _, k := range keys {
		s.objects[k] = true
	}
	return s
}

func (s *fakeStore) PresignUpload(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://upload.test/" + key, nil
}

func (s *fakeStore) Exists(_ context.Context, key string) (bool, error) {
	return s.objects[key], nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStore) PublicURL(key string) string { return "https://cdn.test/" + key }

func nopLogger() *logger.Logger { return logger.NewNop() }

func uintString(u uint) string { return fmt.Sprintf("%d", u) }
