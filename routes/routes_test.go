package routes

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/blogicum/api-go/controllers"
	"github.com/blogicum/api-go/models"
	"github.com/blogicum/api-go/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listResponse struct {
	Success    bool                       `json:"success"`
	Data       []models.Post              `json:"data"`
	Meta       map[string]interface{}     `json:"meta"`
	Pagination controllers.PaginationMeta `json:"pagination"`
}

type detailResponse struct {
	Success bool        `json:"success"`
	Data    models.Post `json:"data"`
	Meta    struct {
		Comments []models.Comment `json:"comments"`
	} `json:"meta"`
}

type errorResponse struct {
	Error controllers.ErrorBody `json:"error"`
}

func TestDraftDetailIsHiddenFromEveryoneButTheAuthor(t *testing.T) {
	app := newTestApp(t)
	alice := app.user("alice")
	bob := app.user("bob")
	draft := app.post(alice, "draft", false, testNow.Add(-time.Hour))

	w := app.do(http.MethodGet, postPath(draft, ""), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	var e errorResponse
	decode(t, w, &e)
	assert.Equal(t, "not_found", e.Error.Code)

	w = app.do(http.MethodGet, postPath(draft, ""), &bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(http.MethodGet, postPath(draft, ""), &alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var d detailResponse
	decode(t, w, &d)
	assert.Equal(t, "draft", d.Data.Title)
}

func TestDetailListsCommentsOldestFirst(t *testing.T) {
	app := newTestApp(t)
	alice := app.user("alice")
	bob := app.user("bob")
	post := app.post(alice, "hello", true, testNow.Add(-time.Hour))
	app.comment(bob, post, "first")
	app.comment(alice, post, "second")

	w := app.do(http.MethodGet, postPath(post, ""), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var d detailResponse
	decode(t, w, &d)
	require.Len(t, d.Meta.Comments, 2)
	assert.Equal(t, "first", d.Meta.Comments[0].Text)
	assert.Equal(t, "bob", d.Meta.Comments[0].Author.Username)
	assert.Equal(t, int64(2), d.Data.CommentCount)

	w = app.do(http.MethodGet, "/posts/abc/", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNonAuthorDeleteRedirectsToDetail(t *testing.T) {
	app := newTestApp(t)
	alice := app.user("alice")
	bob := app.user("bob")
	post := app.post(alice, "keep me", true, testNow.Add(-time.Hour))

	for _, as := range []*models.User{&bob, nil} {
		w := app.do(http.MethodPost, postPath(post, "delete/"), as, url.Values{})
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, postPath(post, ""), w.Header().Get("Location"))

		w = app.do(http.MethodGet, postPath(post, "delete/"), as, nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, postPath(post, ""), w.Header().Get("Location"))
	}
	assert.Equal(t, int64(1), app.count(&models.Post{}, "id = ?", post.ID))

	w := app.do(http.MethodPost, postPath(post, "delete/"), &alice, url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, int64(0), app.count(&models.Post{}, "id = ?", post.ID))
}

func TestEditPost(t *testing.T) {
	app := newTestApp(t)
	alice := app.user("alice")
	bob := app.user("bob")
	post := app.post(alice, "before", true, testNow.Add(-time.Hour))

	form := url.Values{"title": {"after"}, "text": {"new text"}}
	w := app.do(http.MethodPost, postPath(post, "edit/"), &bob, form)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, postPath(post, ""), w.Header().Get("Location"))

	w = app.do(http.MethodPost, postPath(post, "edit/"), &alice, url.Values{"title": {""}, "text": {"x"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var e errorResponse
	decode(t, w, &e)
	assert.Equal(t, "validation_failed", e.Error.Code)
	assert.Contains(t, e.Error.Fields, "title")

	w = app.do(http.MethodPost, postPath(post, "edit/"), &alice, form)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, postPath(post, ""), w.Header().Get("Location"))

	var stored models.Post
	require.NoError(t, app.db.First(&stored, post.ID).Error)
	assert.Equal(t, "after", stored.Title)
	assert.True(t, stored.IsPublished)

	w = app.do(http.MethodGet, postPath(post, "edit/"), &alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFeedPageClampsToLastPage(t *testing.T) {
	app := newTestApp(t)
	alice := app.user("alice")
	for i := 0; i < 25; i++ {
		app.post(alice, fmt.Sprintf("post-%02d", i), true, testNow.Add(-time.Duration(i+1)*time.Minute))
	}

	w := app.do(http.MethodGet, "/?page=4", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page listResponse
	decode(t, w, &page)
	assert.Equal(t, 3, page.Pagination.CurrentPage)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.Equal(t, int64(25), page.Pagination.TotalItems)
	assert.Len(t, page.Data, 5)
	assert.False(t, page.Pagination.HasNext)

	w = app.do(http.MethodGet, "/?page=abc", nil, nil)
	decode(t, w, &page)
	assert.Equal(t, 1, page.Pagination.CurrentPage)
	require.Len(t, page.Data, 10)
	assert.Equal(t, "post-00", page.Data[0].Title)

	w = app.do(http.MethodGet, "/?page=last", nil, nil)
	decode(t, w, &page)
	assert.Equal(t, 3, page.Pagination.CurrentPage)
	assert.Len(t, page.Data, 5)
}

func TestCategoryAndProfileFeeds(t *testing.T) {
	app := newTestApp(t)
	alice := app.user("alice")
	hidden := models.Category{Title: "Hidden", Slug: "hidden", IsPublished: false}
	require.NoError(t, app.db.Create(&hidden).Error)
	travel := models.Category{Title: "Travel", Slug: "travel", IsPublished: true}
	require.NoError(t, app.db.Create(&travel).Error)

	p := app.post(alice, "trip", true, testNow.Add(-time.Hour))
	require.NoError(t, app.db.Model(&p).Update("category_id", travel.ID).Error)
	app.post(alice, "secret", false, testNow.Add(-time.Hour))

	w := app.do(http.MethodGet, "/category/hidden/", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = app.do(http.MethodGet, "/category/missing/", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(http.MethodGet, "/category/travel/", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page listResponse
	decode(t, w, &page)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "trip", page.Data[0].Title)
	assert.Contains(t, page.Meta, "category")

	w = app.do(http.MethodGet, "/profile/alice/", nil, nil)
	decode(t, w, &page)
	assert.Len(t, page.Data, 1)
	assert.Contains(t, page.Meta, "profile")

	w = app.do(http.MethodGet, "/profile/alice/", &alice, nil)
	decode(t, w, &page)
	assert.Len(t, page.Data, 2)

	w = app.do(http.MethodGet, "/profile/nobody/", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatePostRequiresLogin(t *testing.T) {
	app := newTestApp(t)
	alice := app.user("alice")

	w := app.do(http.MethodGet, "/posts/create/", nil, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/login/?next=%2Fposts%2Fcreate%2F", w.Header().Get("Location"))

	w = app.do(http.MethodGet, "/posts/create/", &alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.doJSON(http.MethodPost, "/posts/create/", &alice, map[string]interface{}{
		"title": "new", "text": "post", "pub_date": "2026-10-20T10:00",
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/profile/alice/", w.Header().Get("Location"))

	var created models.Post
	require.NoError(t, app.db.Where("title = ?", "new").First(&created).Error)
	assert.True(t, created.IsPublished)
	assert.True(t, created.PubDate.Equal(time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC)))

	w = app.doJSON(http.MethodPost, "/posts/create/", &alice, map[string]interface{}{
		"title": "bad", "text": "post", "pub_date": "tomorrow",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddCommentSilentlyIgnoresInvalidInput(t *testing.T) {
	app := newTestApp(t)
	alice := app.user("alice")
	bob := app.user("bob")
	post := app.post(alice, "post", true, testNow.Add(-time.Hour))

	w := app.do(http.MethodPost, postPath(post, "comment/"), &bob, url.Values{"text": {""}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, postPath(post, ""), w.Header().Get("Location"))
	assert.Equal(t, int64(0), app.count(&models.Comment{}, "post_id = ?", post.ID))

	w = app.do(http.MethodPost, postPath(post, "comment/"), &bob, url.Values{"text": {"hi"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, int64(1), app.count(&models.Comment{}, "post_id = ?", post.ID))

	w = app.do(http.MethodPost, "/posts/9999/comment/", &bob, url.Values{"text": {"hi"}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(http.MethodPost, postPath(post, "comment/"), nil, url.Values{"text": {"anon"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/auth/login/?next=")
	assert.Equal(t, int64(1), app.count(&models.Comment{}, "post_id = ?", post.ID))
}

func TestCommentEditAndDelete(t *testing.T) {
	app := newTestApp(t)
	alice := app.user("alice")
	bob := app.user("bob")
	post := app.post(alice, "post", true, testNow.Add(-time.Hour))
	other := app.post(alice, "other", true, testNow.Add(-time.Hour))
	comment := app.comment(bob, post, "mine")

	editPath := fmt.Sprintf("/posts/%d/edit_comment/%d/", post.ID, comment.ID)
	w := app.do(http.MethodPost, editPath, &alice, url.Values{"text": {"hijack"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, postPath(post, ""), w.Header().Get("Location"))

	w = app.do(http.MethodGet, fmt.Sprintf("/posts/%d/edit_comment/%d/", other.ID, comment.ID), &bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(http.MethodPost, editPath, &bob, url.Values{"text": {"edited"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	var stored models.Comment
	require.NoError(t, app.db.First(&stored, comment.ID).Error)
	assert.Equal(t, "edited", stored.Text)

	deletePath := fmt.Sprintf("/posts/%d/delete_comment/%d/", post.ID, comment.ID)
	w = app.do(http.MethodPost, deletePath, nil, url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, postPath(post, ""), w.Header().Get("Location"))
	assert.Equal(t, int64(1), app.count(&models.Comment{}, "id = ?", comment.ID))

	w = app.do(http.MethodPost, deletePath, &bob, url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, int64(0), app.count(&models.Comment{}, "id = ?", comment.ID))
}

func TestEditProfile(t *testing.T) {
	app := newTestApp(t)
	alice := app.user("alice")
	bob := app.user("bob")

	w := app.do(http.MethodGet, "/profile/alice/edit", &bob, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/profile/alice/", w.Header().Get("Location"))

	w = app.do(http.MethodGet, "/profile/alice/edit", nil, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/auth/login/")

	w = app.do(http.MethodPost, "/profile/alice/edit", &alice, url.Values{"username": {"bob"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(http.MethodPost, "/profile/alice/edit", &alice, url.Values{"username": {"alice2"}, "bio": {"hello"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/profile/alice2/", w.Header().Get("Location"))
}

func TestRegisterLoginLogout(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPost, "/auth/registration/", nil, url.Values{
		"username": {"carol"}, "password": {"long enough"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = app.do(http.MethodGet, "/auth/validation/username/carol", nil, nil)
	assert.JSONEq(t, `{"exists":true}`, w.Body.String())

	w = app.do(http.MethodPost, "/auth/login/", nil, url.Values{
		"username": {"carol"}, "password": {"wrong password"},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(http.MethodPost, "/auth/login/?next=/posts/create/", nil, url.Values{
		"username": {"carol"}, "password": {"long enough"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/posts/create/", w.Header().Get("Location"))

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == utils.SessionCookieName {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	claims, err := utils.ParseSessionToken(testSecret, session.Value)
	require.NoError(t, err)
	assert.Equal(t, "carol", claims.Username)

	w = app.do(http.MethodPost, "/auth/login/", nil, url.Values{
		"username": {"carol"}, "password": {"long enough"}, "next": {"https://evil.example/"},
	})
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = app.do(http.MethodPost, "/auth/logout/", nil, url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestUploadsDisabledWithoutStore(t *testing.T) {
	app := newTestApp(t)
	alice := app.user("alice")

	w := app.doJSON(http.MethodPost, "/uploads/presigned-url", &alice, map[string]interface{}{
		"fileName": "a.png", "contentType": "image/png", "fileSize": 10,
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = app.do(http.MethodGet, "/auth/google/login", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNonAuthorEditWithMalformedBodyRedirectsToDetail(t *testing.T) {
	app := newTestApp(t)
	alice := app.user("alice")
	bob := app.user("bob")
	post := app.post(alice, "post", true, testNow.Add(-time.Hour))
	comment := app.comment(alice, post, "mine")

	for _, form := range []url.Values{
		{"title": {"x"}, "text": {"y"}, "category_id": {"abc"}},
		{"title": {"x"}, "text": {"y"}, "is_published": {"maybe"}},
	} {
		w := app.do(http.MethodPost, postPath(post, "edit/"), &bob, form)
		assert.Equal(t, http.StatusSeeOther, w.Code, form.Encode())
		assert.Equal(t, postPath(post, ""), w.Header().Get("Location"))
	}

	// The author still gets the bind error.
	w := app.do(http.MethodPost, postPath(post, "edit/"), &alice, url.Values{"title": {"x"}, "text": {"y"}, "category_id": {"abc"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	editPath := fmt.Sprintf("/posts/%d/edit_comment/%d/", post.ID, comment.ID)
	req := httptest.NewRequest(http.MethodPost, editPath, strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sessionCookie(t, bob))
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, postPath(post, ""), rec.Header().Get("Location"))

	var stored models.Comment
	require.NoError(t, app.db.First(&stored, comment.ID).Error)
	assert.Equal(t, "mine", stored.Text)
}

func TestPostFormCheckbox(t *testing.T) {
	app := newTestApp(t)
	alice := app.user("alice")

	w := app.do(http.MethodPost, "/posts/create/", &alice, url.Values{
		"title": {"ticked"}, "text": {"body"}, "pub_date": {"2026-10-19T10:00"}, "is_published": {"on"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	var created models.Post
	require.NoError(t, app.db.Where("title = ?", "ticked").First(&created).Error)
	assert.True(t, created.IsPublished)

	w = app.do(http.MethodPost, postPath(created, "edit/"), &alice, url.Values{
		"title": {"ticked"}, "text": {"body"}, "is_published": {"false"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	var stored models.Post
	require.NoError(t, app.db.First(&stored, created.ID).Error)
	assert.False(t, stored.IsPublished)

	w = app.do(http.MethodPost, postPath(created, "edit/"), &alice, url.Values{
		"title": {"ticked"}, "text": {"body"}, "is_published": {"on"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.NoError(t, app.db.First(&stored, created.ID).Error)
	assert.True(t, stored.IsPublished)

	w = app.do(http.MethodPost, "/posts/create/", &alice, url.Values{
		"title": {"draft"}, "text": {"body"}, "is_published": {"off"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	var draft models.Post
	require.NoError(t, app.db.Where("title = ?", "draft").First(&draft).Error)
	assert.False(t, draft.IsPublished)
}

func TestPasswordChange(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPost, "/auth/registration/", nil, url.Values{
		"username": {"carol"}, "password": {"long enough"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	var carol models.User
	require.NoError(t, app.db.Where("username = ?", "carol").First(&carol).Error)

	change := url.Values{"old_password": {"long enough"}, "new_password": {"even longer"}}
	w = app.do(http.MethodPost, "/auth/password_change/", nil, change)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/auth/login/")

	w = app.do(http.MethodPost, "/auth/password_change/", &carol, url.Values{
		"old_password": {"wrong password"}, "new_password": {"even longer"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var e errorResponse
	decode(t, w, &e)
	assert.Contains(t, e.Error.Fields, "old_password")

	w = app.do(http.MethodPost, "/auth/password_change/", &carol, change)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = app.do(http.MethodPost, "/auth/login/", nil, url.Values{
		"username": {"carol"}, "password": {"long enough"},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(http.MethodPost, "/auth/login/", nil, url.Values{
		"username": {"carol"}, "password": {"even longer"},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)
}
