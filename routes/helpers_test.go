package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/blogicum/api-go/config"
	"github.com/blogicum/api-go/logger"
	"github.com/blogicum/api-go/models"
	"github.com/blogicum/api-go/services"
	"github.com/blogicum/api-go/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "route-test-secret"

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

type testApp struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), config.GormConfig())
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{
		Env:        "test",
		JWTSecret:  testSecret,
		SessionTTL: time.Hour,
		LoginURL:   "/auth/login/",
		Tracing:    config.TracingConfig{Exporter: "none", ServiceName: "blogicum-test"},
	}
	log := logger.NewNop()
	clock := func() time.Time { return testNow }

	router := NewRouter(Dependencies{
		Config:   cfg,
		Services: services.New(db, nil, log, clock),
		Log:      log,
	})
	return &testApp{t: t, db: db, router: router}
}

func (a *testApp) user(username string) models.User {
	a.t.Helper()
	u := models.User{Username: username}
	require.NoError(a.t, a.db.Create(&u).Error)
	return u
}

func (a *testApp) post(author models.User, title string, published bool, pubDate time.Time) models.Post {
	a.t.Helper()
	p := models.Post{
		Title:       title,
		Text:        "body of " + title,
		PubDate:     pubDate,
		IsPublished: published,
		AuthorID:    author.ID,
	}
	require.NoError(a.t, a.db.Create(&p).Error)
	return p
}

func (a *testApp) comment(author models.User, post models.Post, text string) models.Comment {
	a.t.Helper()
	c := models.Comment{Text: text, AuthorID: author.ID, PostID: post.ID, IsPublished: true}
	require.NoError(a.t, a.db.Create(&c).Error)
	return c
}

func (a *testApp) count(model interface{}, where string, args ...interface{}) int64 {
	a.t.Helper()
	var n int64
	require.NoError(a.t, a.db.Model(model).Where(where, args...).Count(&n).Error)
	return n
}

func sessionCookie(t *testing.T, u models.User) *http.Cookie {
	t.Helper()
	token, err := utils.IssueSessionToken(testSecret, u.ID, u.Username, time.Hour, time.Now())
	require.NoError(t, err)
	return &http.Cookie{Name: utils.SessionCookieName, Value: token}
}

// do sends a request as the given user; nil means anonymous. A non-nil
// form is sent url-encoded.
func (a *testApp) do(method, path string, as *models.User, form url.Values) *httptest.ResponseRecorder {
	a.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if as != nil {
		req.AddCookie(sessionCookie(a.t, *as))
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) doJSON(method, path string, as *models.User, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(a.t, err)
	req := httptest.NewRequest(method, path, strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		req.AddCookie(sessionCookie(a.t, *as))
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

func postPath(p models.Post, suffix string) string {
	return fmt.Sprintf("/posts/%d/%s", p.ID, suffix)
}
