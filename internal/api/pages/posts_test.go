package pages

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/postline/postline/internal/auth"
	"github.com/postline/postline/internal/db"
	"github.com/postline/postline/internal/media"
	"github.com/postline/postline/internal/models"
	"github.com/postline/postline/pkg/config"
)

func newTestHandlers(t *testing.T) (*Handlers, *db.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Tag{},
		&models.Post{},
		&models.TagPost{},
		&models.Comment{},
		&models.Follow{},
	); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	repo := db.NewRepository(gdb)
	cfg := &config.Config{
		Posts: config.PostsConfig{PerPage: 10},
		Media: config.MediaConfig{Root: t.TempDir()},
	}
	return New(repo, nil, media.NewStore(&cfg.Media), cfg), repo
}

func seedEditFixture(t *testing.T, repo *db.Repository) (author, intruder *models.User, post *models.Post) {
	t.Helper()
	ctx := context.Background()

	users := db.NewUserRepository(repo)
	author = &models.User{Username: "author", PasswordHash: "x"}
	if err := users.Create(ctx, author); err != nil {
		t.Fatalf("failed to seed author: %v", err)
	}
	intruder = &models.User{Username: "intruder", PasswordHash: "x"}
	if err := users.Create(ctx, intruder); err != nil {
		t.Fatalf("failed to seed intruder: %v", err)
	}

	group := &models.Group{Title: "Тестовая группа", Slug: "test-slug"}
	if err := db.NewGroupRepository(repo).Create(ctx, group); err != nil {
		t.Fatalf("failed to seed group: %v", err)
	}

	post = &models.Post{
		Text:     "Тестовый пост",
		PubDate:  time.Now().UTC(),
		AuthorID: author.ID,
	}
	post.GroupID.Int64 = group.ID
	post.GroupID.Valid = true
	if err := db.NewPostRepository(repo).Create(ctx, post, nil); err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	return author, intruder, post
}

// postEdit drives the edit handler as the given user and returns the
// recorded response.
func postEdit(h *Handlers, userID, postID int64, form url.Values) *httptest.ResponseRecorder {
	engine := gin.New()
	engine.POST("/posts/:post_id/edit/", func(c *gin.Context) {
		c.Set(auth.ContextUserIDKey, userID)
		h.PostEdit(c)
	})

	target := "/posts/" + strconv.FormatInt(postID, 10) + "/edit/"
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestPostEditByNonAuthorLeavesPostUntouched(t *testing.T) {
	h, repo := newTestHandlers(t)
	_, intruder, post := seedEditFixture(t, repo)

	w := postEdit(h, intruder.ID, post.ID, url.Values{"text": {"hijacked"}})

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusFound)
	}
	if loc := w.Header().Get("Location"); loc != postDetailURL(post.ID) {
		t.Errorf("redirect = %q, want %q", loc, postDetailURL(post.ID))
	}

	got, err := db.NewPostRepository(repo).GetByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Text != "Тестовый пост" {
		t.Errorf("text = %q after foreign edit attempt, want unchanged", got.Text)
	}
	if !got.GroupID.Valid || got.GroupID.Int64 != post.GroupID.Int64 {
		t.Errorf("group = %+v after foreign edit attempt, want unchanged", got.GroupID)
	}
}

func TestPostEditByAuthorUpdatesPost(t *testing.T) {
	h, repo := newTestHandlers(t)
	author, _, post := seedEditFixture(t, repo)

	form := url.Values{
		"text":  {"Обновлённый пост"},
		"group": {strconv.FormatInt(post.GroupID.Int64, 10)},
	}
	w := postEdit(h, author.ID, post.ID, form)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusFound)
	}
	if loc := w.Header().Get("Location"); loc != postDetailURL(post.ID) {
		t.Errorf("redirect = %q, want %q", loc, postDetailURL(post.ID))
	}

	got, err := db.NewPostRepository(repo).GetByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Text != "Обновлённый пост" {
		t.Errorf("text = %q, want the edited text", got.Text)
	}
	if !got.GroupID.Valid || got.GroupID.Int64 != post.GroupID.Int64 {
		t.Errorf("group = %+v, want kept", got.GroupID)
	}
}
