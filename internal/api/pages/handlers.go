package pages

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/postline/postline/internal/cache"
	"github.com/postline/postline/internal/db"
	"github.com/postline/postline/internal/media"
	"github.com/postline/postline/internal/models"
	"github.com/postline/postline/internal/pagination"
	"github.com/postline/postline/pkg/config"
	"github.com/postline/postline/pkg/logging"
)

// Handlers serves the page routes: listings, profiles, post detail and
// the redirect-style write flows. Responses are page contexts for the
// presentation layer; rendering itself is out of scope here.
type Handlers struct {
	cfg      *config.Config
	users    *db.UserRepository
	groups   *db.GroupRepository
	posts    *db.PostRepository
	comments *db.CommentRepository
	follows  *db.FollowRepository
	cache    *cache.Cache
	media    *media.Store
	logger   *zap.Logger
}

// New creates the page handlers
func New(repo *db.Repository, pageCache *cache.Cache, mediaStore *media.Store, cfg *config.Config) *Handlers {
	return &Handlers{
		cfg:      cfg,
		users:    db.NewUserRepository(repo),
		groups:   db.NewGroupRepository(repo),
		posts:    db.NewPostRepository(repo),
		comments: db.NewCommentRepository(repo),
		follows:  db.NewFollowRepository(repo),
		cache:    pageCache,
		media:    mediaStore,
		logger:   logging.GetLogger().With(zap.String("component", "pages")),
	}
}

func (h *Handlers) pageTTL() time.Duration {
	return time.Duration(h.cfg.Redis.PageTTLSec) * time.Second
}

func (h *Handlers) notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
}

func (h *Handlers) serverError(c *gin.Context, err error) {
	h.logger.Error("page handler failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
}

func postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func postDetailURL(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10) + "/"
}

func profileURL(username string) string {
	return "/profile/" + username + "/"
}

// pagePost is the listing/detail representation of a post
func pagePost(p models.Post) gin.H {
	var author string
	if p.Author != nil {
		author = p.Author.Username
	}
	var group gin.H
	if p.Group != nil {
		group = gin.H{"title": p.Group.Title, "slug": p.Group.Slug}
	}
	return gin.H{
		"id":       p.ID,
		"text":     p.Text,
		"preview":  p.String(),
		"pub_date": p.PubDate,
		"author":   author,
		"group":    group,
		"image":    p.Image,
		"tags":     p.TagNames(),
	}
}

func pagePosts(posts []models.Post) []gin.H {
	out := make([]gin.H, 0, len(posts))
	for _, p := range posts {
		out = append(out, pagePost(p))
	}
	return out
}

// listContext builds the shared paginated-listing page context
func (h *Handlers) listContext(c *gin.Context, filter db.PostFilter) (gin.H, error) {
	ctx := c.Request.Context()

	total, err := h.posts.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	paginator := pagination.New(h.cfg.Posts.PerPage, total)
	page := paginator.Resolve(c.Query("page"))

	posts, err := h.posts.List(ctx, filter, paginator.Offset(page), paginator.PerPage)
	if err != nil {
		return nil, err
	}

	return gin.H{
		"posts":     pagePosts(posts),
		"count":     total,
		"page":      page,
		"num_pages": paginator.NumPages(),
		"has_next":  paginator.HasNext(page),
		"has_prev":  paginator.HasPrev(page),
	}, nil
}
