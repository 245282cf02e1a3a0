package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/postline/postline/internal/db"
	"github.com/postline/postline/pkg/logging"
)

// PostsAPI exposes the post collection and item endpoints. It bypasses
// the page-form layer entirely; the serializer does its own validation.
type PostsAPI struct {
	posts      *db.PostRepository
	serializer *Serializer
	logger     *zap.Logger
}

// NewPostsAPI creates the REST posts handlers
func NewPostsAPI(repo *db.Repository) *PostsAPI {
	return &PostsAPI{
		posts:      db.NewPostRepository(repo),
		serializer: NewSerializer(repo),
		logger:     logging.GetLogger().With(zap.String("component", "rest-posts")),
	}
}

func (a *PostsAPI) notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
}

func (a *PostsAPI) serverError(c *gin.Context, err error) {
	a.logger.Error("rest handler failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
}

func (a *PostsAPI) load(c *gin.Context) (*PostData, bool) {
	id, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil || id < 1 {
		a.notFound(c)
		return nil, false
	}
	post, err := a.posts.GetByID(c.Request.Context(), id)
	if err != nil {
		a.serverError(c, err)
		return nil, false
	}
	if post == nil {
		a.notFound(c)
		return nil, false
	}
	data := Serialize(post)
	return &data, true
}

// List handles GET /api/v1/posts
func (a *PostsAPI) List(c *gin.Context) {
	posts, err := a.posts.List(c.Request.Context(), db.PostFilter{}, 0, -1)
	if err != nil {
		a.serverError(c, err)
		return
	}

	result := make([]PostData, 0, len(posts))
	for i := range posts {
		result = append(result, Serialize(&posts[i]))
	}
	c.JSON(http.StatusOK, result)
}

// Retrieve handles GET /api/v1/posts/:post_id
func (a *PostsAPI) Retrieve(c *gin.Context) {
	data, ok := a.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, data)
}

// Create handles POST /api/v1/posts
func (a *PostsAPI) Create(c *gin.Context) {
	var in PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "malformed JSON body"})
		return
	}

	post, tags, tagsProvided, errs, err := a.serializer.BuildCreate(c.Request.Context(), &in)
	if err != nil {
		a.serverError(c, err)
		return
	}
	if errs.HasErrors() {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	var tagNames []string
	if tagsProvided {
		tagNames = tags
	}
	if err := a.posts.Create(c.Request.Context(), post, tagNames); err != nil {
		a.serverError(c, err)
		return
	}

	created, err := a.posts.GetByID(c.Request.Context(), post.ID)
	if err != nil || created == nil {
		a.serverError(c, err)
		return
	}

	a.logger.Info("post created via rest", zap.Int64("post_id", created.ID))
	c.JSON(http.StatusCreated, Serialize(created))
}

// Update handles PUT /api/v1/posts/:post_id
func (a *PostsAPI) Update(c *gin.Context) {
	a.update(c, false)
}

// PartialUpdate handles PATCH /api/v1/posts/:post_id
func (a *PostsAPI) PartialUpdate(c *gin.Context) {
	a.update(c, true)
}

func (a *PostsAPI) update(c *gin.Context, partial bool) {
	id, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil || id < 1 {
		a.notFound(c)
		return
	}
	post, err := a.posts.GetByID(c.Request.Context(), id)
	if err != nil {
		a.serverError(c, err)
		return
	}
	if post == nil {
		a.notFound(c)
		return
	}

	var in PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "malformed JSON body"})
		return
	}

	tags, tagsProvided, errs, err := a.serializer.ApplyUpdate(c.Request.Context(), post, &in, partial)
	if err != nil {
		a.serverError(c, err)
		return
	}
	if errs.HasErrors() {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	if err := a.posts.UpdateContent(c.Request.Context(), post); err != nil {
		a.serverError(c, err)
		return
	}
	if tagsProvided {
		if err := a.posts.ReplaceTags(c.Request.Context(), post.ID, tags); err != nil {
			a.serverError(c, err)
			return
		}
	}

	updated, err := a.posts.GetByID(c.Request.Context(), post.ID)
	if err != nil || updated == nil {
		a.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, Serialize(updated))
}

// Delete handles DELETE /api/v1/posts/:post_id
func (a *PostsAPI) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil || id < 1 {
		a.notFound(c)
		return
	}
	post, err := a.posts.GetByID(c.Request.Context(), id)
	if err != nil {
		a.serverError(c, err)
		return
	}
	if post == nil {
		a.notFound(c)
		return
	}

	if err := a.posts.Delete(c.Request.Context(), id); err != nil {
		a.serverError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
