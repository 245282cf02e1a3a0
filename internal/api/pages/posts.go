package pages

import (
	"database/sql"
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/postline/postline/internal/auth"
	"github.com/postline/postline/internal/cache"
	"github.com/postline/postline/internal/db"
	"github.com/postline/postline/internal/forms"
	"github.com/postline/postline/internal/models"
	"github.com/postline/postline/pkg/telemetry"
)

// Index serves the main listing: all posts, newest first, paginated.
// Page contexts are cached per (route, query) for a short TTL; writes do
// not invalidate, the TTL bounds staleness.
func (h *Handlers) Index(c *gin.Context) {
	_, span := telemetry.StartSpan(c.Request.Context(), "pages.index")
	defer span.End()

	key := cache.PageKey(c.Request.URL.Path, c.Request.URL.Query())
	var cached gin.H
	if err := h.cache.GetJSON(key, &cached); err == nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	page, err := h.listContext(c, db.PostFilter{})
	if err != nil {
		h.serverError(c, err)
		return
	}

	if err := h.cache.SetJSON(key, page, h.pageTTL()); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		h.logger.Warn("failed to cache index page", zap.Error(err))
	}

	c.JSON(http.StatusOK, page)
}

// GroupPosts serves a group's listing by slug
func (h *Handlers) GroupPosts(c *gin.Context) {
	group, err := h.groups.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.serverError(c, err)
		return
	}
	if group == nil {
		h.notFound(c)
		return
	}

	page, err := h.listContext(c, db.PostFilter{GroupID: group.ID})
	if err != nil {
		h.serverError(c, err)
		return
	}
	page["group"] = gin.H{
		"title":       group.Title,
		"slug":        group.Slug,
		"description": group.Description,
	}

	c.JSON(http.StatusOK, page)
}

// PostDetail serves a single post with its comments, newest first
func (h *Handlers) PostDetail(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		h.notFound(c)
		return
	}

	post, err := h.posts.GetByID(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if post == nil {
		h.notFound(c)
		return
	}

	comments, err := h.comments.ListByPost(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, err)
		return
	}

	commentList := make([]gin.H, 0, len(comments))
	for _, comment := range comments {
		var author string
		if comment.Author != nil {
			author = comment.Author.Username
		}
		commentList = append(commentList, gin.H{
			"id":      comment.ID,
			"text":    comment.Text,
			"author":  author,
			"created": comment.Created,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"post":     pagePost(*post),
		"comments": commentList,
	})
}

// PostCreateForm serves the create-post form context
func (h *Handlers) PostCreateForm(c *gin.Context) {
	groups, err := h.groups.List(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}

	groupList := make([]gin.H, 0, len(groups))
	for _, g := range groups {
		groupList = append(groupList, gin.H{"id": g.ID, "title": g.Title, "slug": g.Slug})
	}

	c.JSON(http.StatusOK, gin.H{"groups": groupList})
}

// PostCreate creates a post for the authenticated user and redirects to
// their profile
func (h *Handlers) PostCreate(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)
	username, _ := auth.CurrentUsername(c)

	var form forms.PostForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"form": "invalid form data"}})
		return
	}
	if errs := form.Validate(); errs.HasErrors() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	groupID, errs, err := h.resolveGroup(c, form.GroupID())
	if err != nil {
		h.serverError(c, err)
		return
	}
	if errs.HasErrors() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	image, errs, err := h.saveImage(c)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if errs.HasErrors() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	post := &models.Post{
		Text:     form.Text,
		PubDate:  time.Now().UTC(),
		AuthorID: userID,
		GroupID:  groupID,
		Image:    image,
	}
	if err := h.posts.Create(c.Request.Context(), post, nil); err != nil {
		h.serverError(c, err)
		return
	}

	h.logger.Info("post created", zap.Int64("post_id", post.ID), zap.Int64("author_id", userID))
	c.Redirect(http.StatusFound, profileURL(username))
}

// PostEdit mutates a post's editable fields. Only the author may edit;
// anyone else is bounced to the detail view without a write.
func (h *Handlers) PostEdit(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		h.notFound(c)
		return
	}

	post, err := h.posts.GetByID(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if post == nil {
		h.notFound(c)
		return
	}

	userID, _ := auth.CurrentUserID(c)
	if post.AuthorID != userID {
		c.Redirect(http.StatusFound, postDetailURL(id))
		return
	}

	if c.Request.Method == http.MethodGet {
		c.JSON(http.StatusOK, gin.H{"post": pagePost(*post), "is_edit": true})
		return
	}

	var form forms.PostForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"form": "invalid form data"}})
		return
	}
	if errs := form.Validate(); errs.HasErrors() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	groupID, errs, err := h.resolveGroup(c, form.GroupID())
	if err != nil {
		h.serverError(c, err)
		return
	}
	if errs.HasErrors() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	image, errs, err := h.saveImage(c)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if errs.HasErrors() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}
	if image == "" {
		image = post.Image
	}

	post.Text = form.Text
	post.GroupID = groupID
	post.Image = image
	if err := h.posts.UpdateContent(c.Request.Context(), post); err != nil {
		h.serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, postDetailURL(id))
}

// AddComment attaches a comment from the authenticated user to a post
// and redirects to the detail view. An invalid form also redirects, the
// comment is simply not saved.
func (h *Handlers) AddComment(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		h.notFound(c)
		return
	}

	post, err := h.posts.GetByID(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if post == nil {
		h.notFound(c)
		return
	}

	var form forms.CommentForm
	if err := c.ShouldBind(&form); err == nil {
		if errs := form.Validate(); !errs.HasErrors() {
			userID, _ := auth.CurrentUserID(c)
			comment := &models.Comment{
				PostID:   post.ID,
				AuthorID: userID,
				Text:     form.Text,
				Created:  time.Now().UTC(),
			}
			if err := h.comments.Create(c.Request.Context(), comment); err != nil {
				h.serverError(c, err)
				return
			}
		}
	}

	c.Redirect(http.StatusFound, postDetailURL(id))
}

// resolveGroup validates an optional group id from a form. Zero means
// "no group" and maps to a null reference.
func (h *Handlers) resolveGroup(c *gin.Context, groupID int64) (sql.NullInt64, forms.Errors, error) {
	if groupID == 0 {
		return sql.NullInt64{}, forms.Errors{}, nil
	}
	group, err := h.groups.GetByID(c.Request.Context(), groupID)
	if err != nil {
		return sql.NullInt64{}, nil, err
	}
	if group == nil {
		return sql.NullInt64{}, forms.Errors{"group": "select a valid group"}, nil
	}
	return sql.NullInt64{Int64: group.ID, Valid: true}, forms.Errors{}, nil
}

// saveImage stores an optional uploaded image and returns its reference
func (h *Handlers) saveImage(c *gin.Context) (string, forms.Errors, error) {
	file, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", forms.Errors{}, nil
		}
		return "", nil, err
	}
	return h.storeImage(c, file)
}

func (h *Handlers) storeImage(c *gin.Context, file *multipart.FileHeader) (string, forms.Errors, error) {
	ref, err := h.media.SavePostImage(c, file)
	if err != nil {
		return "", forms.Errors{"image": "upload a valid image"}, nil
	}
	return ref, forms.Errors{}, nil
}
