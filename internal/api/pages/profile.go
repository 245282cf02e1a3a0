package pages

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/postline/postline/internal/auth"
	"github.com/postline/postline/internal/db"
)

// Profile serves an author's page: their posts plus follow statistics.
// The following flag is included only for an authenticated viewer
// looking at someone else's profile.
func (h *Handlers) Profile(c *gin.Context) {
	author, err := h.users.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.serverError(c, err)
		return
	}
	if author == nil {
		h.notFound(c)
		return
	}

	page, err := h.listContext(c, db.PostFilter{AuthorID: author.ID})
	if err != nil {
		h.serverError(c, err)
		return
	}

	followers, err := h.follows.FollowerCount(c.Request.Context(), author.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	following, err := h.follows.FollowingCount(c.Request.Context(), author.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}

	page["author"] = gin.H{
		"username":   author.Username,
		"first_name": author.FirstName,
		"last_name":  author.LastName,
	}
	page["followers_count"] = followers
	page["following_count"] = following

	if viewerID, ok := auth.CurrentUserID(c); ok && viewerID != author.ID {
		isFollowing, err := h.follows.IsFollowing(c.Request.Context(), viewerID, author.ID)
		if err != nil {
			h.serverError(c, err)
			return
		}
		page["following"] = isFollowing
	}

	c.JSON(http.StatusOK, page)
}

// FollowProfile subscribes the authenticated user to the author and
// redirects back to the profile. Following yourself is silently skipped;
// re-following is a no-op.
func (h *Handlers) FollowProfile(c *gin.Context) {
	author, err := h.users.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.serverError(c, err)
		return
	}
	if author == nil {
		h.notFound(c)
		return
	}

	userID, _ := auth.CurrentUserID(c)
	if userID != author.ID {
		if err := h.follows.Follow(c.Request.Context(), userID, author.ID); err != nil {
			h.serverError(c, err)
			return
		}
		h.logger.Debug("follow edge created",
			zap.Int64("user_id", userID),
			zap.Int64("author_id", author.ID))
	}

	c.Redirect(http.StatusFound, profileURL(author.Username))
}

// UnfollowProfile removes the subscription and redirects back to the
// profile. Unfollowing someone you do not follow is a no-op.
func (h *Handlers) UnfollowProfile(c *gin.Context) {
	author, err := h.users.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.serverError(c, err)
		return
	}
	if author == nil {
		h.notFound(c)
		return
	}

	userID, _ := auth.CurrentUserID(c)
	if err := h.follows.Unfollow(c.Request.Context(), userID, author.ID); err != nil {
		h.serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, profileURL(author.Username))
}

// FollowIndex serves the personalized feed: posts from every author the
// authenticated user follows, paginated newest first. Following no one
// yields an empty listing.
func (h *Handlers) FollowIndex(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)

	page, err := h.listContext(c, db.PostFilter{FeedUserID: userID})
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}
