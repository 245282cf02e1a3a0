package db

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/postline/postline/internal/models"
)

// PostFilter narrows post listings. Zero values mean "no filter".
// FeedUserID restricts results to posts whose author the user follows.
type PostFilter struct {
	GroupID    int64
	AuthorID   int64
	FeedUserID int64
}

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

func (r *PostRepository) filtered(ctx context.Context, f PostFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Post{})
	if f.GroupID != 0 {
		q = q.Where("posts.group_id = ?", f.GroupID)
	}
	if f.AuthorID != 0 {
		q = q.Where("posts.author_id = ?", f.AuthorID)
	}
	if f.FeedUserID != 0 {
		q = q.Joins("JOIN follows ON follows.author_id = posts.author_id AND follows.user_id = ?", f.FeedUserID)
	}
	return q
}

// Count returns the number of posts matching the filter.
func (r *PostRepository) Count(ctx context.Context, f PostFilter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, f).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// List retrieves posts matching the filter, newest first, sliced by
// offset/limit. Author, group and tags are preloaded.
func (r *PostRepository) List(ctx context.Context, f PostFilter, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.filtered(ctx, f).
		Preload("Author").
		Preload("Group").
		Preload("TagLinks.Tag").
		Order("posts.pub_date DESC, posts.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetByID retrieves a post by ID with author, group and tags preloaded
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Preload("TagLinks.Tag").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create persists a post and links the named tags. Unseen tag names are
// created on the fly; two requests racing on the same name both resolve
// to the single row the unique index lets through.
func (r *PostRepository) Create(ctx context.Context, post *models.Post, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return linkTags(tx, post.ID, tagNames)
	})
}

// UpdateContent mutates the editable fields of a post. The author and
// the publication timestamp never change after create.
func (r *PostRepository) UpdateContent(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).
		Model(post).
		Select("text", "group_id", "image").
		Updates(post).Error
}

// ReplaceTags drops a post's tag links and relinks the given names.
func (r *PostRepository) ReplaceTags(ctx context.Context, postID int64, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.TagPost{}).Error; err != nil {
			return err
		}
		return linkTags(tx, postID, tagNames)
	})
}

// Delete removes a post. Comments and tag links cascade at the schema level.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Post{}, id).Error
}

func linkTags(tx *gorm.DB, postID int64, tagNames []string) error {
	for _, name := range tagNames {
		tag, err := findOrCreateTag(tx, name)
		if err != nil {
			return err
		}
		link := models.TagPost{TagID: tag.ID, PostID: postID}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

// findOrCreateTag resolves a tag by its natural key. The insert uses
// ON CONFLICT DO NOTHING, so the loser of a concurrent create re-reads
// the winner's row.
func findOrCreateTag(tx *gorm.DB, name string) (*models.Tag, error) {
	var tag models.Tag
	err := tx.Where("name = ?", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag = models.Tag{Name: name}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&tag).Error; err != nil {
		return nil, err
	}
	if tag.ID == 0 {
		if err := tx.Where("name = ?", name).First(&tag).Error; err != nil {
			return nil, err
		}
	}
	return &tag, nil
}
