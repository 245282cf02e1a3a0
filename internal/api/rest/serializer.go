package rest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/postline/postline/internal/db"
	"github.com/postline/postline/internal/models"
)

// TagData is the nested tag representation: name only
type TagData struct {
	Name string `json:"name"`
}

// PostData is the external JSON representation of a post. The group is
// exposed by slug rather than internal id and the image is null when no
// attachment is stored; character_quantity is derived from the text and
// publication_date mirrors pub_date, both read-only.
type PostData struct {
	ID                int64     `json:"id"`
	Text              string    `json:"text"`
	Author            int64     `json:"author"`
	Image             *string   `json:"image"`
	PubDate           time.Time `json:"pub_date"`
	Group             *string   `json:"group"`
	Tags              []TagData `json:"tag"`
	CharacterQuantity int       `json:"character_quantity"`
	PublicationDate   time.Time `json:"publication_date"`
}

// PostInput is the inbound JSON shape. Pointer fields distinguish
// "absent" from "set to zero value", which matters for partial updates
// and for the tag contract: no tag key means leave associations alone.
type PostInput struct {
	Text   *string    `json:"text"`
	Author *int64     `json:"author"`
	Image  *string    `json:"image"`
	Group  *string    `json:"group"`
	Tags   *[]TagData `json:"tag"`
}

// FieldErrors maps field names to validation messages
type FieldErrors map[string]string

// HasErrors reports whether validation failed
func (e FieldErrors) HasErrors() bool {
	return len(e) > 0
}

// Serialize maps a post entity to its external representation. Author,
// group and tag links must be preloaded.
func Serialize(post *models.Post) PostData {
	var group *string
	if post.Group != nil {
		slug := post.Group.Slug
		group = &slug
	}

	var image *string
	if post.Image != "" {
		img := post.Image
		image = &img
	}

	tags := make([]TagData, 0, len(post.TagLinks))
	for _, name := range post.TagNames() {
		tags = append(tags, TagData{Name: name})
	}

	return PostData{
		ID:                post.ID,
		Text:              post.Text,
		Author:            post.AuthorID,
		Image:             image,
		PubDate:           post.PubDate,
		Group:             group,
		Tags:              tags,
		CharacterQuantity: utf8.RuneCountInString(post.Text),
		PublicationDate:   post.PubDate,
	}
}

// Serializer validates inbound post data against reference entities
type Serializer struct {
	users  *db.UserRepository
	groups *db.GroupRepository
}

// NewSerializer creates a post serializer
func NewSerializer(repo *db.Repository) *Serializer {
	return &Serializer{
		users:  db.NewUserRepository(repo),
		groups: db.NewGroupRepository(repo),
	}
}

// BuildCreate validates create input and assembles the entity to
// persist. It returns the tag names to link and whether the tag key was
// present at all; an absent key means associations are left untouched.
func (s *Serializer) BuildCreate(ctx context.Context, in *PostInput) (*models.Post, []string, bool, FieldErrors, error) {
	errs := FieldErrors{}

	text := ""
	if in.Text != nil {
		text = strings.TrimSpace(*in.Text)
	}
	if text == "" {
		errs["text"] = "this field is required"
	}

	var authorID int64
	if in.Author == nil {
		errs["author"] = "this field is required"
	} else {
		author, err := s.users.GetByID(ctx, *in.Author)
		if err != nil {
			return nil, nil, false, nil, err
		}
		if author == nil {
			errs["author"] = fmt.Sprintf("invalid pk %d - object does not exist", *in.Author)
		} else {
			authorID = author.ID
		}
	}

	groupID, groupErr, err := s.resolveGroup(ctx, in.Group)
	if err != nil {
		return nil, nil, false, nil, err
	}
	if groupErr != "" {
		errs["group"] = groupErr
	}

	if errs.HasErrors() {
		return nil, nil, false, errs, nil
	}

	post := &models.Post{
		Text:     text,
		PubDate:  time.Now().UTC(),
		AuthorID: authorID,
		GroupID:  groupID,
	}
	if in.Image != nil {
		post.Image = *in.Image
	}

	tagNames, tagsProvided := tagNames(in.Tags)
	return post, tagNames, tagsProvided, errs, nil
}

// ApplyUpdate validates update input and mutates the loaded entity's
// editable fields. The author and publication timestamp are read-only
// after create. Absent group and image keys leave their fields
// unchanged on both full and partial updates; a full update still
// requires the text field.
func (s *Serializer) ApplyUpdate(ctx context.Context, post *models.Post, in *PostInput, partial bool) ([]string, bool, FieldErrors, error) {
	errs := FieldErrors{}

	if in.Text != nil {
		text := strings.TrimSpace(*in.Text)
		if text == "" {
			errs["text"] = "this field may not be blank"
		} else {
			post.Text = text
		}
	} else if !partial {
		errs["text"] = "this field is required"
	}

	if in.Group != nil {
		groupID, groupErr, err := s.resolveGroup(ctx, in.Group)
		if err != nil {
			return nil, false, nil, err
		}
		if groupErr != "" {
			errs["group"] = groupErr
		} else {
			post.GroupID = groupID
		}
	}

	if in.Image != nil {
		post.Image = *in.Image
	}

	if errs.HasErrors() {
		return nil, false, errs, nil
	}

	tagNames, tagsProvided := tagNames(in.Tags)
	return tagNames, tagsProvided, errs, nil
}

// resolveGroup maps an optional slug to a group reference. A nil slug
// means no group.
func (s *Serializer) resolveGroup(ctx context.Context, slug *string) (sql.NullInt64, string, error) {
	if slug == nil {
		return sql.NullInt64{}, "", nil
	}
	group, err := s.groups.GetBySlug(ctx, *slug)
	if err != nil {
		return sql.NullInt64{}, "", err
	}
	if group == nil {
		return sql.NullInt64{}, fmt.Sprintf("object with slug=%s does not exist", *slug), nil
	}
	return sql.NullInt64{Int64: group.ID, Valid: true}, "", nil
}

func tagNames(tags *[]TagData) ([]string, bool) {
	if tags == nil {
		return nil, false
	}
	names := make([]string, 0, len(*tags))
	for _, t := range *tags {
		name := strings.TrimSpace(t.Name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names, true
}
