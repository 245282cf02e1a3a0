package models

// Tag is a free-form label. Tags are created on demand the first time a
// post references an unseen name; the name is the natural key.
type Tag struct {
	ID   int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Name string `gorm:"type:varchar(32);not null;uniqueIndex:tags_name_ux;column:name"`
}

// TableName specifies the table name for Tag
func (Tag) TableName() string {
	return "tags"
}

// String returns the tag name.
func (t Tag) String() string {
	return t.Name
}

// TagPost is the explicit association record between a tag and a post.
// It has its own identity so the association lifecycle can be managed
// independently of either side; it goes away with whichever side is
// deleted first.
type TagPost struct {
	ID     int64 `gorm:"primaryKey;autoIncrement;column:id"`
	TagID  int64 `gorm:"not null;index:tag_posts_tag_ix;column:tag_id"`
	PostID int64 `gorm:"not null;index:tag_posts_post_ix;column:post_id"`

	Tag  *Tag  `gorm:"foreignKey:TagID;references:ID;constraint:OnDelete:CASCADE"`
	Post *Post `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for TagPost
func (TagPost) TableName() string {
	return "tag_posts"
}
