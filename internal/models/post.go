package models

import (
	"database/sql"
	"time"
)

// Post is the central entity: a text publication with an optional group,
// an optional image attachment and a set of tags linked through TagPost.
type Post struct {
	ID       int64         `gorm:"primaryKey;autoIncrement;column:id"`
	Text     string        `gorm:"type:text;not null;column:text"`
	PubDate  time.Time     `gorm:"not null;index:posts_pub_date_ix,sort:desc;column:pub_date"`
	AuthorID int64         `gorm:"not null;column:author_id"`
	GroupID  sql.NullInt64 `gorm:"column:group_id"`
	Image    string        `gorm:"type:varchar(1024);not null;default:'';column:image"`

	// Relationships. Deleting the author removes the post; deleting the
	// group only detaches it.
	Author   *User     `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
	Group    *Group    `gorm:"foreignKey:GroupID;references:ID;constraint:OnDelete:SET NULL"`
	TagLinks []TagPost `gorm:"foreignKey:PostID;references:ID"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

// String returns the first 15 characters of the post text.
func (p Post) String() string {
	runes := []rune(p.Text)
	if len(runes) <= 15 {
		return p.Text
	}
	return string(runes[:15])
}

// TagNames returns the names of the tags linked to the post, in link order.
// TagLinks must be preloaded together with their tags.
func (p Post) TagNames() []string {
	names := make([]string, 0, len(p.TagLinks))
	for _, link := range p.TagLinks {
		if link.Tag != nil {
			names = append(names, link.Tag.Name)
		}
	}
	return names
}
