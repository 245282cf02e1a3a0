package models

import (
	"time"
)

// Comment is a reply to a post. Both the post and the author are
// required; either one being deleted removes the comment.
type Comment struct {
	ID       int64     `gorm:"primaryKey;autoIncrement;column:id"`
	PostID   int64     `gorm:"not null;column:post_id"`
	AuthorID int64     `gorm:"not null;column:author_id"`
	Text     string    `gorm:"type:varchar(1000);not null;column:text"`
	Created  time.Time `gorm:"not null;index:comments_created_ix,sort:desc;column:created"`

	Post   *Post `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
	Author *User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

// String returns the comment text.
func (c Comment) String() string {
	return c.Text
}
