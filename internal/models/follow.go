package models

import (
	"time"
)

// Follow is a directed edge: UserID receives AuthorID's posts in their
// feed. The (user, author) pair is unique; re-following is a no-op.
type Follow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64     `gorm:"not null;uniqueIndex:follows_user_author_ux;column:user_id"`
	AuthorID  int64     `gorm:"not null;uniqueIndex:follows_user_author_ux;column:author_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	User   *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Author *User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "follows"
}
