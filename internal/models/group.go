package models

// Group is a topical category a post may belong to.
// Slug is the URL-facing identifier and is globally unique.
type Group struct {
	ID          int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Title       string `gorm:"type:varchar(200);not null;column:title"`
	Slug        string `gorm:"type:varchar(50);not null;uniqueIndex:groups_slug_ux;column:slug"`
	Description string `gorm:"type:text;not null;default:'';column:description"`
}

// TableName specifies the table name for Group
func (Group) TableName() string {
	return "groups"
}

// String returns the display title.
func (g Group) String() string {
	return g.Title
}
