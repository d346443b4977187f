package models

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type Category string

const (
	CategoryTechnology Category = "Technology"
	CategoryScience    Category = "Science"
	CategoryArt        Category = "Art"
)

// Categories lists every forum category in display order.
var Categories = []Category{CategoryTechnology, CategoryScience, CategoryArt}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"` // json:"-" keeps the hash out of every payload
	Role         Role   `gorm:"not null;default:user" json:"role"`
}

type Forum struct {
	ID          string   `gorm:"primaryKey" json:"id"`
	Slug        string   `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string   `gorm:"not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	Category    Category `gorm:"not null;index" json:"category"`
}

type Post struct {
	ID        string     `gorm:"primaryKey" json:"id"`
	ForumID   string     `gorm:"not null;uniqueIndex:idx_forum_number" json:"forumId"`
	Number    int        `gorm:"not null;uniqueIndex:idx_forum_number" json:"number"` // 1-based, dense per forum
	Title     string     `gorm:"not null" json:"title"`
	Content   string     `gorm:"type:text" json:"content"`
	Tags      []string   `gorm:"serializer:json" json:"tags"`
	AuthorID  string     `gorm:"not null;index" json:"authorId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

type Comment struct {
	ID        string     `gorm:"primaryKey" json:"id"`
	PostID    string     `gorm:"not null;index" json:"postId"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	AuthorID  string     `gorm:"not null;index" json:"authorId"`
	CreatedAt time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

// Session is the backend's record of an issued bearer token.
type Session struct {
	Token     string    `gorm:"primaryKey"`
	UserID    string    `gorm:"not null;index"`
	CreatedAt time.Time
}
