package models

import "time"

type User struct {
	ID           int
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Email        string
	CreatedAt    time.Time
}

type Session struct {
	ID        string
	UserID    int
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

type Tag struct {
	ID    int
	Label string
}

type Category struct {
	ID          int
	Name        string
	Description string
}

type Post struct {
	ID         int
	UserID     int
	CategoryID int
	Title      string
	Body       string
	Date       time.Time

	// Resolved by the store on single-post lookups.
	Author   string
	Category Category
	Tags     []Tag
}

type Comment struct {
	ID     int
	PostID int
	UserID int
	Body   string
	Date   time.Time

	// Resolved by the store when listing a post's comments.
	Author string
}
