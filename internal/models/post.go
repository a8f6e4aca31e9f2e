package models

import "time"

// Post represents a row in the PostgreSQL posts table. ImageKey is the
// object-store key; responses carry the resolved ImageURL instead.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageKey  string    `json:"-"`
	ImageURL  string    `json:"image_url,omitempty"`
	AuthorID  string    `json:"author_id"`
	Author    *Author   `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Author is the projection of a post's owner attached to list responses.
type Author struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserPage is the response body for GET /users.
type UserPage struct {
	Count int    `json:"count"`
	Users []User `json:"users"`
}

// PostPage is the response body for GET /posts.
type PostPage struct {
	Count int    `json:"count"`
	Posts []Post `json:"posts"`
}
