package domain

import "time"

// Book represents a catalog record. CoverImage is nil until a cover has
// been uploaded for the book.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	PublishedDate time.Time `json:"publishedDate"`
	ISBN          string    `json:"ISBN"`
	CoverImage    *string   `json:"coverImage,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
