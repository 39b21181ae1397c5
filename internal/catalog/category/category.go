package category

import "time"

// Category is a kind of work (book, film, music). A title belongs to at most
// one category. The slug is the public identity; numeric IDs stay internal.
type Category struct {
	ID        int64     `json:"-"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"-"`
}
