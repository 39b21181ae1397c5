package genre

import "time"

// Genre is a classification label for titles (drama, comedy, ...). A title
// may carry any number of genres. The slug is the public identity.
type Genre struct {
	ID        int64     `json:"-"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"-"`
}
