package schema

// RefReviewTable represents the 'reviews.review' table
type RefReviewTable struct {
	Table     string
	ID        string
	TitleID   string
	AuthorID  string
	Text      string
	Score     string
	CreatedAt string
	UpdatedAt string
}

// RefReview is the schema definition for reviews.review
var RefReview = RefReviewTable{
	Table:     "reviews.review",
	ID:        "id",
	TitleID:   "titleid",
	AuthorID:  "authorid",
	Text:      "text",
	Score:     "score",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t RefReviewTable) Columns() []string {
	return []string{t.ID, t.TitleID, t.AuthorID, t.Text, t.Score, t.CreatedAt, t.UpdatedAt}
}
