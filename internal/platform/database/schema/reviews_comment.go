package schema

// RefCommentTable represents the 'reviews.comment' table
type RefCommentTable struct {
	Table     string
	ID        string
	ReviewID  string
	AuthorID  string
	Text      string
	CreatedAt string
	UpdatedAt string
}

// RefComment is the schema definition for reviews.comment
var RefComment = RefCommentTable{
	Table:     "reviews.comment",
	ID:        "id",
	ReviewID:  "reviewid",
	AuthorID:  "authorid",
	Text:      "text",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t RefCommentTable) Columns() []string {
	return []string{t.ID, t.ReviewID, t.AuthorID, t.Text, t.CreatedAt, t.UpdatedAt}
}
