package schema

// RefTitleTable represents the 'catalog.title' table
type RefTitleTable struct {
	Table       string
	ID          string
	Name        string
	Year        string
	Description string
	CategoryID  string
	CreatedAt   string
	UpdatedAt   string
}

// RefTitle is the schema definition for catalog.title
var RefTitle = RefTitleTable{
	Table:       "catalog.title",
	ID:          "id",
	Name:        "name",
	Year:        "year",
	Description: "description",
	CategoryID:  "categoryid",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t RefTitleTable) Columns() []string {
	return []string{t.ID, t.Name, t.Year, t.Description, t.CategoryID, t.CreatedAt, t.UpdatedAt}
}
