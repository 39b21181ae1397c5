package schema

// RefGenreTable represents the 'catalog.genre' table
type RefGenreTable struct {
	Table     string
	ID        string
	Name      string
	Slug      string
	CreatedAt string
}

// RefGenre is the schema definition for catalog.genre
var RefGenre = RefGenreTable{
	Table:     "catalog.genre",
	ID:        "id",
	Name:      "name",
	Slug:      "slug",
	CreatedAt: "createdat",
}

func (t RefGenreTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug, t.CreatedAt}
}
