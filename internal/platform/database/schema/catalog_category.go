package schema

// RefCategoryTable represents the 'catalog.category' table
type RefCategoryTable struct {
	Table     string
	ID        string
	Name      string
	Slug      string
	CreatedAt string
}

// RefCategory is the schema definition for catalog.category
var RefCategory = RefCategoryTable{
	Table:     "catalog.category",
	ID:        "id",
	Name:      "name",
	Slug:      "slug",
	CreatedAt: "createdat",
}

func (t RefCategoryTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug, t.CreatedAt}
}
