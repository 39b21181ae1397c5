package schema

// RefTitleGenreTable represents the 'catalog.titlegenre' join table
type RefTitleGenreTable struct {
	Table   string
	TitleID string
	GenreID string
}

// RefTitleGenre is the schema definition for catalog.titlegenre
var RefTitleGenre = RefTitleGenreTable{
	Table:   "catalog.titlegenre",
	TitleID: "titleid",
	GenreID: "genreid",
}

func (t RefTitleGenreTable) Columns() []string {
	return []string{t.TitleID, t.GenreID}
}
