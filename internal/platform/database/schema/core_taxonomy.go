package schema

// TaxonomyTable describes the shared shape of 'core.category' and 'core.genre'
type TaxonomyTable struct {
	Table string
	ID    string
	Name  string
	Slug  string
}

// CoreCategory is the schema definition for core.category
var CoreCategory = TaxonomyTable{
	Table: "core.category",
	ID:    "id",
	Name:  "name",
	Slug:  "slug",
}

// CoreGenre is the schema definition for core.genre
var CoreGenre = TaxonomyTable{
	Table: "core.genre",
	ID:    "id",
	Name:  "name",
	Slug:  "slug",
}

// Columns returns all standard column names
func (t TaxonomyTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug}
}
