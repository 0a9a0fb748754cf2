package schema

// CoreGenreTitleTable represents the 'core.genre_title' join table
type CoreGenreTitleTable struct {
	Table   string
	ID      string
	GenreID string
	TitleID string
}

// CoreGenreTitle is the schema definition for core.genre_title
var CoreGenreTitle = CoreGenreTitleTable{
	Table:   "core.genre_title",
	ID:      "id",
	GenreID: "genreid",
	TitleID: "titleid",
}
