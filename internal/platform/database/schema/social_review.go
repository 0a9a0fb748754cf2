package schema

// SocialReviewTable represents the 'social.review' table
type SocialReviewTable struct {
	Table    string
	ID       string
	TitleID  string
	AuthorID string
	Text     string
	Score    string
	PubDate  string
}

// SocialReview is the schema definition for social.review
var SocialReview = SocialReviewTable{
	Table:    "social.review",
	ID:       "id",
	TitleID:  "titleid",
	AuthorID: "authorid",
	Text:     "text",
	Score:    "score",
	PubDate:  "pubdate",
}

// Columns returns all standard column names
func (t SocialReviewTable) Columns() []string {
	return []string{t.ID, t.TitleID, t.AuthorID, t.Text, t.Score, t.PubDate}
}
