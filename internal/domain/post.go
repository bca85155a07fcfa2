package domain

// Post is the normalized projection of one Notion database page. Posts are
// recomputed on every fetch; nothing in this system stores them.
type Post struct {
	ID              string
	Title           string
	Slug            string
	Status          string
	PublishedDate   *string // "2006-01-02", nil when the page has no date
	Tags            []string
	MetaDescription string
	Content         string // populated only by single-post fetches
	LastEdited      string // RFC3339 as reported by the source
}

// HasContent reports whether the post body has been loaded.
func (p *Post) HasContent() bool {
	return p.Content != ""
}
