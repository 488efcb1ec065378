package catalog

import "time"

// Document is a distinct NDC submission known to the index.
type Document struct {
	URL      string
	ISO      string
	Party    string
	Version  int
	Language string
	Date     time.Time
	Title    string
	Type     string
}

// CategoryCount is the number of indexed passages tagged with a category.
type CategoryCount struct {
	Category string
	Count    int
}

// VersionCount is the number of distinct submitting parties per version.
type VersionCount struct {
	Version int
	Parties int
}

// Metadata summarizes the indexed corpus: its date range, category and
// version distributions, and the document list.
type Metadata struct {
	From       time.Time
	To         time.Time
	Categories []CategoryCount
	Versions   []VersionCount
	Documents  []Document
}
