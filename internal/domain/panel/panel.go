package panel

import "time"

// Count sentinels. Positive values are actual match counts.
const (
	// CountNoDocument marks a country/year cell where no submission exists.
	CountNoDocument = -1
	// CountNoMatch marks a cell whose submission exists but had no search hits.
	CountNoMatch = 0
)

// Row is one cell of the completed country-by-year panel.
type Row struct {
	ISO         string
	Party       string
	Year        int
	Title       string
	Version     int
	Date        time.Time
	HasDocument bool
	Count       int
}
