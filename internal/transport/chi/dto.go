package chi

import (
	"time"

	healthuc "github.com/ndc-analytics/ndcsearch/internal/usecase/health"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type searchRequest struct {
	Engine    string `json:"engine"`
	Query     string `json:"query"`
	Geography string `json:"geography,omitempty"`
	Category  string `json:"category,omitempty"`
	Version   *int   `json:"version,omitempty"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
}

type matchItem struct {
	Pages []int   `json:"pages,omitempty"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

type searchResultItem struct {
	FileName string      `json:"file_name"`
	Language string      `json:"language"`
	ISO      string      `json:"iso"`
	Party    string      `json:"party"`
	Date     time.Time   `json:"date"`
	Version  int         `json:"version"`
	Title    string      `json:"title"`
	Type     string      `json:"type"`
	URL      string      `json:"url"`
	Matches  []matchItem `json:"matches"`
	Count    int         `json:"match_count"`
	Score    float64     `json:"score"`
}

type searchResponse struct {
	Results  []searchResultItem `json:"results"`
	Total    int                `json:"total"`
	Degraded bool               `json:"degraded,omitempty"`
}

type panelRowItem struct {
	ISO         string     `json:"iso"`
	Party       string     `json:"party"`
	Year        int        `json:"year"`
	Title       string     `json:"title,omitempty"`
	Version     int        `json:"version,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	HasDocument bool       `json:"has_document"`
	Count       int        `json:"count"`
}

type panelResponse struct {
	Rows []panelRowItem `json:"rows"`
}

type categoryCountItem struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type versionCountItem struct {
	Version int `json:"version"`
	Parties int `json:"parties"`
}

type documentItem struct {
	URL      string    `json:"url"`
	ISO      string    `json:"iso"`
	Party    string    `json:"party"`
	Version  int       `json:"version"`
	Language string    `json:"language"`
	Date     time.Time `json:"date"`
	Title    string    `json:"title"`
	Type     string    `json:"type"`
}

type metadataResponse struct {
	From       time.Time           `json:"from"`
	To         time.Time           `json:"to"`
	Categories []categoryCountItem `json:"categories"`
	Versions   []versionCountItem  `json:"versions"`
	Documents  []documentItem      `json:"documents"`
}

type engineItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type enginesResponse struct {
	Engines []engineItem `json:"engines"`
}

type feedItem struct {
	GUID        string    `json:"guid"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Creator     string    `json:"creator,omitempty"`
}

type feedResponse struct {
	Items  []feedItem `json:"items"`
	Notice string     `json:"notice,omitempty"`
}

type sessionResponse struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

type askRequest struct {
	Question string `json:"question"`
}

type deltaEvent struct {
	Text string `json:"text"`
}

type doneEvent struct {
	Kind string `json:"kind"`
}

type healthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}
