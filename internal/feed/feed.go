package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ndc-analytics/ndcsearch/internal/domain"
)

// Item is one news entry from the registry RSS feed.
type Item struct {
	GUID        string
	Title       string
	Link        string
	Description string
	Date        time.Time
	Creator     string
}

// Header returns the markdown headline line for the item.
func (i Item) Header() string {
	return fmt.Sprintf("[%s](%s)", i.Title, i.Link)
}

// Body returns the dateline and summary of the item.
func (i Item) Body() string {
	return fmt.Sprintf("%s — %s", i.Date.Format("2 January 2006"), i.Description)
}

// rss mirrors the subset of the RSS 2.0 schema the registry feed uses.
type rss struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	GUID        string `xml:"guid"`
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	Creator     string `xml:"http://purl.org/dc/elements/1.1/ creator"`
}

// Client fetches the NDC registry news feed.
type Client struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewClient creates a feed client.
func NewClient(url string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Fetch downloads and parses the feed, newest entries first as published.
func (c *Client) Fetch(ctx context.Context) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w: %w", domain.ErrFeedUnavailable, err)
	}
	// the registry blocks requests without a browser user agent
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w: %w", domain.ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed: status %d: %w", resp.StatusCode, domain.ErrFeedUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read feed: %w: %w", domain.ErrFeedUnavailable, err)
	}

	return c.parse(body)
}

func (c *Client) parse(data []byte) ([]Item, error) {
	var doc rss
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse feed: %w: %w", domain.ErrFeedUnavailable, err)
	}

	items := make([]Item, 0, len(doc.Channel.Items))
	for _, raw := range doc.Channel.Items {
		item := Item{
			GUID:        raw.GUID,
			Title:       raw.Title,
			Link:        raw.Link,
			Description: raw.Description,
			Creator:     raw.Creator,
		}
		item.Date = parsePubDate(raw.PubDate)
		if item.Date.IsZero() {
			c.logger.Debug("Feed item without parsable date", zap.String("guid", raw.GUID))
		}
		items = append(items, item)
	}
	return items, nil
}

// parsePubDate tries the date layouts seen in the registry feed.
func parsePubDate(s string) time.Time {
	for _, layout := range []string{time.RFC1123Z, time.RFC1123} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
