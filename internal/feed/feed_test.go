package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ndc-analytics/ndcsearch/internal/domain"
)

const fixtureRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/">
  <channel>
    <title>NDC Registry News</title>
    <item>
      <guid>ndc-001</guid>
      <title>Kenya submits updated NDC</title>
      <link>https://example.org/news/kenya</link>
      <description>Kenya raised its reduction target to 32%.</description>
      <pubDate>Mon, 28 Dec 2020 10:00:00 +0000</pubDate>
      <dc:creator>Registry Secretariat</dc:creator>
    </item>
    <item>
      <guid>ndc-002</guid>
      <title>Fiji publishes NDC update</title>
      <link>https://example.org/news/fiji</link>
      <description>Fiji commits to net zero by 2050.</description>
      <pubDate>Tue, 01 Mar 2022 09:30:00 GMT</pubDate>
      <dc:creator>Registry Secretariat</dc:creator>
    </item>
  </channel>
</rss>`

func TestFetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(fixtureRSS))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, zap.NewNop())
	items, err := client.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Mozilla/5.0", gotUA)

	first := items[0]
	assert.Equal(t, "ndc-001", first.GUID)
	assert.Equal(t, "Kenya submits updated NDC", first.Title)
	assert.Equal(t, "Registry Secretariat", first.Creator)
	assert.Equal(t, 2020, first.Date.Year())

	// RFC1123 without numeric zone also parses
	assert.Equal(t, 2022, items[1].Date.Year())
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, zap.NewNop())
	_, err := client.Fetch(context.Background())
	assert.True(t, errors.Is(err, domain.ErrFeedUnavailable))
}

func TestFetchMalformedXML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<rss><channel><item>"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, zap.NewNop())
	_, err := client.Fetch(context.Background())
	assert.True(t, errors.Is(err, domain.ErrFeedUnavailable))
}

func TestFetchUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 100*time.Millisecond, zap.NewNop())
	_, err := client.Fetch(context.Background())
	assert.True(t, errors.Is(err, domain.ErrFeedUnavailable))
}

func TestItemRendering(t *testing.T) {
	item := Item{
		Title:       "Kenya submits updated NDC",
		Link:        "https://example.org/news/kenya",
		Description: "Kenya raised its reduction target.",
		Date:        time.Date(2020, 12, 28, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "[Kenya submits updated NDC](https://example.org/news/kenya)", item.Header())
	assert.Contains(t, item.Body(), "28 December 2020")
}
