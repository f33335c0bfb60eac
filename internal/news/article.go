package news

import (
	"strings"
	"time"
)

const (
	// FallbackTitle is used when the API delivers an article without a title.
	FallbackTitle = "No Title"
	// FallbackURL marks an article that has no link of its own.
	FallbackURL = "#"
	// FallbackPublisher is used when the API omits the source name.
	FallbackPublisher = "Unknown"
)

// Article is the canonical, normalized shape of a news item. URL is the only
// identity key: two articles with the same URL are the same article.
type Article struct {
	Title        string   `json:"title"`
	Snippet      string   `json:"snippet"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	URL          string   `json:"url"`
	Publisher    string   `json:"publisher"`
	ArticleID    string   `json:"articleId,omitempty"`
	PublishedAt  string   `json:"publishedAt,omitempty"`
	Category     []string `json:"category,omitempty"`
}

// Raw is a single result record as delivered by the remote API. Every field
// may be missing.
type Raw struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	Link        string   `json:"link"`
	SourceName  string   `json:"source_name"`
	ArticleID   string   `json:"article_id"`
	PubDate     string   `json:"pubDate"`
	Category    []string `json:"category"`
}

// Normalize maps a raw API record to an Article, applying the field fallbacks.
func Normalize(r Raw) Article {
	a := Article{
		Title:        r.Title,
		Snippet:      r.Description,
		ThumbnailURL: strings.TrimSpace(r.ImageURL),
		URL:          r.Link,
		Publisher:    r.SourceName,
		ArticleID:    r.ArticleID,
		PublishedAt:  r.PubDate,
		Category:     r.Category,
	}
	if a.Title == "" {
		a.Title = FallbackTitle
	}
	if a.URL == "" {
		a.URL = FallbackURL
	}
	if a.Publisher == "" {
		a.Publisher = FallbackPublisher
	}
	return a
}

// HasLink reports whether the article points somewhere real.
func (a Article) HasLink() bool {
	return a.URL != "" && a.URL != FallbackURL
}

// HasThumbnail reports whether a usable thumbnail URL is present.
func (a Article) HasThumbnail() bool {
	return a.ThumbnailURL != ""
}

var publishedLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// Published parses PublishedAt for display. The zero time is returned when
// the value is absent or in an unknown layout.
func (a Article) Published() time.Time {
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, a.PublishedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}
