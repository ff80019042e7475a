package feed

import (
	"crypto/sha256"
	"fmt"
	"io"
	"net/url"
	"regexp"

	"github.com/mmcdole/gofeed"
	"github.com/pders01/skim/internal/storage"
)

var (
	imgSrcRe   = regexp.MustCompile(`<img[^>]+src=["']([^"']+)["']`)
	videoSrcRe = regexp.MustCompile(`<video[^>]+src=["']([^"']+)["']`)
)

// Parsed is the result of parsing one feed document.
type Parsed struct {
	Title       string
	Description string
	Articles    []*storage.Article
}

type Parser struct {
	parser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{parser: gofeed.NewParser()}
}

func (p *Parser) Parse(reader io.Reader, feedID string) (*Parsed, error) {
	doc, err := p.parser.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	out := &Parsed{
		Title:       doc.Title,
		Description: doc.Description,
		Articles:    make([]*storage.Article, 0, len(doc.Items)),
	}
	for _, item := range doc.Items {
		article := &storage.Article{
			ID:          articleID(feedID, item),
			FeedID:      feedID,
			Title:       item.Title,
			Description: item.Description,
			Content:     item.Content,
			URL:         item.Link,
			Status:      storage.StatusUnread,
			ContentMode: storage.ContentSummary,
			MediaURLs:   extractMediaURLs(item),
		}
		if item.PublishedParsed != nil {
			article.Published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			article.Published = *item.UpdatedParsed
		}
		if item.UpdatedParsed != nil {
			article.Updated = *item.UpdatedParsed
		}
		out.Articles = append(out.Articles, article)
	}

	return out, nil
}

// articleID must be stable across fetches so user state survives a sync.
// Items without a GUID fall back to their link, then their title.
func articleID(feedID string, item *gofeed.Item) string {
	key := item.GUID
	if key == "" {
		key = item.Link
	}
	if key == "" {
		key = item.Title
	}
	sum := sha256.Sum256([]byte(feedID + "\x00" + key))
	return fmt.Sprintf("%x", sum[:12])
}

func extractMediaURLs(item *gofeed.Item) []string {
	var urls []string

	for _, enclosure := range item.Enclosures {
		if enclosure.URL != "" {
			urls = append(urls, enclosure.URL)
		}
	}

	if item.Image != nil && item.Image.URL != "" {
		urls = append(urls, item.Image.URL)
	}

	html := item.Content + " " + item.Description
	for _, re := range []*regexp.Regexp{imgSrcRe, videoSrcRe} {
		for _, match := range re.FindAllStringSubmatch(html, -1) {
			urls = append(urls, match[1])
		}
	}

	return uniqueStrings(urls)
}

func uniqueStrings(strs []string) []string {
	seen := make(map[string]bool, len(strs))
	result := []string{}
	for _, s := range strs {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	return result
}

// hostTitle is the fallback title for feeds that do not declare one.
func hostTitle(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		return u.Host
	}
	return "Untitled feed"
}
