package search

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/skim/internal/debuglog"
	"github.com/pders01/skim/internal/storage"
)

const (
	docTypeFeed    = "feed"
	docTypeArticle = "article"
	snippetLength  = 160
)

// fieldBoosts weights a match per field; prefix matches get slightly less.
var fieldBoosts = []struct {
	field  string
	match  float64
	prefix float64
}{
	{"title", 4.0, 3.5},
	{"description", 2.0, 1.8},
	{"content", 1.0, 0.8},
	{"url", 0.5, 0.3},
}

// Index is a bleve full-text index over feeds and articles.
type Index struct {
	store *storage.Store
	idx   bleve.Index
}

// Open opens or creates the index at path. An empty path keeps the index
// in memory.
func Open(store *storage.Store, path string) (*Index, error) {
	var (
		idx bleve.Index
		err error
	)
	if path == "" {
		idx, err = bleve.NewMemOnly(buildIndexMapping())
	} else {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			return nil, fmt.Errorf("creating index directory: %w", mkErr)
		}
		idx, err = bleve.Open(path)
		if err != nil {
			idx, err = bleve.New(path, buildIndexMapping())
		}
	}
	if err != nil {
		return nil, fmt.Errorf("opening search index: %w", err)
	}
	return &Index{store: store, idx: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	text := func(store bool) *mapping.FieldMapping {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = standard.Name
		fm.Store = store
		return fm
	}

	title := text(true)
	title.IncludeTermVectors = true

	exact := bleve.NewTextFieldMapping()
	exact.Analyzer = keyword.Name
	exact.Store = true

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("description", text(true))
	dm.AddFieldMappingsAt("content", text(false))
	dm.AddFieldMappingsAt("url", text(true))
	dm.AddFieldMappingsAt("feed_id", exact)
	dm.AddFieldMappingsAt("type", exact)

	im.DefaultMapping = dm
	return im
}

func feedDoc(f *storage.Feed) map[string]any {
	return map[string]any{
		"type":        docTypeFeed,
		"feed_id":     f.ID,
		"title":       f.Title,
		"description": f.Description,
		"url":         f.URL,
	}
}

func articleDoc(a *storage.Article) map[string]any {
	return map[string]any{
		"type":        docTypeArticle,
		"feed_id":     a.FeedID,
		"title":       a.Title,
		"description": plainText(a.Description),
		"content":     plainText(a.Content),
		"url":         a.URL,
	}
}

// Reindex indexes every stored feed and article.
func (i *Index) Reindex() error {
	feeds, err := i.store.GetAllFeeds()
	if err != nil {
		return err
	}
	all, err := i.store.ListArticles(storage.ArticleQuery{})
	if err != nil {
		return err
	}

	batch := i.idx.NewBatch()
	for _, f := range feeds {
		if err := batch.Index(docIDForFeed(f.ID), feedDoc(f)); err != nil {
			return err
		}
	}
	for _, a := range all {
		if err := batch.Index(docIDForArticle(a.ID), articleDoc(a)); err != nil {
			return err
		}
	}
	return i.idx.Batch(batch)
}

// OnDataUpdated indexes a freshly saved feed and its articles.
func (i *Index) OnDataUpdated(feed *storage.Feed, articles []*storage.Article) {
	batch := i.idx.NewBatch()
	if feed != nil {
		_ = batch.Index(docIDForFeed(feed.ID), feedDoc(feed))
	}
	for _, a := range articles {
		_ = batch.Index(docIDForArticle(a.ID), articleDoc(a))
	}
	if err := i.idx.Batch(batch); err != nil {
		debuglog.Warnf("indexing %d articles failed: %v", len(articles), err)
	}
}

// OnFeedDeleted removes a feed and all of its articles from the index.
func (i *Index) OnFeedDeleted(feedID string) {
	_ = i.idx.Delete(docIDForFeed(feedID))

	tq := bleve.NewTermQuery(feedID)
	tq.SetField("feed_id")

	const size = 1000
	for {
		req := bleve.NewSearchRequestOptions(tq, size, 0, false)
		res, err := i.idx.Search(req)
		if err != nil || res == nil || len(res.Hits) == 0 {
			return
		}
		batch := i.idx.NewBatch()
		for _, h := range res.Hits {
			batch.Delete(h.ID)
		}
		if err := i.idx.Batch(batch); err != nil {
			return
		}
	}
}

// Search runs a boosted per-term query over all fields. Queries shorter
// than two characters return nothing.
func (i *Index) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}
	terms := tokenize(query)
	if len(terms) == 0 {
		return []*Result{}, nil
	}

	var qs []bleveQuery.Query
	for _, term := range terms {
		for _, fb := range fieldBoosts {
			mq := bleve.NewMatchQuery(term)
			mq.SetField(fb.field)
			mq.SetBoost(fb.match)
			pq := bleve.NewPrefixQuery(term)
			pq.SetField(fb.field)
			pq.SetBoost(fb.prefix)
			qs = append(qs, mq, pq)
		}
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	req.Fields = []string{"type", "title", "description", "feed_id", "url"}
	res, err := i.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		field := func(name string) string {
			s, _ := h.Fields[name].(string)
			return s
		}

		r := &Result{Score: h.Score}
		switch {
		case strings.HasPrefix(h.ID, "feed:"):
			r.Feed = &storage.Feed{
				ID:          strings.TrimPrefix(h.ID, "feed:"),
				Title:       field("title"),
				Description: field("description"),
				URL:         field("url"),
			}
			r.Snippet = bestSnippet(r.Feed.Description, terms, snippetLength)
		case strings.HasPrefix(h.ID, "article:"):
			r.IsArticle = true
			r.Article = &storage.Article{
				ID:          strings.TrimPrefix(h.ID, "article:"),
				FeedID:      field("feed_id"),
				Title:       field("title"),
				Description: field("description"),
				URL:         field("url"),
			}
			if f, err := i.store.GetFeed(r.Article.FeedID); err == nil {
				r.Feed = f
			}
			r.Snippet = bestSnippet(r.Article.Description, terms, snippetLength)
		default:
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// DocCount reports the number of indexed documents.
func (i *Index) DocCount() (int, error) {
	n, err := i.idx.DocCount()
	return int(n), err
}

func (i *Index) Close() error {
	return i.idx.Close()
}

func docIDForFeed(feedID string) string   { return "feed:" + feedID }
func docIDForArticle(artID string) string { return "article:" + artID }
