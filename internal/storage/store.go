package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	feedsBucket      = []byte("feeds")
	categoriesBucket = []byte("categories")
	articlesBucket   = []byte("articles")
)

// ErrNotFound is returned when a feed, category or article does not exist.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = 1 * time.Second
	}
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{feedsBucket, categoriesBucket, articlesBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func put(b *bolt.Bucket, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put([]byte(id), data)
}

func (s *Store) SaveFeed(feed *Feed) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx.Bucket(feedsBucket), feed.ID, feed)
	})
}

func (s *Store) GetFeed(id string) (*Feed, error) {
	var feed Feed
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(feedsBucket).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("feed %s: %w", id, ErrNotFound)
		}
		return json.Unmarshal(data, &feed)
	})
	if err != nil {
		return nil, err
	}
	return &feed, nil
}

// GetAllFeeds returns feeds ordered by title (case-insensitive), falling
// back to the URL for untitled feeds.
func (s *Store) GetAllFeeds() ([]*Feed, error) {
	var feeds []*Feed
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(feedsBucket).ForEach(func(_ []byte, v []byte) error {
			var feed Feed
			if err := json.Unmarshal(v, &feed); err != nil {
				return err
			}
			feeds = append(feeds, &feed)
			return nil
		})
	})
	sort.Slice(feeds, func(i, j int) bool {
		return strings.ToLower(feedLabel(feeds[i])) < strings.ToLower(feedLabel(feeds[j]))
	})
	return feeds, err
}

func feedLabel(f *Feed) string {
	if f.Title != "" {
		return f.Title
	}
	return f.URL
}

// FeedIDsInCategory returns the IDs of all feeds assigned to categoryID.
func (s *Store) FeedIDsInCategory(categoryID string) ([]string, error) {
	feeds, err := s.GetAllFeeds()
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, f := range feeds {
		if f.CategoryID == categoryID {
			ids = append(ids, f.ID)
		}
	}
	return ids, nil
}

func (s *Store) DeleteFeed(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(feedsBucket).Delete([]byte(id)); err != nil {
			return err
		}

		c := tx.Bucket(articlesBucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var article Article
			if err := json.Unmarshal(v, &article); err != nil {
				continue
			}
			if article.FeedID == id {
				if err := c.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (s *Store) SaveCategory(category *Category) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx.Bucket(categoriesBucket), category.ID, category)
	})
}

// GetAllCategories returns categories ordered by position, then title.
func (s *Store) GetAllCategories() ([]*Category, error) {
	var categories []*Category
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(categoriesBucket).ForEach(func(_ []byte, v []byte) error {
			var c Category
			if err := json.Unmarshal(v, &c); err != nil {
				return err
			}
			categories = append(categories, &c)
			return nil
		})
	})
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Position != categories[j].Position {
			return categories[i].Position < categories[j].Position
		}
		return strings.ToLower(categories[i].Title) < strings.ToLower(categories[j].Title)
	})
	return categories, err
}

// SaveArticles upserts articles. User state (status, starred, display mode)
// of an already stored article survives a re-fetch.
func (s *Store) SaveArticles(articles []*Article) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(articlesBucket)
		for _, article := range articles {
			if existing := b.Get([]byte(article.ID)); existing != nil {
				var prev Article
				if err := json.Unmarshal(existing, &prev); err == nil {
					article.Status = prev.Status
					article.Starred = prev.Starred
					article.ContentMode = prev.ContentMode
				}
			}
			if article.Status == "" {
				article.Status = StatusUnread
			}
			if article.ContentMode == "" {
				article.ContentMode = ContentSummary
			}
			if err := put(b, article.ID, article); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) GetArticle(id string) (*Article, error) {
	var article Article
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(articlesBucket).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("article %s: %w", id, ErrNotFound)
		}
		return json.Unmarshal(data, &article)
	})
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// ListArticles returns one page of articles matching q, newest first.
func (s *Store) ListArticles(q ArticleQuery) ([]*Article, error) {
	want := make(map[string]bool, len(q.FeedIDs))
	for _, id := range q.FeedIDs {
		want[id] = true
	}

	var articles []*Article
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(articlesBucket).ForEach(func(_ []byte, v []byte) error {
			var article Article
			if err := json.Unmarshal(v, &article); err != nil {
				return nil
			}
			if len(want) == 0 || want[article.FeedID] {
				articles = append(articles, &article)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Published.After(articles[j].Published)
	})

	if q.Offset > 0 {
		if q.Offset >= len(articles) {
			return []*Article{}, nil
		}
		articles = articles[q.Offset:]
	}
	if q.Limit > 0 && len(articles) > q.Limit {
		articles = articles[:q.Limit]
	}
	return articles, nil
}

func (s *Store) updateArticle(id string, mutate func(*Article)) (*Article, error) {
	var article Article
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(articlesBucket)
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("article %s: %w", id, ErrNotFound)
		}
		if err := json.Unmarshal(data, &article); err != nil {
			return err
		}
		mutate(&article)
		return put(b, id, &article)
	})
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (s *Store) SetArticleStatus(id string, status Status) (*Article, error) {
	return s.updateArticle(id, func(a *Article) { a.Status = status })
}

func (s *Store) SetArticleStarred(id string, starred bool) (*Article, error) {
	return s.updateArticle(id, func(a *Article) { a.Starred = starred })
}

func (s *Store) SetArticleContentMode(id string, mode ContentMode) (*Article, error) {
	return s.updateArticle(id, func(a *Article) { a.ContentMode = mode })
}
