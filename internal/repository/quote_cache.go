package repository

import (
	"sort"
	"strings"
	"sync"

	"github.com/timmy/reelquote/internal/domain"
)

// DefaultCacheCapacity is used when a non-positive capacity is requested.
const DefaultCacheCapacity = 500

// QuoteCache is a fixed-size, in-memory ring buffer of recently generated quotes.
// When full, adding a quote evicts the oldest one. Safe for concurrent use.
type QuoteCache struct {
	mu    sync.RWMutex
	items []domain.Quote
	next  int // slot the next Add writes to
	size  int
}

// NewQuoteCache creates a cache holding at most capacity quotes.
// Parameters:
//   - capacity: maximum number of quotes retained; <= 0 uses DefaultCacheCapacity.
//
// Returns:
//   - *QuoteCache: empty cache.
func NewQuoteCache(capacity int) *QuoteCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &QuoteCache{items: make([]domain.Quote, capacity)}
}

// Add stores a quote, evicting the oldest entry when the cache is full.
func (c *QuoteCache) Add(q domain.Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[c.next] = q
	c.next = (c.next + 1) % len(c.items)
	if c.size < len(c.items) {
		c.size++
	}
}

// Len returns the number of cached quotes.
func (c *QuoteCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.size
}

// Capacity returns the maximum number of cached quotes.
func (c *QuoteCache) Capacity() int {
	return len(c.items)
}

// newestFirst copies matching quotes out of the buffer, newest first.
func (c *QuoteCache) newestFirst(match func(*domain.Quote) bool) []domain.Quote {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Quote, 0, c.size)
	n := len(c.items)
	for i := 1; i <= c.size; i++ {
		q := &c.items[(c.next-i+n)%n]
		if match == nil || match(q) {
			out = append(out, *q)
		}
	}
	return out
}

// byScore orders quotes by engagement score, highest first. Ties keep recency order.
func byScore(quotes []domain.Quote) {
	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].Engagement.Score > quotes[j].Engagement.Score
	})
}

func page(quotes []domain.Quote, limit, offset int) []domain.Quote {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(quotes) {
		return []domain.Quote{}
	}
	end := len(quotes)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return quotes[offset:end]
}

// Search finds quotes whose title or content contains query, case-insensitively.
// Parameters:
//   - query: substring to look for; empty matches everything.
//   - theme: exact theme filter; empty disables it.
//   - limit: page size; <= 0 returns all matches.
//   - offset: number of matches to skip.
//
// Returns:
//   - []domain.Quote: the requested page, highest score first.
//   - int: total number of matches before paging.
func (c *QuoteCache) Search(query string, theme domain.Theme, limit, offset int) ([]domain.Quote, int) {
	needle := strings.ToLower(query)
	matches := c.newestFirst(func(q *domain.Quote) bool {
		if theme != "" && q.Theme != theme {
			return false
		}
		return strings.Contains(strings.ToLower(q.Title), needle) ||
			strings.Contains(strings.ToLower(q.Content), needle)
	})
	byScore(matches)
	return page(matches, limit, offset), len(matches)
}

// Trending returns up to limit quotes with the highest engagement score.
func (c *QuoteCache) Trending(limit int) []domain.Quote {
	all := c.newestFirst(nil)
	byScore(all)
	return page(all, limit, 0)
}

// ByTheme returns up to limit quotes of one theme, highest score first.
func (c *QuoteCache) ByTheme(theme domain.Theme, limit int) []domain.Quote {
	matches := c.newestFirst(func(q *domain.Quote) bool {
		return q.Theme == theme
	})
	byScore(matches)
	return page(matches, limit, 0)
}
