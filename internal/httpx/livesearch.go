package httpx

import (
	"sync"

	"github.com/booksandchill/storefront/internal/catalog"
)

// LiveSearch backs the type-ahead endpoint. Each keystroke hits the
// endpoint; the underlying searcher coalesces the bursts so only the
// latest query is actually filtered. The response always carries the
// most recently settled result, with Pending set while the window for
// the caller's query has not yet elapsed.
type LiveSearch struct {
	searcher *catalog.Searcher

	mu      sync.RWMutex
	query   string
	results []catalog.Product
}

func NewLiveSearch(searcher *catalog.Searcher) *LiveSearch {
	return &LiveSearch{searcher: searcher}
}

type SearchResult struct {
	Query   string            `json:"query"`
	Results []catalog.Product `json:"results"`
	Pending bool              `json:"pending"`
}

func (ls *LiveSearch) Query(q string) SearchResult {
	ls.searcher.Search(q, ls.settle)

	ls.mu.RLock()
	defer ls.mu.RUnlock()
	res := ls.results
	if res == nil {
		res = []catalog.Product{}
	}
	return SearchResult{Query: q, Results: res, Pending: ls.query != q}
}

func (ls *LiveSearch) settle(query string, results []catalog.Product) {
	ls.mu.Lock()
	ls.query = query
	ls.results = results
	ls.mu.Unlock()
}
