package catalog

import (
	"sync"
	"time"
)

// Searcher coalesces rapid query updates: only the latest query still
// pending after the quiescence window runs, earlier ones are superseded.
type Searcher struct {
	window   time.Duration
	products []Product

	mu      sync.Mutex
	timer   *time.Timer
	pending string
}

func NewSearcher(products []Product, window time.Duration) *Searcher {
	return &Searcher{window: window, products: products}
}

// Search schedules a filtered search for query and delivers the result
// to deliver once the window elapses with no newer query. A newer call
// cancels any pending one; superseded queries never deliver.
func (s *Searcher) Search(query string, deliver func(query string, results []Product)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = query
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.window, func() {
		s.mu.Lock()
		q := s.pending
		s.mu.Unlock()
		if q != query {
			// a newer query won the race between Stop and firing
			return
		}
		deliver(q, Filter(s.products, Criteria{Query: q}))
	})
}

// Flush cancels any pending search. Used on shutdown.
func (s *Searcher) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
