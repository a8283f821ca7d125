package catalog

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearcher_DeliversAfterQuiescence(t *testing.T) {
	s := NewSearcher(testCatalog(), 10*time.Millisecond)

	results := make(chan []Product, 1)
	s.Search("dune", func(_ string, ps []Product) { results <- ps })

	select {
	case ps := <-results:
		require.Len(t, ps, 1)
		assert.Equal(t, "bk-003", ps[0].ID)
	case <-time.After(time.Second):
		t.Fatal("search never delivered")
	}
}

func TestSearcher_LatestQueryWins(t *testing.T) {
	s := NewSearcher(testCatalog(), 20*time.Millisecond)

	var mu sync.Mutex
	var delivered []string
	deliver := func(q string, _ []Product) {
		mu.Lock()
		delivered = append(delivered, q)
		mu.Unlock()
	}

	// rapid successive updates, all inside one quiescence window
	s.Search("d", deliver)
	s.Search("du", deliver)
	s.Search("dun", deliver)
	s.Search("dune", deliver)

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"dune"}, delivered, "superseded queries must not deliver")
}

func TestSearcher_FlushCancelsPending(t *testing.T) {
	s := NewSearcher(testCatalog(), 10*time.Millisecond)

	fired := make(chan struct{}, 1)
	s.Search("dune", func(string, []Product) { fired <- struct{}{} })
	s.Flush()

	select {
	case <-fired:
		t.Fatal("flushed search still delivered")
	case <-time.After(50 * time.Millisecond):
	}
}
