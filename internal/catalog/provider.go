package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Provider supplies the product list and review records once at
// startup. The core treats the result as read-only.
type Provider interface {
	Products(ctx context.Context) ([]Product, error)
	Reviews(ctx context.Context) ([]Review, error)
}

// FileProvider reads books.json / reviews.json from a directory, the
// same data files the storefront ships with. Loads are collapsed with
// singleflight and cached for the life of the process.
type FileProvider struct {
	dir string
	sfg singleflight.Group

	mu       sync.RWMutex
	products []Product
	reviews  []Review
	loaded   bool
}

func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{dir: dir}
}

func (f *FileProvider) Products(ctx context.Context) ([]Product, error) {
	if err := f.load(ctx); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.products, nil
}

func (f *FileProvider) Reviews(ctx context.Context) ([]Review, error) {
	if err := f.load(ctx); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.reviews, nil
}

func (f *FileProvider) load(ctx context.Context) error {
	f.mu.RLock()
	done := f.loaded
	f.mu.RUnlock()
	if done {
		return nil
	}

	_, err, _ := f.sfg.Do("load", func() (any, error) {
		var products []Product
		if err := readJSON(filepath.Join(f.dir, "books.json"), &products); err != nil {
			return nil, err
		}
		var reviews []Review
		if err := readJSON(filepath.Join(f.dir, "reviews.json"), &reviews); err != nil {
			// reviews are optional display data
			if !os.IsNotExist(err) {
				return nil, err
			}
			reviews = nil
		}
		f.mu.Lock()
		f.products = products
		f.reviews = reviews
		f.loaded = true
		f.mu.Unlock()
		return nil, ctx.Err()
	})
	return err
}

func readJSON(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// StaticProvider serves fixed slices, for tests and demos.
type StaticProvider struct {
	Items       []Product
	ReviewItems []Review
}

func (s *StaticProvider) Products(context.Context) ([]Product, error) { return s.Items, nil }
func (s *StaticProvider) Reviews(context.Context) ([]Review, error)   { return s.ReviewItems, nil }
