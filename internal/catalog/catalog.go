// Package catalog serves the static product reference data. The fixture set
// is compiled into the binary; lookups are linear scans and the only mutable
// field is the stock flag.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/nawedy/melting-pot-plus/internal/model"
)

//go:embed products.json
var productsJSON []byte

//go:embed categories.json
var categoriesJSON []byte

type Store struct {
	mu         sync.RWMutex
	products   []model.Product
	categories []model.Category
}

// Load parses the embedded fixtures. Called once at startup.
func Load() (*Store, error) {
	s := &Store{}
	if err := json.Unmarshal(productsJSON, &s.products); err != nil {
		return nil, fmt.Errorf("parse products fixture: %w", err)
	}
	if err := json.Unmarshal(categoriesJSON, &s.categories); err != nil {
		return nil, fmt.Errorf("parse categories fixture: %w", err)
	}
	return s, nil
}

// GetByID scans for a product. The returned value is a copy; callers cannot
// mutate catalog state through it.
func (s *Store) GetByID(id string) (*model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, true
		}
	}
	return nil, false
}

type Filter struct {
	Category    string
	Country     string
	Search      string
	Lang        string
	InStockOnly bool
}

func (s *Store) List(f Filter) []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Product
	for _, p := range s.products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Country != "" && !strings.EqualFold(p.CountryOfOrigin, f.Country) {
			continue
		}
		if f.InStockOnly && !p.InStock {
			continue
		}
		if f.Search != "" && !matches(p, f.Search, f.Lang) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *Store) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// SetStock flips a product's stock flag. Returns false when the product does
// not exist.
func (s *Store) SetStock(id string, inStock bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i].InStock = inStock
			return true
		}
	}
	return false
}

// matches is a case-insensitive substring scan across the localized name and
// description plus tags. With an empty lang every translation is searched.
func matches(p model.Product, query, lang string) bool {
	q := strings.ToLower(query)
	if lang != "" {
		if strings.Contains(strings.ToLower(p.Name.In(lang)), q) ||
			strings.Contains(strings.ToLower(p.Description.In(lang)), q) {
			return true
		}
	} else {
		for _, name := range p.Name {
			if strings.Contains(strings.ToLower(name), q) {
				return true
			}
		}
		for _, desc := range p.Description {
			if strings.Contains(strings.ToLower(desc), q) {
				return true
			}
		}
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
