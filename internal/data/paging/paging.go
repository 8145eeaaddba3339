// Package paging carries page requests into repositories and page results
// back out.
package paging

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUnsupportedSort is returned by Apply for a sort property outside the
// caller's whitelist.
var ErrUnsupportedSort = errors.New("paging: unsupported sort property")

const (
	DefaultSize = 20
	MaxSize     = 1000
)

// Order sorts by one property.
type Order struct {
	Property string
	Desc     bool
}

// Pageable is a zero-based page request.
type Pageable struct {
	Page int
	Size int
	Sort []Order
}

// Normalize clamps Page to >= 0 and Size to [1, MaxSize], defaulting an
// unset Size to DefaultSize.
func (p Pageable) Normalize() Pageable {
	if p.Page < 0 {
		p.Page = 0
	}
	switch {
	case p.Size <= 0:
		p.Size = DefaultSize
	case p.Size > MaxSize:
		p.Size = MaxSize
	}
	return p
}

func (p Pageable) Offset() int {
	n := p.Normalize()
	return n.Page * n.Size
}

// ParseSort reads "prop" or "prop,desc" / "prop,asc" values as sent in
// repeated sort query parameters. Empty values are skipped.
func ParseSort(values []string) []Order {
	var out []Order
	for _, raw := range values {
		parts := strings.Split(raw, ",")
		prop := strings.TrimSpace(parts[0])
		if prop == "" {
			continue
		}
		o := Order{Property: prop}
		if len(parts) > 1 && strings.EqualFold(strings.TrimSpace(parts[1]), "desc") {
			o.Desc = true
		}
		out = append(out, o)
	}
	return out
}

// Apply adds ORDER BY, LIMIT and OFFSET to q. Sort properties are mapped
// to columns through allowed; unknown properties are an error. fallback is
// appended when no requested order mentions it, keeping pages stable.
func Apply(q *gorm.DB, p Pageable, allowed map[string]string, fallback Order) (*gorm.DB, error) {
	n := p.Normalize()
	seen := map[string]bool{}
	for _, o := range n.Sort {
		col, ok := allowed[o.Property]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnsupportedSort, o.Property)
		}
		if seen[col] {
			continue
		}
		seen[col] = true
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: o.Desc})
	}
	if col, ok := allowed[fallback.Property]; ok && !seen[col] {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: fallback.Desc})
	}
	return q.Limit(n.Size).Offset(n.Page * n.Size), nil
}

// Page is one slice of a larger ordered result.
type Page[T any] struct {
	Items         []T   `json:"items"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

func NewPage[T any](items []T, p Pageable, total int64) Page[T] {
	n := p.Normalize()
	if items == nil {
		items = []T{}
	}
	pages := int((total + int64(n.Size) - 1) / int64(n.Size))
	return Page[T]{
		Items:         items,
		Page:          n.Page,
		Size:          n.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

// Map converts the items of a page, keeping its paging metadata.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Items))
	for i, it := range p.Items {
		out[i] = fn(it)
	}
	return Page[U]{
		Items:         out,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
	}
}
