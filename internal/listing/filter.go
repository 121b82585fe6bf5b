// Package listing holds the listing views: the filtered and paginated feed,
// the recent grid, the user's posts, post details with claiming, recovered
// items, and the create/update forms.
package listing

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/whereisit-project/whereisit/internal/domain"
)

// TypeFilter selects listings by report kind.
type TypeFilter string

// Type filters.
const (
	TypeAll   TypeFilter = "all"
	TypeLost  TypeFilter = "lost"
	TypeFound TypeFilter = "found"
)

// CategoryAll matches every category.
const CategoryAll = "all"

// Filter narrows a loaded page of listings on the client.
type Filter struct {
	Type     TypeFilter
	Category string
	Query    string
}

// DefaultFilter matches everything.
func DefaultFilter() Filter {
	return Filter{Type: TypeAll, Category: CategoryAll}
}

// ParseFilter validates user input. Empty type or category means all. The
// query is kept as typed.
func ParseFilter(typ, category, query string) (Filter, error) {
	f := DefaultFilter()
	f.Query = query

	switch t := TypeFilter(strings.ToLower(strings.TrimSpace(typ))); t {
	case "", TypeAll:
	case TypeLost, TypeFound:
		f.Type = t
	default:
		return Filter{}, fmt.Errorf("%w: type %q must be all, lost or found", domain.ErrValidation, typ)
	}

	if c := strings.TrimSpace(category); c != "" && !strings.EqualFold(c, CategoryAll) {
		parsed, err := domain.ParseCategory(c)
		if err != nil {
			return Filter{}, err
		}
		f.Category = string(parsed)
	}
	return f, nil
}

// MatchesAll reports whether f lets every listing through.
func (f Filter) MatchesAll() bool {
	return (f.Type == "" || f.Type == TypeAll) &&
		(f.Category == "" || f.Category == CategoryAll) &&
		f.Query == ""
}

// Apply returns the listings matching f in their original order. It never
// modifies listings.
func Apply(listings []domain.Listing, f Filter) []domain.Listing {
	if f.MatchesAll() {
		return slices.Clone(listings)
	}

	// a Caser keeps state, so each call gets its own
	fold := cases.Fold()
	query := fold.String(f.Query)
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if f.Type != "" && f.Type != TypeAll && fold.String(string(l.PostType)) != string(f.Type) {
			continue
		}
		if f.Category != "" && f.Category != CategoryAll && fold.String(string(l.Category)) != fold.String(f.Category) {
			continue
		}
		if query != "" &&
			!strings.Contains(fold.String(l.Title), query) &&
			!strings.Contains(fold.String(l.Description), query) &&
			!strings.Contains(fold.String(l.Location), query) {
			continue
		}
		out = append(out, l)
	}
	return out
}
