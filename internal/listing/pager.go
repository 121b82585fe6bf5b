package listing

import (
	"fmt"
	"slices"

	"github.com/whereisit-project/whereisit/internal/domain"
)

// DefaultLimit is the initial page size.
const DefaultLimit = 6

// AllowedLimits are the page sizes a user may pick.
var AllowedLimits = []int{6, 7, 8, 9}

// Pager tracks the requested page and the server's last answer. Between a
// request change and the next Apply the server fields are stale and
// navigation is disabled. A Pager is not safe for concurrent use.
type Pager struct {
	page    int
	limit   int
	applied domain.PageRequest
	server  domain.Pagination
	stale   bool
}

// NewPager starts at page 1 with limit, which must be an allowed limit.
func NewPager(limit int) (*Pager, error) {
	if !slices.Contains(AllowedLimits, limit) {
		return nil, fmt.Errorf("%w: items per page must be one of 6, 7, 8, 9", domain.ErrValidation)
	}
	return &Pager{page: 1, limit: limit, stale: true}, nil
}

// Request is the request descriptor for the current state.
func (p *Pager) Request() domain.PageRequest {
	return domain.PageRequest{Page: p.page, Limit: p.limit}
}

// SetPage selects a page.
func (p *Pager) SetPage(page int) error {
	if page < 1 {
		return fmt.Errorf("%w: page must be at least 1", domain.ErrValidation)
	}
	if page != p.page {
		p.page = page
		p.stale = true
	}
	return nil
}

// SetLimit changes the page size and always returns to page 1.
func (p *Pager) SetLimit(limit int) error {
	if !slices.Contains(AllowedLimits, limit) {
		return fmt.Errorf("%w: items per page must be one of 6, 7, 8, 9", domain.ErrValidation)
	}
	p.limit = limit
	p.page = 1
	p.stale = true
	return nil
}

// Next advances one page when the server reported a next page.
func (p *Pager) Next() error {
	if !p.CanNext() {
		return domain.ErrNoNextPage
	}
	return p.SetPage(p.page + 1)
}

// Prev goes back one page when the server reported a previous page.
func (p *Pager) Prev() error {
	if !p.CanPrev() {
		return domain.ErrNoPrevPage
	}
	return p.SetPage(p.page - 1)
}

// Apply records the server's pagination for the current request.
func (p *Pager) Apply(pg domain.Pagination) {
	p.server = pg
	if pg.Page > 0 {
		p.page = pg.Page
	}
	if pg.Limit > 0 {
		p.limit = pg.Limit
	}
	p.applied = p.Request()
	p.stale = false
}

// Rollback restores the last applied request after a failed fetch. Before
// the first successful fetch there is nothing to restore and the request
// stays as is.
func (p *Pager) Rollback() {
	if p.applied.Page == 0 {
		return
	}
	p.page, p.limit = p.applied.Page, p.applied.Limit
	p.stale = false
}

// Stale reports whether the server fields predate the current request.
func (p *Pager) Stale() bool { return p.stale }

// CanNext reports the server's hasNextPage for the current request.
func (p *Pager) CanNext() bool { return !p.stale && p.server.HasNextPage }

// CanPrev reports the server's hasPrevPage for the current request.
func (p *Pager) CanPrev() bool { return !p.stale && p.server.HasPrevPage }

// Pagination returns the last server pagination with the requested page and
// limit.
func (p *Pager) Pagination() domain.Pagination {
	pg := p.server
	pg.Page, pg.Limit = p.page, p.limit
	if p.stale {
		pg.HasNextPage, pg.HasPrevPage = false, false
	}
	return pg
}

// PageItem is one entry of the compact page list.
type PageItem struct {
	Page     int
	Current  bool
	Ellipsis bool
}

// Window lists the first and last pages, the pages next to the current one,
// and an ellipsis at positions 2 and totalPages-1 when they are skipped. It
// is empty when there is at most one page.
func (p *Pager) Window() []PageItem {
	total := p.server.TotalPages
	if total <= 1 {
		return nil
	}
	var items []PageItem
	for n := 1; n <= total; n++ {
		switch {
		case n == 1 || n == total || abs(n-p.page) <= 1:
			items = append(items, PageItem{Page: n, Current: n == p.page})
		case n == 2 || n == total-1:
			items = append(items, PageItem{Page: n, Ellipsis: true})
		}
	}
	return items
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
