package domain

import "time"

// PageRequest selects one page of the public listing feed.
type PageRequest struct {
	Page  int
	Limit int
}

// Pagination is the server's authoritative paging metadata.
type Pagination struct {
	Page        int  `json:"page" yaml:"page"`
	Limit       int  `json:"limit" yaml:"limit"`
	Total       int  `json:"total" yaml:"total"`
	TotalPages  int  `json:"totalPages" yaml:"totalPages"`
	HasNextPage bool `json:"hasNextPage" yaml:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage" yaml:"hasPrevPage"`
}

// PostPage is one page of listings.
type PostPage struct {
	Posts      []Listing  `json:"posts" yaml:"posts"`
	Pagination Pagination `json:"pagination" yaml:"pagination"`
}

// NotInFuture reports whether t falls on or before now's calendar day,
// evaluated in now's location.
func NotInFuture(t, now time.Time) bool {
	ty, tm, td := t.In(now.Location()).Date()
	ny, nm, nd := now.Date()
	if ty != ny {
		return ty < ny
	}
	if tm != nm {
		return tm < nm
	}
	return td <= nd
}
