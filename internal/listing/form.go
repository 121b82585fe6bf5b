package listing

import (
	"strings"
	"time"

	"github.com/whereisit-project/whereisit/internal/domain"
)

// Draft is the listing form. Fields validate in the order the form shows
// their errors.
type Draft struct {
	Title       string          `json:"title" validate:"notblank"`
	Description string          `json:"description" validate:"notblank"`
	Location    string          `json:"location" validate:"notblank"`
	Category    domain.Category `json:"category" validate:"category"`
	Thumbnail   string          `json:"thumbnail" validate:"notblank,url"`
	PostType    domain.PostType `json:"postType" validate:"posttype"`
	Date        time.Time       `json:"date" validate:"required,notfuture"`
}

// DraftFrom fills a form from a listing.
func DraftFrom(l domain.Listing) Draft {
	return Draft{
		Title:       l.Title,
		Description: l.Description,
		Location:    l.Location,
		Category:    l.Category,
		Thumbnail:   l.Thumbnail,
		PostType:    l.PostType,
		Date:        l.Date,
	}
}

// Normalize trims text fields and canonicalizes the enumerations when they
// parse.
func (d Draft) Normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Location = strings.TrimSpace(d.Location)
	d.Thumbnail = strings.TrimSpace(d.Thumbnail)
	if c, err := domain.ParseCategory(string(d.Category)); err == nil {
		d.Category = c
	}
	if t, err := domain.ParsePostType(string(d.PostType)); err == nil {
		d.PostType = t
	}
	return d
}

// Diff returns the fields of edited that differ from base, keyed by wire
// name. Dates compare as instants.
func Diff(base, edited Draft) domain.Changes {
	c := domain.Changes{}
	if edited.PostType != base.PostType {
		c["postType"] = edited.PostType
	}
	if edited.Thumbnail != base.Thumbnail {
		c["thumbnail"] = edited.Thumbnail
	}
	if edited.Title != base.Title {
		c["title"] = edited.Title
	}
	if edited.Description != base.Description {
		c["description"] = edited.Description
	}
	if edited.Category != base.Category {
		c["category"] = edited.Category
	}
	if edited.Location != base.Location {
		c["location"] = edited.Location
	}
	if !edited.Date.Equal(base.Date) {
		c["date"] = edited.Date
	}
	return c
}
