// Package domain holds the lost-and-found types shared by the API client,
// the session store and the listing controllers.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// PostType is the report kind of a listing.
type PostType string

// Report kinds.
const (
	PostTypeLost  PostType = "Lost"
	PostTypeFound PostType = "Found"
)

// ParsePostType parses a report kind case-insensitively.
func ParsePostType(s string) (PostType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lost":
		return PostTypeLost, nil
	case "found":
		return PostTypeFound, nil
	default:
		return "", fmt.Errorf("%w: post type %q must be Lost or Found", ErrValidation, s)
	}
}

// Category is one of the fixed item categories.
type Category string

// Item categories.
const (
	CategoryElectronics Category = "electronics"
	CategoryDocuments   Category = "documents"
	CategoryPets        Category = "pets"
	CategoryAccessories Category = "accessories"
	CategoryJewelry     Category = "jewelry"
	CategoryWallets     Category = "wallets"
	CategoryKeys        Category = "keys"
	CategoryOthers      Category = "others"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryElectronics,
	CategoryDocuments,
	CategoryPets,
	CategoryAccessories,
	CategoryJewelry,
	CategoryWallets,
	CategoryKeys,
	CategoryOthers,
}

// ParseCategory parses a category case-insensitively.
func ParseCategory(s string) (Category, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if string(c) == want {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrValidation, s)
}

// Listing status values. An open listing has an empty status (null on the wire).
const (
	StatusOpen      = ""
	StatusRecovered = "recovered"
)

// Listing is one lost-or-found report as served by the API.
type Listing struct {
	ID          string    `json:"_id" yaml:"id"`
	PostType    PostType  `json:"postType" yaml:"postType"`
	Thumbnail   string    `json:"thumbnail" yaml:"thumbnail"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Category    Category  `json:"category" yaml:"category"`
	Location    string    `json:"location" yaml:"location"`
	Date        time.Time `json:"date" yaml:"date"`
	Name        string    `json:"name" yaml:"name"`
	Email       string    `json:"email" yaml:"email"`
	Status      string    `json:"status" yaml:"status,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitzero" yaml:"createdAt,omitempty"`
}

// IsRecovered reports whether the listing has been claimed.
func (l Listing) IsRecovered() bool {
	return l.Status == StatusRecovered
}

// OwnedBy reports whether email matches the listing's reporter.
func (l Listing) OwnedBy(email string) bool {
	return email != "" && strings.EqualFold(l.Email, email)
}

// NewListing is the create payload: a listing without id, with a null status.
type NewListing struct {
	PostType    PostType  `json:"postType"`
	Thumbnail   string    `json:"thumbnail"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Status      *string   `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Changes is a partial listing update keyed by wire field name.
type Changes map[string]any

// Fields returns the changed field names in stable order.
func (c Changes) Fields() []string {
	out := make([]string, 0, len(c))
	for _, f := range EditableFields {
		if _, ok := c[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// EditableFields are the wire names a creator may change after posting.
// Ownership (name, email) and status are never editable.
var EditableFields = []string{
	"postType",
	"thumbnail",
	"title",
	"description",
	"category",
	"location",
	"date",
}
