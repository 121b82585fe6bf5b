package domain

import "time"

// Claimant identifies who recovered an item.
type Claimant struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Image string `json:"image,omitempty" yaml:"image,omitempty"`
}

// ListingSnapshot is the denormalized copy of a listing's classification kept
// on a recovery record for display.
type ListingSnapshot struct {
	Title     string   `json:"title" yaml:"title"`
	PostType  PostType `json:"postType" yaml:"postType"`
	Category  Category `json:"category" yaml:"category"`
	Thumbnail string   `json:"thumbnail" yaml:"thumbnail"`
}

// SnapshotOf copies the display fields of l.
func SnapshotOf(l Listing) ListingSnapshot {
	return ListingSnapshot{
		Title:     l.Title,
		PostType:  l.PostType,
		Category:  l.Category,
		Thumbnail: l.Thumbnail,
	}
}

// RecoveryRecord is created exactly once per listing when it is claimed.
type RecoveryRecord struct {
	ID                string          `json:"_id,omitempty" yaml:"id,omitempty"`
	PostID            string          `json:"postId" yaml:"postId"`
	RecoveredLocation string          `json:"recoveredLocation" yaml:"recoveredLocation"`
	RecoveryDate      time.Time       `json:"recoveryDate" yaml:"recoveryDate"`
	RecoveredBy       Claimant        `json:"recoveredBy" yaml:"recoveredBy"`
	OriginalPost      ListingSnapshot `json:"originalPost" yaml:"originalPost"`
}
