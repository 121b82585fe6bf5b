package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whereisit-project/whereisit/internal/domain"
)

func sampleListings() []domain.Listing {
	return []domain.Listing{
		{ID: "1", Title: "Lost wallet", PostType: domain.PostTypeLost, Category: domain.CategoryWallets, Location: "Central station"},
		{ID: "2", Title: "Found keys", PostType: domain.PostTypeFound, Category: domain.CategoryKeys, Location: "Library"},
		{ID: "3", Title: "Black phone", Description: "Cracked screen", PostType: domain.PostTypeLost, Category: domain.CategoryElectronics, Location: "Gym"},
		{ID: "4", Title: "Passport", Description: "Found near the WALLET shop", PostType: domain.PostTypeFound, Category: domain.CategoryDocuments, Location: "Airport"},
	}
}

func ids(ls []domain.Listing) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.ID
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "identity", filter: DefaultFilter(), want: []string{"1", "2", "3", "4"}},
		{name: "zero filter is identity", filter: Filter{}, want: []string{"1", "2", "3", "4"}},
		{name: "lost only", filter: Filter{Type: TypeLost, Category: CategoryAll}, want: []string{"1", "3"}},
		{name: "found only", filter: Filter{Type: TypeFound, Category: CategoryAll}, want: []string{"2", "4"}},
		{name: "category case-insensitive", filter: Filter{Type: TypeAll, Category: "KEYS"}, want: []string{"2"}},
		{name: "query matches title", filter: Filter{Type: TypeAll, Category: CategoryAll, Query: "phone"}, want: []string{"3"}},
		{name: "query matches description", filter: Filter{Type: TypeAll, Category: CategoryAll, Query: "cracked"}, want: []string{"3"}},
		{name: "query matches location", filter: Filter{Type: TypeAll, Category: CategoryAll, Query: "airport"}, want: []string{"4"}},
		{name: "query any field", filter: Filter{Type: TypeAll, Category: CategoryAll, Query: "wallet"}, want: []string{"1", "4"}},
		{name: "dimensions combine", filter: Filter{Type: TypeLost, Category: CategoryAll, Query: "wallet"}, want: []string{"1"}},
		{name: "no match", filter: Filter{Type: TypeFound, Category: "pets"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(sampleListings(), tt.filter)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApply_Idempotent(t *testing.T) {
	filters := []Filter{
		DefaultFilter(),
		{Type: TypeLost},
		{Type: TypeFound, Category: "documents"},
		{Query: "WALLET"},
		{Type: TypeLost, Category: "electronics", Query: "screen"},
	}
	for _, f := range filters {
		once := Apply(sampleListings(), f)
		twice := Apply(once, f)
		assert.Equal(t, once, twice, "filter %+v", f)
		assert.Equal(t, once, Apply(sampleListings(), f), "filter %+v not deterministic", f)
	}
}

func TestApply_WalletExample(t *testing.T) {
	listings := []domain.Listing{
		{Title: "Lost wallet", PostType: domain.PostTypeLost},
		{Title: "Found keys", PostType: domain.PostTypeFound},
	}
	got := Apply(listings, Filter{Type: TypeLost, Category: CategoryAll, Query: "wallet"})
	require.Len(t, got, 1)
	assert.Equal(t, "Lost wallet", got[0].Title)
}

func TestApply_DoesNotAliasInput(t *testing.T) {
	in := sampleListings()
	out := Apply(in, DefaultFilter())
	out[0].Title = "changed"
	assert.Equal(t, "Lost wallet", in[0].Title)
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("Lost", "Wallets", "Brown")
	require.NoError(t, err)
	assert.Equal(t, Filter{Type: TypeLost, Category: "wallets", Query: "Brown"}, f)

	f, err = ParseFilter("", "", "")
	require.NoError(t, err)
	assert.True(t, f.MatchesAll())

	_, err = ParseFilter("stolen", "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = ParseFilter("all", "furniture", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
