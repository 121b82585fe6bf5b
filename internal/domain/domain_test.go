package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"electronics", CategoryElectronics, false},
		{"Wallets", CategoryWallets, false},
		{"  KEYS ", CategoryKeys, false},
		{"furniture", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePostType(t *testing.T) {
	got, err := ParsePostType("lost")
	require.NoError(t, err)
	assert.Equal(t, PostTypeLost, got)

	got, err = ParsePostType("FOUND")
	require.NoError(t, err)
	assert.Equal(t, PostTypeFound, got)

	_, err = ParsePostType("stolen")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListing_OwnedBy(t *testing.T) {
	l := Listing{Email: "Ana@Example.com"}
	assert.True(t, l.OwnedBy("ana@example.com"))
	assert.False(t, l.OwnedBy("bob@example.com"))
	assert.False(t, l.OwnedBy(""))
}

func TestListing_StatusNullDecodesAsOpen(t *testing.T) {
	var l Listing
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"p1","status":null,"postType":"Lost"}`), &l))
	assert.False(t, l.IsRecovered())
	assert.Equal(t, "p1", l.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"_id":"p1","status":"recovered"}`), &l))
	assert.True(t, l.IsRecovered())
}

func TestNewListing_StatusEncodedAsNull(t *testing.T) {
	b, err := json.Marshal(NewListing{Title: "Lost wallet"})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"status":null`)
}

func TestNotInFuture(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2024, 5, 10, 1, 0, 0, 0, loc)

	assert.True(t, NotInFuture(now, now))
	assert.True(t, NotInFuture(now.Add(20*time.Hour), now), "later the same calendar day is allowed")
	assert.True(t, NotInFuture(time.Date(2023, 12, 31, 0, 0, 0, 0, loc), now))
	assert.False(t, NotInFuture(time.Date(2024, 5, 11, 0, 0, 0, 0, loc), now))
	assert.False(t, NotInFuture(time.Date(2025, 1, 1, 0, 0, 0, 0, loc), now))
	// 2024-05-09T23:30Z is 2024-05-10 01:30 in now's zone
	assert.True(t, NotInFuture(time.Date(2024, 5, 9, 23, 30, 0, 0, time.UTC), now))
}

func TestChanges_FieldsStableOrder(t *testing.T) {
	c := Changes{"location": "X", "title": "B", "date": time.Now()}
	assert.Equal(t, []string{"title", "location", "date"}, c.Fields())
}

func TestSessionEvent(t *testing.T) {
	id := &Identity{Email: "a@b.c"}
	assert.True(t, SessionEvent{Current: id}.SignedIn())
	assert.True(t, SessionEvent{Previous: id}.SignedOut())
	assert.False(t, SessionEvent{}.SignedOut())
}
