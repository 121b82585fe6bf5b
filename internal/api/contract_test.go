//go:build contract

package api

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/pact-foundation/pact-go/v2/consumer"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whereisit-project/whereisit/internal/domain"
)

func newPact(t *testing.T) *consumer.V4HTTPMockProvider {
	t.Helper()
	mock, err := consumer.NewV4Pact(consumer.MockHTTPProviderConfig{
		Consumer: "whereisit-cli",
		Provider: "whereisit-api",
		PactDir:  filepath.Join("..", "..", "pacts"),
	})
	require.NoError(t, err)
	return mock
}

func mockURL(config consumer.MockServerConfig) string {
	return fmt.Sprintf("http://%s:%d", config.Host, config.Port)
}

var listingShape = matchers.Map{
	"_id":         matchers.Like("665f1c2e9b1d4a0012ab34cd"),
	"postType":    matchers.Regex("Lost", "^(Lost|Found)$"),
	"thumbnail":   matchers.Like("https://img.example.com/wallet.png"),
	"title":       matchers.Like("Brown wallet"),
	"description": matchers.Like("Leather, two cards inside"),
	"category":    matchers.Like("wallets"),
	"location":    matchers.Like("Central station"),
	"date":        matchers.Like("2024-06-10T00:00:00Z"),
	"name":        matchers.Like("Ana Lima"),
	"email":       matchers.Like(owner),
}

func TestContract_ListPosts(t *testing.T) {
	mock := newPact(t)

	err := mock.
		AddInteraction().
		Given("twenty posts exist").
		UponReceiving("a request for the second page of six posts").
		WithRequest(http.MethodGet, "/posts", func(b *consumer.V4RequestBuilder) {
			b.Query("page", matchers.S("2"))
			b.Query("limit", matchers.S("6"))
		}).
		WillRespondWith(http.StatusOK, func(b *consumer.V4ResponseBuilder) {
			b.Header("Content-Type", matchers.Regex("application/json", `application\/json.*`))
			b.JSONBody(matchers.Map{
				"posts": matchers.EachLike(listingShape, 1),
				"pagination": matchers.Map{
					"page":        matchers.Integer(2),
					"limit":       matchers.Integer(6),
					"total":       matchers.Integer(20),
					"totalPages":  matchers.Integer(4),
					"hasNextPage": matchers.Like(true),
					"hasPrevPage": matchers.Like(true),
				},
			})
		}).
		ExecuteTest(t, func(config consumer.MockServerConfig) error {
			c, err := New(Options{BaseURL: mockURL(config), Timeout: 5 * time.Second})
			if err != nil {
				return err
			}
			page, err := c.ListPosts(context.Background(), domain.PageRequest{Page: 2, Limit: 6})
			if err != nil {
				return err
			}
			assert.NotEmpty(t, page.Posts)
			assert.Equal(t, 2, page.Pagination.Page)
			assert.Equal(t, 4, page.Pagination.TotalPages)
			return nil
		})
	require.NoError(t, err)
}

func TestContract_Login(t *testing.T) {
	mock := newPact(t)

	err := mock.
		AddInteraction().
		Given("the backend accepts sessions").
		UponReceiving("a request to open a backend session").
		WithRequest(http.MethodPost, "/login", func(b *consumer.V4RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{"email": matchers.Like(owner)})
		}).
		WillRespondWith(http.StatusOK, func(b *consumer.V4ResponseBuilder) {
			b.Header("Set-Cookie", matchers.Regex("token=abc; Path=/; HttpOnly", `^token=.+`))
			b.JSONBody(matchers.Map{"success": matchers.Like(true)})
		}).
		ExecuteTest(t, func(config consumer.MockServerConfig) error {
			c, err := New(Options{BaseURL: mockURL(config), Timeout: 5 * time.Second})
			if err != nil {
				return err
			}
			return c.Login(context.Background(), owner)
		})
	require.NoError(t, err)
}

func TestContract_SecondClaimConflicts(t *testing.T) {
	mock := newPact(t)

	err := mock.
		AddInteraction().
		Given("post 665f1c2e9b1d4a0012ab34cd is already recovered").
		UponReceiving("a second recovery of the same post").
		WithRequest(http.MethodPost, "/recover-item", func(b *consumer.V4RequestBuilder) {
			b.Query("email", matchers.S(owner))
			b.JSONBody(matchers.Map{
				"postId":            matchers.S("665f1c2e9b1d4a0012ab34cd"),
				"recoveredLocation": matchers.Like("Gym front desk"),
				"recoveryDate":      matchers.Like("2024-06-14T00:00:00Z"),
				"recoveredBy": matchers.Map{
					"name":  matchers.Like("Ana Lima"),
					"email": matchers.S(owner),
				},
				"originalPost": matchers.Map{
					"title":     matchers.Like("Brown wallet"),
					"postType":  matchers.Like("Lost"),
					"category":  matchers.Like("wallets"),
					"thumbnail": matchers.Like("https://img.example.com/wallet.png"),
				},
			})
		}).
		WillRespondWith(http.StatusConflict, func(b *consumer.V4ResponseBuilder) {
			b.JSONBody(matchers.Map{
				"success": matchers.Like(false),
				"message": matchers.Like("This item has already been recovered"),
			})
		}).
		ExecuteTest(t, func(config consumer.MockServerConfig) error {
			c, err := New(Options{BaseURL: mockURL(config), Timeout: 5 * time.Second})
			if err != nil {
				return err
			}
			err = c.RecoverItem(context.Background(), owner, domain.RecoveryRecord{
				PostID:            "665f1c2e9b1d4a0012ab34cd",
				RecoveredLocation: "Gym front desk",
				RecoveryDate:      time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC),
				RecoveredBy:       domain.Claimant{Name: "Ana Lima", Email: owner},
				OriginalPost: domain.ListingSnapshot{
					Title:     "Brown wallet",
					PostType:  domain.PostTypeLost,
					Category:  domain.CategoryWallets,
					Thumbnail: "https://img.example.com/wallet.png",
				},
			})
			assert.ErrorIs(t, err, domain.ErrRejected)
			msg, ok := ServerMessage(err)
			assert.True(t, ok)
			assert.Equal(t, "This item has already been recovered", msg)
			return nil
		})
	require.NoError(t, err)
}
