// Package apitest serves an in-memory lost-and-found API for tests. It
// follows the backend contract: cookie sessions opened by POST /login,
// email-scoped secure routes, owner-only edits and a single claim per
// listing.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/whereisit-project/whereisit/internal/domain"
)

// SessionCookie is the name of the backend session cookie.
const SessionCookie = "token"

const defaultLimit = 10

type failure struct {
	status  int
	message string
}

// Server is a fake listing API backed by memory.
type Server struct {
	*httptest.Server
	echo *echo.Echo

	mu        sync.Mutex
	posts     []domain.Listing
	recovered []domain.RecoveryRecord
	sessions  map[string]string
	failures  map[string][]failure
	holds     map[int]*Hold
	requests  map[string]int
	logins    int
	logouts   int
}

// NewServer starts a fake API. It is closed when the test ends.
func NewServer(t interface {
	Helper()
	Cleanup(func())
}) *Server {
	t.Helper()
	s := &Server{
		sessions: make(map[string]string),
		failures: make(map[string][]failure),
		holds:    make(map[int]*Hold),
		requests: make(map[string]int),
	}
	s.echo = s.routes()
	s.Server = httptest.NewServer(s.echo)
	t.Cleanup(func() {
		s.mu.Lock()
		for _, h := range s.holds {
			h.Release()
		}
		s.mu.Unlock()
		s.Close()
	})
	return s
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.track)

	e.GET("/posts", s.listPosts)
	e.POST("/login", s.login)
	e.POST("/logout", s.logout)

	e.GET("/post/:id", s.getPost, s.requireSession)
	e.POST("/posts", s.createPost, s.requireSession)
	e.PATCH("/update-post/:id", s.updatePost, s.requireSession)
	e.DELETE("/posts/:id", s.deletePost, s.requireSession)
	e.GET("/my-posts", s.myPosts, s.requireSession)
	e.GET("/recovered-items", s.recoveredItems, s.requireSession)
	e.POST("/recover-item", s.recoverItem, s.requireSession)
	return e
}

type response map[string]any

func reject(c echo.Context, status int, msg string) error {
	return c.JSON(status, response{"success": false, "message": msg})
}

// track counts requests and serves injected failures.
func (s *Server) track(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := c.Request().Method + " " + c.Path()
		s.mu.Lock()
		s.requests[key]++
		var f *failure
		if q := s.failures[key]; len(q) > 0 {
			f = &q[0]
			s.failures[key] = q[1:]
		}
		s.mu.Unlock()

		if f != nil {
			return reject(c, f.status, f.message)
		}
		return next(c)
	}
}

// requireSession enforces the cookie session and the email scope.
func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(SessionCookie)
		if err != nil {
			return reject(c, http.StatusUnauthorized, "unauthorized access")
		}
		s.mu.Lock()
		email, ok := s.sessions[cookie.Value]
		s.mu.Unlock()
		if !ok {
			return reject(c, http.StatusUnauthorized, "unauthorized access")
		}
		if q := c.QueryParam("email"); q != "" && q != email {
			return reject(c, http.StatusForbidden, "forbidden access")
		}
		c.Set("email", email)
		return next(c)
	}
}

func sessionEmail(c echo.Context) string {
	email, _ := c.Get("email").(string)
	return email
}

func (s *Server) login(c echo.Context) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&body); err != nil || body.Email == "" {
		return reject(c, http.StatusBadRequest, "email is required")
	}
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = body.Email
	s.logins++
	s.mu.Unlock()

	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
	return c.JSON(http.StatusOK, response{"success": true})
}

func (s *Server) logout(c echo.Context) error {
	s.mu.Lock()
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		delete(s.sessions, cookie.Value)
	}
	s.logouts++
	s.mu.Unlock()

	c.SetCookie(&http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	return c.JSON(http.StatusOK, response{"success": true})
}

func (s *Server) listPosts(c echo.Context) error {
	page, limit := 1, defaultLimit
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}

	s.mu.Lock()
	hold := s.holds[page]
	s.mu.Unlock()
	if hold != nil {
		hold.arrive()
		select {
		case <-hold.release:
		case <-c.Request().Context().Done():
			return c.Request().Context().Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	total := len(s.posts)
	totalPages := (total + limit - 1) / limit
	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	return c.JSON(http.StatusOK, response{
		"posts": slices.Clone(s.posts[start:end]),
		"pagination": domain.Pagination{
			Page:        page,
			Limit:       limit,
			Total:       total,
			TotalPages:  totalPages,
			HasNextPage: page < totalPages,
			HasPrevPage: page > 1,
		},
	})
}

// find returns the index of id. Callers hold s.mu.
func (s *Server) find(id string) int {
	return slices.IndexFunc(s.posts, func(p domain.Listing) bool { return p.ID == id })
}

func (s *Server) getPost(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(c.Param("id"))
	if i < 0 {
		return reject(c, http.StatusNotFound, "Post not found")
	}
	return c.JSON(http.StatusOK, response{"post": s.posts[i]})
}

func (s *Server) createPost(c echo.Context) error {
	var body domain.NewListing
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		return reject(c, http.StatusBadRequest, "invalid post")
	}
	if body.Email != sessionEmail(c) {
		return reject(c, http.StatusForbidden, "forbidden access")
	}
	if body.Title == "" {
		return reject(c, http.StatusBadRequest, "title is required")
	}
	if body.Status != nil {
		return reject(c, http.StatusBadRequest, "new posts cannot carry a status")
	}

	post := domain.Listing{
		ID:          uuid.NewString(),
		PostType:    body.PostType,
		Thumbnail:   body.Thumbnail,
		Title:       body.Title,
		Description: body.Description,
		Category:    body.Category,
		Location:    body.Location,
		Date:        body.Date,
		Name:        body.Name,
		Email:       body.Email,
		CreatedAt:   body.CreatedAt,
	}
	s.mu.Lock()
	s.posts = append([]domain.Listing{post}, s.posts...)
	s.mu.Unlock()
	return c.JSON(http.StatusCreated, response{"success": true, "insertedId": post.ID})
}

func (s *Server) updatePost(c echo.Context) error {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		return reject(c, http.StatusBadRequest, "invalid update")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(c.Param("id"))
	if i < 0 {
		return reject(c, http.StatusNotFound, "Post not found")
	}
	if !s.posts[i].OwnedBy(sessionEmail(c)) {
		return reject(c, http.StatusBadRequest, "You can only update your own posts")
	}
	updated, err := applyChanges(s.posts[i], body)
	if err != nil {
		return reject(c, http.StatusBadRequest, err.Error())
	}
	s.posts[i] = updated
	return c.JSON(http.StatusOK, response{"success": true, "modifiedCount": 1})
}

func applyChanges(p domain.Listing, body map[string]json.RawMessage) (domain.Listing, error) {
	for field, raw := range body {
		var err error
		switch field {
		case "postType":
			err = json.Unmarshal(raw, &p.PostType)
		case "thumbnail":
			err = json.Unmarshal(raw, &p.Thumbnail)
		case "title":
			err = json.Unmarshal(raw, &p.Title)
		case "description":
			err = json.Unmarshal(raw, &p.Description)
		case "category":
			err = json.Unmarshal(raw, &p.Category)
		case "location":
			err = json.Unmarshal(raw, &p.Location)
		case "date":
			err = json.Unmarshal(raw, &p.Date)
		default:
			return p, fmt.Errorf("field %s cannot be updated", field)
		}
		if err != nil {
			return p, fmt.Errorf("invalid %s", field)
		}
	}
	return p, nil
}

func (s *Server) deletePost(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(c.Param("id"))
	if i < 0 {
		return reject(c, http.StatusNotFound, "Post not found")
	}
	if !s.posts[i].OwnedBy(sessionEmail(c)) {
		return reject(c, http.StatusBadRequest, "You can only delete your own posts")
	}
	s.posts = slices.Delete(s.posts, i, i+1)
	return c.JSON(http.StatusOK, response{"success": true, "message": "Post deleted"})
}

func (s *Server) myPosts(c echo.Context) error {
	email := sessionEmail(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	mine := []domain.Listing{}
	for _, p := range s.posts {
		if p.OwnedBy(email) {
			mine = append(mine, p)
		}
	}
	return c.JSON(http.StatusOK, response{"posts": mine})
}

func (s *Server) recoveredItems(c echo.Context) error {
	email := sessionEmail(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	items := []domain.RecoveryRecord{}
	for _, r := range s.recovered {
		if r.RecoveredBy.Email == email {
			items = append(items, r)
		}
	}
	return c.JSON(http.StatusOK, response{"items": items})
}

func (s *Server) recoverItem(c echo.Context) error {
	var rec domain.RecoveryRecord
	if err := json.NewDecoder(c.Request().Body).Decode(&rec); err != nil {
		return reject(c, http.StatusBadRequest, "invalid recovery")
	}
	if rec.RecoveredBy.Email != sessionEmail(c) {
		return reject(c, http.StatusForbidden, "forbidden access")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(rec.PostID)
	if i < 0 {
		return reject(c, http.StatusNotFound, "Post not found")
	}
	if s.posts[i].IsRecovered() {
		return reject(c, http.StatusConflict, "This item has already been recovered")
	}
	rec.ID = uuid.NewString()
	s.posts[i].Status = domain.StatusRecovered
	s.recovered = append(s.recovered, rec)
	return c.JSON(http.StatusOK, response{"success": true})
}

// Seed appends listings in order, assigning ids to those without one.
func (s *Server) Seed(posts ...domain.Listing) []domain.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range posts {
		if posts[i].ID == "" {
			posts[i].ID = uuid.NewString()
		}
	}
	s.posts = append(s.posts, posts...)
	return posts
}

// SeedN seeds n listings owned by email, alternating Lost and Found.
func (s *Server) SeedN(n int, email string) []domain.Listing {
	posts := make([]domain.Listing, n)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := range posts {
		kind := domain.PostTypeLost
		if i%2 == 1 {
			kind = domain.PostTypeFound
		}
		posts[i] = domain.Listing{
			ID:          fmt.Sprintf("post-%02d", i+1),
			PostType:    kind,
			Thumbnail:   fmt.Sprintf("https://img.example.com/%d.png", i+1),
			Title:       fmt.Sprintf("Item %d", i+1),
			Description: "Seeded listing",
			Category:    domain.Categories[i%len(domain.Categories)],
			Location:    "Main library",
			Date:        base.AddDate(0, 0, i),
			Name:        "Seed Owner",
			Email:       email,
		}
	}
	return s.Seed(posts...)
}

// Post returns the stored listing with id.
func (s *Server) Post(id string) (domain.Listing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(id)
	if i < 0 {
		return domain.Listing{}, false
	}
	return s.posts[i], true
}

// Recovered returns every stored recovery record.
func (s *Server) Recovered() []domain.RecoveryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.recovered)
}

// FailNext makes the next request to route ("GET /posts",
// "PATCH /update-post/:id", ...) answer status with message.
func (s *Server) FailNext(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = append(s.failures[route], failure{status: status, message: message})
}

// ExpireSessions drops every backend session, so secure routes answer 401.
func (s *Server) ExpireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.sessions)
}

// Requests returns how many requests reached route.
func (s *Server) Requests(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[route]
}

// Logins returns how many POST /login calls succeeded.
func (s *Server) Logins() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logins
}

// Logouts returns how many POST /logout calls were served.
func (s *Server) Logouts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logouts
}

// Hold parks GET /posts requests for one page until released.
type Hold struct {
	arrived     chan struct{}
	release     chan struct{}
	arriveOnce  sync.Once
	releaseOnce sync.Once
}

func (h *Hold) arrive() {
	h.arriveOnce.Do(func() { close(h.arrived) })
}

// Arrived is closed once a request for the held page is parked.
func (h *Hold) Arrived() <-chan struct{} {
	return h.arrived
}

// Release lets parked and future requests for the page through.
func (h *Hold) Release() {
	h.releaseOnce.Do(func() { close(h.release) })
}

// HoldPage parks GET /posts?page=page until the returned hold is released.
func (s *Server) HoldPage(page int) *Hold {
	h := &Hold{arrived: make(chan struct{}), release: make(chan struct{})}
	s.mu.Lock()
	s.holds[page] = h
	s.mu.Unlock()
	return h
}
