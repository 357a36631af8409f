package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// FilmService is the film half of the REST contract. *Client implements it;
// tests substitute fakes.
type FilmService interface {
	ListFilms(ctx context.Context) ([]Film, error)
	CreateFilm(ctx context.Context, film Film) (Film, error)
	UpdateFilm(ctx context.Context, id int64, patch FilmPatch) (Film, error)
	DeleteFilm(ctx context.Context, id int64) error
}

// UserService is the user half of the REST contract.
type UserService interface {
	ListUsers(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, user User) (User, error)
	UpdateUser(ctx context.Context, id int64, patch UserPatch) (User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Ensure Client implements both services at compile time.
var (
	_ FilmService = (*Client)(nil)
	_ UserService = (*Client)(nil)
)

// Client talks to the catalog REST API.
type Client struct {
	baseURL     *url.URL
	http        *http.Client
	userAgent   string
	filmTimeout time.Duration
	limiter     *rate.Limiter
}

const (
	DefaultAPIURL      = "http://localhost:3000"
	DefaultFilmTimeout = 5 * time.Second

	defaultUserAgent = "marquee/0.1"
	requestIDHeader  = "X-Request-Id"
)

// Option customizes a Client.
type Option func(*Client)

// WithFilmTimeout bounds every film request. Zero or negative disables the bound.
func WithFilmTimeout(d time.Duration) Option {
	return func(c *Client) { c.filmTimeout = d }
}

// WithRateLimit caps outgoing requests per second. Zero disables the limiter.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client for the given API origin. User requests carry no
// timeout of their own; film requests are bounded by the film timeout.
func NewClient(apiURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:     base,
		http:        &http.Client{},
		userAgent:   defaultUserAgent,
		filmTimeout: DefaultFilmTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized API origin.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListFilms retrieves the whole film collection.
func (c *Client) ListFilms(ctx context.Context) ([]Film, error) {
	ctx, cancel := c.filmContext(ctx)
	defer cancel()
	var films []Film
	if err := c.do(ctx, http.MethodGet, "/films", nil, &films); err != nil {
		return nil, err
	}
	return films, nil
}

// CreateFilm posts a new film and returns the stored record with its id.
func (c *Client) CreateFilm(ctx context.Context, film Film) (Film, error) {
	ctx, cancel := c.filmContext(ctx)
	defer cancel()
	film.ID = 0
	var created Film
	if err := c.do(ctx, http.MethodPost, "/films", film, &created); err != nil {
		return Film{}, err
	}
	return created, nil
}

// UpdateFilm patches a film and returns the full updated record.
func (c *Client) UpdateFilm(ctx context.Context, id int64, patch FilmPatch) (Film, error) {
	ctx, cancel := c.filmContext(ctx)
	defer cancel()
	var updated Film
	if err := c.do(ctx, http.MethodPatch, filmPath(id), patch, &updated); err != nil {
		return Film{}, err
	}
	return updated, nil
}

// DeleteFilm removes a film. The response body is ignored.
func (c *Client) DeleteFilm(ctx context.Context, id int64) error {
	ctx, cancel := c.filmContext(ctx)
	defer cancel()
	return c.do(ctx, http.MethodDelete, filmPath(id), nil, nil)
}

// ListUsers retrieves the whole user collection.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser posts a new user and returns the stored record with its id.
func (c *Client) CreateUser(ctx context.Context, user User) (User, error) {
	user.ID = 0
	var created User
	if err := c.do(ctx, http.MethodPost, "/users", user, &created); err != nil {
		return User{}, err
	}
	return created, nil
}

// UpdateUser patches a user and returns the full updated record.
func (c *Client) UpdateUser(ctx context.Context, id int64, patch UserPatch) (User, error) {
	var updated User
	if err := c.do(ctx, http.MethodPatch, userPath(id), patch, &updated); err != nil {
		return User{}, err
	}
	return updated, nil
}

// DeleteUser removes a user. The response body is ignored.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, userPath(id), nil, nil)
}

func (c *Client) filmContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.filmTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.filmTimeout)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	op := method + " " + path
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return transportError(op, err)
		}
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		slog.Debug("catalog request failed", "op", op, "request_id", requestID, "error", err)
		return transportError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	slog.Debug("catalog request",
		"op", op,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &Error{Kind: KindHTTPStatus, Op: op, Status: resp.StatusCode}
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if ctx.Err() != nil {
			return transportError(op, ctx.Err())
		}
		return &Error{Kind: KindDecode, Op: op, Err: err}
	}
	return nil
}

func filmPath(id int64) string {
	return fmt.Sprintf("/films/%d", id)
}

func userPath(id int64) string {
	return fmt.Sprintf("/users/%d", id)
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = DefaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
