package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/bookkeeper/internal/client/models"
	"github.com/dmitrijs2005/bookkeeper/internal/common"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client for the API at baseURL, e.g.
// "http://127.0.0.1:8080".
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func bookPath(f models.Family, id string) string {
	if id == "" {
		return "/" + string(f)
	}
	return "/" + string(f) + "/" + url.PathEscape(id)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", "", nil, nil)
}

type credentials struct {
	UserName string `json:"username"`
	Password string `json:"password"`
}

func (c *HTTPClient) Register(ctx context.Context, username string, password []byte) (*models.Session, error) {
	s := &models.Session{}
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", credentials{username, string(password)}, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *HTTPClient) Login(ctx context.Context, username string, password []byte) (*models.Session, error) {
	s := &models.Session{}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", credentials{username, string(password)}, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*models.User, error) {
	u := &models.User{}
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (c *HTTPClient) CreateBook(ctx context.Context, token string, f models.Family, in models.BookInput) (*models.Book, error) {
	b := &models.Book{}
	if err := c.do(ctx, http.MethodPost, bookPath(f, ""), token, in, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ListBooks lists the caller's books of family f. For profile books, mine
// false lists the whole shared catalog.
func (c *HTTPClient) ListBooks(ctx context.Context, token string, f models.Family, mine bool) (*models.BookList, error) {
	path := bookPath(f, "")
	if mine && f == models.FamilyProfileBooks {
		path += "/mine"
	}
	l := &models.BookList{}
	if err := c.do(ctx, http.MethodGet, path, token, nil, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (c *HTTPClient) GetBook(ctx context.Context, token string, f models.Family, id string) (*models.Book, error) {
	b := &models.Book{}
	if err := c.do(ctx, http.MethodGet, bookPath(f, id), token, nil, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (c *HTTPClient) UpdateBook(ctx context.Context, token string, f models.Family, id string, in models.BookInput) error {
	return c.do(ctx, http.MethodPut, bookPath(f, id), token, in, nil)
}

func (c *HTTPClient) DeleteBook(ctx context.Context, token string, f models.Family, id string) error {
	return c.do(ctx, http.MethodDelete, bookPath(f, id), token, nil, nil)
}

func (c *HTTPClient) CoverUploadURL(ctx context.Context, token string, f models.Family, id string) (*models.CoverURL, error) {
	u := &models.CoverURL{}
	if err := c.do(ctx, http.MethodPost, bookPath(f, id)+"/cover", token, nil, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (c *HTTPClient) CoverDownloadURL(ctx context.Context, token string, f models.Family, id string) (*models.CoverURL, error) {
	u := &models.CoverURL{}
	if err := c.do(ctx, http.MethodGet, bookPath(f, id)+"/cover", token, nil, u); err != nil {
		return nil, err
	}
	return u, nil
}
