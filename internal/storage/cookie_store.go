package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// NewCookieJar creates a cookie jar that honours the public suffix list
func NewCookieJar() (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return jar, nil
}

// CookieStore reads and writes cookies the backend at baseURL would see.
//
// It shares the jar with the HTTP client, so cookies set by the backend are visible here.
type CookieStore struct {
	jar http.CookieJar
	url *url.URL
}

// NewCookieStore creates a cookie store scoped to baseURL.
//
// Reads see cookies set for the origin root or for the base URL path (e.g. "/api").
// Cookies written by the store use path "/".
func NewCookieStore(jar http.CookieJar, baseURL string) (*CookieStore, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cookie url: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("cookie url %q has no host", baseURL)
	}
	basePath := strings.TrimRight(u.Path, "/")
	if basePath == "" {
		basePath = "/"
	}
	return &CookieStore{
		jar: jar,
		url: &url.URL{Scheme: u.Scheme, Host: u.Host, Path: basePath},
	}, nil
}

// Get returns the value of the cookie named key
func (s *CookieStore) Get(ctx context.Context, key string) (string, bool, error) {
	for _, c := range s.jar.Cookies(s.url) {
		if c.Name == key {
			return c.Value, true, nil
		}
	}
	return "", false, nil
}

// Set stores a session cookie named key
func (s *CookieStore) Set(ctx context.Context, key, value string) error {
	s.jar.SetCookies(s.url, []*http.Cookie{{
		Name:  key,
		Value: value,
		Path:  "/",
	}})
	return nil
}

// Delete expires the cookie named key at the origin root and at the base URL path
func (s *CookieStore) Delete(ctx context.Context, key string) error {
	paths := []string{"/"}
	if s.url.Path != "/" {
		paths = append(paths, s.url.Path)
	}
	for _, p := range paths {
		s.jar.SetCookies(s.url, []*http.Cookie{{
			Name:   key,
			Value:  "",
			Path:   p,
			MaxAge: -1,
		}})
	}
	return nil
}
