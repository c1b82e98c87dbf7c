// Package sendapi talks to the owner-token endpoints of a Send server and
// parses the share URLs it hands out.
package sendapi

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

var fileIDPattern = regexp.MustCompile(`^[0-9A-Za-z]+$`)

// ShareURL is a parsed share link of the form
// <host>/download/<id>/#<secret>.
type ShareURL struct {
	Host   *url.URL // scheme and host, no path
	ID     string
	Secret string // key material in the fragment; empty when stripped
}

// ParseShareURL parses a share link. A link without a file ID is rejected.
func ParseShareURL(raw string) (*ShareURL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty share URL")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid share URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid share URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid share URL %q: missing host", raw)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[len(segments)-2] != "download" {
		return nil, fmt.Errorf("invalid share URL %q: expected /download/<id>/", raw)
	}
	id := segments[len(segments)-1]
	if !fileIDPattern.MatchString(id) {
		return nil, fmt.Errorf("invalid share URL %q: bad file ID %q", raw, id)
	}

	base := strings.Join(segments[:len(segments)-2], "/")
	host := &url.URL{Scheme: u.Scheme, Host: u.Host}
	if base != "" {
		host.Path = "/" + base
	}

	return &ShareURL{
		Host:   host,
		ID:     id,
		Secret: u.Fragment,
	}, nil
}

// String returns the full share link including the secret.
func (s *ShareURL) String() string {
	u := s.downloadURL()
	u.Fragment = s.Secret
	return u.String()
}

// WithoutSecret returns the share link with the secret fragment removed.
func (s *ShareURL) WithoutSecret() string {
	return s.downloadURL().String()
}

func (s *ShareURL) downloadURL() *url.URL {
	u := *s.Host
	u.Path = path.Join("/", s.Host.Path, "download", s.ID) + "/"
	return &u
}

// apiURL returns the endpoint for action on this file, e.g. /api/info/<id>.
func (s *ShareURL) apiURL(action string) string {
	u := *s.Host
	u.Path = path.Join("/", s.Host.Path, "api", action, s.ID)
	return u.String()
}
