// Package appurl resolves App Store links and deep links to catalog ids.
package appurl

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/cristianoliveira/appwish/internal/domain"
)

// Scheme is the custom deep-link scheme, as in appwish://app/<id>.
const Scheme = "appwish"

var (
	pathID    = regexp.MustCompile(`/id(\d+)(?:[/?#]|$)`)
	numericID = regexp.MustCompile(`^\d+$`)
	storeHost = map[string]bool{
		"apps.apple.com":   true,
		"itunes.apple.com": true,
	}
)

// Resolve extracts the catalog id from raw. Accepted forms:
//
//	https://apps.apple.com/us/app/some-name/id123456789
//	https://itunes.apple.com/app/id123456789?mt=8
//	https://apps.apple.com/app?id=123456789
//	123456789
//	appwish://app/123456789
//	appwish://add?id=123456789
func Resolve(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: empty input", domain.ErrInvalidURL)
	}
	if numericID.MatchString(s) {
		return parseID(s, raw)
	}
	if !strings.Contains(s, "://") && storeHost[strings.SplitN(strings.ToLower(s), "/", 2)[0]] {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", domain.ErrInvalidURL, raw, err)
	}
	switch strings.ToLower(u.Scheme) {
	case Scheme:
		return resolveDeepLink(u, raw)
	case "http", "https", "itms-apps", "itms":
		host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
		if !storeHost[host] {
			return 0, fmt.Errorf("%w: %q is not an App Store host", domain.ErrInvalidURL, u.Host)
		}
		if m := pathID.FindStringSubmatch(u.EscapedPath()); m != nil {
			return parseID(m[1], raw)
		}
		if id := u.Query().Get("id"); id != "" {
			return parseID(id, raw)
		}
	}
	return 0, fmt.Errorf("%w: no app id in %q", domain.ErrInvalidURL, raw)
}

func resolveDeepLink(u *url.URL, raw string) (int64, error) {
	switch u.Host {
	case "app":
		return parseID(strings.Trim(u.Path, "/"), raw)
	case "add":
		return parseID(u.Query().Get("id"), raw)
	}
	return 0, fmt.Errorf("%w: unsupported deep link %q", domain.ErrInvalidURL, raw)
}

func parseID(s, raw string) (int64, error) {
	if !numericID.MatchString(s) {
		return 0, fmt.Errorf("%w: no app id in %q", domain.ErrInvalidURL, raw)
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: app id out of range in %q", domain.ErrInvalidURL, raw)
	}
	return id, nil
}

// DeepLink returns the appwish:// link for an id.
func DeepLink(id int64) string {
	return fmt.Sprintf("%s://app/%d", Scheme, id)
}
