// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

import (
	"net/url"
	"strings"
)

var sensitiveQueryKeys = []string{"password", "username", "token", "key", "apikey", "api_key"}

// MaskURL removes user info and credential query parameters from a URL string
// so it can be logged. Xtream playback paths (/live/{user}/{pass}/...) are
// reduced to their stream segment.
func MaskURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url-redacted"
	}
	u.User = nil

	q := u.Query()
	changed := false
	for key := range q {
		lower := strings.ToLower(key)
		for _, s := range sensitiveQueryKeys {
			if lower == s {
				q.Set(key, "***")
				changed = true
			}
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}

	parts := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	if len(parts) == 4 && parts[0] == "live" {
		u.Path = "/live/***/***/" + parts[3]
		u.RawPath = ""
	}
	return u.String()
}
