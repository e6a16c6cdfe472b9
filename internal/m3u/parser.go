// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package m3u

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// UnknownName is used when neither tags nor the EXTINF tail carry a name.
const UnknownName = "Unknown Channel"

// Channel represents a single playable entry from an M3U playlist
type Channel struct {
	Name  string `json:"name"`
	TvgID string `json:"tvg_id,omitempty"`
	Logo  string `json:"logo,omitempty"`
	Group string `json:"group,omitempty"`
	URL   string `json:"url"`
}

var (
	reTvgName    = regexp.MustCompile(`(?i)tvg-name="([^"]*)"`)
	reTvgID      = regexp.MustCompile(`(?i)tvg-id="([^"]*)"`)
	reTvgLogo    = regexp.MustCompile(`(?i)tvg-logo="([^"]*)"`)
	reGroupTitle = regexp.MustCompile(`(?i)group-title="([^"]*)"`)
	reResolution = regexp.MustCompile(`(?i)RESOLUTION=([^,]+)`)
	reBandwidth  = regexp.MustCompile(`(?i)BANDWIDTH=([^,]+)`)
	reHTTP       = regexp.MustCompile(`(?i)^https?://`)
)

func attr(re *regexp.Regexp, line string) string {
	if m := re.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// parseExtInf extracts the entry metadata from an #EXTINF line.
// #EXTINF:-1 tvg-id="..." tvg-name="..." tvg-logo="..." group-title="...",Display Name
func parseExtInf(line string) Channel {
	tail := ""
	if idx := strings.Index(line, ","); idx != -1 {
		tail = strings.TrimSpace(line[idx+1:])
	}
	name := attr(reTvgName, line)
	if name == "" {
		name = tail
	}
	return Channel{
		Name:  name,
		TvgID: attr(reTvgID, line),
		Logo:  attr(reTvgLogo, line),
		Group: attr(reGroupTitle, line),
	}
}

func variantName(line string) string {
	if res := attr(reResolution, line); res != "" {
		return "HLS " + res
	}
	if bw := attr(reBandwidth, line); bw != "" {
		return "HLS " + bw
	}
	return "HLS Variant"
}

// Parse parses M3U content and returns the http(s) entries in playlist order.
// Both IPTV playlists (#EXTINF) and HLS master playlists (#EXT-X-STREAM-INF)
// are understood; other directives and non-http lines are skipped.
func Parse(content string) []Channel {
	channels := make([]Channel, 0)
	var pending *Channel
	variant := ""

	for _, line := range strings.Split(strings.ReplaceAll(content, "\r", ""), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "#EXTINF"):
			ch := parseExtInf(line)
			pending = &ch
			continue
		case strings.HasPrefix(line, "#EXT-X-STREAM-INF"):
			variant = variantName(line)
			continue
		case strings.HasPrefix(line, "#"):
			continue
		case !reHTTP.MatchString(line):
			continue
		}

		var ch Channel
		if pending != nil {
			ch = *pending
		}
		if ch.Name == "" {
			ch.Name = variant
		}
		if ch.Name == "" {
			ch.Name = UnknownName
		}
		ch.URL = line
		channels = append(channels, ch)

		pending = nil
		variant = ""
	}
	return channels
}

// maxPlaylistBytes bounds how much of a remote playlist is read.
const maxPlaylistBytes = 32 << 20

// Read parses a playlist from r.
func Read(r io.Reader) ([]Channel, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxPlaylistBytes))
	if err != nil {
		return nil, fmt.Errorf("read playlist: %w", err)
	}
	return Parse(string(data)), nil
}
