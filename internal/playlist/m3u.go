// SPDX-License-Identifier: MIT

// Package playlist renders the today playlist.
package playlist

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ManuGH/matchcast/internal/fixtures"
	"github.com/ManuGH/matchcast/internal/streams"
)

// Item is one playlist entry.
type Item struct {
	Name    string
	TvgID   string
	TvgChNo int
	TvgLogo string
	Group   string
	URL     string
}

// Build lists the fixtures that have a candidate, by kickoff then slug.
func Build(list []fixtures.Fixture, candidates map[string]streams.Candidate) []Item {
	sorted := make([]fixtures.Fixture, 0, len(list))
	for _, f := range list {
		if _, ok := candidates[f.Slug]; ok {
			sorted = append(sorted, f)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].StartsAt.Equal(sorted[j].StartsAt) {
			return sorted[i].StartsAt.Before(sorted[j].StartsAt)
		}
		return sorted[i].Slug < sorted[j].Slug
	})

	items := make([]Item, 0, len(sorted))
	for i, f := range sorted {
		c := candidates[f.Slug]
		logo := c.Icon
		if logo == "" {
			logo = f.Competition.LogoURL
		}
		items = append(items, Item{
			Name:    fmt.Sprintf("%s vs %s (%s UTC)", f.Home.En, f.Away.En, f.StartsAt.UTC().Format("15:04")),
			TvgID:   f.Slug,
			TvgChNo: i + 1,
			TvgLogo: logo,
			Group:   f.Competition.En,
			URL:     c.PlaybackURL,
		})
	}
	return items
}

var attrEscaper = strings.NewReplacer(`"`, "'", "\n", " ", "\r", " ")

// WriteM3U renders items as an extended M3U playlist.
func WriteM3U(w io.Writer, items []Item) error {
	buf := &bytes.Buffer{}
	buf.WriteString("#EXTM3U\n")
	for _, it := range items {
		fmt.Fprintf(buf,
			`#EXTINF:-1 tvg-chno="%d" tvg-id="%s" tvg-logo="%s" group-title="%s",%s`+"\n",
			it.TvgChNo, attrEscaper.Replace(it.TvgID), attrEscaper.Replace(it.TvgLogo),
			attrEscaper.Replace(it.Group), attrEscaper.Replace(it.Name),
		)
		buf.WriteString(it.URL + "\n")
	}
	_, err := io.Copy(w, buf)
	return err
}
