// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package m3u

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	content := "#EXTM3U\r\n" +
		`#EXTINF:-1 tvg-id="bein1" tvg-name=" beIN Sports 1 " tvg-logo="http://logo/b1.png" group-title="Sports",beIN 1 HD` + "\r\n" +
		"http://host/live/u/p/1.ts\r\n" +
		`#EXTINF:-1 group-title="News",CNN, International` + "\n" +
		"https://host/cnn.m3u8\n" +
		"#EXTINF:-1\n" +
		"http://host/anon.ts\n" +
		"#EXTINF:-1,Local File\n" +
		"file:///tmp/x.ts\n" +
		"rtmp://host/stream\n" +
		"#EXTVLCOPT:http-user-agent=foo\n" +
		"http://host/orphan.ts\n"

	want := []Channel{
		{Name: "beIN Sports 1", TvgID: "bein1", Logo: "http://logo/b1.png", Group: "Sports", URL: "http://host/live/u/p/1.ts"},
		{Name: "CNN, International", Group: "News", URL: "https://host/cnn.m3u8"},
		{Name: UnknownName, URL: "http://host/anon.ts"},
		// the pending EXTINF survives skipped non-http lines
		{Name: "Local File", URL: "http://host/orphan.ts"},
	}

	if diff := cmp.Diff(want, Parse(content)); diff != "" {
		t.Fatalf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseHLSVariants(t *testing.T) {
	content := strings.Join([]string{
		"#EXTM3U",
		"#EXT-X-STREAM-INF:BANDWIDTH=1280000,RESOLUTION=1280x720",
		"http://cdn/720.m3u8",
		"#EXT-X-STREAM-INF:BANDWIDTH=640000",
		"http://cdn/low.m3u8",
		"#EXT-X-STREAM-INF:PROGRAM-ID=1",
		"http://cdn/any.m3u8",
		"http://cdn/bare.m3u8",
	}, "\n")

	got := Parse(content)
	names := make([]string, len(got))
	for i, c := range got {
		names[i] = c.Name
	}
	want := []string{"HLS 1280x720", "HLS 640000", "HLS Variant", UnknownName}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEmpty(t *testing.T) {
	got := Parse("")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestRead(t *testing.T) {
	got, err := Read(strings.NewReader("#EXTM3U\n#EXTINF:-1,One\nhttp://a/1\n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != 1 || got[0].Name != "One" {
		t.Fatalf("unexpected channels: %#v", got)
	}
}
