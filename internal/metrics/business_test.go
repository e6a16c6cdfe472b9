// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordChannelFetch(t *testing.T) {
	before := testutil.ToFloat64(channelFetchTotal.WithLabelValues("xtream", "failure"))
	RecordChannelFetch("xtream", 0, errors.New("boom"))
	if got := testutil.ToFloat64(channelFetchTotal.WithLabelValues("xtream", "failure")); got != before+1 {
		t.Fatalf("failure counter = %v, want %v", got, before+1)
	}

	RecordChannelFetch("xtream", 42, nil)
	if got := testutil.ToFloat64(channelsLast.WithLabelValues("xtream")); got != 42 {
		t.Fatalf("channels gauge = %v, want 42", got)
	}
}

func TestIncChannelCache(t *testing.T) {
	hits := testutil.ToFloat64(channelCacheTotal.WithLabelValues("hit"))
	misses := testutil.ToFloat64(channelCacheTotal.WithLabelValues("miss"))
	IncChannelCache(true)
	IncChannelCache(false)
	IncChannelCache(false)
	if got := testutil.ToFloat64(channelCacheTotal.WithLabelValues("hit")); got != hits+1 {
		t.Errorf("hits = %v, want %v", got, hits+1)
	}
	if got := testutil.ToFloat64(channelCacheTotal.WithLabelValues("miss")); got != misses+2 {
		t.Errorf("misses = %v, want %v", got, misses+2)
	}
}

func TestRecordFixturesResolved(t *testing.T) {
	RecordFixturesResolved("stale", 3)
	if got := testutil.ToFloat64(fixturesToday); got != 3 {
		t.Fatalf("fixtures gauge = %v, want 3", got)
	}
}

func TestRecordTranslitReloadKeepsGaugeOnError(t *testing.T) {
	RecordTranslitReload(12, nil)
	RecordTranslitReload(0, errors.New("parse"))
	if got := testutil.ToFloat64(translitEntries); got != 12 {
		t.Fatalf("entries gauge = %v, want 12", got)
	}
}

func TestPromhttpExposure(t *testing.T) {
	RecordRefresh(1500*time.Millisecond, time.Unix(1700000000, 0))
	RecordStreamMatch("matched", 15, true)
	RecordProviderRequest("rapidapi", 200*time.Millisecond, nil)

	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	for _, name := range []string{
		"matchcast_last_refresh_timestamp_seconds 1.7e+09",
		"matchcast_stream_match_total{outcome=\"matched\"}",
		"matchcast_provider_request_duration_seconds_bucket",
	} {
		if !strings.Contains(body, name) {
			t.Errorf("metrics output missing %q", name)
		}
	}
}
