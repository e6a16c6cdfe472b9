// SPDX-License-Identifier: MIT

// Package metrics exposes the Prometheus series of the matching pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Channel directory
	channelFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchcast_channel_fetch_total",
		Help: "Channel directory upstream fetches by source kind and outcome",
	}, []string{"source", "outcome"}) // outcome=success|failure

	channelCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchcast_channel_cache_total",
		Help: "Channel directory lookups by result",
	}, []string{"result"}) // result=hit|miss

	channelsLast = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "matchcast_channels",
		Help: "Number of channels returned by the last upstream fetch",
	}, []string{"source"})

	// Matching
	streamMatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchcast_stream_match_total",
		Help: "Stream lookups by outcome",
	}, []string{"outcome"}) // outcome=matched|below_threshold|no_channels|disabled|unplayable

	streamMatchScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "matchcast_stream_match_score",
		Help:    "Best channel score per stream lookup",
		Buckets: []float64{0, 1, 2, 4, 5, 6, 7, 8, 10, 14, 15},
	})

	// Fixture providers
	providerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchcast_provider_requests_total",
		Help: "Fixture provider requests by provider and outcome",
	}, []string{"provider", "outcome"}) // outcome=success|failure

	providerRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "matchcast_provider_request_duration_seconds",
		Help:    "Fixture provider request latency",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 12},
	}, []string{"provider"})

	fixturesToday = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "matchcast_fixtures_today",
		Help: "Number of fixtures served for today (last resolution)",
	})

	fixturesResolvedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchcast_fixtures_resolved_total",
		Help: "Today fixture resolutions by source",
	}, []string{"source"}) // source=cache|rapidapi|football-data|stale|empty

	fixtureSyncTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchcast_fixture_sync_total",
		Help: "Fixture persistence writes by outcome",
	}, []string{"outcome"}) // outcome=success|failure|skipped

	bulkSyncFixtures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchcast_bulk_sync_fixtures_total",
		Help: "Fixtures written by the bulk sync by result",
	}, []string{"result"}) // result=created|updated

	// Transliteration
	translitEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "matchcast_translit_entries",
		Help: "Number of transliteration overrides loaded from file",
	})

	translitReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchcast_translit_reloads_total",
		Help: "Transliteration file reloads by outcome",
	}, []string{"outcome"})

	// Refresh loop
	refreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "matchcast_refresh_duration_seconds",
		Help:    "Duration of a background refresh run",
		Buckets: prometheus.DefBuckets,
	})

	refreshFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchcast_refresh_failures_total",
		Help: "Total number of refresh failures by stage",
	}, []string{"stage"}) // stage=fixtures|channels|playlist

	lastRefreshTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "matchcast_last_refresh_timestamp_seconds",
		Help: "Unix time of the last completed refresh",
	})

	breakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "matchcast_circuit_breaker_state",
		Help: "Circuit breaker state per upstream (0=closed, 1=half-open, 2=open)",
	}, []string{"name"})

	breakerTripsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchcast_circuit_breaker_trips_total",
		Help: "Circuit breaker transitions to open",
	}, []string{"name", "reason"})

	playlistEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "matchcast_playlist_entries",
		Help: "Number of entries in the last written today playlist",
	})
)

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// RecordChannelFetch records one upstream channel fetch.
func RecordChannelFetch(source string, count int, err error) {
	channelFetchTotal.WithLabelValues(source, outcome(err)).Inc()
	channelsLast.WithLabelValues(source).Set(float64(count))
}

// IncChannelCache records a directory lookup; hit=false means an upstream fetch.
func IncChannelCache(hit bool) {
	if hit {
		channelCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	channelCacheTotal.WithLabelValues("miss").Inc()
}

// RecordStreamMatch records a lookup outcome and, when scored, the best score.
func RecordStreamMatch(outcome string, score int, scored bool) {
	streamMatchTotal.WithLabelValues(outcome).Inc()
	if scored {
		streamMatchScore.Observe(float64(score))
	}
}

// RecordProviderRequest records one fixture provider call.
func RecordProviderRequest(provider string, d time.Duration, err error) {
	providerRequestsTotal.WithLabelValues(provider, outcome(err)).Inc()
	providerRequestDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// RecordFixturesResolved records where today's fixtures came from.
func RecordFixturesResolved(source string, n int) {
	fixturesResolvedTotal.WithLabelValues(source).Inc()
	fixturesToday.Set(float64(n))
}

// IncFixtureSync records a persistence write outcome.
func IncFixtureSync(outcome string) { fixtureSyncTotal.WithLabelValues(outcome).Inc() }

// RecordBulkSync records the result of a bulk sync run.
func RecordBulkSync(created, updated int) {
	bulkSyncFixtures.WithLabelValues("created").Add(float64(created))
	bulkSyncFixtures.WithLabelValues("updated").Add(float64(updated))
}

// RecordTranslitReload records a transliteration file (re)load.
func RecordTranslitReload(entries int, err error) {
	translitReloadsTotal.WithLabelValues(outcome(err)).Inc()
	if err == nil {
		translitEntries.Set(float64(entries))
	}
}

// RecordRefresh records a completed refresh run.
func RecordRefresh(d time.Duration, at time.Time) {
	refreshDuration.Observe(d.Seconds())
	lastRefreshTimestamp.Set(float64(at.Unix()))
}

// IncRefreshFailure records a failed refresh stage.
func IncRefreshFailure(stage string) { refreshFailuresTotal.WithLabelValues(stage).Inc() }

// RecordPlaylistEntries records the size of the last written playlist.
func RecordPlaylistEntries(n int) { playlistEntries.Set(float64(n)) }

// SetCircuitBreakerState publishes a breaker state.
func SetCircuitBreakerState(name, state string) {
	v := 0.0
	switch state {
	case "half-open":
		v = 1
	case "open":
		v = 2
	}
	breakerState.WithLabelValues(name).Set(v)
}

// RecordCircuitBreakerTrip records a breaker opening.
func RecordCircuitBreakerTrip(name, reason string) {
	breakerTripsTotal.WithLabelValues(name, reason).Inc()
}
