// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys shared by every span.
const (
	ProviderKey      = "fixtures.provider"
	FixtureDateKey   = "fixtures.date"
	FixtureCountKey  = "fixtures.count"
	ChannelSourceKey = "channels.source"
	ChannelCountKey  = "channels.count"
	CandidateKey     = "streams.candidates"
	JobTypeKey       = "job.type"
	JobStatusKey     = "job.status"
	ErrorTypeKey     = "error.type"
)

// FixtureAttributes describes one fixture resolution.
func FixtureAttributes(provider, date string, count int) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if provider != "" {
		attrs = append(attrs, attribute.String(ProviderKey, provider))
	}
	return append(attrs,
		attribute.String(FixtureDateKey, date),
		attribute.Int(FixtureCountKey, count),
	)
}

// ChannelAttributes describes a channel directory read.
func ChannelAttributes(source string, count int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(ChannelSourceKey, source),
		attribute.Int(ChannelCountKey, count),
	}
}

// JobAttributes describes a job run.
func JobAttributes(jobType, status string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(JobTypeKey, jobType),
		attribute.String(JobStatusKey, status),
	}
}

// RecordError marks span failed with a classified error type.
func RecordError(span trace.Span, err error, errorType string) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, errorType)
	span.SetAttributes(attribute.String(ErrorTypeKey, errorType))
}
