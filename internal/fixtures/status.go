// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package fixtures

import "strings"

// Provider status values used by the fixture model.
const (
	StatusTimed     = "TIMED"
	StatusScheduled = "SCHEDULED"
	StatusInPlay    = "IN_PLAY"
	StatusLive      = "LIVE"
	StatusFinished  = "FINISHED"
	StatusPostponed = "POSTPONED"
)

// StoredStatus is the coarse status kept in the fixture store.
type StoredStatus string

const (
	StoredScheduled StoredStatus = "SCHEDULED"
	StoredLive      StoredStatus = "LIVE"
	StoredFinished  StoredStatus = "FINISHED"
	StoredPostponed StoredStatus = "POSTPONED"
)

func oneOf(s string, set ...string) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}

// NormalizeAPIFootballStatus maps API-Football short/long status codes onto
// the football-data.org vocabulary.
func NormalizeAPIFootballStatus(short, long string) string {
	s := strings.ToUpper(short)
	switch {
	case oneOf(s, "NS", "TBD"):
		return StatusTimed
	case oneOf(s, "1H", "HT", "2H", "ET", "BT", "P", "LIVE"):
		return StatusInPlay
	case oneOf(s, "FT", "AET", "PEN"):
		return StatusFinished
	case oneOf(s, "PST", "CANC", "ABD", "AWD", "WO", "SUSP", "INT"):
		return StatusPostponed
	}
	switch {
	case long != "":
		return strings.ToUpper(long)
	case short != "":
		return strings.ToUpper(short)
	default:
		return StatusTimed
	}
}

// ToStoredStatus folds any provider status into a StoredStatus.
func ToStoredStatus(status string) StoredStatus {
	s := strings.ToUpper(status)
	switch {
	case oneOf(s, "LIVE", "IN_PLAY", "PAUSED", "HT", "1H", "2H", "ET", "P"):
		return StoredLive
	case oneOf(s, "FINISHED", "FT", "AET", "PEN"):
		return StoredFinished
	case oneOf(s, "POSTPONED", "SUSPENDED", "CANCELLED", "PST", "CANC", "SUSP", "ABD", "AWD", "WO", "INT"):
		return StoredPostponed
	default:
		return StoredScheduled
	}
}

// StatusLabel returns the display label of a status for locale ("ar" or
// anything else for English).
func StatusLabel(status, locale string) string {
	s := strings.ToUpper(status)
	if locale != "ar" {
		switch s {
		case StatusTimed:
			return StatusScheduled
		case StatusInPlay:
			return StatusLive
		}
		return s
	}
	switch s {
	case StatusScheduled, StatusTimed:
		return "لم تبدأ بعد"
	case StatusLive, StatusInPlay:
		return "مباشر"
	case StatusFinished:
		return "انتهت"
	case StatusPostponed, "SUSPENDED", "CANCELLED":
		return "مؤجلة"
	}
	return status
}
