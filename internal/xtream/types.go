// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package xtream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// StreamID is a live stream identifier. Panels disagree on whether it is a
// JSON number or a numeric string; both decode, anything else yields 0.
type StreamID int64

// UnmarshalJSON implements json.Unmarshaler.
func (id *StreamID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			*id = 0
			return nil
		}
		*id = StreamID(n)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("stream_id: %w", err)
	}
	i, err := n.Int64()
	if err != nil {
		f, ferr := n.Float64()
		if ferr != nil {
			return fmt.Errorf("stream_id: %w", err)
		}
		i = int64(f)
	}
	*id = StreamID(i)
	return nil
}

// LiveStream is one entry of the get_live_streams action.
type LiveStream struct {
	StreamID     StreamID `json:"stream_id"`
	Name         string   `json:"name"`
	StreamIcon   string   `json:"stream_icon"`
	EPGChannelID string   `json:"epg_channel_id"`
	CategoryID   string   `json:"category_id"`
}

// UnmarshalJSON tolerates null and numeric category ids.
func (s *LiveStream) UnmarshalJSON(b []byte) error {
	var raw struct {
		StreamID     StreamID        `json:"stream_id"`
		Name         *string         `json:"name"`
		StreamIcon   *string         `json:"stream_icon"`
		EPGChannelID *string         `json:"epg_channel_id"`
		CategoryID   json.RawMessage `json:"category_id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = LiveStream{StreamID: raw.StreamID}
	if raw.Name != nil {
		s.Name = *raw.Name
	}
	if raw.StreamIcon != nil {
		s.StreamIcon = *raw.StreamIcon
	}
	if raw.EPGChannelID != nil {
		s.EPGChannelID = *raw.EPGChannelID
	}
	if len(raw.CategoryID) > 0 && !bytes.Equal(raw.CategoryID, []byte("null")) {
		s.CategoryID = string(bytes.Trim(raw.CategoryID, `"`))
	}
	return nil
}
