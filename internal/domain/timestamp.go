package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// localDateTimeLayouts are the zone-less forms the backend emits for its timestamps.
var localDateTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Timestamp decodes the date-time shapes a Jackson backend may emit: RFC 3339,
// zone-less ISO-8601 (with a T or a space), a [y,m,d,h,m,s,nanos] array and
// epoch milliseconds. Zone-less values are read as UTC. Anything else decodes
// to the zero time so a result or error body never fails on its timestamp.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time = parseTimestamp(bytes.TrimSpace(data))
	return nil
}

func parseTimestamp(data []byte) time.Time {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return time.Time{}
	}
	switch data[0] {
	case '"':
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return time.Time{}
		}
		return parseTimestampString(raw)
	case '[':
		var parts []int
		if err := json.Unmarshal(data, &parts); err != nil || len(parts) < 3 {
			return time.Time{}
		}
		fields := make([]int, 7)
		copy(fields, parts)
		return time.Date(fields[0], time.Month(fields[1]), fields[2], fields[3], fields[4], fields[5], fields[6], time.UTC)
	default:
		var millis int64
		if err := json.Unmarshal(data, &millis); err != nil {
			return time.Time{}
		}
		return time.UnixMilli(millis).UTC()
	}
}

func parseTimestampString(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return parsed
	}
	for _, layout := range localDateTimeLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
