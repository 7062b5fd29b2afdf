package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the fixed-width UTC layout used for every stored
// timestamp. Lexicographic order of formatted values equals time order.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// Timestamp is a UTC time truncated to microseconds and stored as text.
type Timestamp time.Time

// NewTimestamp converts t to a Timestamp.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t.UTC().Truncate(time.Microsecond))
}

// ParseTimestamp parses a stored timestamp. Catalog rows written by other
// tools may use plain RFC 3339, which is accepted as well.
func ParseTimestamp(value string) (Timestamp, error) {
	for _, layout := range []string{TimestampLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, value); err == nil {
			return NewTimestamp(t), nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp: %q", value)
}

// Time returns the timestamp as a time.Time.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero reports whether the timestamp is unset.
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// Before reports whether t is earlier than u.
func (t Timestamp) Before(u Timestamp) bool {
	return time.Time(t).Before(time.Time(u))
}

// String formats the timestamp with TimestampLayout.
func (t Timestamp) String() string {
	return time.Time(t).UTC().Format(TimestampLayout)
}

// Value implements driver.Valuer.
func (t Timestamp) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan implements sql.Scanner.
func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = Timestamp{}
		return nil
	case string:
		parsed, err := ParseTimestamp(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		return t.Scan(string(v))
	case time.Time:
		*t = NewTimestamp(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", src)
	}
}

// MarshalJSON encodes the timestamp as a TimestampLayout string.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a timestamp string. Null and empty values are ignored.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var value string
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	if value == "" {
		return nil
	}
	parsed, err := ParseTimestamp(value)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
