package escrowd

import (
	"encoding/json"
	"time"

	"github.com/iov-one/escrowd/errors"
)

// UnixTime is a second precision timestamp. Escrow records store their
// creation time in this form so the serialized value stays a plain integer.
type UnixTime int64

// AsUnixTime drops the sub-second part of t.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

// Time returns the UTC time.Time of t.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

func (t UnixTime) String() string {
	return t.Time().String()
}

// Validate rejects moments before the epoch.
func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrInvalidState, "negative value")
	}
	return nil
}

// UnmarshalJSON accepts either a number of seconds or an RFC 3339 string.
// Genesis files are easier to write with the latter.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var seconds int64
	if err := json.Unmarshal(raw, &seconds); err != nil {
		var stdtime time.Time
		if err := json.Unmarshal(raw, &stdtime); err != nil {
			return errors.Wrap(errors.ErrInput, "invalid time format")
		}
		seconds = stdtime.Unix()
	}
	if seconds < 0 {
		return errors.Wrap(errors.ErrInput, "time before epoch")
	}
	*t = UnixTime(seconds)
	return nil
}
