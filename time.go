package vault

import (
	"encoding/json"
	"math"
	"time"

	"github.com/iov-one/vault/errors"
)

// UnixTime represents a point in time as POSIX time.
// Instead of using Go's time.Time that includes nanoseconds use primitive
// int64 type and seconds precision. All ledger timestamps (threshold reached,
// upgrade proposed) are stored using this type.
type UnixTime int64

// Time returns a time.Time structure that represents the same moment in time.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0)
}

// IsZero returns true if this time represents a zero value.
func (t UnixTime) IsZero() bool {
	return t == 0
}

// Add modifies this UNIX time by given duration. This is compatible with
// time.Time.Add method.
func (t UnixTime) Add(d time.Duration) UnixTime {
	return t + UnixTime(d/time.Second)
}

// AsUnixTime converts given Time structure into its UNIX time representation.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

// UnmarshalJSON supports unmarshaling both as time.Time and from a number.
// Usually a number is used as a representation of this time in JSON but it is
// convinient to use a string format in configurations (ie genesis file).
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var unix int64
	if err := json.Unmarshal(raw, &unix); err == nil {
		if unix < 0 {
			return errors.Wrap(errors.ErrInput, "time before epoch")
		}
		*t = UnixTime(unix)
		return nil
	}

	var stdtime time.Time
	if err := json.Unmarshal(raw, &stdtime); err == nil {
		unix := UnixTime(stdtime.Unix())
		if unix < 0 {
			return errors.Wrap(errors.ErrInput, "time before epoch")
		}
		*t = unix
		return nil
	}

	return errors.Wrap(errors.ErrInput, "invalid time format")
}

// Validate returns an error if this time value is invalid.
func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrState, "negative value")
	}
	return nil
}

// String returns the usual string representation of this time as the time.Time
// structure would.
func (t UnixTime) String() string {
	return t.Time().UTC().String()
}

// UnixDuration represents a time duration with a second precision. Timelock
// delays are configured using this type. A zero value disables the timelock.
type UnixDuration uint64

// AsUnixDuration converts given duration into its seconds representation,
// truncating any sub-second part.
func AsUnixDuration(d time.Duration) UnixDuration {
	if d < 0 {
		return 0
	}
	return UnixDuration(d / time.Second)
}

// Duration returns the standard library representation of this duration.
// Values that do not fit are capped.
func (d UnixDuration) Duration() time.Duration {
	if uint64(d) > uint64(math.MaxInt64/int64(time.Second)) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d) * time.Second
}

// Elapsed returns true if at least this duration has passed between since and
// now. It never overflows, even for durations close to the maximum value.
func (d UnixDuration) Elapsed(since, now UnixTime) bool {
	if now < since {
		return false
	}
	return uint64(now-since) >= uint64(d)
}

// UnmarshalJSON accepts both a number of seconds and a string duration
// representation as understood by time.ParseDuration, for example "1h".
func (d *UnixDuration) UnmarshalJSON(raw []byte) error {
	var secs uint64
	if err := json.Unmarshal(raw, &secs); err == nil {
		*d = UnixDuration(secs)
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "invalid duration format")
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "invalid duration: %s", err)
	}
	if dur < 0 {
		return errors.Wrap(errors.ErrInput, "negative duration")
	}
	*d = AsUnixDuration(dur)
	return nil
}

// String returns a human readable representation of this duration.
func (d UnixDuration) String() string {
	return d.Duration().String()
}
