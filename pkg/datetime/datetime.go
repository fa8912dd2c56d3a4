// Copyright 2018-2019 The logrange Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package datetime contains DateTime - an absolute point in time expressed
// as a signed number of 100ns ticks since midnight, January 1, 0001 of the
// proleptic Gregorian calendar.
//
// DateTime doesn't know anything about calendars or time zones. It gives
// access to the clock fields (hour, minute, ...) which are calculated from
// the ticks with truncating integer division and modulo, so for the time
// points before the epoch (negative ticks) the fields are zero or
// negative.
package datetime

import (
	"github.com/logrange/ticktime/pkg/timespan"
	"github.com/pkg/errors"
)

type (
	// DateTime struct defines a time point. The zero value is Epoch.
	DateTime struct {
		ticks int64
	}
)

const (
	EpochTicks = 0

	// MaxTicks is the last tick of the year 9999
	MaxTicks = (timespan.DaysPer400Years*25-366)*timespan.TicksPerDay - 1

	// MinTicks mirrors MaxTicks around the epoch
	MinTicks = -MaxTicks

	// Epoch1601Ticks is January 1, 1601 (Windows FILETIME epoch)
	Epoch1601Ticks = 4 * timespan.DaysPer400Years * timespan.TicksPerDay

	// Epoch1970Ticks is January 1, 1970 (Unix epoch)
	Epoch1970Ticks = Epoch1601Ticks + 11644473600*timespan.TicksPerSecond
)

var (
	Epoch     = DateTime{EpochTicks}
	Max       = DateTime{MaxTicks}
	Min       = DateTime{MinTicks}
	Epoch1601 = DateTime{Epoch1601Ticks}
	Epoch1970 = DateTime{Epoch1970Ticks}

	// ErrOutOfRange is returned when a time point is outside of [Min, Max]
	ErrOutOfRange = errors.New("datetime: out of range")

	// ErrOverflow is returned when ticks arithmetic overflows int64
	ErrOverflow = timespan.ErrOverflow
)

// New returns the DateTime for the ticks. The ticks are stored as is, no
// range check is performed, so the result can be outside of [Min, Max].
// Use NewChecked or IsValid when the range matters.
func New(ticks int64) DateTime {
	return DateTime{ticks}
}

// NewChecked returns the DateTime for the ticks or ErrOutOfRange if
// the ticks are outside of [MinTicks, MaxTicks]
func NewChecked(ticks int64) (DateTime, error) {
	dt := DateTime{ticks}
	if !dt.IsValid() {
		return Epoch, errors.Wrapf(ErrOutOfRange, "ticks=%d", ticks)
	}
	return dt, nil
}

// Ticks returns number of 100ns ticks since the epoch
func (dt DateTime) Ticks() int64 {
	return dt.ticks
}

// IsValid returns whether dt lies in [Min, Max]
func (dt DateTime) IsValid() bool {
	return dt.ticks >= MinTicks && dt.ticks <= MaxTicks
}

func (dt DateTime) Equals(other DateTime) bool {
	return dt.ticks == other.ticks
}

// Compare returns -1, 0 or 1 if dt is before, equal to or after other
func (dt DateTime) Compare(other DateTime) int {
	switch {
	case dt.ticks < other.ticks:
		return -1
	case dt.ticks > other.ticks:
		return 1
	}
	return 0
}

func (dt DateTime) Before(other DateTime) bool {
	return dt.ticks < other.ticks
}

func (dt DateTime) BeforeOrEqual(other DateTime) bool {
	return dt.ticks <= other.ticks
}

func (dt DateTime) After(other DateTime) bool {
	return dt.ticks > other.ticks
}

func (dt DateTime) AfterOrEqual(other DateTime) bool {
	return dt.ticks >= other.ticks
}

// Add returns dt + d. The ticks are added without any check, so the
// result wraps around when the int64 range is exceeded and it can leave
// [Min, Max] silently. AddChecked reports both conditions.
func (dt DateTime) Add(d timespan.TimeSpan) DateTime {
	return DateTime{dt.ticks + d.Ticks()}
}

// Sub returns dt - d with the same overflow behavior as Add
func (dt DateTime) Sub(d timespan.TimeSpan) DateTime {
	return DateTime{dt.ticks - d.Ticks()}
}

// SubTime returns the interval between dt and other, it is negative if
// dt is before other.
func (dt DateTime) SubTime(other DateTime) timespan.TimeSpan {
	return timespan.New(dt.ticks - other.ticks)
}

// AddAssign moves dt by d in place and returns the new value
func (dt *DateTime) AddAssign(d timespan.TimeSpan) DateTime {
	dt.ticks += d.Ticks()
	return *dt
}

// SubAssign moves dt back by d in place and returns the new value
func (dt *DateTime) SubAssign(d timespan.TimeSpan) DateTime {
	dt.ticks -= d.Ticks()
	return *dt
}

// AddChecked returns dt + d. It returns ErrOverflow if the sum doesn't
// fit into int64 and ErrOutOfRange if it is outside of [Min, Max].
func (dt DateTime) AddChecked(d timespan.TimeSpan) (DateTime, error) {
	res, ok := timespan.AddTicks(dt.ticks, d.Ticks())
	if !ok {
		return Epoch, errors.Wrapf(ErrOverflow, "%d + %d", dt.ticks, d.Ticks())
	}
	return NewChecked(res)
}

// SubChecked is the same as AddChecked, but for dt - d
func (dt DateTime) SubChecked(d timespan.TimeSpan) (DateTime, error) {
	res, ok := timespan.SubTicks(dt.ticks, d.Ticks())
	if !ok {
		return Epoch, errors.Wrapf(ErrOverflow, "%d - %d", dt.ticks, d.Ticks())
	}
	return NewChecked(res)
}

// SubTimeChecked returns dt - other or ErrOverflow
func (dt DateTime) SubTimeChecked(other DateTime) (timespan.TimeSpan, error) {
	res, ok := timespan.SubTicks(dt.ticks, other.ticks)
	if !ok {
		return timespan.Zero, errors.Wrapf(ErrOverflow, "%d - %d", dt.ticks, other.ticks)
	}
	return timespan.New(res), nil
}

// Hour returns the hour of the day, [0..23] for non-negative ticks
func (dt DateTime) Hour() int {
	return int((dt.ticks / timespan.TicksPerHour) % 24)
}

// Minute returns the minute of the hour, [0..59] for non-negative ticks
func (dt DateTime) Minute() int {
	return int((dt.ticks / timespan.TicksPerMinute) % 60)
}

// Second returns the second of the minute, [0..59] for non-negative ticks
func (dt DateTime) Second() int {
	return int((dt.ticks / timespan.TicksPerSecond) % 60)
}

// Millisecond returns the millisecond of the second
func (dt DateTime) Millisecond() int {
	return int((dt.ticks / timespan.TicksPerMillisecond) % 1000)
}

// Microsecond returns the microsecond of the millisecond (not of the second)
func (dt DateTime) Microsecond() int {
	return int((dt.ticks / timespan.TicksPerMicrosecond) % 1000)
}

// TimeOfDay returns time elapsed since the midnight of dt. The value is
// negative for negative ticks not falling on a midnight.
func (dt DateTime) TimeOfDay() timespan.TimeSpan {
	return timespan.New(dt.ticks % timespan.TicksPerDay)
}

// Date returns the midnight of dt, so dt.Date().Add(dt.TimeOfDay()) == dt
func (dt DateTime) Date() DateTime {
	return dt.Sub(dt.TimeOfDay())
}
