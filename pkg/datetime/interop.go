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

package datetime

import (
	"time"

	"github.com/logrange/ticktime/pkg/timespan"
	"github.com/pkg/errors"
)

// FromUnix returns the time point sec seconds after January 1, 1970
func FromUnix(sec int64) DateTime {
	return DateTime{Epoch1970Ticks + sec*timespan.TicksPerSecond}
}

// FromUnixNano returns the time point ns nanoseconds after January 1, 1970.
// Nanoseconds which don't make a whole tick are truncated toward zero.
func FromUnixNano(ns int64) DateTime {
	return DateTime{Epoch1970Ticks + ns/timespan.NanosecondsPerTick}
}

// Unix returns number of seconds since January 1, 1970, truncated toward
// zero.
func (dt DateTime) Unix() int64 {
	return (dt.ticks - Epoch1970Ticks) / timespan.TicksPerSecond
}

// UnixNano returns number of nanoseconds since January 1, 1970. The result
// is undefined if dt is out of the int64 nanoseconds range (years
// 1678..2262).
func (dt DateTime) UnixNano() int64 {
	return (dt.ticks - Epoch1970Ticks) * timespan.NanosecondsPerTick
}

// UnixNanoChecked is the same as UnixNano, but it returns ErrOverflow if
// the nanoseconds don't fit into int64
func (dt DateTime) UnixNanoChecked() (int64, error) {
	d, ok := timespan.SubTicks(dt.ticks, Epoch1970Ticks)
	if ok {
		d, ok = timespan.MulTicks(d, timespan.NanosecondsPerTick)
	}
	if !ok {
		return 0, errors.Wrapf(ErrOverflow, "unix nano of ticks=%d", dt.ticks)
	}
	return d, nil
}

// FromFileTime returns the time point for the Windows FILETIME value, which
// is the number of ticks since January 1, 1601
func FromFileTime(ft int64) DateTime {
	return DateTime{Epoch1601Ticks + ft}
}

// FileTime returns dt as Windows FILETIME
func (dt DateTime) FileTime() int64 {
	return dt.ticks - Epoch1601Ticks
}

// FromTime returns the time point for t. The location of t is ignored,
// the instant is taken as UTC. Sub-tick nanoseconds are truncated.
func FromTime(t time.Time) DateTime {
	sec := t.Unix()
	return DateTime{Epoch1970Ticks + sec*timespan.TicksPerSecond + int64(t.Nanosecond())/timespan.NanosecondsPerTick}
}

// Time returns dt as time.Time in UTC
func (dt DateTime) Time() time.Time {
	d := dt.ticks - Epoch1970Ticks
	return time.Unix(d/timespan.TicksPerSecond, (d%timespan.TicksPerSecond)*timespan.NanosecondsPerTick).UTC()
}
