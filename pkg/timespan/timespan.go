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

// Package timespan contains TimeSpan - a signed interval measured in ticks,
// where one tick is 100 nanoseconds.
package timespan

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
)

type (
	// TimeSpan struct defines a signed time interval in 100ns ticks
	TimeSpan struct {
		ticks int64
	}
)

const (
	NanosecondsPerTick = 100

	TicksPerMicrosecond = 10
	TicksPerMillisecond = 1000 * TicksPerMicrosecond
	TicksPerSecond      = 1000 * TicksPerMillisecond
	TicksPerMinute      = 60 * TicksPerSecond
	TicksPerHour        = 60 * TicksPerMinute
	TicksPerDay         = 24 * TicksPerHour

	// DaysPer400Years is the number of days in one full Gregorian cycle
	DaysPer400Years = 365*400 + 97
)

var (
	Zero     = TimeSpan{}
	MinValue = TimeSpan{math.MinInt64}
	MaxValue = TimeSpan{math.MaxInt64}

	// ErrOverflow is returned by the checked arithmetic when the result
	// doesn't fit into int64 ticks
	ErrOverflow = errors.New("timespan: tick overflow")
)

// New returns the TimeSpan for the ticks provided
func New(ticks int64) TimeSpan {
	return TimeSpan{ticks}
}

func FromDays(d int64) TimeSpan { return TimeSpan{d * TicksPerDay} }
func FromHours(h int64) TimeSpan { return TimeSpan{h * TicksPerHour} }
func FromMinutes(m int64) TimeSpan { return TimeSpan{m * TicksPerMinute} }
func FromSeconds(s int64) TimeSpan { return TimeSpan{s * TicksPerSecond} }
func FromMilliseconds(ms int64) TimeSpan { return TimeSpan{ms * TicksPerMillisecond} }
func FromMicroseconds(us int64) TimeSpan { return TimeSpan{us * TicksPerMicrosecond} }

// FromDuration converts time.Duration to TimeSpan. Nanoseconds which
// don't make a whole tick are dropped (rounding toward zero).
func FromDuration(d time.Duration) TimeSpan {
	return TimeSpan{int64(d) / NanosecondsPerTick}
}

// Duration returns ts as time.Duration. The result saturates at
// math.MinInt64 and math.MaxInt64 nanoseconds, which is about 292 years.
func (ts TimeSpan) Duration() time.Duration {
	if ts.ticks > math.MaxInt64/NanosecondsPerTick {
		return time.Duration(math.MaxInt64)
	}
	if ts.ticks < math.MinInt64/NanosecondsPerTick {
		return time.Duration(math.MinInt64)
	}
	return time.Duration(ts.ticks * NanosecondsPerTick)
}

// Ticks returns number of 100ns ticks in the interval
func (ts TimeSpan) Ticks() int64 {
	return ts.ticks
}

func (ts TimeSpan) Days() int64 {
	return ts.ticks / TicksPerDay
}

func (ts TimeSpan) Hours() int64 {
	return (ts.ticks / TicksPerHour) % 24
}

func (ts TimeSpan) Minutes() int64 {
	return (ts.ticks / TicksPerMinute) % 60
}

func (ts TimeSpan) Seconds() int64 {
	return (ts.ticks / TicksPerSecond) % 60
}

func (ts TimeSpan) Milliseconds() int64 {
	return (ts.ticks / TicksPerMillisecond) % 1000
}

func (ts TimeSpan) TotalDays() float64 {
	return float64(ts.ticks) / TicksPerDay
}

func (ts TimeSpan) TotalHours() float64 {
	return float64(ts.ticks) / TicksPerHour
}

func (ts TimeSpan) TotalMinutes() float64 {
	return float64(ts.ticks) / TicksPerMinute
}

func (ts TimeSpan) TotalSeconds() float64 {
	return float64(ts.ticks) / TicksPerSecond
}

func (ts TimeSpan) TotalMilliseconds() float64 {
	return float64(ts.ticks) / TicksPerMillisecond
}

// Add returns ts + other. The sum wraps around on int64 overflow, use
// AddChecked if the overflow must be detected.
func (ts TimeSpan) Add(other TimeSpan) TimeSpan {
	return TimeSpan{ts.ticks + other.ticks}
}

// Sub returns ts - other, wrapping around on overflow as Add does.
func (ts TimeSpan) Sub(other TimeSpan) TimeSpan {
	return TimeSpan{ts.ticks - other.ticks}
}

// AddChecked returns ts + other or ErrOverflow
func (ts TimeSpan) AddChecked(other TimeSpan) (TimeSpan, error) {
	res, ok := AddTicks(ts.ticks, other.ticks)
	if !ok {
		return Zero, errors.Wrapf(ErrOverflow, "%d + %d", ts.ticks, other.ticks)
	}
	return TimeSpan{res}, nil
}

// SubChecked returns ts - other or ErrOverflow
func (ts TimeSpan) SubChecked(other TimeSpan) (TimeSpan, error) {
	res, ok := SubTicks(ts.ticks, other.ticks)
	if !ok {
		return Zero, errors.Wrapf(ErrOverflow, "%d - %d", ts.ticks, other.ticks)
	}
	return TimeSpan{res}, nil
}

// Neg returns -ts. Note that MinValue.Neg() == MinValue
func (ts TimeSpan) Neg() TimeSpan {
	return TimeSpan{-ts.ticks}
}

func (ts TimeSpan) Abs() TimeSpan {
	if ts.ticks < 0 {
		return ts.Neg()
	}
	return ts
}

func (ts TimeSpan) Equals(other TimeSpan) bool {
	return ts.ticks == other.ticks
}

// Compare returns -1, 0 or 1 if ts is less, equal or greater than other
func (ts TimeSpan) Compare(other TimeSpan) int {
	switch {
	case ts.ticks < other.ticks:
		return -1
	case ts.ticks > other.ticks:
		return 1
	}
	return 0
}

func (ts TimeSpan) Before(other TimeSpan) bool {
	return ts.ticks < other.ticks
}

func (ts TimeSpan) After(other TimeSpan) bool {
	return ts.ticks > other.ticks
}

// String returns the interval in [-][d.]hh:mm:ss[.fffffff] form, the
// fraction is printed without trailing zeros.
func (ts TimeSpan) String() string {
	t := ts.ticks
	sign := ""
	// work with uint64 to keep math.MinInt64 printable
	u := uint64(t)
	if t < 0 {
		sign = "-"
		u = uint64(-t)
	}

	days := u / TicksPerDay
	u %= TicksPerDay
	h := u / TicksPerHour
	m := (u / TicksPerMinute) % 60
	s := (u / TicksPerSecond) % 60
	frac := u % TicksPerSecond

	res := sign
	if days > 0 {
		res += fmt.Sprintf("%d.", days)
	}
	res += fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	if frac > 0 {
		fs := fmt.Sprintf("%07d", frac)
		for fs[len(fs)-1] == '0' {
			fs = fs[:len(fs)-1]
		}
		res += "." + fs
	}
	return res
}

// AddTicks returns a + b and whether the sum fits into int64
func AddTicks(a, b int64) (int64, bool) {
	c := a + b
	if (c > a) != (b > 0) {
		return c, false
	}
	return c, true
}

// SubTicks returns a - b and whether the difference fits into int64
func SubTicks(a, b int64) (int64, bool) {
	c := a - b
	if (c < a) != (b > 0) {
		return c, false
	}
	return c, true
}

// MulTicks returns a * b and whether the product fits into int64
func MulTicks(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if (c < 0) != ((a < 0) != (b < 0)) || c/b != a {
		return c, false
	}
	return c, true
}
