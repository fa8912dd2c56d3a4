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
	"bytes"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/logrange/range/pkg/utils/encoding/xbinary"
	"github.com/logrange/ticktime/pkg/timespan"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestUnix(t *testing.T) {
	assert.Equal(t, Epoch1970, FromUnix(0))
	assert.Equal(t, Epoch1970, FromUnixNano(0))
	assert.Equal(t, int64(0), Epoch1970.Unix())
	assert.Equal(t, int64(-11644473600), Epoch1601.Unix())

	dt := FromUnix(1556668800)
	assert.Equal(t, int64(1556668800), dt.Unix())
	assert.Equal(t, int64(1556668800)*int64(time.Second), dt.UnixNano())

	dt = FromUnixNano(1556668800123456789)
	assert.Equal(t, int64(1556668800123456700), dt.UnixNano())
	assert.Equal(t, 123, dt.Millisecond())
	assert.Equal(t, 456, dt.Microsecond())
}

func TestUnixNanoChecked(t *testing.T) {
	ns, err := FromUnixNano(1556668800123456700).UnixNanoChecked()
	assert.Nil(t, err)
	assert.Equal(t, int64(1556668800123456700), ns)

	ns, err = FromUnixNano(math.MinInt64 + 8).UnixNanoChecked()
	assert.Nil(t, err)
	assert.Equal(t, int64(math.MinInt64+8), ns)

	_, err = Epoch.UnixNanoChecked()
	assert.Equal(t, ErrOverflow, errors.Cause(err))
	_, err = Max.UnixNanoChecked()
	assert.Equal(t, ErrOverflow, errors.Cause(err))
	_, err = New(math.MinInt64).UnixNanoChecked()
	assert.Equal(t, ErrOverflow, errors.Cause(err))
}

func TestFileTime(t *testing.T) {
	assert.Equal(t, Epoch1601, FromFileTime(0))
	assert.Equal(t, int64(116444736000000000), Epoch1970.FileTime())
	assert.Equal(t, Epoch1970, FromFileTime(116444736000000000))
}

func TestTime(t *testing.T) {
	assert.Equal(t, Epoch, FromTime(time.Time{}))
	assert.Equal(t, time.Time{}, Epoch.Time())
	assert.Equal(t, Epoch1970, FromTime(time.Unix(0, 0)))

	tm := time.Date(2019, 5, 1, 13, 14, 15, 123456700, time.UTC)
	dt := FromTime(tm)
	assert.Equal(t, 13, dt.Hour())
	assert.Equal(t, 14, dt.Minute())
	assert.Equal(t, 15, dt.Second())
	assert.Equal(t, 123, dt.Millisecond())
	assert.Equal(t, 456, dt.Microsecond())
	assert.True(t, tm.Equal(dt.Time()))
	assert.True(t, time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC).Equal(dt.Date().Time()))

	tm = time.Date(1066, 10, 14, 9, 0, 0, 0, time.FixedZone("X", 3600))
	assert.True(t, tm.Equal(FromTime(tm).Time()))

	assert.Equal(t, time.Date(9999, 12, 31, 23, 59, 59, 999999900, time.UTC), Max.Time())
	assert.Equal(t, Max, FromTime(Max.Time()))
	assert.Equal(t, New(timespan.TicksPerDay*365), FromTime(time.Date(2, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestBinary(t *testing.T) {
	for _, tk := range testTicks {
		dt := New(tk)
		b, err := dt.MarshalBinary()
		assert.Nil(t, err)
		assert.Equal(t, dt.WritableSize(), len(b))

		var dt2 DateTime
		assert.Nil(t, dt2.UnmarshalBinary(b))
		assert.Equal(t, dt, dt2)
	}

	b, _ := New(1).MarshalBinary()
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 1}, b)
	b, _ = New(-1).MarshalBinary()
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, b)

	var dt DateTime
	assert.NotNil(t, dt.UnmarshalBinary([]byte{1, 2, 3}))
	_, err := dt.Unmarshal([]byte{1, 2, 3})
	assert.NotNil(t, err)
	_, err = Epoch1970.Marshal(make([]byte, 7))
	assert.NotNil(t, err)
}

func TestWriteTo(t *testing.T) {
	var buf bytes.Buffer
	ow := &xbinary.ObjectsWriter{Writer: &buf}
	n, err := Epoch1970.WriteTo(ow)
	assert.Nil(t, err)
	assert.Equal(t, Epoch1970.WritableSize(), n)

	var dt DateTime
	n, err = dt.Unmarshal(buf.Bytes())
	assert.Nil(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, Epoch1970, dt)
}

func TestJSON(t *testing.T) {
	type rec struct {
		Ts DateTime `json:"ts"`
	}

	b, err := json.Marshal(rec{Epoch1970})
	assert.Nil(t, err)
	assert.Equal(t, `{"ts":621355968000000000}`, string(b))

	var r rec
	assert.Nil(t, json.Unmarshal([]byte(`{"ts":-15}`), &r))
	assert.Equal(t, New(-15), r.Ts)
	assert.Nil(t, json.Unmarshal([]byte(`{"ts":"42"}`), &r))
	assert.Equal(t, New(42), r.Ts)
	assert.Nil(t, json.Unmarshal([]byte(`{"ts":null}`), &r))
	assert.Equal(t, New(42), r.Ts)
	assert.NotNil(t, json.Unmarshal([]byte(`{"ts":1.5}`), &r))

	dt := New(7)
	assert.Nil(t, dt.UnmarshalJSON([]byte("null")))
	assert.Equal(t, New(7), dt)
}
