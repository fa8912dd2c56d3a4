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
	"strconv"

	"github.com/logrange/range/pkg/utils/encoding/xbinary"
	"github.com/pkg/errors"
)

// binarySize is the size of DateTime in the binary form - the ticks as
// big-endian 64-bit value
const binarySize = 8

// WritableSize returns the size of dt in the binary form
func (dt DateTime) WritableSize() int {
	return binarySize
}

// WriteTo writes dt into ow. It returns number of bytes written or an
// error, if any.
func (dt DateTime) WriteTo(ow *xbinary.ObjectsWriter) (int, error) {
	return ow.WriteUint64(uint64(dt.ticks))
}

// Marshal writes dt into buf, which must be at least WritableSize() long
func (dt DateTime) Marshal(buf []byte) (int, error) {
	return xbinary.MarshalUint64(uint64(dt.ticks), buf)
}

// Unmarshal reads dt from buf and returns number of bytes read
func (dt *DateTime) Unmarshal(buf []byte) (int, error) {
	n, v, err := xbinary.UnmarshalUint64(buf)
	if err != nil {
		return 0, errors.Wrapf(err, "could not read DateTime")
	}
	dt.ticks = int64(v)
	return n, nil
}

// MarshalBinary is a part of encoding.BinaryMarshaler
func (dt DateTime) MarshalBinary() ([]byte, error) {
	buf := make([]byte, binarySize)
	_, err := dt.Marshal(buf)
	return buf, err
}

// UnmarshalBinary is a part of encoding.BinaryUnmarshaler
func (dt *DateTime) UnmarshalBinary(data []byte) error {
	if len(data) != binarySize {
		return errors.Errorf("DateTime binary form must be %d bytes, but %d", binarySize, len(data))
	}
	_, err := dt.Unmarshal(data)
	return err
}

// MarshalJSON writes dt as JSON number of ticks
func (dt DateTime) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, dt.ticks, 10), nil
}

// UnmarshalJSON accepts JSON number of ticks, the quoted form is
// allowed as well. JSON null leaves dt unchanged.
func (dt *DateTime) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "could not parse DateTime ticks from %s", string(data))
	}
	dt.ticks = v
	return nil
}
