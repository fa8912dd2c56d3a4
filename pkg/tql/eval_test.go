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

package tql

import (
	"testing"

	"github.com/logrange/ticktime/pkg/datetime"
	"github.com/logrange/ticktime/pkg/timespan"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	exp, err := Parse("date(epoch1970 + 2d) - 1.5h")
	assert.Nil(t, err)
	assert.Equal(t, "date", exp.Left.Ident.Name)
	assert.NotNil(t, exp.Left.Ident.Args)
	assert.Equal(t, 1, len(exp.Right))
	assert.Equal(t, "-", exp.Right[0].Op)
	assert.Equal(t, &Number{Value: "1.5", Unit: "h"}, exp.Right[0].Term.Num)

	exp, err = Parse("-(3ms)")
	assert.Nil(t, err)
	assert.True(t, exp.Left.Neg)
	assert.NotNil(t, exp.Left.Sub)

	exp, err = Parse("12345")
	assert.Nil(t, err)
	assert.Equal(t, &Number{Value: "12345"}, exp.Left.Num)

	_, err = Parse("")
	assert.NotNil(t, err)
	_, err = Parse("1 + ")
	assert.NotNil(t, err)
	_, err = Parse("date(1")
	assert.NotNil(t, err)
}

func TestEvalLiterals(t *testing.T) {
	e := NewEvaluator(nil)
	testEval(t, e, "12345", Value{KindNumber, 12345})
	testEval(t, e, "-12345", Value{KindNumber, -12345})
	testEval(t, e, "1d", TimeSpanValue(timespan.FromDays(1)))
	testEval(t, e, "1.5h", TimeSpanValue(timespan.FromMinutes(90)))
	testEval(t, e, "2ms", TimeSpanValue(timespan.FromMilliseconds(2)))
	testEval(t, e, "3us", TimeSpanValue(timespan.FromMicroseconds(3)))
	testEval(t, e, "0.15t", TimeSpanValue(timespan.Zero))
	testEval(t, e, "7t", TimeSpanValue(timespan.New(7)))
	testEval(t, e, "10s", TimeSpanValue(timespan.FromSeconds(10)))
	testEval(t, e, "10m", TimeSpanValue(timespan.FromMinutes(10)))
	testEval(t, e, "epoch", DateTimeValue(datetime.Epoch))
	testEval(t, e, "MAX", DateTimeValue(datetime.Max))
	testEval(t, e, "min", DateTimeValue(datetime.Min))
	testEval(t, e, "epoch1601", DateTimeValue(datetime.Epoch1601))
	testEval(t, e, "epoch1970", DateTimeValue(datetime.Epoch1970))
}

func TestEvalArithmetic(t *testing.T) {
	e := NewEvaluator(nil)
	testEval(t, e, "1 + 2 - 4", Value{KindNumber, -1})
	testEval(t, e, "10 + 1t", DateTimeValue(datetime.New(11)))
	testEval(t, e, "1t + 10", DateTimeValue(datetime.New(11)))
	testEval(t, e, "10 - 1t", DateTimeValue(datetime.New(9)))
	testEval(t, e, "epoch1970 - epoch1601", TimeSpanValue(timespan.FromSeconds(11644473600)))
	testEval(t, e, "epoch - 100", TimeSpanValue(timespan.New(-100)))
	testEval(t, e, "1h - 2h", TimeSpanValue(timespan.FromHours(-1)))
	testEval(t, e, "1h + 30m", TimeSpanValue(timespan.FromMinutes(90)))
	testEval(t, e, "-(1h + 30m)", TimeSpanValue(timespan.FromMinutes(-90)))
	testEval(t, e, "epoch1970 - (1d - 1h)", DateTimeValue(datetime.Epoch1970.Sub(timespan.FromHours(23))))

	testEvalErr(t, e, "epoch + epoch")
	testEvalErr(t, e, "1h - epoch")
	testEvalErr(t, e, "-epoch")
	testEvalErr(t, e, "nothing")
	testEvalErr(t, e, "1.5")
	testEvalErr(t, e, "99999999999999999999")

	_, err := e.Eval("max + 1t")
	assert.Equal(t, datetime.ErrOutOfRange, errors.Cause(err))
	_, err = e.Eval("9223372036854775807 + 1")
	assert.Equal(t, datetime.ErrOverflow, errors.Cause(err))
	_, err = e.Eval("1000000000000d")
	assert.Equal(t, datetime.ErrOverflow, errors.Cause(err))
	_, err = e.Eval("max - min")
	assert.Nil(t, err)
}

func TestEvalFunctions(t *testing.T) {
	e := NewEvaluator(nil)
	tks := int64(timespan.TicksPerDay*2 + 3661*timespan.TicksPerSecond)
	dt := datetime.New(tks)

	testEval(t, e, "date(1d + 1h)", DateTimeValue(datetime.New(timespan.TicksPerDay)))
	testEval(t, e, "date(2d + 3661s)", DateTimeValue(dt.Date()))
	testEval(t, e, "timeofday(2d + 3661s)", TimeSpanValue(timespan.FromSeconds(3661)))
	testEval(t, e, "timeofday(-1)", TimeSpanValue(timespan.New(-1)))
	testEval(t, e, "date(-1)", DateTimeValue(datetime.Epoch))
	testEval(t, e, "ticks(1h)", Value{KindNumber, timespan.TicksPerHour})
	testEval(t, e, "span(42)", TimeSpanValue(timespan.New(42)))
	testEval(t, e, "unix(0)", DateTimeValue(datetime.Epoch1970))
	testEval(t, e, "unix(1556668800)", DateTimeValue(datetime.FromUnix(1556668800)))
	testEval(t, e, "unix(-1)", DateTimeValue(datetime.FromUnix(-1)))
	testEval(t, e, "unixnano(1556668800123456789)", DateTimeValue(datetime.FromUnixNano(1556668800123456789)))
	testEval(t, e, "filetime(0)", DateTimeValue(datetime.Epoch1601))
	testEval(t, e, "Date(epoch1970 + 25h)", DateTimeValue(datetime.Epoch1970.Add(timespan.FromDays(1))))

	testEvalErr(t, e, "unix(1h)")
	testEvalErr(t, e, "span(epoch)")
	testEvalErr(t, e, "nofunc(1)")
	_, err := e.Eval("unix(9223372036854775807)")
	assert.Equal(t, datetime.ErrOverflow, errors.Cause(err))
}

func TestAliases(t *testing.T) {
	e := NewEvaluator(map[string]int64{"release": datetime.Epoch1970Ticks + 10})
	testEval(t, e, "release - epoch1970", TimeSpanValue(timespan.New(10)))

	assert.Nil(t, e.SetAlias("deploy", datetime.Epoch1601))
	testEval(t, e, "deploy", DateTimeValue(datetime.Epoch1601))
	assert.Equal(t, map[string]int64{"release": datetime.Epoch1970Ticks + 10,
		"deploy": datetime.Epoch1601Ticks}, e.Aliases())

	assert.NotNil(t, e.SetAlias("epoch", datetime.Epoch))
	assert.NotNil(t, e.SetAlias("ms", datetime.Epoch))
	assert.NotNil(t, e.SetAlias("Date", datetime.Epoch))
	assert.NotNil(t, e.SetAlias("1abc", datetime.Epoch))
	assert.NotNil(t, e.SetAlias("a-b", datetime.Epoch))
	assert.NotNil(t, e.SetAlias("", datetime.Epoch))
	assert.Nil(t, e.SetAlias("_a1", datetime.Epoch))
}

func TestAliasesFromConfigAreValidated(t *testing.T) {
	e := NewEvaluator(map[string]int64{"max": 5, "Epoch": 6, "a-b": 7, "ms": 8, "ok": 9})
	assert.Equal(t, map[string]int64{"ok": 9}, e.Aliases())
	testEval(t, e, "max", DateTimeValue(datetime.Max))
	testEval(t, e, "epoch", DateTimeValue(datetime.Epoch))
	testEval(t, e, "ok", DateTimeValue(datetime.New(9)))
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "42", Value{KindNumber, 42}.String())
	assert.Equal(t, "datetime(42)", Value{KindDateTime, 42}.String())
	assert.Equal(t, "01:00:00", TimeSpanValue(timespan.FromHours(1)).String())
	assert.Equal(t, "timespan", KindTimeSpan.String())
	assert.Equal(t, "kind(7)", Kind(7).String())
}

func testEval(t *testing.T, e *Evaluator, tql string, exp Value) {
	v, err := e.Eval(tql)
	if assert.Nil(t, err, "expression %q", tql) {
		assert.Equal(t, exp, v, "expression %q", tql)
	}
}

func testEvalErr(t *testing.T, e *Evaluator, tql string) {
	_, err := e.Eval(tql)
	assert.NotNil(t, err, "expression %q must fail", tql)
}
