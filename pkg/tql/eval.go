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
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/jrivets/log4g"
	"github.com/logrange/ticktime/pkg/datetime"
	"github.com/logrange/ticktime/pkg/timespan"
	"github.com/pkg/errors"
)

type (
	// Kind defines the type of an expression value
	Kind int

	// Value is the result of an expression evaluation
	Value struct {
		Kind  Kind
		Ticks int64
	}

	// Evaluator evaluates tql expressions. Named time points (aliases) can
	// be used in the expressions the same way as the built-in ones like
	// epoch or epoch1970.
	Evaluator struct {
		aliases map[string]datetime.DateTime
	}
)

const (
	// KindNumber is a plain integer, e.g. 12345. It is treated as
	// DateTime ticks when mixed with other kinds.
	KindNumber Kind = iota
	KindDateTime
	KindTimeSpan
)

var builtins = map[string]datetime.DateTime{
	"epoch":     datetime.Epoch,
	"min":       datetime.Min,
	"max":       datetime.Max,
	"epoch1601": datetime.Epoch1601,
	"epoch1970": datetime.Epoch1970,
}

var units = map[string]int64{
	"d":  timespan.TicksPerDay,
	"h":  timespan.TicksPerHour,
	"m":  timespan.TicksPerMinute,
	"s":  timespan.TicksPerSecond,
	"ms": timespan.TicksPerMillisecond,
	"us": timespan.TicksPerMicrosecond,
	"t":  1,
}

type function func(v Value) (Value, error)

var logger = log4g.GetLogger("tt.tql")

var functions map[string]function

func init() {
	functions = map[string]function{
		"date": func(v Value) (Value, error) {
			return DateTimeValue(v.DateTime().Date()), nil
		},
		"timeofday": func(v Value) (Value, error) {
			return TimeSpanValue(v.DateTime().TimeOfDay()), nil
		},
		"ticks": func(v Value) (Value, error) {
			return Value{Kind: KindNumber, Ticks: v.Ticks}, nil
		},
		"span": func(v Value) (Value, error) {
			if v.Kind == KindDateTime {
				return Value{}, fmt.Errorf("span() expects a number or an interval, but got %s", v.Kind)
			}
			return Value{Kind: KindTimeSpan, Ticks: v.Ticks}, nil
		},
		"unix": func(v Value) (Value, error) {
			if err := expectNumber("unix", v); err != nil {
				return Value{}, err
			}
			tks, ok := timespan.MulTicks(v.Ticks, timespan.TicksPerSecond)
			if !ok {
				return Value{}, errors.Wrapf(datetime.ErrOverflow, "unix(%d)", v.Ticks)
			}
			return addChecked(datetime.Epoch1970, timespan.New(tks))
		},
		"unixnano": func(v Value) (Value, error) {
			if err := expectNumber("unixnano", v); err != nil {
				return Value{}, err
			}
			return addChecked(datetime.Epoch1970, timespan.FromDuration(time.Duration(v.Ticks)))
		},
		"filetime": func(v Value) (Value, error) {
			if err := expectNumber("filetime", v); err != nil {
				return Value{}, err
			}
			return addChecked(datetime.Epoch1601, timespan.New(v.Ticks))
		},
	}
}

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDateTime:
		return "datetime"
	case KindTimeSpan:
		return "timespan"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func DateTimeValue(dt datetime.DateTime) Value {
	return Value{Kind: KindDateTime, Ticks: dt.Ticks()}
}

func TimeSpanValue(ts timespan.TimeSpan) Value {
	return Value{Kind: KindTimeSpan, Ticks: ts.Ticks()}
}

// DateTime returns the value as a time point. Intervals are treated as
// time points after the epoch
func (v Value) DateTime() datetime.DateTime {
	return datetime.New(v.Ticks)
}

func (v Value) TimeSpan() timespan.TimeSpan {
	return timespan.New(v.Ticks)
}

func (v Value) String() string {
	switch v.Kind {
	case KindTimeSpan:
		return v.TimeSpan().String()
	case KindDateTime:
		return fmt.Sprintf("datetime(%d)", v.Ticks)
	}
	return strconv.FormatInt(v.Ticks, 10)
}

// IsBuiltin returns whether the name is reserved by the language
func IsBuiltin(name string) bool {
	n := strings.ToLower(name)
	_, ok := builtins[n]
	if !ok {
		_, ok = functions[n]
	}
	if !ok {
		_, ok = units[n]
	}
	return ok
}

// NewEvaluator creates new Evaluator with the aliases provided, the alias
// values are ticks of the time points. The aliases which could not be set
// (see SetAlias) are skipped.
func NewEvaluator(aliases map[string]int64) *Evaluator {
	e := &Evaluator{aliases: make(map[string]datetime.DateTime, len(aliases))}
	for k, v := range aliases {
		if err := e.SetAlias(k, datetime.New(v)); err != nil {
			logger.Warn("Skipping alias ", k, ", err=", err)
		}
	}
	return e
}

// SetAlias assigns the time point to the name. The name must be an
// identifier which doesn't collide with the language built-ins.
func (e *Evaluator) SetAlias(name string, dt datetime.DateTime) error {
	if !isIdent(name) {
		return fmt.Errorf("alias name %q must be an identifier", name)
	}
	if IsBuiltin(name) {
		return fmt.Errorf("alias name %q is reserved", name)
	}
	e.aliases[name] = dt
	return nil
}

// Aliases returns copy of the aliases as ticks
func (e *Evaluator) Aliases() map[string]int64 {
	res := make(map[string]int64, len(e.aliases))
	for k, v := range e.aliases {
		res[k] = v.Ticks()
	}
	return res
}

// Eval parses and evaluates the expression
func (e *Evaluator) Eval(tql string) (Value, error) {
	exp, err := Parse(tql)
	if err != nil {
		return Value{}, errors.Wrapf(err, "could not parse %q", tql)
	}
	return e.EvalExpr(exp)
}

// EvalExpr evaluates the parsed expression
func (e *Evaluator) EvalExpr(exp *Expression) (Value, error) {
	res, err := e.evalTerm(exp.Left)
	if err != nil {
		return Value{}, err
	}
	for _, ot := range exp.Right {
		v, err := e.evalTerm(ot.Term)
		if err != nil {
			return Value{}, err
		}
		res, err = apply(res, ot.Op, v)
		if err != nil {
			return Value{}, err
		}
	}
	return res, nil
}

func (e *Evaluator) evalTerm(t *Term) (Value, error) {
	var (
		v   Value
		err error
	)
	switch {
	case t.Num != nil:
		v, err = evalNumber(t.Num)
	case t.Ident != nil:
		v, err = e.evalIdent(t.Ident)
	case t.Sub != nil:
		v, err = e.EvalExpr(t.Sub)
	default:
		err = fmt.Errorf("empty term")
	}
	if err != nil || !t.Neg {
		return v, err
	}

	if v.Kind == KindDateTime {
		return Value{}, fmt.Errorf("could not negate %s", v.Kind)
	}
	if _, ok := timespan.SubTicks(0, v.Ticks); !ok {
		return Value{}, errors.Wrapf(datetime.ErrOverflow, "-(%d)", v.Ticks)
	}
	v.Ticks = -v.Ticks
	return v, nil
}

func (e *Evaluator) evalIdent(id *Ident) (Value, error) {
	if id.Args != nil {
		fn, ok := functions[strings.ToLower(id.Name)]
		if !ok {
			return Value{}, fmt.Errorf("unknown function %s()", id.Name)
		}
		arg, err := e.EvalExpr(id.Args)
		if err != nil {
			return Value{}, err
		}
		return fn(arg)
	}

	if dt, ok := builtins[strings.ToLower(id.Name)]; ok {
		return DateTimeValue(dt), nil
	}
	if dt, ok := e.aliases[id.Name]; ok {
		return DateTimeValue(dt), nil
	}
	return Value{}, fmt.Errorf("unknown identifier %s", id.Name)
}

// evalNumber turns the literal to ticks. The fractional part is allowed
// only with a unit, the result is truncated to whole ticks.
func evalNumber(n *Number) (Value, error) {
	if n.Unit == "" {
		v, err := strconv.ParseInt(n.Value, 10, 64)
		if err != nil {
			return Value{}, errors.Wrapf(err, "could not parse ticks %s", n.Value)
		}
		return Value{Kind: KindNumber, Ticks: v}, nil
	}

	mul, ok := units[n.Unit]
	if !ok {
		return Value{}, fmt.Errorf("unknown unit %s", n.Unit)
	}

	r, ok := new(big.Rat).SetString(n.Value)
	if !ok {
		return Value{}, fmt.Errorf("could not parse number %s", n.Value)
	}
	r.Mul(r, new(big.Rat).SetInt64(mul))
	tks := new(big.Int).Quo(r.Num(), r.Denom())
	if !tks.IsInt64() {
		return Value{}, errors.Wrapf(datetime.ErrOverflow, "%s%s", n.Value, n.Unit)
	}
	return Value{Kind: KindTimeSpan, Ticks: tks.Int64()}, nil
}

func apply(l Value, op string, r Value) (Value, error) {
	if l.Kind == KindNumber && r.Kind == KindNumber {
		res, ok := timespan.AddTicks(l.Ticks, r.Ticks)
		if op == "-" {
			res, ok = timespan.SubTicks(l.Ticks, r.Ticks)
		}
		if !ok {
			return Value{}, errors.Wrapf(datetime.ErrOverflow, "%d %s %d", l.Ticks, op, r.Ticks)
		}
		return Value{Kind: KindNumber, Ticks: res}, nil
	}

	l, r = l.asDateTime(), r.asDateTime()
	switch {
	case l.Kind == KindDateTime && r.Kind == KindTimeSpan:
		if op == "-" {
			return subChecked(l.DateTime(), r.TimeSpan())
		}
		return addChecked(l.DateTime(), r.TimeSpan())
	case l.Kind == KindTimeSpan && r.Kind == KindDateTime && op == "+":
		return addChecked(r.DateTime(), l.TimeSpan())
	case l.Kind == KindDateTime && r.Kind == KindDateTime && op == "-":
		ts, err := l.DateTime().SubTimeChecked(r.DateTime())
		return TimeSpanValue(ts), err
	case l.Kind == KindTimeSpan && r.Kind == KindTimeSpan:
		var (
			ts  timespan.TimeSpan
			err error
		)
		if op == "-" {
			ts, err = l.TimeSpan().SubChecked(r.TimeSpan())
		} else {
			ts, err = l.TimeSpan().AddChecked(r.TimeSpan())
		}
		return TimeSpanValue(ts), err
	}
	return Value{}, fmt.Errorf("operation %s %s %s is not supported", l.Kind, op, r.Kind)
}

func (v Value) asDateTime() Value {
	if v.Kind == KindNumber {
		v.Kind = KindDateTime
	}
	return v
}

func addChecked(dt datetime.DateTime, ts timespan.TimeSpan) (Value, error) {
	res, err := dt.AddChecked(ts)
	return DateTimeValue(res), err
}

func subChecked(dt datetime.DateTime, ts timespan.TimeSpan) (Value, error) {
	res, err := dt.SubChecked(ts)
	return DateTimeValue(res), err
}

func expectNumber(fn string, v Value) error {
	if v.Kind != KindNumber {
		return fmt.Errorf("%s() expects a number, but got %s", fn, v.Kind)
	}
	return nil
}

func isIdent(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
