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

// Package tql contains the tick query language - simple arithmetic
// expressions over time points and intervals, e.g.
//
//		date(epoch1970 + 18000d) + 1.5h
//		unix(1556668800) - epoch1601
//		timeofday(621355968000000000 - 1t)
package tql

import (
	"github.com/alecthomas/participle"
	"github.com/alecthomas/participle/lexer"
)

var (
	tqlLexer = lexer.Must(lexer.Regexp(`(\s+)` +
		`|(?P<Number>\d+(?:\.\d+)?)` +
		`|(?P<Unit>(?:ms|us|[dhmst])\b)` +
		`|(?P<Ident>[a-zA-Z_][a-zA-Z0-9_]*)` +
		`|(?P<Operator>[-+(),])`,
	))

	parser = participle.MustBuild(
		&Expression{},
		participle.Lexer(tqlLexer),
	)
)

type (
	// Expression is a sequence of terms joined by + or -, evaluated
	// from left to right
	Expression struct {
		Left  *Term     `parser:"@@"`
		Right []*OpTerm `parser:"{ @@ }"`
	}

	OpTerm struct {
		Op   string `parser:"@(\"+\" | \"-\")"`
		Term *Term  `parser:"@@"`
	}

	Term struct {
		Neg   bool        `parser:"[ @\"-\" ]"`
		Num   *Number     `parser:"( @@"`
		Ident *Ident      `parser:"| @@"`
		Sub   *Expression `parser:"| \"(\" @@ \")\" )"`
	}

	// Number is an integer number of ticks, or a possibly fractional
	// interval if the unit is specified
	Number struct {
		Value string `parser:"@Number"`
		Unit  string `parser:"[ @Unit ]"`
	}

	// Ident is a named time point or a function call
	Ident struct {
		Name string      `parser:"@Ident"`
		Args *Expression `parser:"[ \"(\" @@ \")\" ]"`
	}
)

// Parse parses the tql expression
func Parse(tql string) (*Expression, error) {
	exp := &Expression{}
	err := parser.ParseString(tql, exp)
	if err != nil {
		return nil, err
	}
	return exp, nil
}
