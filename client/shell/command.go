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

package shell

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/kr/logfmt"
	"github.com/logrange/ticktime/pkg/datetime"
	"github.com/logrange/ticktime/pkg/tql"
	"github.com/pkg/errors"
)

type (
	command struct {
		name    string
		matcher *regexp.Regexp
		cmdFn   cmdFn
		help    string
	}

	config struct {
		expr string
		kvs  string
		eval *tql.Evaluator
		out  io.Writer
	}

	cmdFn func(cfg *config) error
)

const (
	cmdFieldsName  = "fields"
	cmdAliasName   = "alias"
	cmdAliasesName = "aliases"
	cmdQuitName    = "quit"
	cmdHelpName    = "help"
	cmdEvalName    = "eval"

	rgExprGrp = "expr"
	rgKVsGrp  = "kvs"

	tickLayout = "2006-01-02T15:04:05.0000000Z"
)

var (
	errQuit = errors.New("quit")

	commands []command
)

func init() {
	commands = []command{
		{
			name:    cmdFieldsName,
			matcher: regexp.MustCompile(`(?i)^fields\s+(?P<` + rgExprGrp + `>.+)$`),
			cmdFn:   fieldsFn,
			help:    "show clock fields of a time point, e.g. 'fields epoch1970 + 1.5h'",
		},
		{
			name:    cmdAliasesName,
			matcher: regexp.MustCompile(`(?i)^aliases$`),
			cmdFn:   aliasesFn,
			help:    "list the known aliases",
		},
		{
			name:    cmdAliasName,
			matcher: regexp.MustCompile(`(?i)^alias\s+(?P<` + rgKVsGrp + `>.+)$`),
			cmdFn:   aliasFn,
			help:    "assign names to time points, e.g. 'alias start=\"date(epoch1970 + 18000d)\" end=max'",
		},
		{
			name:    cmdQuitName,
			matcher: regexp.MustCompile(`(?i)^(?:quit|exit)$`),
			cmdFn:   quitFn,
			help:    "exit the program",
		},
		{
			name:    cmdHelpName,
			matcher: regexp.MustCompile(`(?i)^help$`),
			cmdFn:   helpFn,
			help:    "show help",
		},
		{
			name:    cmdEvalName,
			matcher: regexp.MustCompile(`(?i)^(?:eval\s+)?(?P<` + rgExprGrp + `>.+)$`),
			cmdFn:   evalFn,
			help:    "evaluate an expression, e.g. 'unix(1556668800) - epoch1601' (the command name is optional)",
		},
	}
}

func execCmd(input string, cfg *config) error {
	for _, d := range commands {
		if !d.matcher.MatchString(input) {
			if d.name != cmdEvalName && strings.HasPrefix(strings.ToLower(input), d.name+" ") {
				return fmt.Errorf("command %s - invalid syntax", d.name)
			}
			continue
		}
		vars := getInputVars(d.matcher, input)
		cfg.expr = vars[rgExprGrp]
		cfg.kvs = vars[rgKVsGrp]
		return d.cmdFn(cfg)
	}
	return fmt.Errorf("unknown command=%v", input)
}

func getInputVars(re *regexp.Regexp, input string) map[string]string {
	match := re.FindStringSubmatch(input)
	varsMap := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if i > 0 && i < len(match) && name != "" {
			varsMap[name] = match[i]
		}
	}
	return varsMap
}

//===================== eval =====================

func evalFn(cfg *config) error {
	v, err := cfg.eval.Eval(cfg.expr)
	if err != nil {
		return err
	}
	printValue(cfg.out, v)
	return nil
}

func printValue(w io.Writer, v tql.Value) {
	switch v.Kind {
	case tql.KindTimeSpan:
		fmt.Fprintf(w, "timespan %s (%s ticks)\n", v.TimeSpan(), humanize.Comma(v.Ticks))
	case tql.KindDateTime:
		fmt.Fprintf(w, "datetime %s (%s)\n", humanize.Comma(v.Ticks), describe(v.DateTime()))
	default:
		fmt.Fprintf(w, "number %s\n", humanize.Comma(v.Ticks))
	}
}

func describe(dt datetime.DateTime) string {
	if !dt.IsValid() {
		return "out of range"
	}
	return dt.Time().Format(tickLayout)
}

//===================== fields =====================

func fieldsFn(cfg *config) error {
	v, err := cfg.eval.Eval(cfg.expr)
	if err != nil {
		return err
	}
	if v.Kind == tql.KindTimeSpan {
		return fmt.Errorf("fields expects a time point, but the expression is %s", v.Kind)
	}

	dt := v.DateTime()
	w := cfg.out
	fmt.Fprintf(w, "\n\t%-12s %s", "ticks", humanize.Comma(dt.Ticks()))
	fmt.Fprintf(w, "\n\t%-12s %d", "hour", dt.Hour())
	fmt.Fprintf(w, "\n\t%-12s %d", "minute", dt.Minute())
	fmt.Fprintf(w, "\n\t%-12s %d", "second", dt.Second())
	fmt.Fprintf(w, "\n\t%-12s %d", "millisecond", dt.Millisecond())
	fmt.Fprintf(w, "\n\t%-12s %d", "microsecond", dt.Microsecond())
	fmt.Fprintf(w, "\n\t%-12s %s", "date", humanize.Comma(dt.Date().Ticks()))
	fmt.Fprintf(w, "\n\t%-12s %s", "time of day", dt.TimeOfDay())
	fmt.Fprintf(w, "\n\t%-12s %s\n\n", "utc", describe(dt))
	return nil
}

//===================== alias =====================

// aliasHandler collects key=value pairs of the alias command
type aliasHandler struct {
	keys []string
	vals []string
}

func (ah *aliasHandler) HandleLogfmt(key, val []byte) error {
	if len(val) == 0 {
		return fmt.Errorf("no value for alias %s", string(key))
	}
	ah.keys = append(ah.keys, string(key))
	ah.vals = append(ah.vals, string(val))
	return nil
}

func aliasFn(cfg *config) error {
	var ah aliasHandler
	if err := logfmt.Unmarshal([]byte(cfg.kvs), &ah); err != nil {
		return errors.Wrapf(err, "could not parse aliases %q, expecting name=value pairs", cfg.kvs)
	}
	if len(ah.keys) == 0 {
		return fmt.Errorf("no aliases in %q, expecting name=value pairs", cfg.kvs)
	}

	for i, k := range ah.keys {
		v, err := cfg.eval.Eval(ah.vals[i])
		if err != nil {
			return errors.Wrapf(err, "alias %s", k)
		}
		if v.Kind == tql.KindTimeSpan {
			return fmt.Errorf("alias %s must be a time point, but the expression is %s", k, v.Kind)
		}
		if err = cfg.eval.SetAlias(k, v.DateTime()); err != nil {
			return err
		}
		fmt.Fprintf(cfg.out, "%s = %s\n", k, humanize.Comma(v.Ticks))
	}
	return nil
}

func aliasesFn(cfg *config) error {
	als := cfg.eval.Aliases()
	names := make([]string, 0, len(als))
	for k := range als {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, n := range names {
		dt := datetime.New(als[n])
		fmt.Fprintf(cfg.out, "%-15s %26s  %s\n", n, humanize.Comma(dt.Ticks()), describe(dt))
	}
	fmt.Fprintf(cfg.out, "total: %d aliases\n", len(names))
	return nil
}

//===================== quit =====================

func quitFn(_ *config) error {
	return errQuit
}

//===================== help =====================

func helpFn(cfg *config) error {
	fmt.Fprintf(cfg.out, "\n\t%-10s\n", "[HELP]")
	for _, c := range commands {
		fmt.Fprintf(cfg.out, "\n\t%-15s %s", c.name, c.help)
	}
	fmt.Fprint(cfg.out, "\n\n")
	return nil
}
