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
	"os"
	"strings"

	"github.com/gofrs/flock"
	"github.com/jrivets/log4g"
	"github.com/logrange/ticktime/client"
	"github.com/logrange/ticktime/pkg/tql"
	"github.com/peterh/liner"
)

type (
	shell struct {
		cfg    *config
		prompt string
		hfile  string
	}
)

var logger = log4g.GetLogger("tt.shell")

// Eval evaluates the expression with the aliases from cfg and prints the
// result to stdout
func Eval(expr string, cfg *client.Config) error {
	return execCmd(cmdEvalName+" "+expr, newConfig(cfg, os.Stdout))
}

// Fields prints the clock fields of the time point expression to stdout
func Fields(expr string, cfg *client.Config) error {
	return execCmd(cmdFieldsName+" "+expr, newConfig(cfg, os.Stdout))
}

// Run starts the interactive shell
func Run(cfg *client.Config) error {
	printLogo()
	newShell(cfg).run()
	return nil
}

func newConfig(cfg *client.Config, out io.Writer) *config {
	return &config{
		eval: tql.NewEvaluator(cfg.Aliases),
		out:  out,
	}
}

func printLogo() {
	fmt.Print("" +
		" _   _   \n" +
		"| |_| |_ \n" +
		"|  _|  _|\n" +
		" \\__|\\__|  type 'help' for the commands\n\n")
}

func printError(err error) {
	_, _ = fmt.Fprintln(os.Stderr, err)
}

//===================== shell =====================

func newShell(cfg *client.Config) *shell {
	s := new(shell)
	s.cfg = newConfig(cfg, os.Stdout)
	s.prompt = cfg.Prompt
	s.hfile = cfg.HistoryFile
	return s
}

func (s *shell) run() {
	lnr := liner.NewLiner()
	lnr.SetCtrlCAborts(true)

	s.loadHistory(lnr)
	defer func() {
		s.saveHistory(lnr)
		_ = lnr.Close()
		fmt.Println("bye!")
	}()

	for {
		inp, err := lnr.Prompt(s.prompt)
		if err != nil {
			if err == io.EOF || err == liner.ErrPromptAborted {
				break
			}
			printError(err)
		}

		inp = strings.TrimSpace(inp)
		if inp == "" {
			continue
		}

		lnr.AppendHistory(inp)
		err = execCmd(inp, s.cfg)
		if err == errQuit {
			break
		}
		if err != nil {
			logger.Debug("Command ", inp, " failed, err=", err)
			printError(err)
		}
	}
}

func (s *shell) loadHistory(lnr *liner.State) {
	if s.hfile == "" {
		return
	}
	f, err := os.OpenFile(s.hfile, os.O_RDONLY|os.O_CREATE, 0640)
	if err != nil {
		printError(err)
		return
	}
	defer f.Close()

	if _, err = lnr.ReadHistory(f); err != nil {
		printError(err)
	}
}

// saveHistory writes the history file holding the lock on it, so several
// shells running at the same time don't mix their histories up.
func (s *shell) saveHistory(lnr *liner.State) {
	if s.hfile == "" {
		return
	}

	fl := flock.New(s.hfile + ".lock")
	locked, err := fl.TryLock()
	if err != nil || !locked {
		logger.Warn("Could not lock ", s.hfile, ", the history is not saved, err=", err)
		return
	}
	defer fl.Unlock()

	f, err := os.OpenFile(s.hfile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0640)
	if err != nil {
		printError(err)
		return
	}
	defer f.Close()

	if _, err = lnr.WriteHistory(f); err != nil {
		printError(err)
	}
}
