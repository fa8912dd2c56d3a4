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

package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jrivets/log4g"
	"github.com/logrange/ticktime/client"
	"github.com/logrange/ticktime/client/shell"
	"github.com/logrange/ticktime/pkg/datetime"
	"github.com/pkg/errors"
	ucli "gopkg.in/urfave/cli.v2"
)

const (
	Version = "0.1.0"
)

const (
	argCfgFile    = "config-file"
	argLogCfgFile = "log-config-file"
	argPrompt     = "prompt"
	argFrom       = "from"
)

const (
	fromTicks    = "ticks"
	fromUnix     = "unix"
	fromUnixNano = "unixnano"
	fromFileTime = "filetime"

	outOfRange = "out of range"
)

var (
	logger = log4g.GetLogger("tt")
)

// main function is an entry point for 'tt' command. The tt is a tick time
// calculator, it works with time points measured in 100ns ticks since
// January 1, 0001. The commands are:
// 		eval	- evaluates an expression, e.g. 'tt eval epoch1970 + 1.5h'
// 		fields	- prints clock fields of a time point
// 		convert	- converts unix, unixnano or filetime values to ticks and back
// 		shell	- an interactive shell for the expressions
func main() {
	defer log4g.Shutdown()

	cmnFlags := []ucli.Flag{
		&ucli.StringFlag{
			Name:  argCfgFile,
			Usage: "configuration file path, ~/.tt.json is read if it is not specified",
		},
		&ucli.StringFlag{
			Name:  argLogCfgFile,
			Usage: "log4g configuration file path",
		},
	}

	app := &ucli.App{
		Name:    "tt",
		Version: Version,
		Usage:   "Tick time calculator",
		Commands: []*ucli.Command{
			{
				Name:      "eval",
				Usage:     "Evaluate an expression",
				ArgsUsage: "[expression]",
				Action:    runEval,
				Flags:     cmnFlags,
			},
			{
				Name:      "fields",
				Usage:     "Print clock fields of a time point",
				ArgsUsage: "[expression]",
				Action:    runFields,
				Flags:     cmnFlags,
			},
			{
				Name:      "convert",
				Usage:     "Convert a value to ticks and the other epochs",
				ArgsUsage: "[value]",
				Action:    runConvert,
				Flags: []ucli.Flag{cmnFlags[1],
					&ucli.StringFlag{
						Name:  argFrom,
						Value: fromTicks,
						Usage: "the value type, one of: \"ticks\", \"unix\", \"unixnano\" or \"filetime\"",
					},
				},
			},
			{
				Name:      "shell",
				Usage:     "Run interactive shell",
				UsageText: "tt shell [command options]",
				Action:    runShell,
				Flags: append([]ucli.Flag{
					&ucli.StringFlag{
						Name:  argPrompt,
						Usage: "the shell prompt",
					},
				}, cmnFlags...),
			},
		},
	}

	sort.Sort(ucli.FlagsByName(app.Flags))
	for _, c := range app.Commands {
		sort.Sort(ucli.FlagsByName(c.Flags))
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func initLog(c *ucli.Context) error {
	logCfgFile := c.String(argLogCfgFile)
	if logCfgFile == "" {
		return nil
	}
	return errors.Wrapf(log4g.ConfigF(logCfgFile), "could not apply log config %s", logCfgFile)
}

func initCfg(c *ucli.Context) (*client.Config, error) {
	if err := initLog(c); err != nil {
		return nil, err
	}

	cfg, err := loadConfig(c.String(argCfgFile), client.DefaultConfigFile())
	if err != nil {
		return nil, err
	}
	if p := c.String(argPrompt); p != "" {
		cfg.Prompt = p
	}
	return cfg, nil
}

// loadConfig applies the config file to the default config. An explicitly
// specified file must be readable, the default one may be absent or broken.
func loadConfig(cfgFile, defCfgFile string) (*client.Config, error) {
	cfg := client.GetDefaultConfig()
	if cfgFile != "" {
		logger.Info("Loading config from=", cfgFile)
		config, err := client.LoadCfgFromFile(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg.Apply(config)
		return cfg, nil
	}
	cfg.Apply(client.ReadConfigFromFile(defCfgFile))
	return cfg, nil
}

func exprFromArgs(c *ucli.Context) (string, error) {
	if c.Args().Len() == 0 {
		return "", fmt.Errorf("an expression is expected")
	}
	return strings.Join(c.Args().Slice(), " "), nil
}

func runEval(c *ucli.Context) error {
	cfg, err := initCfg(c)
	if err != nil {
		return err
	}
	expr, err := exprFromArgs(c)
	if err != nil {
		return err
	}
	return shell.Eval(expr, cfg)
}

func runFields(c *ucli.Context) error {
	cfg, err := initCfg(c)
	if err != nil {
		return err
	}
	expr, err := exprFromArgs(c)
	if err != nil {
		return err
	}
	return shell.Fields(expr, cfg)
}

func runShell(c *ucli.Context) error {
	cfg, err := initCfg(c)
	if err != nil {
		return err
	}
	if c.Args().Len() > 0 {
		return fmt.Errorf("no arguments expected, but %s", c.Args())
	}
	return shell.Run(cfg)
}

func runConvert(c *ucli.Context) error {
	if err := initLog(c); err != nil {
		return err
	}
	if c.Args().Len() != 1 {
		return fmt.Errorf("exactly one value is expected")
	}

	dt, err := convert(c.String(argFrom), c.Args().First())
	if err != nil {
		return err
	}
	logger.Debug("Converted ", c.Args().First(), " from ", c.String(argFrom), " to ticks=", dt.Ticks())

	printConverted(os.Stdout, dt)
	return nil
}

// printConverted writes dt in the supported representations, the ones
// which can't hold dt are reported as out of range
func printConverted(w io.Writer, dt datetime.DateTime) {
	fmt.Fprintf(w, "\n\t%-10s %s", "ticks", humanize.Comma(dt.Ticks()))
	fmt.Fprintf(w, "\n\t%-10s %d", "unix", dt.Unix())
	if ns, err := dt.UnixNanoChecked(); err == nil {
		fmt.Fprintf(w, "\n\t%-10s %d", "unixnano", ns)
	} else {
		fmt.Fprintf(w, "\n\t%-10s %s", "unixnano", outOfRange)
	}
	fmt.Fprintf(w, "\n\t%-10s %d", "filetime", dt.FileTime())
	if dt.IsValid() {
		fmt.Fprintf(w, "\n\t%-10s %s", "utc", dt.Time().Format("2006-01-02T15:04:05.0000000Z"))
	} else {
		fmt.Fprintf(w, "\n\t%-10s %s", "utc", outOfRange)
	}
	fmt.Fprint(w, "\n\n")
}

func convert(from, val string) (datetime.DateTime, error) {
	v, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return datetime.Epoch, errors.Wrapf(err, "could not parse %s", val)
	}

	switch strings.ToLower(from) {
	case fromTicks:
		return datetime.New(v), nil
	case fromUnix:
		return datetime.FromUnix(v), nil
	case fromUnixNano:
		return datetime.FromUnixNano(v), nil
	case fromFileTime:
		return datetime.FromFileTime(v), nil
	}
	return datetime.Epoch, fmt.Errorf("unknown value type %q, expecting one of ticks, unix, unixnano or filetime", from)
}
