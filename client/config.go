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

package client

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"os/user"
	"path/filepath"

	"github.com/jrivets/log4g"
	"github.com/mitchellh/mapstructure"
	"github.com/mohae/deepcopy"
	"github.com/pkg/errors"
)

// Config struct defines tt client settings
type Config struct {
	// Prompt is the shell prompt
	Prompt string `json:"prompt"`

	// HistoryFile contains path to the shell history file. Empty value
	// means the history is not persisted.
	HistoryFile string `json:"historyFile"`

	// Aliases contains named time points (ticks), which can be used in
	// the expressions. The values can be specified either as JSON numbers
	// or as strings.
	Aliases map[string]int64 `json:"aliases"`
}

const (
	historyFileName = ".tt_history"
	configFileName  = ".tt.json"
)

var configLog = log4g.GetLogger("tt.config")

// GetDefaultConfig returns the default client config
func GetDefaultConfig() *Config {
	c := new(Config)
	c.Prompt = "tt>"
	c.HistoryFile = defaultHistoryFile()
	c.Aliases = map[string]int64{}
	return c
}

// Apply override c's properties by non-default values from cfg. The aliases
// from cfg are added to c's ones.
func (c *Config) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if len(cfg.Prompt) > 0 {
		c.Prompt = cfg.Prompt
	}
	if len(cfg.HistoryFile) > 0 {
		c.HistoryFile = cfg.HistoryFile
	}
	if len(cfg.Aliases) == 0 {
		return
	}
	if len(c.Aliases) == 0 {
		// the map must not be shared with cfg
		c.Aliases = deepcopy.Copy(cfg.Aliases).(map[string]int64)
		return
	}
	for k, v := range cfg.Aliases {
		c.Aliases[k] = v
	}
}

// LoadCfgFromFile reads the config file. It returns an error if the file
// could not be read or its content is not a valid config.
func LoadCfgFromFile(filename string) (*Config, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read config file %s", filename)
	}

	c, err := parseConfig(data)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse config file %s", filename)
	}
	configLog.Info("Configuration read from ", filename)
	return c, nil
}

// ReadConfigFromFile read config file from filename. It returns nil, if
// filename is empty or not found, or the file could not be parsed.
func ReadConfigFromFile(filename string) *Config {
	if filename == "" {
		return nil
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		configLog.Warn("There is no file ", filename, " for reading tt config, will use default configuration.")
		return nil
	}

	c, err := LoadCfgFromFile(filename)
	if err != nil {
		configLog.Error("Could not load config, err=", err)
		return nil
	}
	return c
}

func parseConfig(data []byte) (*Config, error) {
	var raw map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	c := &Config{}
	md, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           c,
	})
	if err != nil {
		return nil, err
	}
	if err := md.Decode(raw); err != nil {
		return nil, err
	}
	return c, nil
}

// DefaultConfigFile returns the config file name, which is read when no
// config file is specified explicitly
func DefaultConfigFile() string {
	return filepath.Join(homeDir(), configFileName)
}

func defaultHistoryFile() string {
	return filepath.Join(homeDir(), historyFileName)
}

func homeDir() string {
	usr, err := user.Current()
	if err != nil {
		return os.TempDir()
	}
	return usr.HomeDir
}
