// Package config loads sifter settings from yaml.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"sifter/criteria"
	nt "sifter/entity"
	"sifter/search"
	"sifter/store/web"
)

const (
	defaultLogPath = "sifter.log"
	defaultTimeout = 10 * time.Second
)

// Config is the top level configuration.
// Criteria are OR-groups of filters, all of which must hold.
type Config struct {
	Source   string        `yaml:"source"`
	LogPath  string        `yaml:"log_path"`
	Web      web.Config    `yaml:"web"`
	Search   search.Config `yaml:"search"`
	Criteria [][]nt.Filter `yaml:"criteria,omitempty"`
}

// Default returns a config with defaults filled in.
func Default() *Config {
	cfg := &Config{}
	cfg.defaults()
	return cfg
}

// Load reads path, applying defaults for anything left unset.
func Load(path string) (cfg *Config, err error) {

	data, err := os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read from %s", path)
		return
	}

	cfg = &Config{}
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to unmarshal %s", path)
		return
	}

	cfg.defaults()
	return
}

// LoadOrDefault is Load, falling back to defaults when path does not exist.
func LoadOrDefault(path string) (cfg *Config, err error) {

	_, err = os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return Load(path)
}

// LoadCriteria reads a yaml file holding only criteria.
func LoadCriteria(path string) (group *criteria.Group, err error) {

	data, err := os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read from %s", path)
		return
	}

	var filters [][]nt.Filter
	err = yaml.Unmarshal(data, &filters)
	if err != nil {
		err = errors.Wrapf(err, "failed to unmarshal criteria from %s", path)
		return
	}

	group = criteria.FromFilters(filters)
	return
}

// Group returns the configured criteria as a group.
func (cfg *Config) Group() *criteria.Group {
	return criteria.FromFilters(cfg.Criteria)
}

// Sample writes a commented starting config unless path already exists.
func Sample(path string, mode os.FileMode) (err error) {

	_, err = os.Stat(path)
	if err == nil {
		return // already have a cfg
	}

	err = os.WriteFile(path, []byte(sample), mode)
	err = errors.Wrapf(err, "failed to write to %s", path)
	return
}

// unexported

func (cfg *Config) defaults() {
	if cfg.LogPath == "" {
		cfg.LogPath = defaultLogPath
	}
	if cfg.Web.Timeout == 0 {
		cfg.Web.Timeout = defaultTimeout
	}
}

var sample = `# sifter config
source: https://jsonplaceholder.typicode.com/todos
log_path: sifter.log
web:
  timeout: 10s
search:
  case_sensitive: false
  regex_cache: 64
# every group must hold, any filter within a group may match
criteria:
  - - field: completed
      operator: EQ
      value: "true"
  - - field: userId
      operator: LT
      value: "3"
    - field: title
      operator: C
      value: sunt
`
