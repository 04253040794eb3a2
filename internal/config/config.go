// Package config loads and hot-reloads the server's YAML configuration,
// following the same load/validate/watch shape as the rest of the
// retrieval pack's proxy config loader.
package config

import (
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk shape of redkit-server's configuration file.
type Config struct {
	Address     string `yaml:"address"`
	LogFile     string `yaml:"log_file"`
	Verbose     bool   `yaml:"verbose"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

func (c *Config) validate() error {
	if c.Address == "" {
		return errors.New("config: address must not be empty")
	}
	if c.TimeoutSecs < 0 {
		return errors.New("config: timeout_secs must not be negative")
	}
	return nil
}

// Load reads and validates the YAML config at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: reading %s", path)
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, errors.Wrapf(err, "config: parsing %s", path)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Watcher reloads Config from disk whenever the underlying file
// changes, handing each new value to OnReload. It never panics on a
// bad edit — a reload that fails validation is logged away (by the
// caller, via the returned error channel) and the previous Config
// keeps serving.
type Watcher struct {
	path     string
	mu       sync.Mutex
	current  *Config
	fsw      *fsnotify.Watcher
	Errors   chan error
	OnReload func(*Config)
}

func NewWatcher(path string, initial *Config, onReload func(*Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "config: creating fsnotify watcher")
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, errors.Wrapf(err, "config: watching %s", path)
	}
	w := &Watcher{path: path, current: initial, fsw: fsw, Errors: make(chan error, 8), OnReload: onReload}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				w.Errors <- err
				continue
			}
			w.mu.Lock()
			w.current = cfg
			w.mu.Unlock()
			if w.OnReload != nil {
				w.OnReload(cfg)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.Errors <- err
		}
	}
}

func (w *Watcher) Current() *Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}
