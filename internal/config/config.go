package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/panel"
)

const (
	DefaultFPS        = 30
	DefaultDuration   = 10.0
	DefaultAnimation  = "randomwalk"
	DefaultController = "127.0.0.1:3333"
)

type Config struct {
	Panel      PanelConfig      `yaml:"panel"`
	Controller ControllerConfig `yaml:"controller"`
	FPS        int              `yaml:"fps"`
	Duration   float64          `yaml:"duration"`
	Seed       int64            `yaml:"seed"`
	Animation  string           `yaml:"animation"`
	Params     anim.Values      `yaml:"params,omitempty"`
}

type PanelConfig struct {
	Strips []StripConfig `yaml:"strips"`
}

type StripConfig struct {
	Start     uint16    `yaml:"start"`
	Count     uint16    `yaml:"count"`
	Direction Direction `yaml:"direction"`
}

type ControllerConfig struct {
	Addr string `yaml:"addr"`
}

// Direction is a strip direction as written in a config document: forward,
// reverse or one of the numeric codes 1, 0 and -1.
type Direction panel.Direction

func (d *Direction) UnmarshalYAML(n *yaml.Node) error {
	pd, err := panel.ParseDirection(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*d = Direction(pd)
	return nil
}

func (d Direction) MarshalYAML() (interface{}, error) {
	return panel.Direction(d).String(), nil
}

// DefaultStrips is the 16-column panel with uneven strip lengths and a few
// unused addresses between strips.
var DefaultStrips = []panel.Strip{
	{Start: 0, Count: 28, Direction: panel.Forward},
	{Start: 29, Count: 27, Direction: panel.Reverse},
	{Start: 57, Count: 28, Direction: panel.Forward},
	{Start: 86, Count: 26, Direction: panel.Reverse},
	{Start: 113, Count: 28, Direction: panel.Forward},
	{Start: 142, Count: 28, Direction: panel.Reverse},
	{Start: 171, Count: 28, Direction: panel.Forward},
	{Start: 200, Count: 28, Direction: panel.Reverse},
	{Start: 229, Count: 27, Direction: panel.Forward},
	{Start: 257, Count: 27, Direction: panel.Reverse},
	{Start: 285, Count: 27, Direction: panel.Forward},
	{Start: 313, Count: 28, Direction: panel.Reverse},
	{Start: 342, Count: 28, Direction: panel.Forward},
	{Start: 371, Count: 28, Direction: panel.Reverse},
	{Start: 402, Count: 22, Direction: panel.Forward},
	{Start: 425, Count: 22, Direction: panel.Reverse},
}

func Default() *Config {
	cfg := &Config{
		Controller: ControllerConfig{Addr: DefaultController},
		FPS:        DefaultFPS,
		Duration:   DefaultDuration,
		Seed:       1,
		Animation:  DefaultAnimation,
	}
	cfg.SetStrips(DefaultStrips)
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("config: fps must be positive, got %d", c.FPS)
	}
	if c.Duration < 0 {
		return fmt.Errorf("config: negative duration %g", c.Duration)
	}
	if _, err := panel.Build(c.Strips()); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c *Config) Strips() []panel.Strip {
	out := make([]panel.Strip, len(c.Panel.Strips))
	for i, s := range c.Panel.Strips {
		out[i] = panel.Strip{Start: s.Start, Count: s.Count, Direction: panel.Direction(s.Direction)}
	}
	return out
}

func (c *Config) SetStrips(strips []panel.Strip) {
	c.Panel.Strips = make([]StripConfig, len(strips))
	for i, s := range strips {
		c.Panel.Strips[i] = StripConfig{Start: s.Start, Count: s.Count, Direction: Direction(s.Direction)}
	}
}

func (c *Config) Topology() (*panel.Topology, error) {
	return panel.Build(c.Strips())
}
