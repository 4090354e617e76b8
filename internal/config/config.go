package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Sheet size in points; the layout grid is derived from it.
	PaperWidth  float64 `yaml:"paper_width"`
	PaperHeight float64 `yaml:"paper_height"`

	FillColor       string `yaml:"fill_color"`
	BackgroundColor string `yaml:"background_color"`
	Easing          string `yaml:"easing"`
	// Saved schedule to play instead of the built-in fold sequence.
	ScheduleIn string `yaml:"schedule_in"`

	// Output
	OutputVideo  string  `yaml:"output_video"`
	FramesDir    string  `yaml:"frames_dir"`
	ScheduleOut  string  `yaml:"schedule_out"`
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	FPS          int     `yaml:"fps"`
	Hold         float64 `yaml:"hold"` // seconds shown after the last step
	Supersample  int     `yaml:"supersample"`
	Workers      int     `yaml:"workers"`
	VideoEncoder string  `yaml:"video_encoder"`
	Quality      int     `yaml:"quality"`
	Preset       string  `yaml:"preset"`

	Window     bool `yaml:"window"`
	WindowZoom int  `yaml:"window_zoom"`

	ShowStats    bool   `yaml:"show_stats"`
	Verbose      bool   `yaml:"verbose"`
	BuildVersion string `yaml:"-"`
}

// Default returns the playground setup: a 400x500 red sheet on white.
func Default() *Config {
	return &Config{
		PaperWidth:      400,
		PaperHeight:     500,
		FillColor:       "#ff0000",
		BackgroundColor: "#ffffff",
		Easing:          "linear",
		FPS:             30,
		Hold:            1.0,
		Supersample:     1,
		VideoEncoder:    "libx264",
		WindowZoom:      1,
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate replaces out-of-range values with defaults instead of failing.
func (c *Config) Validate() error {
	d := Default()
	if c.PaperWidth <= 0 {
		c.PaperWidth = d.PaperWidth
	}
	if c.PaperHeight <= 0 {
		c.PaperHeight = d.PaperHeight
	}

	switch c.Preset {
	case "playground":
		c.Width, c.Height = 400, 500
	case "720p":
		c.Width, c.Height = 576, 720
	case "1080p":
		c.Width, c.Height = 864, 1080
	}
	if c.Width <= 0 || c.Height <= 0 {
		c.Width, c.Height = int(c.PaperWidth), int(c.PaperHeight)
	}
	// yuv420p needs even dimensions
	if c.Width%2 != 0 {
		c.Width++
	}
	if c.Height%2 != 0 {
		c.Height++
	}

	if c.FPS <= 0 || c.FPS > 240 {
		c.FPS = d.FPS
	}
	if c.Hold < 0 {
		c.Hold = 0
	}
	if c.Supersample < 1 || c.Supersample > 4 {
		c.Supersample = d.Supersample
	}
	if c.WindowZoom < 1 {
		c.WindowZoom = d.WindowZoom
	}
	if c.FillColor == "" {
		c.FillColor = d.FillColor
	}
	if c.BackgroundColor == "" {
		c.BackgroundColor = d.BackgroundColor
	}
	c.Easing = strings.ToLower(c.Easing)
	if c.Easing != "linear" && c.Easing != "ease-in-out" {
		c.Easing = d.Easing
	}
	if c.VideoEncoder == "" {
		c.VideoEncoder = d.VideoEncoder
	}
	return nil
}

// RenderParams describes the frames of one offline run.
type RenderParams struct {
	Width, Height int
	FPS           int
	FrameCount    int
	Encoder       string
	Quality       int
}
