// Package config loads the ffframes command's settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config is the full configuration of the ffframes command. Command-line
// flags override values read from a file.
type Config struct {
	// Logging
	LogLevel       string `yaml:"log_level"`
	FFmpegLogLevel string `yaml:"ffmpeg_log_level"`

	// Metrics endpoint, e.g. ":9090"; empty disables it.
	MetricsAddr string `yaml:"metrics_addr"`

	Extract ExtractConfig `yaml:"extract"`
}

// ExtractConfig controls frame extraction.
type ExtractConfig struct {
	OutputDir   string `yaml:"output_dir"`
	Format      string `yaml:"format"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Scale       string `yaml:"scale"`
	Every       int    `yaml:"every"`
	Max         int    `yaml:"max"`
	Concurrency int    `yaml:"concurrency"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		LogLevel:       "info",
		FFmpegLogLevel: "error",
		Extract: ExtractConfig{
			OutputDir:   "frames",
			Format:      "png",
			Scale:       "bicubic",
			Every:       1,
			Concurrency: runtime.NumCPU(),
		},
	}
}

// LoadFromFile reads path over the defaults. Unknown keys are an error.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Formats lists the image formats frames can be written in.
var Formats = []string{"png", "bmp", "tiff", "ppm"}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	e := c.Extract
	switch {
	case e.Width < 0 || e.Height < 0:
		return fmt.Errorf("extract size %dx%d: must not be negative", e.Width, e.Height)
	case e.Every < 1:
		return fmt.Errorf("extract every %d: must be at least 1", e.Every)
	case e.Max < 0:
		return fmt.Errorf("extract max %d: must not be negative", e.Max)
	case e.Concurrency < 1:
		return fmt.Errorf("extract concurrency %d: must be at least 1", e.Concurrency)
	case e.OutputDir == "":
		return errors.New("extract output_dir: must be set")
	}
	for _, f := range Formats {
		if f == e.Format {
			return nil
		}
	}
	return fmt.Errorf("extract format %q: want one of %v", e.Format, Formats)
}
