// Package config loads texblock settings from a YAML file and builds the
// logger the commands share.
package config

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/DataDog/zstd"

	"github.com/EchoTools/texblock/pkg/decompress"
	"github.com/EchoTools/texblock/pkg/server"
	"github.com/EchoTools/texblock/pkg/texture"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "texblock.yaml"

// Server holds the HTTP service settings.
type Server struct {
	Listen       string `yaml:"listen"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

// Config holds every tunable of the CLI and the server.
type Config struct {
	Workers           int    `yaml:"workers"`
	ChunkBlocks       int    `yaml:"chunk_blocks"`
	ParallelThreshold int    `yaml:"parallel_threshold"`
	MaxImageBytes     int64  `yaml:"max_image_bytes"`
	Strict            bool   `yaml:"strict"`
	LogLevel          string `yaml:"log_level"`
	LogFormat         string `yaml:"log_format"`
	CompressionLevel  int    `yaml:"compression_level"`
	Server            Server `yaml:"server"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Workers:           0,
		ChunkBlocks:       decompress.DefaultChunkBlocks,
		ParallelThreshold: decompress.DefaultParallelThreshold,
		MaxImageBytes:     texture.DefaultMaxAllocBytes,
		LogLevel:          "info",
		LogFormat:         "text",
		CompressionLevel:  zstd.BestSpeed,
		Server: Server{
			Listen:       "127.0.0.1:8080",
			MaxBodyBytes: server.DefaultMaxBodyBytes,
		},
	}
}

// Load reads path over the defaults. A missing file at DefaultPath is not an
// error; a missing file anywhere else is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && path == DefaultPath {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "Failed to open config %q", path)
	}
	defer f.Close()

	if err := cfg.Decode(f); err != nil {
		return nil, errors.Wrapf(err, "Failed to load config %q", path)
	}
	return cfg, nil
}

// Decode reads YAML from r over the current values and validates the result.
func (c *Config) Decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return errors.Wrap(err, "Failed to parse yaml")
	}
	return c.Validate()
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return errors.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.ChunkBlocks <= 0 {
		return errors.Errorf("chunk_blocks must be > 0, got %d", c.ChunkBlocks)
	}
	if c.ParallelThreshold < 0 {
		return errors.Errorf("parallel_threshold must be >= 0, got %d", c.ParallelThreshold)
	}
	if c.MaxImageBytes < 0 {
		return errors.Errorf("max_image_bytes must be >= 0, got %d", c.MaxImageBytes)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log_level")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return errors.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	if c.CompressionLevel < zstd.BestSpeed || c.CompressionLevel > zstd.BestCompression {
		return errors.Errorf("compression_level must be in [%d,%d], got %d",
			zstd.BestSpeed, zstd.BestCompression, c.CompressionLevel)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.Errorf("server.max_body_bytes must be > 0, got %d", c.Server.MaxBodyBytes)
	}
	return nil
}

// Logger builds a logger writing to w with the configured level and format.
func (c *Config) Logger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		l.SetLevel(level)
	}
	if strings.ToLower(c.LogFormat) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return l
}

// DecompressOptions returns the decompress options matching the config.
func (c *Config) DecompressOptions(logger logrus.FieldLogger) []decompress.Option {
	opts := []decompress.Option{
		decompress.WithLogger(logger),
		decompress.WithChunkBlocks(c.ChunkBlocks),
		decompress.WithParallelThreshold(c.ParallelThreshold),
		decompress.WithMaxAlloc(c.MaxImageBytes),
	}
	if c.Strict {
		opts = append(opts, decompress.WithStrict())
	}
	return opts
}
