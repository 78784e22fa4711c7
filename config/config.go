package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/mantoudev/hbase/blockindex"
	"github.com/mantoudev/hbase/common"
	"github.com/mantoudev/hbase/comparer"
	"github.com/mantoudev/hbase/compression"
	"github.com/mantoudev/hbase/filter"
	"github.com/mantoudev/hbase/keyvalue"
)

// Config holds the settings of the record tools.
type Config struct {
	Comparator     string  `yaml:"comparator"`
	MaxValueLength int     `yaml:"max_value_length"`
	Compression    string  `yaml:"compression"`
	Index          Index   `yaml:"index"`
	Filter         Filter  `yaml:"filter"`
	Logging        Logging `yaml:"logging"`
}

// Index configures the block index builder.
type Index struct {
	BlockSize          int     `yaml:"block_size"`
	BlockSizeThreshold float32 `yaml:"block_size_threshold"`
}

// Filter configures the bloom filter writer.
type Filter struct {
	Type       string `yaml:"type"`
	BitsPerKey int    `yaml:"bits_per_key"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Comparator:     comparer.Standard.String(),
		MaxValueLength: common.MaxValueLength,
		Compression:    compression.None.String(),
		Index: Index{
			BlockSize:          blockindex.DefaultOptions.BlockSize,
			BlockSizeThreshold: blockindex.DefaultOptions.BlockSizeThreshold,
		},
		Filter: Filter{
			Type:       filter.BloomRow.String(),
			BitsPerKey: filter.DefaultBitsPerKey,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// LoadConfig reads the file at configPath over the defaults and validates
// the result.
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file does not exist: %s", configPath)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig writes config to configPath, creating its directory.
func SaveConfig(config *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate reports the first setting that is out of range.
func (c *Config) Validate() error {
	if _, err := comparer.ParseClass(c.Comparator); err != nil {
		return fmt.Errorf("comparator: %w", err)
	}
	if c.MaxValueLength < 0 || c.MaxValueLength > common.MaxValueLength {
		return fmt.Errorf("%w: max_value_length %d not in [0, %d]",
			common.MalformedInputError, c.MaxValueLength, common.MaxValueLength)
	}
	if _, err := compression.ParseType(c.Compression); err != nil {
		return fmt.Errorf("compression: %w", err)
	}
	if c.Index.BlockSize <= 0 {
		return fmt.Errorf("%w: index.block_size %d must be positive", common.MalformedInputError, c.Index.BlockSize)
	}
	if c.Index.BlockSizeThreshold <= 0 || c.Index.BlockSizeThreshold > 1 {
		return fmt.Errorf("%w: index.block_size_threshold %v not in (0, 1]",
			common.MalformedInputError, c.Index.BlockSizeThreshold)
	}
	if _, err := filter.ParseBloomType(c.Filter.Type); err != nil {
		return fmt.Errorf("filter: %w", err)
	}
	if c.Filter.BitsPerKey < filter.MinBitsPerKey || c.Filter.BitsPerKey > filter.MaxBitsPerKey {
		return fmt.Errorf("%w: filter.bits_per_key %d not in [%d, %d]", common.MalformedInputError,
			c.Filter.BitsPerKey, filter.MinBitsPerKey, filter.MaxBitsPerKey)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %w", common.MalformedInputError, err)
	}
	return nil
}

// Comparer returns the configured comparator.
func (c *Config) Comparer() (comparer.IComparator, error) {
	class, err := comparer.ParseClass(c.Comparator)
	if err != nil {
		return nil, err
	}
	return comparer.NewComparer(class)
}

func (c *Config) CompressionType() (compression.Type, error) {
	return compression.ParseType(c.Compression)
}

func (c *Config) KeyValueOptions() []keyvalue.OptFn {
	return []keyvalue.OptFn{keyvalue.WithMaxValueLength(c.MaxValueLength)}
}

func (c *Config) IndexOptions() []blockindex.OptFn {
	return []blockindex.OptFn{
		blockindex.WithBlockSize(c.Index.BlockSize),
		blockindex.WithBlockSizeThreshold(c.Index.BlockSizeThreshold),
	}
}

// FilterWriter returns a bloom filter writer ordered by cmp.
func (c *Config) FilterWriter(cmp comparer.IComparator) (*filter.Writer, error) {
	typ, err := filter.ParseBloomType(c.Filter.Type)
	if err != nil {
		return nil, err
	}
	return filter.NewWriter(typ, filter.WithBitsPerKey(c.Filter.BitsPerKey), filter.WithComparator(cmp))
}

// BuildLogger returns a production logger at level.
func BuildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: log level: %w", common.MalformedInputError, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
