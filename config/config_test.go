package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/mantoudev/hbase/common"
	"github.com/mantoudev/hbase/comparer"
	"github.com/mantoudev/hbase/compression"
	"github.com/mantoudev/hbase/keyvalue"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "standard", config.Comparator)
	assert.Equal(t, common.MaxValueLength, config.MaxValueLength)
	assert.Equal(t, "none", config.Compression)
	assert.Equal(t, 4096, config.Index.BlockSize)
	assert.Equal(t, float32(0.9), config.Index.BlockSizeThreshold)
	assert.Equal(t, "row", config.Filter.Type)
	assert.Equal(t, 10, config.Filter.BitsPerKey)
	assert.Equal(t, "info", config.Logging.Level)
	assert.NoError(t, config.Validate())
}

func TestSaveAndLoadConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "kvtool.yaml")

	config := DefaultConfig()
	config.Comparator = "catalog"
	config.Compression = "zstd"
	config.Index.BlockSize = 512
	config.Filter.Type = "rowcol"
	require.NoError(t, SaveConfig(config, configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loaded)

	cmp, err := loaded.Comparer()
	require.NoError(t, err)
	assert.Equal(t, comparer.Catalog, cmp.Class())
	typ, err := loaded.CompressionType()
	require.NoError(t, err)
	assert.Equal(t, compression.Zstd, typ)
	assert.Len(t, loaded.IndexOptions(), 2)
	w, err := loaded.FilterWriter(cmp)
	require.NoError(t, err)
	assert.Zero(t, w.Count())
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "kvtool.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("comparator: raw\nindex:\n  block_size: 128\n"), 0600))

	config, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, "raw", config.Comparator)
	assert.Equal(t, 128, config.Index.BlockSize)
	assert.Equal(t, float32(0.9), config.Index.BlockSizeThreshold)
	assert.Equal(t, "info", config.Logging.Level)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "does not exist")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("index: [1, 2"), 0600))
	_, err = LoadConfig(bad)
	assert.ErrorContains(t, err, "failed to parse config file")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("comparator: meta\n"), 0600))
	_, err = LoadConfig(invalid)
	assert.True(t, errors.Is(err, common.MalformedInputError), err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "comparator", mutate: func(c *Config) { c.Comparator = "meta" }},
		{name: "negative max value length", mutate: func(c *Config) { c.MaxValueLength = -1 }},
		{name: "compression", mutate: func(c *Config) { c.Compression = "lz4" }},
		{name: "block size", mutate: func(c *Config) { c.Index.BlockSize = 0 }},
		{name: "threshold", mutate: func(c *Config) { c.Index.BlockSizeThreshold = 1.5 }},
		{name: "filter type", mutate: func(c *Config) { c.Filter.Type = "column" }},
		{name: "bits per key", mutate: func(c *Config) { c.Filter.BitsPerKey = 21 }},
		{name: "log level", mutate: func(c *Config) { c.Logging.Level = "loud" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.mutate(config)
			err := config.Validate()
			assert.True(t, errors.Is(err, common.MalformedInputError), err)
		})
	}
}

func TestKeyValueOptions(t *testing.T) {
	config := DefaultConfig()
	config.MaxValueLength = 4

	_, err := keyvalue.New([]byte("r"), []byte("f"), nil, 1, keyvalue.TypePut, []byte("12345"), config.KeyValueOptions()...)
	assert.True(t, errors.Is(err, common.SizeViolationError), err)
}

func TestConfigYAMLKeys(t *testing.T) {
	data, err := yaml.Marshal(DefaultConfig())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	for _, key := range []string{"comparator", "max_value_length", "compression", "index", "filter", "logging"} {
		assert.Contains(t, raw, key)
	}
}

func TestBuildLogger(t *testing.T) {
	logger, err := BuildLogger("warn")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = BuildLogger("loud")
	assert.True(t, errors.Is(err, common.MalformedInputError))
}
