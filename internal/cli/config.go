package cli

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/eunmann/energy-ledger/pkg/ledger"
)

// DefaultDataFile is the transaction log used when none is configured.
const DefaultDataFile = "transactions.txt"

// Config holds settings shared by every command. Values come from the
// optional YAML file first, then from global flags.
type Config struct {
	DataFile        string        `yaml:"data_file"`
	MaxTransactions int           `yaml:"max_transactions"`
	Log             LogConfig     `yaml:"log"`
	Archive         ArchiveConfig `yaml:"archive"`
}

// LogConfig controls logger setup.
type LogConfig struct {
	Debug bool `yaml:"debug"`
	Human bool `yaml:"human"`
}

// ArchiveConfig is the default S3 location for backup and restore.
type ArchiveConfig struct {
	Bucket string `yaml:"bucket"`
	Key    string `yaml:"key"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		DataFile:        DefaultDataFile,
		MaxTransactions: ledger.DefaultMaxTransactions,
	}
}

// Validate rejects unusable settings and fills empty ones with defaults.
func (c *Config) Validate() error {
	if c.DataFile == "" {
		c.DataFile = DefaultDataFile
	}
	if c.MaxTransactions < 0 {
		return fmt.Errorf("max_transactions must be positive, got %d", c.MaxTransactions)
	}
	if c.MaxTransactions == 0 {
		c.MaxTransactions = ledger.DefaultMaxTransactions
	}
	return nil
}

// StoreOptions converts the config into store options.
func (c Config) StoreOptions() ledger.Options {
	return ledger.DefaultOptions().WithMaxTransactions(c.MaxTransactions)
}

// LoadConfigFile decodes a YAML config file on top of cfg.
func LoadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: decode yaml: %w", err)
	}
	return nil
}

type globalFlags struct {
	configPath      string
	dataFile        string
	maxTransactions int
	debug           bool
	human           bool
}

func (g *globalFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&g.configPath, "config", "", "YAML config file")
	fs.StringVar(&g.dataFile, "data", DefaultDataFile, "transaction log file")
	fs.IntVar(&g.maxTransactions, "max-transactions", ledger.DefaultMaxTransactions, "maximum number of transactions held")
	fs.BoolVar(&g.debug, "debug", false, "enable debug logging")
	fs.BoolVar(&g.human, "human", false, "human-readable log output")
}

// resolveConfig layers defaults, the config file and explicitly set flags.
func resolveConfig(fs *flag.FlagSet, g globalFlags) (Config, error) {
	cfg := DefaultConfig()
	if g.configPath != "" {
		if err := LoadConfigFile(g.configPath, &cfg); err != nil {
			return Config{}, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data":
			cfg.DataFile = g.dataFile
		case "max-transactions":
			cfg.MaxTransactions = g.maxTransactions
		case "debug":
			cfg.Log.Debug = g.debug
		case "human":
			cfg.Log.Human = g.human
		}
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
