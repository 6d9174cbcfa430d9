package gochunk

import (
	"context"
	"os"
	"strings"

	"github.com/chararch/gochunk/util"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

//EnvPrefix prefix of the environment variables read by LoadConfig
const EnvPrefix = "GOCHUNK"

//Config engine settings, loadable from a config file and the environment
type Config struct {
	Workers        int    `mapstructure:"workers" validate:"min=1"`
	Transport      string `mapstructure:"transport" validate:"oneof=auto inline shared-file"`
	MemoryDir      string `mapstructure:"memory_dir"`
	Progress       bool   `mapstructure:"progress"`
	ProgressPeriod int    `mapstructure:"progress_period" validate:"min=1"`
	Verbose        bool   `mapstructure:"verbose"`
	CancelOnError  bool   `mapstructure:"cancel_on_error"`
}

//LoadOptions where LoadConfig looks for settings, empty paths are skipped
type LoadOptions struct {
	ConfigFile string
	EnvFile    string
}

//DefaultConfig settings used when nothing is configured
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

//ApplyDefaults fills unset fields and normalizes the transport name
func (c *Config) ApplyDefaults() {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers()
	}
	if c.ProgressPeriod <= 0 {
		c.ProgressPeriod = DefaultProgressPeriod
	}
	if c.Transport == "" {
		c.Transport = string(Auto)
	} else if mode, err := ParseTransportMode(c.Transport); err == nil {
		c.Transport = string(mode)
	}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return NewBatchError(ErrCodeConfiguration, "invalid config", err)
	}
	return nil
}

// LoadConfig reads settings in increasing priority: defaults, the config file,
// then GOCHUNK_* environment variables, which the env file may add to.
func LoadConfig(opts LoadOptions) (*Config, error) {
	if opts.EnvFile != "" {
		if _, err := os.Stat(opts.EnvFile); err == nil {
			if err := godotenv.Load(opts.EnvFile); err != nil {
				return nil, NewBatchError(ErrCodeConfiguration, "load env file:%v failed", opts.EnvFile, err)
			}
		}
	}
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("workers", def.Workers)
	v.SetDefault("transport", def.Transport)
	v.SetDefault("memory_dir", def.MemoryDir)
	v.SetDefault("progress", def.Progress)
	v.SetDefault("progress_period", def.ProgressPeriod)
	v.SetDefault("verbose", def.Verbose)
	v.SetDefault("cancel_on_error", def.CancelOnError)
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, NewBatchError(ErrCodeConfiguration, "read config file:%v failed", opts.ConfigFile, err)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, NewBatchError(ErrCodeConfiguration, "decode config failed", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

//NewEngineFromConfig builds an engine from validated settings
func NewEngineFromConfig(cfg *Config) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Verbose {
		logger.Info(context.Background(), "build engine from config:%v", util.LogString(c))
	}
	mode, err := ParseTransportMode(c.Transport)
	if err != nil {
		return nil, NewBatchError(ErrCodeConfiguration, "invalid transport:%v", c.Transport, err)
	}
	return NewEngine().
		Workers(c.Workers).
		Transport(mode).
		MemoryDir(c.MemoryDir).
		Progress(c.Progress).
		ProgressPeriod(c.ProgressPeriod).
		CancelOnError(c.CancelOnError).
		Verbose(c.Verbose).
		Build()
}
